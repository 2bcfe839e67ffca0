package core

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/etuition/etuition-server/internal/auth"
	"github.com/etuition/etuition-server/internal/models"
	"github.com/etuition/etuition-server/internal/payments"
	"github.com/etuition/etuition-server/internal/store"
)

// PaymentService owns charge-intent creation and settlement. Settling
// records the Payment and flips the referenced application to paid as
// one atomic store operation.
type PaymentService struct {
	payments     store.PaymentRepository
	applications store.ApplicationRepository
	charges      payments.ChargeIntentCreator
	roles        RoleResolver
	logger       *zap.Logger
}

func NewPaymentService(
	p store.PaymentRepository,
	applications store.ApplicationRepository,
	charges payments.ChargeIntentCreator,
	roles RoleResolver,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		payments:     p,
		applications: applications,
		charges:      charges,
		roles:        roles,
		logger:       logger,
	}
}

// CreateIntent asks the provider for a charge intent over the salary,
// converted to minor units (USD cents).
func (s *PaymentService) CreateIntent(ctx context.Context, salary float64) (string, error) {
	if salary <= 0 || math.IsNaN(salary) || math.IsInf(salary, 0) {
		return "", fmt.Errorf("%w: invalid salary", ErrInvalidInput)
	}
	amount := int64(math.Round(salary * 100))
	return s.charges.CreateIntent(ctx, amount, "usd")
}

// Settle records the payment for an application and marks it paid.
// Only the student party (or an admin) may settle; amounts and emails
// come from the application document, never from the request. Settling
// an already-paid application succeeds again and leaves it paid.
func (s *PaymentService) Settle(ctx context.Context, identity auth.Identity, appID string) (*models.Payment, error) {
	a, err := s.applications.FindByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if identity.Email != a.StudentEmail {
		if err := requireAdmin(ctx, s.roles, identity); err != nil {
			return nil, err
		}
	}
	if !a.Status.CanTransitionTo(models.ApplicationPaid) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, models.ApplicationPaid)
	}
	p := &models.Payment{
		AppID:        appID,
		TutorEmail:   a.TutorEmail,
		StudentEmail: a.StudentEmail,
		Salary:       a.Salary,
		Date:         time.Now().UTC(),
	}
	if err := s.payments.Settle(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("payment settled",
		zap.String("appId", appID),
		zap.String("studentEmail", p.StudentEmail),
		zap.Float64("salary", p.Salary))
	return p, nil
}
