package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/etuition/etuition-server/internal/auth"
	"github.com/etuition/etuition-server/internal/models"
	"github.com/etuition/etuition-server/internal/store"
	"github.com/etuition/etuition-server/pkg/mailer"
	"github.com/etuition/etuition-server/pkg/messagequeue"
)

// NotificationsQueue is the broker queue termination events are
// published to.
const NotificationsQueue = "notifications"

// ApplicationService owns the hiring-request lifecycle: creation with
// the duplicate check, owner-scoped listings, validated status moves,
// and cancellation/termination. Termination deletes the document
// (terminal state is absence) and fans out a best-effort notification
// over store, broker and mail.
type ApplicationService struct {
	applications  store.ApplicationRepository
	notifications store.NotificationRepository
	roles         RoleResolver
	queue         messagequeue.MessageQueue
	mail          *mailer.Mailer
	logger        *zap.Logger
}

func NewApplicationService(
	applications store.ApplicationRepository,
	notifications store.NotificationRepository,
	roles RoleResolver,
	queue messagequeue.MessageQueue,
	mail *mailer.Mailer,
	logger *zap.Logger,
) *ApplicationService {
	return &ApplicationService{
		applications:  applications,
		notifications: notifications,
		roles:         roles,
		queue:         queue,
		mail:          mail,
		logger:        logger,
	}
}

// Create files a hiring request. The tutor email is forced to the
// verified identity; a second request for the same (tutor, student,
// subject) triple fails with ErrAlreadyApplied.
func (s *ApplicationService) Create(ctx context.Context, identity auth.Identity, a *models.Application) (string, error) {
	a.TutorEmail = identity.Email
	if a.StudentEmail == "" || a.Subject == "" {
		return "", fmt.Errorf("%w: studentEmail and subject are required", ErrInvalidInput)
	}
	if a.Salary <= 0 {
		return "", fmt.Errorf("%w: salary must be a positive number", ErrInvalidInput)
	}
	dup, err := s.applications.Exists(ctx, a.TutorEmail, a.StudentEmail, a.Subject)
	if err != nil {
		return "", err
	}
	if dup {
		return "", ErrAlreadyApplied
	}
	a.Status = models.ApplicationPending
	a.AppliedDate = time.Now().UTC()
	return s.applications.Insert(ctx, a)
}

// ListByTutor returns a tutor's applications, newest first.
// Owner-scoped.
func (s *ApplicationService) ListByTutor(ctx context.Context, identity auth.Identity, email string) ([]models.Application, error) {
	if err := ownerOrAdmin(ctx, s.roles, identity, email); err != nil {
		return nil, err
	}
	return s.applications.FindByTutor(ctx, email)
}

// ListByStudent returns applications targeting a student, newest
// first. Owner-scoped.
func (s *ApplicationService) ListByStudent(ctx context.Context, identity auth.Identity, email string) ([]models.Application, error) {
	if err := ownerOrAdmin(ctx, s.roles, identity, email); err != nil {
		return nil, err
	}
	return s.applications.FindByStudent(ctx, email)
}

// SetStatus moves an application along the transition table. Either
// contract party or an admin may request a move; illegal moves
// (anything out of the closed enum, or e.g. paid back to Pending) are
// rejected.
func (s *ApplicationService) SetStatus(ctx context.Context, identity auth.Identity, id, status string) error {
	next, err := models.ParseApplicationStatus(status)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	a, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireParty(ctx, identity, a); err != nil {
		return err
	}
	if !a.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, next)
	}
	return s.applications.UpdateStatus(ctx, id, next)
}

// Cancel removes an application without ceremony. Either party or an
// admin.
func (s *ApplicationService) Cancel(ctx context.Context, identity auth.Identity, id string) error {
	a, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireParty(ctx, identity, a); err != nil {
		return err
	}
	return s.applications.Delete(ctx, id)
}

// Terminate removes an application and notifies the counterpart.
// Exactly one Notification document is written per successful
// termination; notification failures are logged, never propagated, and
// the deletion stands.
func (s *ApplicationService) Terminate(ctx context.Context, identity auth.Identity, id string) error {
	a, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireParty(ctx, identity, a); err != nil {
		return err
	}
	if err := s.applications.Delete(ctx, id); err != nil {
		return err
	}
	s.notifyTermination(ctx, a, identity.Email)
	return nil
}

func (s *ApplicationService) requireParty(ctx context.Context, identity auth.Identity, a *models.Application) error {
	if a.Party(identity.Email) {
		return nil
	}
	return requireAdmin(ctx, s.roles, identity)
}

func (s *ApplicationService) notifyTermination(ctx context.Context, a *models.Application, actor string) {
	receiver := a.Counterpart(actor)
	if receiver == "" {
		// Admin-initiated termination: the tutor is told.
		receiver = a.TutorEmail
	}
	n := &models.Notification{
		ReceiverEmail: receiver,
		SenderEmail:   actor,
		Message:       fmt.Sprintf("The %s contract with %s has been terminated.", a.Subject, actor),
		Type:          models.NotificationTermination,
		Date:          time.Now().UTC(),
	}
	if err := s.notifications.Insert(ctx, n); err != nil {
		s.logger.Warn("writing termination notification", zap.String("appId", a.ID.Hex()), zap.Error(err))
	}
	if payload, err := json.Marshal(n); err == nil {
		if err := s.queue.Publish(NotificationsQueue, payload); err != nil {
			s.logger.Warn("publishing termination event", zap.String("appId", a.ID.Hex()), zap.Error(err))
		}
	}
	if err := s.mail.Send(receiver, "Contract terminated", n.Message); err != nil {
		s.logger.Warn("mailing termination notice", zap.String("receiver", receiver), zap.Error(err))
	}
}
