package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/etuition/etuition-server/internal/auth"
	"github.com/etuition/etuition-server/internal/models"
	"github.com/etuition/etuition-server/internal/store"
)

// TuitionService owns the posting lifecycle: creation by students,
// owner-scoped edits, and admin moderation.
type TuitionService struct {
	tuitions store.TuitionRepository
	roles    RoleResolver
	logger   *zap.Logger
}

func NewTuitionService(tuitions store.TuitionRepository, roles RoleResolver, logger *zap.Logger) *TuitionService {
	return &TuitionService{tuitions: tuitions, roles: roles, logger: logger}
}

// ListApproved is the public listing; only approved postings are ever
// visible without an email filter.
func (s *TuitionService) ListApproved(ctx context.Context) ([]models.Tuition, error) {
	return s.tuitions.FindByStatus(ctx, models.TuitionApproved)
}

// ListByStudent returns all of a student's postings regardless of
// status. Owner-scoped: only the student or an admin may see pending
// and rejected postings.
func (s *TuitionService) ListByStudent(ctx context.Context, identity auth.Identity, email string) ([]models.Tuition, error) {
	if err := ownerOrAdmin(ctx, s.roles, identity, email); err != nil {
		return nil, err
	}
	return s.tuitions.FindByStudent(ctx, email)
}

func (s *TuitionService) Get(ctx context.Context, id string) (*models.Tuition, error) {
	return s.tuitions.FindByID(ctx, id)
}

// Create posts a new tuition for the caller. The student email is
// forced to the verified identity and the status to pending; client
// supplied values for either are ignored.
func (s *TuitionService) Create(ctx context.Context, identity auth.Identity, t *models.Tuition) (string, error) {
	if t.Subject == "" {
		return "", fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}
	if t.Salary <= 0 {
		return "", fmt.Errorf("%w: salary must be a positive number", ErrInvalidInput)
	}
	t.StudentEmail = identity.Email
	t.Status = models.TuitionPending
	t.PostedDate = time.Now().UTC()
	return s.tuitions.Insert(ctx, t)
}

// Update edits the owner-editable fields. Owner-or-admin.
func (s *TuitionService) Update(ctx context.Context, identity auth.Identity, id string, upd models.TuitionUpdate) error {
	t, err := s.tuitions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := ownerOrAdmin(ctx, s.roles, identity, t.StudentEmail); err != nil {
		return err
	}
	if upd.Salary != nil && *upd.Salary <= 0 {
		return fmt.Errorf("%w: salary must be a positive number", ErrInvalidInput)
	}
	return s.tuitions.Update(ctx, id, upd)
}

// Delete removes a posting. Owner-or-admin.
func (s *TuitionService) Delete(ctx context.Context, identity auth.Identity, id string) error {
	t, err := s.tuitions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := ownerOrAdmin(ctx, s.roles, identity, t.StudentEmail); err != nil {
		return err
	}
	return s.tuitions.Delete(ctx, id)
}

// SetStatus is the admin moderation operation: pending postings move
// to approved or rejected, nothing else moves anywhere.
func (s *TuitionService) SetStatus(ctx context.Context, identity auth.Identity, id, status string) error {
	if err := requireAdmin(ctx, s.roles, identity); err != nil {
		return err
	}
	next, err := models.ParseTuitionStatus(status)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	t, err := s.tuitions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !t.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, next)
	}
	return s.tuitions.UpdateStatus(ctx, id, next)
}
