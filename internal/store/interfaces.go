package store

import (
	"context"
	"errors"

	"github.com/etuition/etuition-server/internal/models"
)

// ErrNotFound is returned when a referenced document does not exist.
// Repositories also return it for identifiers that cannot possibly
// name a document (malformed ObjectID hex).
var ErrNotFound = errors.New("document not found")

// UserRepository is the users collection.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) (string, error)
	UpdateRole(ctx context.Context, id string, role models.Role) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// TuitionRepository is the tuitions collection.
type TuitionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Tuition, error)
	FindByStatus(ctx context.Context, status models.TuitionStatus) ([]models.Tuition, error)
	FindByStudent(ctx context.Context, email string) ([]models.Tuition, error)
	Insert(ctx context.Context, t *models.Tuition) (string, error)
	Update(ctx context.Context, id string, upd models.TuitionUpdate) error
	UpdateStatus(ctx context.Context, id string, status models.TuitionStatus) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByStudent(ctx context.Context, email string) (int64, error)
}

// ApplicationRepository is the applications collection. Listings are
// ordered by appliedDate descending.
type ApplicationRepository interface {
	FindByID(ctx context.Context, id string) (*models.Application, error)
	FindByTutor(ctx context.Context, email string) ([]models.Application, error)
	FindByStudent(ctx context.Context, email string) ([]models.Application, error)
	Exists(ctx context.Context, tutorEmail, studentEmail, subject string) (bool, error)
	Insert(ctx context.Context, a *models.Application) (string, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error
	Delete(ctx context.Context, id string) error
	CountByTutor(ctx context.Context, email string) (int64, error)
	CountByTutorAndStatus(ctx context.Context, email string, status models.ApplicationStatus) (int64, error)
}

// PaymentRepository is the payments collection. Settle performs the
// payment insert and the application status flip as one atomic unit;
// exposing them separately would let callers reintroduce the dual
// write this design removes.
type PaymentRepository interface {
	Settle(ctx context.Context, p *models.Payment) error
	FindByTutor(ctx context.Context, email string) ([]models.Payment, error)
	FindByStudent(ctx context.Context, email string) ([]models.Payment, error)
	SumAll(ctx context.Context) (float64, error)
	SumByTutor(ctx context.Context, email string) (float64, error)
	Count(ctx context.Context) (int64, error)
	CountByStudent(ctx context.Context, email string) (int64, error)
}

// NotificationRepository is the notifications collection.
type NotificationRepository interface {
	Insert(ctx context.Context, n *models.Notification) error
}
