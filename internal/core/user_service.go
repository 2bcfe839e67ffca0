package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/etuition/etuition-server/internal/auth"
	"github.com/etuition/etuition-server/internal/models"
	"github.com/etuition/etuition-server/internal/store"
	"github.com/etuition/etuition-server/pkg/cache"
)

const roleCacheTTL = 5 * time.Minute

func roleKey(email string) string { return "role:" + email }

// UserService owns account registration, role resolution and admin
// user management. It is also the RoleResolver the other services
// authorize against.
type UserService struct {
	users      store.UserRepository
	cache      cache.Cache
	provider   *auth.Provider
	adminEmail string
	logger     *zap.Logger
}

func NewUserService(users store.UserRepository, c cache.Cache, provider *auth.Provider, adminEmail string, logger *zap.Logger) *UserService {
	return &UserService{
		users:      users,
		cache:      c,
		provider:   provider,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// Role resolves the effective role for email. The platform super-admin
// short-circuits without a store lookup; unknown emails and documents
// without a role read as "student". Results are cached briefly and the
// cache is invalidated on role change.
func (s *UserService) Role(ctx context.Context, email string) (models.Role, error) {
	if email == s.adminEmail {
		return models.RoleAdmin, nil
	}
	if cached, err := s.cache.Get(roleKey(email)); err == nil && cached != "" {
		return models.Role(cached), nil
	}
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return models.RoleStudent, nil
	}
	if err != nil {
		return "", err
	}
	role := u.Role
	if role == "" {
		role = models.RoleStudent
	}
	if err := s.cache.Set(roleKey(email), string(role), roleCacheTTL); err != nil {
		s.logger.Warn("caching role", zap.String("email", email), zap.Error(err))
	}
	return role, nil
}

// Register creates the account document unless one already exists for
// the email. The second registration for the same email returns
// ErrUserExists, so registration is idempotent per email.
func (s *UserService) Register(ctx context.Context, u *models.User) (string, error) {
	if u.Email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	_, err := s.users.FindByEmail(ctx, u.Email)
	if err == nil {
		return "", ErrUserExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}
	return s.users.Insert(ctx, u)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// ChangeRole is admin-only. It invalidates the role cache for the
// affected account so the new role takes effect immediately.
func (s *UserService) ChangeRole(ctx context.Context, identity auth.Identity, id, role string) error {
	if err := requireAdmin(ctx, s, identity); err != nil {
		return err
	}
	if !models.ValidRole(role) {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.UpdateRole(ctx, id, models.Role(role)); err != nil {
		return err
	}
	if err := s.cache.Delete(roleKey(u.Email)); err != nil {
		s.logger.Warn("invalidating role cache", zap.String("email", u.Email), zap.Error(err))
	}
	return nil
}

// Delete is admin-only. The provider-side account is removed
// best-effort; a provider failure does not undo the document delete.
func (s *UserService) Delete(ctx context.Context, identity auth.Identity, id string) error {
	if err := requireAdmin(ctx, s, identity); err != nil {
		return err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Delete(roleKey(u.Email)); err != nil {
		s.logger.Warn("invalidating role cache", zap.String("email", u.Email), zap.Error(err))
	}
	if err := s.provider.DeleteUserByEmail(ctx, u.Email); err != nil {
		s.logger.Warn("deleting identity provider account", zap.String("email", u.Email), zap.Error(err))
	}
	return nil
}
