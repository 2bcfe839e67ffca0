package core

import (
	"context"

	"github.com/etuition/etuition-server/internal/auth"
	"github.com/etuition/etuition-server/internal/models"
)

// RoleResolver derives the effective role for a verified email. Roles
// from token claims or request bodies are never consulted; this is the
// single source of role truth for authorization decisions.
type RoleResolver interface {
	Role(ctx context.Context, email string) (models.Role, error)
}

func requireAdmin(ctx context.Context, roles RoleResolver, identity auth.Identity) error {
	role, err := roles.Role(ctx, identity.Email)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

// ownerOrAdmin enforces the uniform ownership rule: an owner-scoped
// operation succeeds only for the owning identity or an admin.
func ownerOrAdmin(ctx context.Context, roles RoleResolver, identity auth.Identity, owner string) error {
	if identity.Email == owner {
		return nil
	}
	return requireAdmin(ctx, roles, identity)
}
