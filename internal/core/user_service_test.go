package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etuition/etuition-server/internal/models"
	"github.com/etuition/etuition-server/internal/store"
)

func TestRegisterIsIdempotentPerEmail(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	id, err := e.users.Register(ctx, &models.User{Email: "amina@example.com", Name: "Amina"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = e.users.Register(ctx, &models.User{Email: "amina@example.com", Name: "Amina again"})
	assert.ErrorIs(t, err, ErrUserExists)

	n, err := e.mem.UserRepo().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRegisterRequiresEmail(t *testing.T) {
	e := newEnv()

	_, err := e.users.Register(context.Background(), &models.User{Name: "no email"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRoleResolution(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	e.mem.AddUser(models.User{Email: "tutor@example.com", Role: models.RoleTutor})
	e.mem.AddUser(models.User{Email: "blank@example.com"})

	cases := []struct {
		email string
		want  models.Role
	}{
		{testAdminEmail, models.RoleAdmin},
		{"tutor@example.com", models.RoleTutor},
		{"blank@example.com", models.RoleStudent},
		{"nobody@example.com", models.RoleStudent},
	}
	for _, tc := range cases {
		got, err := e.users.Role(ctx, tc.email)
		require.NoError(t, err, tc.email)
		assert.Equal(t, tc.want, got, tc.email)
	}
}

func TestChangeRoleIsAdminOnly(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	id := e.mem.AddUser(models.User{Email: "amina@example.com", Role: models.RoleStudent})

	err := e.users.ChangeRole(ctx, ident("amina@example.com"), id, "tutor")
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, e.users.ChangeRole(ctx, ident(testAdminEmail), id, "tutor"))

	u, err := e.users.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTutor, u.Role)
}

func TestChangeRoleRejectsUnknownRole(t *testing.T) {
	e := newEnv()
	id := e.mem.AddUser(models.User{Email: "amina@example.com"})

	err := e.users.ChangeRole(context.Background(), ident(testAdminEmail), id, "superuser")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteUserIsAdminOnly(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	id := e.mem.AddUser(models.User{Email: "amina@example.com"})

	err := e.users.Delete(ctx, ident("amina@example.com"), id)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, e.users.Delete(ctx, ident(testAdminEmail), id))

	_, err = e.users.Get(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteUnknownUser(t *testing.T) {
	e := newEnv()

	err := e.users.Delete(context.Background(), ident(testAdminEmail), "64b2f0c8e4b0a1a2b3c4d5e6")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
