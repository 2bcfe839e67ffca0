package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etuition/etuition-server/internal/models"
)

func TestAdminAnalytics(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	e.mem.AddUser(models.User{Email: "a@example.com"})
	e.mem.AddUser(models.User{Email: "b@example.com"})
	e.mem.AddTuition(models.Tuition{StudentEmail: "a@example.com", Subject: "Math", Status: models.TuitionApproved})
	e.mem.AddPayment(models.Payment{TutorEmail: "t@example.com", StudentEmail: "a@example.com", Salary: 100})
	e.mem.AddPayment(models.Payment{TutorEmail: "t@example.com", StudentEmail: "b@example.com", Salary: 150})

	a, err := e.stats.Admin(ctx, ident(testAdminEmail))
	require.NoError(t, err)
	assert.Equal(t, int64(2), a.TotalUsers)
	assert.Equal(t, int64(1), a.TotalTuitions)
	assert.Equal(t, int64(2), a.TotalPayments)
	assert.Equal(t, 250.0, a.TotalPlatformEarnings)
	assert.InDelta(t, 50.0, a.PlatformRevenue, 1e-9)
}

func TestAdminAnalyticsEmptyPlatform(t *testing.T) {
	e := newEnv()

	a, err := e.stats.Admin(context.Background(), ident(testAdminEmail))
	require.NoError(t, err)
	assert.Zero(t, a.TotalPlatformEarnings)
	assert.Zero(t, a.PlatformRevenue)
}

func TestAdminAnalyticsIsAdminOnly(t *testing.T) {
	e := newEnv()

	_, err := e.stats.Admin(context.Background(), ident("amina@example.com"))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTutorRevenue(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	e.mem.AddPayment(models.Payment{TutorEmail: "tutor@example.com", StudentEmail: "a@example.com", Salary: 100})
	e.mem.AddPayment(models.Payment{TutorEmail: "tutor@example.com", StudentEmail: "b@example.com", Salary: 75})
	e.mem.AddPayment(models.Payment{TutorEmail: "other@example.com", StudentEmail: "a@example.com", Salary: 999})

	_, err := e.stats.TutorRevenue(ctx, ident("nosy@example.com"), "tutor@example.com")
	assert.ErrorIs(t, err, ErrForbidden)

	r, err := e.stats.TutorRevenue(ctx, ident("tutor@example.com"), "tutor@example.com")
	require.NoError(t, err)
	assert.Len(t, r.Payments, 2)
	assert.Equal(t, 175.0, r.Total)
}

func TestStudentExpenses(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	e.mem.AddPayment(models.Payment{TutorEmail: "t@example.com", StudentEmail: "amina@example.com", Salary: 120})

	_, err := e.stats.StudentExpenses(ctx, ident("nosy@example.com"), "amina@example.com")
	assert.ErrorIs(t, err, ErrForbidden)

	r, err := e.stats.StudentExpenses(ctx, ident(testAdminEmail), "amina@example.com")
	require.NoError(t, err)
	assert.Len(t, r.Payments, 1)
	assert.Equal(t, 120.0, r.Total)
}

func TestProfileStrangerGetsPublicProjection(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.mem.AddUser(models.User{Email: "tutor@example.com", Role: models.RoleTutor, Name: "Rafi", Phone: "0123456789"})

	stranger := ident("nosy@example.com")
	v, err := e.stats.Profile(ctx, &stranger, "tutor@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTutor, v.Role)
	assert.Nil(t, v.Stats)

	pub, ok := v.User.(models.PublicProfile)
	require.True(t, ok, "strangers see the public projection, got %T", v.User)
	assert.Equal(t, "Rafi", pub.Name)

	v, err = e.stats.Profile(ctx, nil, "tutor@example.com")
	require.NoError(t, err)
	_, ok = v.User.(models.PublicProfile)
	assert.True(t, ok, "anonymous callers see the public projection")
}

func TestProfileOwnerTutorGetsStats(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.mem.AddUser(models.User{Email: "tutor@example.com", Role: models.RoleTutor, Name: "Rafi"})
	e.mem.AddApplication(models.Application{TutorEmail: "tutor@example.com", StudentEmail: "a@example.com", Subject: "Math", Status: models.ApplicationPaid})
	e.mem.AddApplication(models.Application{TutorEmail: "tutor@example.com", StudentEmail: "b@example.com", Subject: "Physics", Status: models.ApplicationPending})
	e.mem.AddPayment(models.Payment{TutorEmail: "tutor@example.com", StudentEmail: "a@example.com", Salary: 300})

	owner := ident("tutor@example.com")
	v, err := e.stats.Profile(ctx, &owner, "tutor@example.com")
	require.NoError(t, err)

	_, ok := v.User.(*models.User)
	require.True(t, ok, "the owner sees the full document, got %T", v.User)

	stats, ok := v.Stats.(*TutorStats)
	require.True(t, ok)
	assert.Equal(t, int64(2), stats.ApplicationCount)
	assert.Equal(t, int64(1), stats.OngoingCount)
	assert.Equal(t, 300.0, stats.TotalEarnings)
}

func TestProfileAdminViewingStudent(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.mem.AddUser(models.User{Email: "amina@example.com", Role: models.RoleStudent, Name: "Amina"})
	e.mem.AddTuition(models.Tuition{StudentEmail: "amina@example.com", Subject: "Math", Status: models.TuitionApproved})
	e.mem.AddPayment(models.Payment{TutorEmail: "t@example.com", StudentEmail: "amina@example.com", Salary: 100})

	admin := ident(testAdminEmail)
	v, err := e.stats.Profile(ctx, &admin, "amina@example.com")
	require.NoError(t, err)

	stats, ok := v.Stats.(*StudentStats)
	require.True(t, ok)
	assert.Equal(t, int64(1), stats.TuitionsPosted)
	assert.Equal(t, int64(1), stats.TotalPaid)
}
