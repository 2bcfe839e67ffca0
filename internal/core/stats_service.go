package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/etuition/etuition-server/internal/auth"
	"github.com/etuition/etuition-server/internal/models"
	"github.com/etuition/etuition-server/internal/store"
)

// CommissionRate is the fixed platform cut of every settled salary.
const CommissionRate = 0.20

// AdminAnalytics is the platform-wide aggregate view.
type AdminAnalytics struct {
	TotalUsers            int64   `json:"totalUsers"`
	TotalTuitions         int64   `json:"totalTuitions"`
	TotalPayments         int64   `json:"totalPayments"`
	TotalPlatformEarnings float64 `json:"totalPlatformEarnings"`
	PlatformRevenue       float64 `json:"platformRevenue"`
}

// TutorStats is the tutor's dashboard aggregate.
type TutorStats struct {
	ApplicationCount int64   `json:"applicationCount"`
	OngoingCount     int64   `json:"ongoingCount"`
	TotalEarnings    float64 `json:"totalEarnings"`
}

// StudentStats is the student's dashboard aggregate.
type StudentStats struct {
	TuitionsPosted int64 `json:"tuitionsPosted"`
	TotalPaid      int64 `json:"totalPaid"`
}

// RevenueReport lists one side's payments with their sum.
type RevenueReport struct {
	Payments []models.Payment `json:"payments"`
	Total    float64          `json:"total"`
}

// ProfileView is the user-stats response: the caller sees the full
// document plus role stats for their own account (or as admin), and
// the public projection otherwise.
type ProfileView struct {
	User  interface{} `json:"user"`
	Role  models.Role `json:"role"`
	Stats interface{} `json:"stats,omitempty"`
}

// StatsService computes the read-side aggregates. Everything here is
// derived; nothing writes.
type StatsService struct {
	users        store.UserRepository
	tuitions     store.TuitionRepository
	applications store.ApplicationRepository
	payments     store.PaymentRepository
	roles        RoleResolver
	logger       *zap.Logger
}

func NewStatsService(
	users store.UserRepository,
	tuitions store.TuitionRepository,
	applications store.ApplicationRepository,
	p store.PaymentRepository,
	roles RoleResolver,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{
		users:        users,
		tuitions:     tuitions,
		applications: applications,
		payments:     p,
		roles:        roles,
		logger:       logger,
	}
}

// Admin returns the platform aggregates. Admin-only. Zero payments
// yield zero earnings and zero revenue, not an error.
func (s *StatsService) Admin(ctx context.Context, identity auth.Identity) (*AdminAnalytics, error) {
	if err := requireAdmin(ctx, s.roles, identity); err != nil {
		return nil, err
	}
	return s.adminAnalytics(ctx)
}

func (s *StatsService) adminAnalytics(ctx context.Context) (*AdminAnalytics, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	tuitions, err := s.tuitions.Count(ctx)
	if err != nil {
		return nil, err
	}
	paymentCount, err := s.payments.Count(ctx)
	if err != nil {
		return nil, err
	}
	earnings, err := s.payments.SumAll(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminAnalytics{
		TotalUsers:            users,
		TotalTuitions:         tuitions,
		TotalPayments:         paymentCount,
		TotalPlatformEarnings: earnings,
		PlatformRevenue:       CommissionRate * earnings,
	}, nil
}

// TutorRevenue lists a tutor's payments and their sum. Owner-scoped.
func (s *StatsService) TutorRevenue(ctx context.Context, identity auth.Identity, email string) (*RevenueReport, error) {
	if err := ownerOrAdmin(ctx, s.roles, identity, email); err != nil {
		return nil, err
	}
	list, err := s.payments.FindByTutor(ctx, email)
	if err != nil {
		return nil, err
	}
	return report(list), nil
}

// StudentExpenses lists a student's payments and their sum.
// Owner-scoped.
func (s *StatsService) StudentExpenses(ctx context.Context, identity auth.Identity, email string) (*RevenueReport, error) {
	if err := ownerOrAdmin(ctx, s.roles, identity, email); err != nil {
		return nil, err
	}
	list, err := s.payments.FindByStudent(ctx, email)
	if err != nil {
		return nil, err
	}
	return report(list), nil
}

func report(list []models.Payment) *RevenueReport {
	var total float64
	for _, p := range list {
		total += p.Salary
	}
	return &RevenueReport{Payments: list, Total: total}
}

// Profile resolves the user-stats view for email. Strangers and
// anonymous callers get the public projection only; the owner (or an
// admin) gets the full document plus role-dependent aggregates.
func (s *StatsService) Profile(ctx context.Context, identity *auth.Identity, email string) (*ProfileView, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	role, err := s.roles.Role(ctx, email)
	if err != nil {
		return nil, err
	}

	full := false
	if identity != nil {
		if identity.Email == email {
			full = true
		} else if callerRole, err := s.roles.Role(ctx, identity.Email); err == nil && callerRole == models.RoleAdmin {
			full = true
		}
	}
	if !full {
		return &ProfileView{User: u.Public(), Role: role}, nil
	}

	var stats interface{}
	switch role {
	case models.RoleAdmin:
		stats, err = s.adminAnalytics(ctx)
	case models.RoleTutor:
		stats, err = s.tutorStats(ctx, email)
	default:
		stats, err = s.studentStats(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	return &ProfileView{User: u, Role: role, Stats: stats}, nil
}

func (s *StatsService) tutorStats(ctx context.Context, email string) (*TutorStats, error) {
	applications, err := s.applications.CountByTutor(ctx, email)
	if err != nil {
		return nil, err
	}
	ongoing, err := s.applications.CountByTutorAndStatus(ctx, email, models.ApplicationPaid)
	if err != nil {
		return nil, err
	}
	earnings, err := s.payments.SumByTutor(ctx, email)
	if err != nil {
		return nil, err
	}
	return &TutorStats{ApplicationCount: applications, OngoingCount: ongoing, TotalEarnings: earnings}, nil
}

func (s *StatsService) studentStats(ctx context.Context, email string) (*StudentStats, error) {
	posted, err := s.tuitions.CountByStudent(ctx, email)
	if err != nil {
		return nil, err
	}
	paid, err := s.payments.CountByStudent(ctx, email)
	if err != nil {
		return nil, err
	}
	return &StudentStats{TuitionsPosted: posted, TotalPaid: paid}, nil
}
