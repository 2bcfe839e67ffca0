package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/etuition/etuition-server/internal/auth"
	"github.com/etuition/etuition-server/internal/store/storetest"
	"github.com/etuition/etuition-server/pkg/cache"
	"github.com/etuition/etuition-server/pkg/mailer"
	"github.com/etuition/etuition-server/pkg/messagequeue"
)

const testAdminEmail = "admin@etuition.com"

type fakeCharges struct {
	gotAmount   int64
	gotCurrency string
	secret      string
	err         error
}

func (f *fakeCharges) CreateIntent(_ context.Context, amount int64, currency string) (string, error) {
	f.gotAmount = amount
	f.gotCurrency = currency
	if f.err != nil {
		return "", f.err
	}
	return f.secret, nil
}

type env struct {
	mem          *storetest.Memory
	charges      *fakeCharges
	users        *UserService
	tuitions     *TuitionService
	applications *ApplicationService
	payments     *PaymentService
	stats        *StatsService
}

func newEnv() *env {
	mem := storetest.New()
	logger := zap.NewNop()
	charges := &fakeCharges{secret: "cs_test_secret"}

	users := NewUserService(mem.UserRepo(), cache.Noop{}, nil, testAdminEmail, logger)
	tuitions := NewTuitionService(mem.TuitionRepo(), users, logger)
	applications := NewApplicationService(mem.ApplicationRepo(), mem.NotificationRepo(), users, messagequeue.Noop{}, &mailer.Mailer{}, logger)
	payments := NewPaymentService(mem.PaymentRepo(), mem.ApplicationRepo(), charges, users, logger)
	stats := NewStatsService(mem.UserRepo(), mem.TuitionRepo(), mem.ApplicationRepo(), mem.PaymentRepo(), users, logger)

	return &env{
		mem:          mem,
		charges:      charges,
		users:        users,
		tuitions:     tuitions,
		applications: applications,
		payments:     payments,
		stats:        stats,
	}
}

func ident(email string) auth.Identity {
	return auth.Identity{Email: email}
}
