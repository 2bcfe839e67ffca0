// Package storetest provides in-memory implementations of the store
// repositories for tests.
package storetest

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/etuition/etuition-server/internal/models"
	"github.com/etuition/etuition-server/internal/store"
)

// Memory holds all collections in process. Repository views share one
// lock, mirroring the per-document atomicity the real store gives us.
type Memory struct {
	mu            sync.Mutex
	users         map[string]*models.User
	tuitions      map[string]*models.Tuition
	applications  map[string]*models.Application
	payments      []*models.Payment
	notifications []*models.Notification
}

func New() *Memory {
	return &Memory{
		users:        map[string]*models.User{},
		tuitions:     map[string]*models.Tuition{},
		applications: map[string]*models.Application{},
	}
}

// Seed and inspection helpers.

func (m *Memory) AddUser(u models.User) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = primitive.NewObjectID()
	m.users[u.ID.Hex()] = &u
	return u.ID.Hex()
}

func (m *Memory) AddTuition(t models.Tuition) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = primitive.NewObjectID()
	m.tuitions[t.ID.Hex()] = &t
	return t.ID.Hex()
}

func (m *Memory) AddApplication(a models.Application) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = primitive.NewObjectID()
	m.applications[a.ID.Hex()] = &a
	return a.ID.Hex()
}

func (m *Memory) AddPayment(p models.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	m.payments = append(m.payments, &p)
}

func (m *Memory) Application(id string) (models.Application, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok {
		return models.Application{}, false
	}
	return *a, true
}

func (m *Memory) Tuition(id string) (models.Tuition, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tuitions[id]
	if !ok {
		return models.Tuition{}, false
	}
	return *t, true
}

func (m *Memory) PaymentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payments)
}

func (m *Memory) Notifications() []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Notification, 0, len(m.notifications))
	for _, n := range m.notifications {
		out = append(out, *n)
	}
	return out
}

// Repository views.

func (m *Memory) UserRepo() store.UserRepository                 { return usersRepo{m} }
func (m *Memory) TuitionRepo() store.TuitionRepository           { return tuitionsRepo{m} }
func (m *Memory) ApplicationRepo() store.ApplicationRepository   { return applicationsRepo{m} }
func (m *Memory) PaymentRepo() store.PaymentRepository           { return paymentsRepo{m} }
func (m *Memory) NotificationRepo() store.NotificationRepository { return notificationsRepo{m} }

type usersRepo struct{ m *Memory }

func (r usersRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r usersRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r usersRepo) Insert(_ context.Context, u *models.User) (string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *u
	cp.ID = primitive.NewObjectID()
	r.m.users[cp.ID.Hex()] = &cp
	return cp.ID.Hex(), nil
}

func (r usersRepo) UpdateRole(_ context.Context, id string, role models.Role) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Role = role
	return nil
}

func (r usersRepo) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.m.users, id)
	return nil
}

func (r usersRepo) Count(_ context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.users)), nil
}

type tuitionsRepo struct{ m *Memory }

func (r tuitionsRepo) FindByID(_ context.Context, id string) (*models.Tuition, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.tuitions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r tuitionsRepo) FindByStatus(_ context.Context, status models.TuitionStatus) ([]models.Tuition, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Tuition{}
	for _, t := range r.m.tuitions {
		if t.Status == status {
			out = append(out, *t)
		}
	}
	sortTuitions(out)
	return out, nil
}

func (r tuitionsRepo) FindByStudent(_ context.Context, email string) ([]models.Tuition, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Tuition{}
	for _, t := range r.m.tuitions {
		if t.StudentEmail == email {
			out = append(out, *t)
		}
	}
	sortTuitions(out)
	return out, nil
}

func sortTuitions(list []models.Tuition) {
	sort.Slice(list, func(i, j int) bool { return list[i].PostedDate.After(list[j].PostedDate) })
}

func (r tuitionsRepo) Insert(_ context.Context, t *models.Tuition) (string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *t
	cp.ID = primitive.NewObjectID()
	r.m.tuitions[cp.ID.Hex()] = &cp
	return cp.ID.Hex(), nil
}

func (r tuitionsRepo) Update(_ context.Context, id string, upd models.TuitionUpdate) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.tuitions[id]
	if !ok {
		return store.ErrNotFound
	}
	if upd.Subject != nil {
		t.Subject = *upd.Subject
	}
	if upd.Class != nil {
		t.Class = *upd.Class
	}
	if upd.Salary != nil {
		t.Salary = *upd.Salary
	}
	if upd.Location != nil {
		t.Location = *upd.Location
	}
	return nil
}

func (r tuitionsRepo) UpdateStatus(_ context.Context, id string, status models.TuitionStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.tuitions[id]
	if !ok {
		return store.ErrNotFound
	}
	t.Status = status
	return nil
}

func (r tuitionsRepo) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.tuitions[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.m.tuitions, id)
	return nil
}

func (r tuitionsRepo) Count(_ context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.tuitions)), nil
}

func (r tuitionsRepo) CountByStudent(_ context.Context, email string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, t := range r.m.tuitions {
		if t.StudentEmail == email {
			n++
		}
	}
	return n, nil
}

type applicationsRepo struct{ m *Memory }

func (r applicationsRepo) FindByID(_ context.Context, id string) (*models.Application, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.applications[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r applicationsRepo) FindByTutor(_ context.Context, email string) ([]models.Application, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Application{}
	for _, a := range r.m.applications {
		if a.TutorEmail == email {
			out = append(out, *a)
		}
	}
	sortApplications(out)
	return out, nil
}

func (r applicationsRepo) FindByStudent(_ context.Context, email string) ([]models.Application, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Application{}
	for _, a := range r.m.applications {
		if a.StudentEmail == email {
			out = append(out, *a)
		}
	}
	sortApplications(out)
	return out, nil
}

func sortApplications(list []models.Application) {
	sort.Slice(list, func(i, j int) bool { return list[i].AppliedDate.After(list[j].AppliedDate) })
}

func (r applicationsRepo) Exists(_ context.Context, tutorEmail, studentEmail, subject string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, a := range r.m.applications {
		if a.TutorEmail == tutorEmail && a.StudentEmail == studentEmail && a.Subject == subject {
			return true, nil
		}
	}
	return false, nil
}

func (r applicationsRepo) Insert(_ context.Context, a *models.Application) (string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *a
	cp.ID = primitive.NewObjectID()
	r.m.applications[cp.ID.Hex()] = &cp
	return cp.ID.Hex(), nil
}

func (r applicationsRepo) UpdateStatus(_ context.Context, id string, status models.ApplicationStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.applications[id]
	if !ok {
		return store.ErrNotFound
	}
	a.Status = status
	return nil
}

func (r applicationsRepo) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.applications[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.m.applications, id)
	return nil
}

func (r applicationsRepo) CountByTutor(_ context.Context, email string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, a := range r.m.applications {
		if a.TutorEmail == email {
			n++
		}
	}
	return n, nil
}

func (r applicationsRepo) CountByTutorAndStatus(_ context.Context, email string, status models.ApplicationStatus) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, a := range r.m.applications {
		if a.TutorEmail == email && a.Status == status {
			n++
		}
	}
	return n, nil
}

type paymentsRepo struct{ m *Memory }

// Settle emulates the transactional settle: nothing is written when
// the referenced application is missing.
func (r paymentsRepo) Settle(_ context.Context, p *models.Payment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.applications[p.AppID]
	if !ok {
		return store.ErrNotFound
	}
	cp := *p
	cp.ID = primitive.NewObjectID()
	r.m.payments = append(r.m.payments, &cp)
	a.Status = models.ApplicationPaid
	return nil
}

func (r paymentsRepo) FindByTutor(_ context.Context, email string) ([]models.Payment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Payment{}
	for _, p := range r.m.payments {
		if p.TutorEmail == email {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r paymentsRepo) FindByStudent(_ context.Context, email string) ([]models.Payment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Payment{}
	for _, p := range r.m.payments {
		if p.StudentEmail == email {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r paymentsRepo) SumAll(_ context.Context) (float64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var total float64
	for _, p := range r.m.payments {
		total += p.Salary
	}
	return total, nil
}

func (r paymentsRepo) SumByTutor(_ context.Context, email string) (float64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var total float64
	for _, p := range r.m.payments {
		if p.TutorEmail == email {
			total += p.Salary
		}
	}
	return total, nil
}

func (r paymentsRepo) Count(_ context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.payments)), nil
}

func (r paymentsRepo) CountByStudent(_ context.Context, email string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, p := range r.m.payments {
		if p.StudentEmail == email {
			n++
		}
	}
	return n, nil
}

type notificationsRepo struct{ m *Memory }

func (r notificationsRepo) Insert(_ context.Context, n *models.Notification) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *n
	cp.ID = primitive.NewObjectID()
	r.m.notifications = append(r.m.notifications, &cp)
	return nil
}
