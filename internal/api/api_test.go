package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/etuition/etuition-server/internal/auth"
	"github.com/etuition/etuition-server/internal/core"
	"github.com/etuition/etuition-server/internal/models"
	"github.com/etuition/etuition-server/internal/store/storetest"
	"github.com/etuition/etuition-server/pkg/cache"
	"github.com/etuition/etuition-server/pkg/mailer"
	"github.com/etuition/etuition-server/pkg/messagequeue"
)

const adminEmail = "admin@etuition.com"

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCharges struct{}

func (stubCharges) CreateIntent(context.Context, int64, string) (string, error) {
	return "cs_test_secret", nil
}

type server struct {
	router *gin.Engine
	mem    *storetest.Memory
	tokens *auth.TokenService
}

func newServer() *server {
	mem := storetest.New()
	logger := zap.NewNop()
	tokens := auth.NewTokenService("test-secret")

	users := core.NewUserService(mem.UserRepo(), cache.Noop{}, nil, adminEmail, logger)
	tuitions := core.NewTuitionService(mem.TuitionRepo(), users, logger)
	applications := core.NewApplicationService(mem.ApplicationRepo(), mem.NotificationRepo(), users, messagequeue.Noop{}, &mailer.Mailer{}, logger)
	payments := core.NewPaymentService(mem.PaymentRepo(), mem.ApplicationRepo(), stubCharges{}, users, logger)
	stats := core.NewStatsService(mem.UserRepo(), mem.TuitionRepo(), mem.ApplicationRepo(), mem.PaymentRepo(), users, logger)

	r := gin.New()
	RegisterRoutes(r, Deps{
		Tokens:       tokens,
		Users:        users,
		Tuitions:     tuitions,
		Applications: applications,
		Payments:     payments,
		Stats:        stats,
		Logger:       logger,
	})
	return &server{router: r, mem: mem, tokens: tokens}
}

func (s *server) token(t *testing.T, email string) string {
	t.Helper()
	tok, err := s.tokens.Issue(email, "")
	require.NoError(t, err)
	return tok
}

func (s *server) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func TestLiveness(t *testing.T) {
	s := newServer()

	w := s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "eTuition Server Running", w.Body.String())
}

func TestIssueToken(t *testing.T) {
	s := newServer()

	w := s.do(t, http.MethodPost, "/jwt", "", gin.H{"email": "amina@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	tok, ok := decode(t, w)["token"].(string)
	require.True(t, ok)
	id, err := s.tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "amina@example.com", id.Email)
}

func TestIssueTokenRequiresEmail(t *testing.T) {
	s := newServer()

	w := s.do(t, http.MethodPost, "/jwt", "", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email required", decode(t, w)["message"])
}

func TestProtectedRoutesRejectBadTokens(t *testing.T) {
	s := newServer()

	w := s.do(t, http.MethodPost, "/tuitions", "", gin.H{"subject": "Math", "salary": 100})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/tuitions", "not-a-token", gin.H{"subject": "Math", "salary": 100})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/tuitions", nil)
	req.Header.Set("Authorization", "NotBearer xyz")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleLookup(t *testing.T) {
	s := newServer()
	s.mem.AddUser(models.User{Email: "tutor@example.com", Role: models.RoleTutor})

	w := s.do(t, http.MethodGet, "/users/role/"+adminEmail, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", decode(t, w)["role"])

	w = s.do(t, http.MethodGet, "/users/role/tutor@example.com", "", nil)
	assert.Equal(t, "tutor", decode(t, w)["role"])

	w = s.do(t, http.MethodGet, "/users/role/nobody@example.com", "", nil)
	assert.Equal(t, "student", decode(t, w)["role"])
}

func TestRegisterTwice(t *testing.T) {
	s := newServer()
	payload := gin.H{"email": "amina@example.com", "name": "Amina"}

	w := s.do(t, http.MethodPost, "/users", "", payload)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["insertedId"])

	w = s.do(t, http.MethodPost, "/users", "", payload)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User exists", decode(t, w)["message"])
}

func TestChangeRoleIsAdminGated(t *testing.T) {
	s := newServer()
	id := s.mem.AddUser(models.User{Email: "amina@example.com"})

	w := s.do(t, http.MethodPatch, "/users/"+id, s.token(t, "amina@example.com"), gin.H{"role": "tutor"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPatch, "/users/"+id, s.token(t, adminEmail), gin.H{"role": "tutor"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/users/role/amina@example.com", "", nil)
	assert.Equal(t, "tutor", decode(t, w)["role"])
}

func TestPublicTuitionListing(t *testing.T) {
	s := newServer()
	s.mem.AddTuition(models.Tuition{StudentEmail: "amina@example.com", Subject: "Math", Status: models.TuitionApproved})
	s.mem.AddTuition(models.Tuition{StudentEmail: "amina@example.com", Subject: "Physics", Status: models.TuitionPending})

	w := s.do(t, http.MethodGet, "/tuitions", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []models.Tuition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Math", list[0].Subject)
}

func TestOwnerFilteredTuitionListing(t *testing.T) {
	s := newServer()
	s.mem.AddTuition(models.Tuition{StudentEmail: "amina@example.com", Subject: "Physics", Status: models.TuitionPending})

	w := s.do(t, http.MethodGet, "/tuitions?studentEmail=amina@example.com", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/tuitions?studentEmail=amina@example.com", s.token(t, "nosy@example.com"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/tuitions?studentEmail=amina@example.com", s.token(t, "amina@example.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []models.Tuition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestTuitionLifecycleOverHTTP(t *testing.T) {
	s := newServer()
	student := s.token(t, "amina@example.com")
	admin := s.token(t, adminEmail)

	w := s.do(t, http.MethodPost, "/tuitions", student, gin.H{"subject": "Math", "class": "10", "salary": 120, "location": "Dhaka"})
	require.Equal(t, http.StatusOK, w.Code)
	id, ok := decode(t, w)["insertedId"].(string)
	require.True(t, ok)

	w = s.do(t, http.MethodPatch, "/tuitions/status/"+id, student, gin.H{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPatch, "/tuitions/status/"+id, admin, gin.H{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code)

	stored, _ := s.mem.Tuition(id)
	assert.Equal(t, models.TuitionApproved, stored.Status)

	w = s.do(t, http.MethodPatch, "/tuition/"+id, s.token(t, "nosy@example.com"), gin.H{"salary": 150})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, "/tuitions/"+id, student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, exists := s.mem.Tuition(id)
	assert.False(t, exists)
}

func TestHiringRequestsAreOwnerScoped(t *testing.T) {
	s := newServer()
	s.mem.AddApplication(models.Application{TutorEmail: "tutor@example.com", StudentEmail: "amina@example.com", Subject: "Math", Status: models.ApplicationPending})

	w := s.do(t, http.MethodGet, "/hiring-requests/tutor@example.com", s.token(t, "nosy@example.com"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/hiring-requests/tutor@example.com", s.token(t, "tutor@example.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []models.Application
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = s.do(t, http.MethodGet, "/hiring-requests-by-student/amina@example.com", s.token(t, adminEmail), nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestDuplicateApplicationOverHTTP(t *testing.T) {
	s := newServer()
	tutor := s.token(t, "tutor@example.com")
	payload := gin.H{"studentEmail": "amina@example.com", "subject": "Math", "salary": 100}

	w := s.do(t, http.MethodPost, "/hiring-requests", tutor, payload)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/hiring-requests", tutor, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You have already applied for this tuition", decode(t, w)["message"])
}

func TestCreatePaymentIntent(t *testing.T) {
	s := newServer()
	student := s.token(t, "amina@example.com")

	w := s.do(t, http.MethodPost, "/create-payment-intent", student, gin.H{"salary": 49.99})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cs_test_secret", decode(t, w)["clientSecret"])

	w = s.do(t, http.MethodPost, "/create-payment-intent", student, gin.H{"salary": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid Salary", decode(t, w)["message"])
}

func TestRecordPaymentSettlesApplication(t *testing.T) {
	s := newServer()
	id := s.mem.AddApplication(models.Application{TutorEmail: "tutor@example.com", StudentEmail: "amina@example.com", Subject: "Math", Salary: 200, Status: models.ApplicationPending})

	w := s.do(t, http.MethodPost, "/payments", s.token(t, "tutor@example.com"), gin.H{"appId": id})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/payments", s.token(t, "amina@example.com"), gin.H{"appId": id})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Payment recorded", decode(t, w)["message"])

	stored, _ := s.mem.Application(id)
	assert.Equal(t, models.ApplicationPaid, stored.Status)
	assert.Equal(t, 1, s.mem.PaymentCount())

	w = s.do(t, http.MethodPost, "/payments", s.token(t, "amina@example.com"), gin.H{"appId": id})
	assert.Equal(t, http.StatusOK, w.Code, "settling a paid contract again is allowed")

	w = s.do(t, http.MethodPost, "/payments", s.token(t, "amina@example.com"), gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTerminateContractOverHTTP(t *testing.T) {
	s := newServer()
	id := s.mem.AddApplication(models.Application{TutorEmail: "tutor@example.com", StudentEmail: "amina@example.com", Subject: "Math", Status: models.ApplicationPaid})

	w := s.do(t, http.MethodDelete, "/terminate-contract/"+id, s.token(t, "amina@example.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["deletedCount"])

	notes := s.mem.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, "tutor@example.com", notes[0].ReceiverEmail)

	w = s.do(t, http.MethodDelete, "/terminate-contract/"+id, s.token(t, "amina@example.com"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(0), body["deletedCount"])
	assert.Equal(t, "Application not found", body["message"])
}

func TestAdminAnalyticsEndpoint(t *testing.T) {
	s := newServer()
	s.mem.AddPayment(models.Payment{TutorEmail: "tutor@example.com", StudentEmail: "amina@example.com", Salary: 100})

	w := s.do(t, http.MethodGet, "/admin/analytics", s.token(t, "amina@example.com"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden access", decode(t, w)["message"])

	w = s.do(t, http.MethodGet, "/admin-stats", s.token(t, adminEmail), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(100), body["totalPlatformEarnings"])
	assert.Equal(t, float64(20), body["platformRevenue"])
}

func TestTutorRevenueEndpoint(t *testing.T) {
	s := newServer()
	s.mem.AddPayment(models.Payment{TutorEmail: "tutor@example.com", StudentEmail: "amina@example.com", Salary: 100})
	s.mem.AddPayment(models.Payment{TutorEmail: "tutor@example.com", StudentEmail: "other@example.com", Salary: 60})

	w := s.do(t, http.MethodGet, "/tutor-revenue/tutor@example.com", s.token(t, "nosy@example.com"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/tutor-revenue/tutor@example.com", s.token(t, "tutor@example.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(160), decode(t, w)["total"])

	w = s.do(t, http.MethodGet, "/student-expenses/amina@example.com", s.token(t, "amina@example.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(100), decode(t, w)["total"])
}

func TestUserStatsProjection(t *testing.T) {
	s := newServer()
	s.mem.AddUser(models.User{Email: "amina@example.com", Role: models.RoleStudent, Name: "Amina", Phone: "0123456789"})

	w := s.do(t, http.MethodGet, "/user-stats/amina@example.com", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.NotContains(t, body, "stats", "anonymous callers get no aggregates")
	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.NotContains(t, user, "id", "the public projection hides the document id")

	w = s.do(t, http.MethodGet, "/user-stats/amina@example.com", s.token(t, "amina@example.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Contains(t, body, "stats")
	assert.Equal(t, "student", body["role"])

	w = s.do(t, http.MethodGet, "/user-stats/nobody@example.com", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
