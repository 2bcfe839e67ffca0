package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etuition/etuition-server/internal/auth"
	"github.com/etuition/etuition-server/internal/core"
	"github.com/etuition/etuition-server/internal/middleware"
)

// Deps carries everything route registration needs.
type Deps struct {
	Tokens       *auth.TokenService
	Users        *core.UserService
	Tuitions     *core.TuitionService
	Applications *core.ApplicationService
	Payments     *core.PaymentService
	Stats        *core.StatsService
	Logger       *zap.Logger
}

// RegisterRoutes wires the full route table. Fetch-by-id lives on the
// singular forms (/user/:id, /tuition/:id) because gin's router cannot
// mix a static segment with a parameter at the same position, and the
// role/status sub-routes claim the static slot on the plural paths.
func RegisterRoutes(r *gin.Engine, d Deps) {
	authH := NewAuthHandler(d.Tokens, d.Logger)
	userH := NewUserHandler(d.Users, d.Logger)
	tuitionH := NewTuitionHandler(d.Tuitions, d.Logger)
	applicationH := NewApplicationHandler(d.Applications, d.Logger)
	paymentH := NewPaymentHandler(d.Payments, d.Logger)
	statsH := NewStatsHandler(d.Stats, d.Logger)

	protected := middleware.RequireAuth(d.Tokens)
	optional := middleware.OptionalAuth(d.Tokens)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "eTuition Server Running")
	})

	r.POST("/jwt", authH.IssueToken)

	r.GET("/users/role/:email", userH.Role)
	r.POST("/users", userH.Register)
	r.GET("/user/:id", userH.Get)
	r.PATCH("/users/:id", protected, userH.ChangeRole)
	r.DELETE("/users/:id", protected, userH.Delete)
	r.GET("/user-stats/:email", optional, statsH.Profile)

	r.GET("/tuitions", optional, tuitionH.List)
	r.GET("/tuition/:id", tuitionH.Get)
	r.POST("/tuitions", protected, tuitionH.Create)
	r.PATCH("/tuition/:id", protected, tuitionH.Update)
	r.DELETE("/tuitions/:id", protected, tuitionH.Delete)
	r.PATCH("/tuitions/status/:id", protected, tuitionH.SetStatus)

	r.POST("/applications", protected, applicationH.Create)
	r.POST("/hiring-requests", protected, applicationH.Create)
	r.GET("/hiring-requests/:email", protected, applicationH.ListByTutor)
	r.GET("/hiring-requests-by-student/:email", protected, applicationH.ListByStudent)
	r.PATCH("/applications/status/:id", protected, applicationH.SetStatus)
	r.PATCH("/hiring-requests/status/:id", protected, applicationH.SetStatus)
	r.DELETE("/applications/:id", protected, applicationH.Cancel)
	r.DELETE("/cancel-tuition/:id", protected, applicationH.Cancel)
	r.DELETE("/terminate-contract/:id", protected, applicationH.Terminate)

	r.POST("/create-payment-intent", protected, paymentH.CreateIntent)
	r.POST("/payments", protected, paymentH.Record)

	r.GET("/admin/analytics", protected, statsH.Admin)
	r.GET("/admin-stats", protected, statsH.Admin)
	r.GET("/tutor-revenue/:email", protected, statsH.TutorRevenue)
	r.GET("/student-expenses/:email", protected, statsH.StudentExpenses)
}
