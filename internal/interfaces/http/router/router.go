package router

import (
	"github.com/finbook/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Router mounts the versioned API route tree on a gin engine
type Router struct {
	engine     *gin.Engine
	apiVersion string
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Handlers collects every HTTP handler the API exposes
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Transaction *handler.TransactionHandler
	Budget      *handler.BudgetHandler
	Advisor     *handler.AdvisorHandler
	System      *handler.SystemHandler
}

// Setup registers the full route tree. authMiddleware guards every route
// except registration, login and refresh; loginLimiter additionally
// throttles the credential endpoints.
func (r *Router) Setup(h Handlers, authMiddleware gin.HandlerFunc, loginLimiter gin.HandlerFunc) {
	api := r.engine.Group("/api/" + r.apiVersion)

	auth := api.Group("/auth")
	{
		if loginLimiter != nil {
			auth.POST("/register", loginLimiter, h.Auth.Register)
			auth.POST("/login", loginLimiter, h.Auth.Login)
		} else {
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/logout", authMiddleware, h.Auth.Logout)
		auth.POST("/change-password", authMiddleware, h.Auth.ChangePassword)
	}

	users := api.Group("/users", authMiddleware)
	{
		users.GET("/me", h.User.GetProfile)
		users.PUT("/me", h.User.UpdateProfile)
		users.DELETE("/me", h.Auth.DeactivateAccount)
	}

	transactions := api.Group("/transactions", authMiddleware)
	{
		transactions.POST("", h.Transaction.Create)
		transactions.GET("", h.Transaction.List)
		// Static segments must come before the :id parameter routes so
		// gin does not treat "summary" as an ID
		transactions.GET("/summary", h.Transaction.Overview)
		transactions.GET("/summary/monthly", h.Transaction.MonthlySummary)
		transactions.GET("/categories", h.Transaction.Categories)
		transactions.GET("/:id", h.Transaction.Get)
		transactions.PUT("/:id", h.Transaction.Update)
		transactions.DELETE("/:id", h.Transaction.Delete)
	}

	budgets := api.Group("/budgets", authMiddleware)
	{
		budgets.POST("", h.Budget.Create)
		budgets.GET("", h.Budget.List)
		budgets.GET("/:id", h.Budget.Get)
		budgets.PUT("/:id", h.Budget.Update)
		budgets.DELETE("/:id", h.Budget.Delete)
	}

	ai := api.Group("/ai", authMiddleware)
	{
		ai.POST("/chat", h.Advisor.Chat)
	}

	system := api.Group("/system")
	{
		system.GET("/info", h.System.GetSystemInfo)
		system.GET("/ping", h.System.Ping)
	}
}
