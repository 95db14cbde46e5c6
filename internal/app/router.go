// internal/app/router.go
package app

import (
	"net/http"

	"skilltracker-console/internal/domain/department"
	"skilltracker-console/internal/domain/skill"
	auditHandler "skilltracker-console/internal/handlers/audit"
	authHandler "skilltracker-console/internal/handlers/auth"
	catalogHandler "skilltracker-console/internal/handlers/catalog"
	dashboardHandler "skilltracker-console/internal/handlers/dashboard"
	employeeHandler "skilltracker-console/internal/handlers/employee"
	wsHandler "skilltracker-console/internal/handlers/websocket"
	"skilltracker-console/internal/middleware"
	"skilltracker-console/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	AuthHandler       *authHandler.AuthHandler
	DashboardHandler  *dashboardHandler.DashboardHandler
	EmployeeHandler   *employeeHandler.EmployeeHandler
	SkillHandler      *catalogHandler.CatalogHandler[skill.Skill, skill.Draft]
	DepartmentHandler *catalogHandler.CatalogHandler[department.Department, department.Draft]
	AuditHandler      *auditHandler.AuditHandler
	WSHandler         *wsHandler.WebSocketHandler
	AuthMiddleware    *middleware.AuthMiddleware
	Metrics           *prometheus.Registry
	Ready             func() bool
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	// ==================== Operational ====================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": "1.0.0"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if h.Ready != nil && !h.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.Metrics, promhttp.HandlerOpts{})))

	workspace := r.Group("")
	workspace.Use(h.AuthMiddleware.Workspace())

	// ==================== WebSocket ====================
	workspace.GET("/ws", h.WSHandler.HandleConnection)

	console := workspace.Group("")
	console.Use(middleware.AccessGate())

	// ==================== Auth ====================
	console.GET("/login", h.AuthHandler.LoginPage)
	console.POST("/login", h.AuthHandler.Login)
	console.POST("/logout", h.AuthHandler.Logout)
	console.GET("/register", h.AuthHandler.RegisterPage)
	console.POST("/register", h.AuthHandler.Register)
	console.GET("/me", h.AuthHandler.Me)
	console.GET("/me/connections", h.WSHandler.GetStats)

	// ==================== Dashboard ====================
	dashboard := console.Group("/dashboard")
	{
		dashboard.GET("", h.DashboardHandler.Show)
		dashboard.POST("/sort", h.DashboardHandler.Sort)
		dashboard.POST("/page", h.DashboardHandler.Page)
		dashboard.POST("/filter", h.DashboardHandler.Filter)
	}

	// ==================== Employees ====================
	employees := console.Group("/employees")
	{
		employees.GET("/:id", h.EmployeeHandler.GetEmployee)
		employees.PUT("/:id", h.EmployeeHandler.Reassign)
		employees.POST("/:id/skills", h.EmployeeHandler.AssignSkill)
		employees.DELETE("/:id/skills/:skillId", h.EmployeeHandler.RemoveSkill)
	}

	// ==================== Admin ====================
	admin := console.Group("/admin")
	{
		skills := admin.Group("/skills")
		skills.GET("", h.SkillHandler.List)
		skills.POST("", h.SkillHandler.Create)
		skills.PUT("/:id", h.SkillHandler.Update)
		skills.DELETE("/:id", h.SkillHandler.Delete)

		departments := admin.Group("/departments")
		departments.GET("", h.DepartmentHandler.List)
		departments.POST("", h.DepartmentHandler.Create)
		departments.PUT("/:id", h.DepartmentHandler.Update)
		departments.DELETE("/:id", h.DepartmentHandler.Delete)

		admin.GET("/audit", h.AuditHandler.List)
	}

	// Everything else still passes the gate: "/" redirects, unknown paths
	// render the not-found surface.
	r.NoRoute(h.AuthMiddleware.Workspace(), middleware.AccessGate(), func(c *gin.Context) {
		response.NotFound(c, "page not found")
	})
}
