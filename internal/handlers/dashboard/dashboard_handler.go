// internal/handlers/dashboard/dashboard_handler.go
package dashboard

import (
	"net/http"

	"skilltracker-console/internal/console"
	"skilltracker-console/internal/domain/employee"
	"skilltracker-console/internal/middleware"
	"skilltracker-console/internal/pkg/response"
	"skilltracker-console/internal/service/collection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	logger *zap.Logger
}

func NewDashboardHandler(logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{logger: logger}
}

// Show loads the directory for admins and the caller's own profile for
// everyone else.
func (h *DashboardHandler) Show(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)
	rec := middleware.GetRecord(c)

	if !rec.IsAdmin() {
		err := ws.Profile.Load(c.Request.Context(), rec.EmployeeID)
		h.respond(c, console.ViewProfile, ws.Profile.Snapshot(), err)
		return
	}

	var q directoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, "invalid query", err)
		return
	}

	err := ws.Directory.Navigate(c.Request.Context(), q.navigation(c))
	h.respond(c, console.ViewDirectory, ws.Directory.Snapshot(), err)
}

// directoryQuery is the optional query of GET /dashboard. Parameters left
// out keep the directory where it was.
type directoryQuery struct {
	Page         *int   `form:"page" binding:"omitempty,min=0"`
	Sort         string `form:"sort"`
	Skill        string `form:"skill"`
	DepartmentID *int64 `form:"departmentId"`
}

func (q directoryQuery) navigation(c *gin.Context) collection.Navigation {
	nav := collection.Navigation{Page: q.Page}
	if q.Sort != "" {
		sort := collection.ParseSort(q.Sort, console.DefaultSort)
		nav.Sort = &sort
	}
	_, hasSkill := c.GetQuery("skill")
	_, hasDepartment := c.GetQuery("departmentId")
	if hasSkill || hasDepartment {
		nav.Filter = employee.Filter{Skill: q.Skill, DepartmentID: q.DepartmentID}.Values()
	}
	return nav
}

type sortRequest struct {
	Field string `json:"field" form:"field" binding:"required"`
}

// Sort toggles the directory sort on a column
func (h *DashboardHandler) Sort(c *gin.Context) {
	var req sortRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	ws := middleware.MustGetWorkspace(c)
	err := ws.Directory.ChangeSort(c.Request.Context(), req.Field)
	h.respond(c, console.ViewDirectory, ws.Directory.Snapshot(), err)
}

type pageRequest struct {
	Page *int `json:"page" form:"page" binding:"required,min=0"`
}

// Page moves the directory to another page
func (h *DashboardHandler) Page(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	ws := middleware.MustGetWorkspace(c)
	err := ws.Directory.ChangePage(c.Request.Context(), *req.Page)
	h.respond(c, console.ViewDirectory, ws.Directory.Snapshot(), err)
}

// Filter narrows the directory by skill name or department. An empty body
// clears the filter.
func (h *DashboardHandler) Filter(c *gin.Context) {
	var req employee.Filter
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	ws := middleware.MustGetWorkspace(c)
	err := ws.Directory.SetFilter(c.Request.Context(), req.Values())
	h.respond(c, console.ViewDirectory, ws.Directory.Snapshot(), err)
}

func (h *DashboardHandler) respond(c *gin.Context, view string, state any, err error) {
	body := gin.H{
		"view":         view,
		"state":        state,
		"capabilities": middleware.CurrentCapabilities(c),
	}
	if err != nil {
		h.logger.Warn("dashboard load failed", zap.String("view", view), zap.Error(err))
		response.FromError(c, err, "Failed to fetch employee data.", body)
		return
	}
	response.Success(c, http.StatusOK, view, body)
}
