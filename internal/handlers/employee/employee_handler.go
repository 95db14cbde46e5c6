// internal/handlers/employee/employee_handler.go
package employee

import (
	"context"
	"net/http"
	"strconv"

	"skilltracker-console/internal/console"
	"skilltracker-console/internal/domain/audit"
	"skilltracker-console/internal/domain/employee"
	"skilltracker-console/internal/middleware"
	"skilltracker-console/internal/pkg/response"
	audittrail "skilltracker-console/internal/service/audit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EmployeeHandler struct {
	trail  *audittrail.Trail
	logger *zap.Logger
}

func NewEmployeeHandler(trail *audittrail.Trail, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{trail: trail, logger: logger}
}

// GetEmployee opens the detail view of one employee
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}

	ws := middleware.MustGetWorkspace(c)
	err := ws.Detail.Open(c.Request.Context(), id)
	h.respond(c, ws, http.StatusOK, "employee details", err, "Failed to fetch employee details.")
}

// AssignSkill adds a skill to the employee
func (h *EmployeeHandler) AssignSkill(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}

	var req employee.AssignSkillRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	ws := middleware.MustGetWorkspace(c)
	err := h.onEmployee(c.Request.Context(), ws, id, func(ctx context.Context) error {
		return ws.Detail.AssignSkill(ctx, id, req.SkillID)
	})
	if err == nil {
		h.trail.Record(c.Request.Context(), ws.ID, middleware.Actor(c), audit.ActionEmployeeAssign,
			target(id, "skill", req.SkillID))
	}
	h.respond(c, ws, http.StatusOK, "skill assigned", err, "Failed to assign skill.")
}

// RemoveSkill removes a skill from the employee
func (h *EmployeeHandler) RemoveSkill(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}
	skillID, err := strconv.ParseInt(c.Param("skillId"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid skill ID", err)
		return
	}

	ws := middleware.MustGetWorkspace(c)
	err = h.onEmployee(c.Request.Context(), ws, id, func(ctx context.Context) error {
		return ws.Detail.RemoveSkill(ctx, id, skillID)
	})
	if err == nil {
		h.trail.Record(c.Request.Context(), ws.ID, middleware.Actor(c), audit.ActionEmployeeUnassign,
			target(id, "skill", skillID))
	}
	h.respond(c, ws, http.StatusOK, "skill removed", err, "Failed to remove skill.")
}

// Reassign changes the employee's department and manager
func (h *EmployeeHandler) Reassign(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}

	var req employee.Reassignment
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	ws := middleware.MustGetWorkspace(c)
	err := h.onEmployee(c.Request.Context(), ws, id, func(ctx context.Context) error {
		return ws.Detail.Reassign(ctx, id, req)
	})
	if err == nil {
		h.trail.Record(c.Request.Context(), ws.ID, middleware.Actor(c), audit.ActionEmployeeReassign,
			strconv.FormatInt(id, 10)+"?"+req.QueryParams().Encode())
	}
	h.respond(c, ws, http.StatusOK, "profile updated", err, "Failed to update profile.")
}

// onEmployee opens id when the detail view shows another employee, then runs
// the mutation. The mutation is bound to id whatever the view shows by then.
func (h *EmployeeHandler) onEmployee(ctx context.Context, ws *console.Workspace, id int64, mutate func(context.Context) error) error {
	if ws.Detail.Snapshot().EmployeeID != id {
		if err := ws.Detail.Open(ctx, id); err != nil {
			return err
		}
	}
	return mutate(ctx)
}

func (h *EmployeeHandler) respond(c *gin.Context, ws *console.Workspace, status int, message string, err error, fallback string) {
	body := gin.H{
		"view":         console.ViewEmployee,
		"state":        ws.Detail.Snapshot(),
		"capabilities": middleware.CurrentCapabilities(c),
	}
	if err != nil {
		h.logger.Warn("employee request failed",
			zap.String("workspace", ws.ID),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		response.FromError(c, err, fallback, body)
		return
	}
	response.Success(c, status, message, body)
}

func employeeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationError(c, "invalid employee ID", err)
		return 0, false
	}
	return id, true
}

func target(id int64, kind string, other int64) string {
	return strconv.FormatInt(id, 10) + "/" + kind + "/" + strconv.FormatInt(other, 10)
}
