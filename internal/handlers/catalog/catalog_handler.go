// internal/handlers/catalog/catalog_handler.go
package catalog

import (
	"net/http"
	"strconv"

	"skilltracker-console/internal/console"
	"skilltracker-console/internal/domain/audit"
	"skilltracker-console/internal/domain/department"
	"skilltracker-console/internal/domain/skill"
	"skilltracker-console/internal/middleware"
	"skilltracker-console/internal/pkg/response"
	audittrail "skilltracker-console/internal/service/audit"
	"skilltracker-console/internal/service/collection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Actions are the audit actions of one catalog.
type Actions struct {
	Create string
	Update string
	Delete string
}

// CatalogHandler serves a named list of {id, name} entries: skills or
// departments.
type CatalogHandler[T any, D collection.Draft] struct {
	view       string
	controller func(*console.Workspace) *collection.Controller[T, D]
	name       func(D) string
	actions    Actions
	trail      *audittrail.Trail
	logger     *zap.Logger
}

func NewSkillHandler(trail *audittrail.Trail, logger *zap.Logger) *CatalogHandler[skill.Skill, skill.Draft] {
	return &CatalogHandler[skill.Skill, skill.Draft]{
		view:       console.ViewSkills,
		controller: func(ws *console.Workspace) *console.SkillController { return ws.Skills },
		name:       func(d skill.Draft) string { return d.Normalized().Name },
		actions: Actions{
			Create: audit.ActionSkillCreate,
			Update: audit.ActionSkillUpdate,
			Delete: audit.ActionSkillDelete,
		},
		trail:  trail,
		logger: logger,
	}
}

func NewDepartmentHandler(trail *audittrail.Trail, logger *zap.Logger) *CatalogHandler[department.Department, department.Draft] {
	return &CatalogHandler[department.Department, department.Draft]{
		view:       console.ViewDepartments,
		controller: func(ws *console.Workspace) *console.DepartmentController { return ws.Departments },
		name:       func(d department.Draft) string { return d.Normalized().Name },
		actions: Actions{
			Create: audit.ActionDepartmentCreate,
			Update: audit.ActionDepartmentUpdate,
			Delete: audit.ActionDepartmentDelete,
		},
		trail:  trail,
		logger: logger,
	}
}

// List loads the catalog
func (h *CatalogHandler[T, D]) List(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)
	ctl := h.controller(ws)
	err := ctl.Load(c.Request.Context())
	h.respond(c, ws, ctl, http.StatusOK, h.view, err)
}

// Create adds an entry and reloads the list
func (h *CatalogHandler[T, D]) Create(c *gin.Context) {
	var draft D
	if err := c.ShouldBind(&draft); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	ws := middleware.MustGetWorkspace(c)
	ctl := h.controller(ws)
	err := ctl.Create(c.Request.Context(), draft)
	if err == nil {
		h.trail.Record(c.Request.Context(), ws.ID, middleware.Actor(c), h.actions.Create, h.name(draft))
	}
	h.respond(c, ws, ctl, http.StatusCreated, h.view+" created", err)
}

// Update renames an entry and reloads the list
func (h *CatalogHandler[T, D]) Update(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}

	var draft D
	if err := c.ShouldBind(&draft); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	ws := middleware.MustGetWorkspace(c)
	ctl := h.controller(ws)
	err := ctl.Update(c.Request.Context(), id, draft)
	if err == nil {
		h.trail.Record(c.Request.Context(), ws.ID, middleware.Actor(c), h.actions.Update,
			strconv.FormatInt(id, 10)+"/"+h.name(draft))
	}
	h.respond(c, ws, ctl, http.StatusOK, h.view+" updated", err)
}

// Delete removes an entry and reloads the list
func (h *CatalogHandler[T, D]) Delete(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}

	ws := middleware.MustGetWorkspace(c)
	ctl := h.controller(ws)
	err := ctl.Delete(c.Request.Context(), id)
	if err == nil {
		h.trail.Record(c.Request.Context(), ws.ID, middleware.Actor(c), h.actions.Delete, strconv.FormatInt(id, 10))
	}
	h.respond(c, ws, ctl, http.StatusOK, h.view+" deleted", err)
}

func (h *CatalogHandler[T, D]) respond(c *gin.Context, ws *console.Workspace, ctl *collection.Controller[T, D], status int, message string, err error) {
	state := ctl.Snapshot()
	body := gin.H{
		"view":         h.view,
		"state":        state,
		"capabilities": middleware.CurrentCapabilities(c),
	}
	if err != nil {
		h.logger.Warn("catalog request failed",
			zap.String("view", h.view),
			zap.String("workspace", ws.ID),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		response.FromError(c, err, state.Error, body)
		return
	}
	response.Success(c, status, message, body)
}

func entryID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationError(c, "invalid ID", err)
		return 0, false
	}
	return id, true
}
