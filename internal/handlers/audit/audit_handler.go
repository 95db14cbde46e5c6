// internal/handlers/audit/audit_handler.go
package audit

import (
	"context"
	"net/http"
	"strconv"

	"skilltracker-console/internal/domain/audit"
	"skilltracker-console/internal/middleware"
	"skilltracker-console/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Lister reads the audit trail. Nil when no database is configured.
type Lister interface {
	Recent(ctx context.Context, limit int) ([]*audit.Entry, error)
}

type AuditHandler struct {
	lister Lister
	logger *zap.Logger
}

func NewAuditHandler(lister Lister, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{lister: lister, logger: logger}
}

// List returns the most recent console operations (admin only)
func (h *AuditHandler) List(c *gin.Context) {
	if !middleware.IsAdmin(c) {
		response.Forbidden(c, "admin access required")
		return
	}

	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.ValidationError(c, "invalid limit", err)
			return
		}
		limit = min(n, maxLimit)
	}

	entries := []*audit.Entry{}
	if h.lister != nil {
		recent, err := h.lister.Recent(c.Request.Context(), limit)
		if err != nil {
			h.logger.Error("failed to list audit entries", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "Failed to fetch the audit trail.", nil)
			return
		}
		if recent != nil {
			entries = recent
		}
	}

	response.Success(c, http.StatusOK, "audit trail", gin.H{
		"view":         "audit",
		"entries":      entries,
		"enabled":      h.lister != nil,
		"capabilities": middleware.CurrentCapabilities(c),
	})
}
