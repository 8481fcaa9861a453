package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"edumaster/internal/core/apperror"
	"edumaster/internal/infrastructure/http/v1/dto"
	"edumaster/internal/infrastructure/storage/postgres"
)

// AuditReader is implemented by *postgres.AuditService.
type AuditReader interface {
	History(ctx context.Context, entityType, entityID string, limit int) ([]postgres.AuditEntry, error)
}

// AuditHandler serves the issuance history of a person record.
type AuditHandler struct {
	*BaseHandler
	audit AuditReader
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, audit AuditReader) *AuditHandler {
	return &AuditHandler{
		BaseHandler: base,
		audit:       audit,
	}
}

var auditEntities = map[string]string{
	"students":  "student",
	"employees": "employee",
}

// History handles GET /audit/:entity/:id
func (h *AuditHandler) History(c *gin.Context) {
	entity, ok := auditEntities[c.Param("entity")]
	if !ok {
		h.Error(c, apperror.NewValidation("unknown entity").WithDetail("entity", c.Param("entity")))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 20)
	if limit < 1 || limit > 100 {
		h.Error(c, apperror.NewValidation("limit must be between 1 and 100"))
		return
	}

	entries, err := h.audit.History(c.Request.Context(), entity, c.Param("id"), limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAuditEntries(entries))
}
