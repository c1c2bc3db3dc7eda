package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/netinv-backend/internal/data/repos"
	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/http/response"
	"github.com/yungbote/netinv-backend/internal/services"
)

type AuditHandler struct {
	audit services.AuditLog
}

func NewAuditHandler(audit services.AuditLog) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// GET /api/audit?entity=&action=&status=&actor=&job_id=&since=&limit=&offset=
func (h *AuditHandler) ListAudit(c *gin.Context) {
	params, err := auditParams(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	page, err := h.audit.List(c.Request.Context(), params)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, page)
}

func auditParams(c *gin.Context) (repos.AuditFindParams, error) {
	var p repos.AuditFindParams
	if raw := strings.TrimSpace(c.Query("entity")); raw != "" {
		e, ok := imports.ParseEntity(raw)
		if !ok {
			return p, fmt.Errorf("unknown entity %q", raw)
		}
		p.Entity = e
	}
	p.Action = types.AuditAction(strings.TrimSpace(c.Query("action")))
	p.Status = strings.TrimSpace(c.Query("status"))
	p.Actor = strings.TrimSpace(c.Query("actor"))
	if raw := strings.TrimSpace(c.Query("job_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return p, fmt.Errorf("invalid job_id: %w", err)
		}
		p.JobID = &id
	}
	if raw := strings.TrimSpace(c.Query("since")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return p, fmt.Errorf("invalid since: %w", err)
		}
		p.Since = &t
	}
	var err error
	if p.Limit, err = queryInt(c, "limit"); err != nil {
		return p, err
	}
	if p.Offset, err = queryInt(c, "offset"); err != nil {
		return p, err
	}
	return p, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return n, nil
}
