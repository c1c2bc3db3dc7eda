package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/netinv-backend/internal/data/repos"
	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

type AuditRecord struct {
	JobID   *uuid.UUID
	Actor   string
	Entity  types.Entity
	Action  types.AuditAction
	Status  string
	Message string
	Data    any
}

type AuditPage struct {
	Entries []*types.AuditEntry `json:"entries"`
	Total   int64               `json:"total"`
	Limit   int                 `json:"limit"`
	Offset  int                 `json:"offset"`
}

// AuditLog is the searchable index of import activity.
type AuditLog interface {
	Record(ctx context.Context, rec AuditRecord) error
	List(ctx context.Context, filter repos.AuditFindParams) (AuditPage, error)
}

type auditLog struct {
	log   *logger.Logger
	audit repos.AuditEntryRepo
}

func NewAuditLog(baseLog *logger.Logger, audit repos.AuditEntryRepo) AuditLog {
	return &auditLog{log: baseLog.With("service", "AuditLog"), audit: audit}
}

func (s *auditLog) Record(ctx context.Context, rec AuditRecord) error {
	actor := strings.TrimSpace(rec.Actor)
	if actor == "" {
		actor = "anonymous"
	}
	entry := &types.AuditEntry{
		JobID:   rec.JobID,
		Actor:   actor,
		Entity:  rec.Entity,
		Action:  rec.Action,
		Status:  rec.Status,
		Message: rec.Message,
	}
	if rec.Data != nil {
		raw, err := json.Marshal(rec.Data)
		if err != nil {
			return fmt.Errorf("encode audit data: %w", err)
		}
		entry.Data = datatypes.JSON(raw)
	}
	if err := s.audit.Append(dbctx.Context{Ctx: ctx}, entry); err != nil {
		s.log.Warn("Audit append failed", "action", rec.Action, "entity", rec.Entity, "error", err)
		return err
	}
	return nil
}

func (s *auditLog) List(ctx context.Context, filter repos.AuditFindParams) (AuditPage, error) {
	dbc := dbctx.Context{Ctx: ctx}
	entries, err := s.audit.List(dbc, filter)
	if err != nil {
		return AuditPage{}, err
	}
	total, err := s.audit.Count(dbc, filter)
	if err != nil {
		return AuditPage{}, err
	}
	if entries == nil {
		entries = []*types.AuditEntry{}
	}
	return AuditPage{Entries: entries, Total: total, Limit: effectiveLimit(filter.Limit), Offset: filter.Offset}, nil
}

func effectiveLimit(limit int) int {
	switch {
	case limit <= 0:
		return 100
	case limit > 500:
		return 500
	default:
		return limit
	}
}
