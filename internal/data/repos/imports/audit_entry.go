package imports

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

type AuditFindParams struct {
	Entity types.Entity
	Action types.AuditAction
	Status string
	Actor  string
	JobID  *uuid.UUID
	Since  *time.Time
	Limit  int
	Offset int
}

type AuditEntryRepo interface {
	Append(dbc dbctx.Context, entry *types.AuditEntry) error
	List(dbc dbctx.Context, params AuditFindParams) ([]*types.AuditEntry, error)
	Count(dbc dbctx.Context, params AuditFindParams) (int64, error)
}

type auditEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditEntryRepo(db *gorm.DB, baseLog *logger.Logger) AuditEntryRepo {
	return &auditEntryRepo{db: db, log: baseLog.With("repo", "AuditEntryRepo")}
}

func (r *auditEntryRepo) Append(dbc dbctx.Context, entry *types.AuditEntry) error {
	return dbc.DB(r.db).Create(entry).Error
}

func (r *auditEntryRepo) filtered(dbc dbctx.Context, params AuditFindParams) *gorm.DB {
	q := dbc.DB(r.db).Model(&types.AuditEntry{})
	if params.Entity != "" {
		q = q.Where("entity = ?", params.Entity)
	}
	if params.Action != "" {
		q = q.Where("action = ?", params.Action)
	}
	if params.Status != "" {
		q = q.Where("status = ?", params.Status)
	}
	if params.Actor != "" {
		q = q.Where("actor = ?", params.Actor)
	}
	if params.JobID != nil {
		q = q.Where("job_id = ?", *params.JobID)
	}
	if params.Since != nil {
		q = q.Where("created_at >= ?", *params.Since)
	}
	return q
}

func (r *auditEntryRepo) List(dbc dbctx.Context, params AuditFindParams) ([]*types.AuditEntry, error) {
	limit := params.Limit
	switch {
	case limit <= 0:
		limit = 100
	case limit > 500:
		limit = 500
	}
	var out []*types.AuditEntry
	err := r.filtered(dbc, params).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(params.Offset).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *auditEntryRepo) Count(dbc dbctx.Context, params AuditFindParams) (int64, error) {
	var n int64
	if err := r.filtered(dbc, params).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
