package imports

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

type ImportJobRepo interface {
	Create(dbc dbctx.Context, job *types.ImportJob) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ImportJob, error)
	ListRecent(dbc dbctx.Context, entity types.Entity, limit int) ([]*types.ImportJob, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	UpdateFieldsUnlessStatus(dbc dbctx.Context, id uuid.UUID, disallowedStatuses []types.JobStatus, updates map[string]interface{}) (bool, error)
	// MarkInterrupted fails every job that was queued or processing when the
	// previous process stopped.
	MarkInterrupted(dbc dbctx.Context, message string) (int64, error)
}

type importJobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImportJobRepo(db *gorm.DB, baseLog *logger.Logger) ImportJobRepo {
	return &importJobRepo{
		db:  db,
		log: baseLog.With("repo", "ImportJobRepo"),
	}
}

func (r *importJobRepo) Create(dbc dbctx.Context, job *types.ImportJob) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	return transaction.WithContext(dbc.Ctx).Create(job).Error
}

func (r *importJobRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ImportJob, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var job types.ImportJob
	res := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&job)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &job, nil
}

func (r *importJobRepo) ListRecent(dbc dbctx.Context, entity types.Entity, limit int) ([]*types.ImportJob, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := transaction.WithContext(dbc.Ctx).Order("created_at DESC").Limit(limit)
	if entity != "" {
		q = q.Where("entity = ?", entity)
	}
	var out []*types.ImportJob
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *importJobRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.ImportJob{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *importJobRepo) UpdateFieldsUnlessStatus(dbc dbctx.Context, id uuid.UUID, disallowedStatuses []types.JobStatus, updates map[string]interface{}) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return false, nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}

	q := transaction.WithContext(dbc.Ctx).
		Model(&types.ImportJob{}).
		Where("id = ?", id)
	if len(disallowedStatuses) == 1 {
		q = q.Where("status <> ?", disallowedStatuses[0])
	} else if len(disallowedStatuses) > 1 {
		q = q.Where("status NOT IN ?", disallowedStatuses)
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *importJobRepo) MarkInterrupted(dbc dbctx.Context, message string) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now()
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.ImportJob{}).
		Where("status IN ?", []types.JobStatus{imports.JobQueued, imports.JobProcessing}).
		Updates(map[string]interface{}{
			"status":      imports.JobFailed,
			"stage":       "interrupted",
			"progress":    100,
			"eta_seconds": nil,
			"error":       message,
			"finished_at": now,
			"updated_at":  now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		r.log.Warn("Marked interrupted import jobs as failed", "count", res.RowsAffected)
	}
	return res.RowsAffected, nil
}
