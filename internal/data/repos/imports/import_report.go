package imports

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

type ImportReportRepo interface {
	Create(dbc dbctx.Context, report *types.ImportReport) error
	GetByJobID(dbc dbctx.Context, jobID uuid.UUID) (*types.ImportReport, error)
	GetLatestByEntity(dbc dbctx.Context, entity types.Entity) (*types.ImportReport, error)
}

type importReportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImportReportRepo(db *gorm.DB, baseLog *logger.Logger) ImportReportRepo {
	return &importReportRepo{db: db, log: baseLog.With("repo", "ImportReportRepo")}
}

func (r *importReportRepo) Create(dbc dbctx.Context, report *types.ImportReport) error {
	return dbc.DB(r.db).Create(report).Error
}

func (r *importReportRepo) GetByJobID(dbc dbctx.Context, jobID uuid.UUID) (*types.ImportReport, error) {
	var out types.ImportReport
	res := dbc.DB(r.db).Where("job_id = ?", jobID).Limit(1).Find(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &out, nil
}

func (r *importReportRepo) GetLatestByEntity(dbc dbctx.Context, entity types.Entity) (*types.ImportReport, error) {
	var out types.ImportReport
	res := dbc.DB(r.db).
		Where("entity = ?", entity).
		Order("created_at DESC").
		Order("id DESC").
		Limit(1).
		Find(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &out, nil
}
