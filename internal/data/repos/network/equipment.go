package network

import (
	"gorm.io/gorm"

	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

type SupplierRepo interface {
	GetByName(dbc dbctx.Context, name string) (*types.Supplier, error)
	Upsert(dbc dbctx.Context, supplier *types.Supplier, exists bool) error
}

type supplierRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSupplierRepo(db *gorm.DB, baseLog *logger.Logger) SupplierRepo {
	return &supplierRepo{db: db, log: baseLog.With("repo", "SupplierRepo")}
}

func (r *supplierRepo) GetByName(dbc dbctx.Context, name string) (*types.Supplier, error) {
	return findOne[types.Supplier](txOr(dbc, r.db).Where("name = ?", name))
}

func (r *supplierRepo) Upsert(dbc dbctx.Context, supplier *types.Supplier, exists bool) error {
	return upsertRow(txOr(dbc, r.db), supplier, exists)
}

type AntennaRepo interface {
	GetByModelFrequency(dbc dbctx.Context, model string, frequency float64) (*types.Antenna, error)
	// GetByModel returns the first antenna of that model, whatever its band.
	GetByModel(dbc dbctx.Context, model string) (*types.Antenna, error)
	Upsert(dbc dbctx.Context, antenna *types.Antenna, exists bool) error
}

type antennaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAntennaRepo(db *gorm.DB, baseLog *logger.Logger) AntennaRepo {
	return &antennaRepo{db: db, log: baseLog.With("repo", "AntennaRepo")}
}

func (r *antennaRepo) GetByModelFrequency(dbc dbctx.Context, model string, frequency float64) (*types.Antenna, error) {
	return findOne[types.Antenna](txOr(dbc, r.db).Where("model = ? AND frequency = ?", model, frequency))
}

func (r *antennaRepo) GetByModel(dbc dbctx.Context, model string) (*types.Antenna, error) {
	return findOne[types.Antenna](txOr(dbc, r.db).Where("model = ?", model).Order("id ASC"))
}

func (r *antennaRepo) Upsert(dbc dbctx.Context, antenna *types.Antenna, exists bool) error {
	return upsertRow(txOr(dbc, r.db), antenna, exists)
}
