package network

import (
	"gorm.io/gorm"

	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

type RegionRepo interface {
	GetByName(dbc dbctx.Context, name string) (*types.Region, error)
	Upsert(dbc dbctx.Context, region *types.Region, exists bool) error
}

type regionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRegionRepo(db *gorm.DB, baseLog *logger.Logger) RegionRepo {
	return &regionRepo{db: db, log: baseLog.With("repo", "RegionRepo")}
}

func (r *regionRepo) GetByName(dbc dbctx.Context, name string) (*types.Region, error) {
	return findOne[types.Region](txOr(dbc, r.db).Where("name = ?", name))
}

func (r *regionRepo) Upsert(dbc dbctx.Context, region *types.Region, exists bool) error {
	return upsertRow(txOr(dbc, r.db), region, exists)
}

type WilayaRepo interface {
	GetByName(dbc dbctx.Context, name string) (*types.Wilaya, error)
	// GetByCodeOrName matches the official code first, then the name.
	GetByCodeOrName(dbc dbctx.Context, code uint, name string) (*types.Wilaya, error)
	Upsert(dbc dbctx.Context, wilaya *types.Wilaya, exists bool) error
}

type wilayaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWilayaRepo(db *gorm.DB, baseLog *logger.Logger) WilayaRepo {
	return &wilayaRepo{db: db, log: baseLog.With("repo", "WilayaRepo")}
}

func (r *wilayaRepo) GetByName(dbc dbctx.Context, name string) (*types.Wilaya, error) {
	return findOne[types.Wilaya](txOr(dbc, r.db).Where("name = ?", name))
}

func (r *wilayaRepo) GetByCodeOrName(dbc dbctx.Context, code uint, name string) (*types.Wilaya, error) {
	w, err := findOne[types.Wilaya](txOr(dbc, r.db).Where("id = ?", code))
	if err != nil || w != nil {
		return w, err
	}
	return r.GetByName(dbc, name)
}

func (r *wilayaRepo) Upsert(dbc dbctx.Context, wilaya *types.Wilaya, exists bool) error {
	return upsertRow(txOr(dbc, r.db), wilaya, exists)
}

type CommuneRepo interface {
	GetByID(dbc dbctx.Context, id uint) (*types.Commune, error)
	Upsert(dbc dbctx.Context, commune *types.Commune, exists bool) error
}

type communeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommuneRepo(db *gorm.DB, baseLog *logger.Logger) CommuneRepo {
	return &communeRepo{db: db, log: baseLog.With("repo", "CommuneRepo")}
}

func (r *communeRepo) GetByID(dbc dbctx.Context, id uint) (*types.Commune, error) {
	return findOne[types.Commune](txOr(dbc, r.db).Where("id = ?", id))
}

func (r *communeRepo) Upsert(dbc dbctx.Context, commune *types.Commune, exists bool) error {
	return upsertRow(txOr(dbc, r.db), commune, exists)
}
