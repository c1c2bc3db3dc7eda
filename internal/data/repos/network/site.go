package network

import (
	"gorm.io/gorm"

	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

type SiteRepo interface {
	GetByCode(dbc dbctx.Context, code string) (*types.Site, error)
	Upsert(dbc dbctx.Context, site *types.Site, exists bool) error
}

type siteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSiteRepo(db *gorm.DB, baseLog *logger.Logger) SiteRepo {
	return &siteRepo{db: db, log: baseLog.With("repo", "SiteRepo")}
}

func (r *siteRepo) GetByCode(dbc dbctx.Context, code string) (*types.Site, error) {
	return findOne[types.Site](txOr(dbc, r.db).Where("code_site = ?", code))
}

func (r *siteRepo) Upsert(dbc dbctx.Context, site *types.Site, exists bool) error {
	return upsertRow(txOr(dbc, r.db), site, exists)
}

type SectorRepo interface {
	GetByCode(dbc dbctx.Context, code string) (*types.Sector, error)
	Upsert(dbc dbctx.Context, sector *types.Sector, exists bool) error
}

type sectorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectorRepo(db *gorm.DB, baseLog *logger.Logger) SectorRepo {
	return &sectorRepo{db: db, log: baseLog.With("repo", "SectorRepo")}
}

func (r *sectorRepo) GetByCode(dbc dbctx.Context, code string) (*types.Sector, error) {
	return findOne[types.Sector](txOr(dbc, r.db).Where("code_sector = ?", code))
}

func (r *sectorRepo) Upsert(dbc dbctx.Context, sector *types.Sector, exists bool) error {
	return upsertRow(txOr(dbc, r.db), sector, exists)
}

type MappingRepo interface {
	GetByMapID(dbc dbctx.Context, mapID string) (*types.Mapping, error)
	// Lookup matches exactly on (cell code, technology, band).
	Lookup(dbc dbctx.Context, cellCode, technology, band string) (*types.Mapping, error)
	Upsert(dbc dbctx.Context, mapping *types.Mapping, exists bool) error
}

type mappingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMappingRepo(db *gorm.DB, baseLog *logger.Logger) MappingRepo {
	return &mappingRepo{db: db, log: baseLog.With("repo", "MappingRepo")}
}

func (r *mappingRepo) GetByMapID(dbc dbctx.Context, mapID string) (*types.Mapping, error) {
	return findOne[types.Mapping](txOr(dbc, r.db).Where("map_id = ?", mapID))
}

func (r *mappingRepo) Lookup(dbc dbctx.Context, cellCode, technology, band string) (*types.Mapping, error) {
	return findOne[types.Mapping](txOr(dbc, r.db).
		Where("cell_code = ? AND technology = ? AND band = ?", cellCode, technology, band).
		Order("id ASC"))
}

func (r *mappingRepo) Upsert(dbc dbctx.Context, mapping *types.Mapping, exists bool) error {
	return upsertRow(txOr(dbc, r.db), mapping, exists)
}
