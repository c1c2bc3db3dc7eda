package network

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/domain/network"
	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

type CellRepo interface {
	GetByName(dbc dbctx.Context, name string) (*types.Cell, error)
	GetWithProfiles(dbc dbctx.Context, name string) (*types.Cell, error)
	Upsert(dbc dbctx.Context, cell *types.Cell, exists bool) error
	// ClearProfilesExcept deletes every technology profile of the cell that
	// does not belong to keep.
	ClearProfilesExcept(dbc dbctx.Context, cellID uint, keep types.Technology) error
	Profile2G(dbc dbctx.Context, cellID uint) (*types.Cell2G, error)
	Profile3G(dbc dbctx.Context, cellID uint) (*types.Cell3G, error)
	Profile4G(dbc dbctx.Context, cellID uint) (*types.Cell4G, error)
	Profile5G(dbc dbctx.Context, cellID uint) (*types.Cell5G, error)
	// SaveProfile inserts or updates one of the Cell2G..Cell5G rows.
	SaveProfile(dbc dbctx.Context, profile any) error
}

type cellRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCellRepo(db *gorm.DB, baseLog *logger.Logger) CellRepo {
	return &cellRepo{db: db, log: baseLog.With("repo", "CellRepo")}
}

func (r *cellRepo) GetByName(dbc dbctx.Context, name string) (*types.Cell, error) {
	return findOne[types.Cell](txOr(dbc, r.db).Where("cellname = ?", name))
}

func (r *cellRepo) GetWithProfiles(dbc dbctx.Context, name string) (*types.Cell, error) {
	return findOne[types.Cell](txOr(dbc, r.db).
		Preload("Profile2G").
		Preload("Profile3G").
		Preload("Profile4G").
		Preload("Profile5G").
		Where("cellname = ?", name))
}

func (r *cellRepo) Upsert(dbc dbctx.Context, cell *types.Cell, exists bool) error {
	return upsertRow(txOr(dbc, r.db), cell, exists)
}

func (r *cellRepo) ClearProfilesExcept(dbc dbctx.Context, cellID uint, keep types.Technology) error {
	transaction := txOr(dbc, r.db)
	profiles := map[types.Technology]any{
		network.Tech2G: &types.Cell2G{},
		network.Tech3G: &types.Cell3G{},
		network.Tech4G: &types.Cell4G{},
		network.Tech5G: &types.Cell5G{},
	}
	for _, tech := range network.Technologies {
		if tech == keep {
			continue
		}
		if err := transaction.Where("cell_id = ?", cellID).Delete(profiles[tech]).Error; err != nil {
			return fmt.Errorf("clear %s profile: %w", tech, err)
		}
	}
	return nil
}

func (r *cellRepo) Profile2G(dbc dbctx.Context, cellID uint) (*types.Cell2G, error) {
	return findOne[types.Cell2G](txOr(dbc, r.db).Where("cell_id = ?", cellID))
}

func (r *cellRepo) Profile3G(dbc dbctx.Context, cellID uint) (*types.Cell3G, error) {
	return findOne[types.Cell3G](txOr(dbc, r.db).Where("cell_id = ?", cellID))
}

func (r *cellRepo) Profile4G(dbc dbctx.Context, cellID uint) (*types.Cell4G, error) {
	return findOne[types.Cell4G](txOr(dbc, r.db).Where("cell_id = ?", cellID))
}

func (r *cellRepo) Profile5G(dbc dbctx.Context, cellID uint) (*types.Cell5G, error) {
	return findOne[types.Cell5G](txOr(dbc, r.db).Where("cell_id = ?", cellID))
}

func (r *cellRepo) SaveProfile(dbc dbctx.Context, profile any) error {
	switch profile.(type) {
	case *types.Cell2G, *types.Cell3G, *types.Cell4G, *types.Cell5G:
	default:
		return fmt.Errorf("unsupported profile type %T", profile)
	}
	return txOr(dbc, r.db).Omit(clause.Associations).Save(profile).Error
}
