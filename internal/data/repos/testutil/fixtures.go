package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	types "github.com/yungbote/netinv-backend/internal/domain"
)

func SeedRegion(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Region {
	tb.Helper()
	r := &types.Region{Name: name}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed region: %v", err)
	}
	return r
}

func SeedWilaya(tb testing.TB, ctx context.Context, tx *gorm.DB, code uint, name string, regionID uint) *types.Wilaya {
	tb.Helper()
	w := &types.Wilaya{ID: code, Name: name, RegionID: regionID}
	if err := tx.WithContext(ctx).Create(w).Error; err != nil {
		tb.Fatalf("seed wilaya: %v", err)
	}
	return w
}

func SeedCommune(tb testing.TB, ctx context.Context, tx *gorm.DB, id uint, name string, wilayaID uint) *types.Commune {
	tb.Helper()
	c := &types.Commune{ID: id, Name: name, WilayaID: wilayaID}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed commune: %v", err)
	}
	return c
}

func SeedSite(tb testing.TB, ctx context.Context, tx *gorm.DB, code string, communeID uint) *types.Site {
	tb.Helper()
	s := &types.Site{
		Code:      code,
		Name:      code,
		Latitude:  36.75,
		Longitude: 3.05,
		Status:    types.DefaultSiteStatus,
		CommuneID: communeID,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed site: %v", err)
	}
	return s
}

func SeedSector(tb testing.TB, ctx context.Context, tx *gorm.DB, code string, siteID uint, azimuth int) *types.Sector {
	tb.Helper()
	s := &types.Sector{Code: code, Azimuth: azimuth, HBA: 30, SiteID: siteID}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed sector: %v", err)
	}
	return s
}

func SeedMapping(tb testing.TB, ctx context.Context, tx *gorm.DB, mapID, cellCode, technology, band, sectorCode string) *types.Mapping {
	tb.Helper()
	m := &types.Mapping{
		MapID:       mapID,
		CellCode:    cellCode,
		AntennaTech: "X",
		Band:        band,
		SectorCode:  sectorCode,
		Technology:  technology,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed mapping: %v", err)
	}
	return m
}

func SeedAntenna(tb testing.TB, ctx context.Context, tx *gorm.DB, model string, frequency float64) *types.Antenna {
	tb.Helper()
	a := &types.Antenna{
		Supplier:   "Kathrein",
		Model:      model,
		Frequency:  frequency,
		HBeamwidth: 65,
		VBeamwidth: 7,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed antenna: %v", err)
	}
	return a
}

// SeedGeography creates one region, wilaya 16 and commune 1601.
func SeedGeography(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.Commune {
	tb.Helper()
	r := SeedRegion(tb, ctx, tx, "Centre")
	w := SeedWilaya(tb, ctx, tx, 16, "Alger", r.ID)
	return SeedCommune(tb, ctx, tx, 1601, "Alger Centre", w.ID)
}
