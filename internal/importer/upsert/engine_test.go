package upsert

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/netinv-backend/internal/data/repos"
	"github.com/yungbote/netinv-backend/internal/data/repos/testutil"
	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/importer/failures"
	"github.com/yungbote/netinv-backend/internal/importer/resolver"
	"github.com/yungbote/netinv-backend/internal/importer/tabular"
	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/netinv-backend/internal/pkg/errors"
)

type fixedElevation struct {
	alt   float64
	calls int
}

func (f *fixedElevation) Lookup(context.Context, float64, float64) (float64, error) {
	f.calls++
	return f.alt, nil
}

func newTestEngine(t *testing.T, db *gorm.DB, batch int, elev ElevationLookup) (*Engine, repos.Network) {
	t.Helper()
	log := testutil.Logger(t)
	net := repos.NewNetwork(db, log)
	res := resolver.New(log, net.Mappings, net.Sectors, resolver.Options{})
	deps := Deps{Log: log, Repos: net, Resolver: res}
	if elev != nil {
		deps.Elevation = elev
	}
	return NewEngine(db, log, Config{BatchSize: batch}, DefaultRules(deps)...), net
}

func sheet(name string, header []string, rows ...[]string) tabular.Sheet {
	return tabular.Sheet{Name: name, Cells: append([][]string{header}, rows...)}
}

func frameOf(entity imports.Entity, sheets ...tabular.Sheet) []*tabular.Frame {
	return []*tabular.Frame{tabular.BuildFrame(entity, sheets)}
}

func seedSiteDeps(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()
	testutil.SeedGeography(t, ctx, db)
	if err := db.Create(&types.Supplier{Name: "Huawei"}).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
}

var siteHeader = []string{"site_code", "site_name", "commune_id", "supplier_name", "laltitude", "longitude", "altitude"}

func TestEngineSitesReimportIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	seedSiteDeps(t, db)
	elev := &fixedElevation{alt: 120}
	engine, net := newTestEngine(t, db, 2, elev)
	ctx := context.Background()

	frames := frameOf(imports.EntitySites, sheet("Sites", siteHeader,
		[]string{"C28X100", "Bab Ezzouar", "1601", "Huawei", "36.72", "3.18", "15"},
		[]string{"C28X101", "El Harrach", "1601", "Huawei", "36.71", "3.13", ""},
		[]string{"C28X102", "Hydra", "1601.0", "Huawei", "36.74", "3.03", "210"},
	))

	first, err := engine.Run(ctx, frames, failures.NewCollector(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Added)
	assert.Equal(t, 0, first.Updated)
	assert.Equal(t, 3, first.Processed)

	second, err := engine.Run(ctx, frames, failures.NewCollector(), nil)
	require.NoError(t, err)
	if second.Added != 0 || second.Updated != 3 {
		t.Fatalf("reimport: want added=0 updated=3 got added=%d updated=%d", second.Added, second.Updated)
	}

	var count int64
	require.NoError(t, db.Model(&types.Site{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	site, err := net.Sites.GetByCode(dbctx.Context{Ctx: ctx}, "C28X101")
	require.NoError(t, err)
	require.NotNil(t, site)
	assert.Equal(t, types.DefaultSiteStatus, site.Status)
	require.NotNil(t, site.Altitude)
	assert.Equal(t, 120.0, *site.Altitude)
	assert.Equal(t, 2, elev.calls, "only the blank-altitude row looks up elevation, once per run")
}

func TestEngineRejectedRowsAreNotCommitted(t *testing.T) {
	db := testutil.DB(t)
	seedSiteDeps(t, db)
	engine, net := newTestEngine(t, db, 200, nil)
	ctx := context.Background()
	collector := failures.NewCollector()

	frames := frameOf(imports.EntitySites, sheet("Sites", siteHeader,
		[]string{"S1", "", "1601", "Huawei", "36.7", "3.1", ""},
		[]string{"S2", "ok", "9999", "Huawei", "36.7", "3.1", ""},
		[]string{"S3", "ok", "1601", "Huawei", "36.7", "3.1", ""},
		[]string{"S3", "dup", "1601", "Huawei", "36.7", "3.1", ""},
		[]string{"S4", "ok", "1601", "Nokia", "36.7", "3.1", ""},
		[]string{"S5", "ok", "1601", "Huawei", "north", "3.1", ""},
		[]string{"S6", "ok", "1601", "Huawei", "95", "3.1", ""},
	))

	res, err := engine.Run(ctx, frames, collector, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, res.Processed)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 6, res.Failed)

	recs := collector.Records()
	require.Len(t, recs, 6)
	want := []struct {
		row   int
		cause failures.Cause
	}{
		{2, failures.MissingRequiredField},
		{3, failures.DependencyNotFound},
		{5, failures.DuplicateNaturalKey},
		{6, failures.DependencyNotFound},
		{7, failures.MissingRequiredField},
		{8, failures.InvalidValue},
	}
	for i, w := range want {
		if recs[i].Row != w.row || recs[i].Cause != w.cause || !recs[i].Blocking {
			t.Fatalf("record %d: want row=%d cause=%s blocking got=%+v", i, w.row, w.cause, recs[i])
		}
	}

	assert.Contains(t, recs[4].Detail, `"north" is not a number`)

	for _, code := range []string{"S1", "S2", "S4", "S5", "S6"} {
		s, err := net.Sites.GetByCode(dbctx.Context{Ctx: ctx}, code)
		require.NoError(t, err)
		assert.Nil(t, s, code)
	}
	s3, _ := net.Sites.GetByCode(dbctx.Context{Ctx: ctx}, "S3")
	require.NotNil(t, s3)
	assert.Equal(t, "ok", s3.Name, "first occurrence wins")
}

func TestEngineMissingHeaderFailsBeforeWriting(t *testing.T) {
	db := testutil.DB(t)
	engine, _ := newTestEngine(t, db, 200, nil)

	frames := frameOf(imports.EntitySectors, sheet("Sheet1",
		[]string{"sectors", "site", "Azimuth"},
		[]string{"C1_1", "C1", "120"},
	))
	_, err := engine.Run(context.Background(), frames, failures.NewCollector(), nil)
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("Run: want ErrInvalidArgument got=%v", err)
	}
	assert.Contains(t, err.Error(), "HBA")
}

type panickyRegionRule struct{ regionRule }

func (r *panickyRegionRule) Upsert(rc *RowContext) (Outcome, error) {
	out, err := r.regionRule.Upsert(rc)
	if err != nil {
		return 0, err
	}
	if rc.Row.Text(tabular.ColName) == "boom" {
		panic("exploded after write")
	}
	return out, nil
}

func TestEngineFailingRowDoesNotRollBackBatch(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	net := repos.NewNetwork(db, log)
	engine := NewEngine(db, log, Config{BatchSize: 3}, &panickyRegionRule{regionRule{repos: net}})
	collector := failures.NewCollector()

	frames := frameOf(imports.EntityRegions, sheet("Sheet1", []string{"name"},
		[]string{"Centre"}, []string{"boom"}, []string{"Est"}, []string{"Ouest"},
	))
	res, err := engine.Run(context.Background(), frames, collector, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Added)
	assert.Equal(t, 1, res.Failed)

	var names []string
	require.NoError(t, db.Model(&types.Region{}).Order("name").Pluck("name", &names).Error)
	assert.Equal(t, []string{"Centre", "Est", "Ouest"}, names)

	recs := collector.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, failures.RowException, recs[0].Cause)
	assert.Equal(t, 3, recs[0].Row)
}

func TestEngineCellKeepsSingleProfile(t *testing.T) {
	db := testutil.DB(t)
	engine, net := newTestEngine(t, db, 200, nil)
	ctx := context.Background()

	first := frameOf(imports.EntityCells, sheet("2G", []string{"cell", "BCCH", "BSIC"},
		[]string{"ALG001_1", "62", "17"},
	))
	_, err := engine.Run(ctx, first, failures.NewCollector(), nil)
	require.NoError(t, err)

	cell, err := net.Cells.GetWithProfiles(dbctx.Context{Ctx: ctx}, "ALG001_1")
	require.NoError(t, err)
	require.NotNil(t, cell.Profile2G)
	assert.Equal(t, "2G", cell.Technology)
	assert.Equal(t, 62, *cell.Profile2G.BCCH)

	second := frameOf(imports.EntityCells, sheet("LTE 4G", []string{"cell_name", "PCI", "CI"},
		[]string{"ALG001_1", "301", "4411.0"},
	))
	res, err := engine.Run(ctx, second, failures.NewCollector(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	cell, err = net.Cells.GetWithProfiles(dbctx.Context{Ctx: ctx}, "ALG001_1")
	require.NoError(t, err)
	assert.Equal(t, "4G", cell.Technology)
	assert.Nil(t, cell.Profile2G)
	assert.Nil(t, cell.Profile3G)
	assert.Nil(t, cell.Profile5G)
	require.NotNil(t, cell.Profile4G)
	assert.Equal(t, 301, *cell.Profile4G.PCI)
	assert.Equal(t, 4411, *cell.Profile4G.CI)

	var n int64
	require.NoError(t, db.Model(&types.Cell2G{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestEngineCellResolvesSectorAndWarns(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	commune := testutil.SeedGeography(t, ctx, db)
	site := testutil.SeedSite(t, ctx, db, "C28X100", commune.ID)
	sector := testutil.SeedSector(t, ctx, db, "C28X100_1", site.ID, 0)
	testutil.SeedMapping(t, ctx, db, "M1", "1", "4G", "1800", "1")
	testutil.SeedAntenna(t, ctx, db, "AQU4518R11", 1800)

	engine, net := newTestEngine(t, db, 200, nil)
	collector := failures.NewCollector()
	frames := frameOf(imports.EntityCells, sheet("Cells", []string{"cell", "tech", "band", "antenna"},
		[]string{"4C28X100_1", "LTE", "1800", "AQU4518R11"},
		[]string{"4C28X100_9", "4G", "1800", "NOPE"},
		[]string{"4C28X100_8", "6G", "1800", ""},
		[]string{"4C28X100_7", "", "1800", ""},
	))
	res, err := engine.Run(ctx, frames, collector, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Added)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, 2, res.Warnings)

	resolved, err := net.Cells.GetByName(dbctx.Context{Ctx: ctx}, "4C28X100_1")
	require.NoError(t, err)
	require.NotNil(t, resolved.SectorID)
	assert.Equal(t, sector.ID, *resolved.SectorID)
	require.NotNil(t, resolved.AntennaID)

	unresolved, err := net.Cells.GetByName(dbctx.Context{Ctx: ctx}, "4C28X100_9")
	require.NoError(t, err)
	require.NotNil(t, unresolved, "sector miss must not block the row")
	assert.Nil(t, unresolved.SectorID)

	causes := map[string]failures.Cause{}
	blocking := map[string]bool{}
	for _, r := range collector.Records() {
		causes[r.Key+"/"+string(r.Cause)] = r.Cause
		blocking[r.Key+"/"+string(r.Cause)] = r.Blocking
	}
	assert.Contains(t, causes, "4C28X100_9/"+string(failures.SectorResolutionFailed))
	assert.Contains(t, causes, "4C28X100_9/"+string(failures.DependencyNotFound))
	assert.False(t, blocking["4C28X100_9/"+string(failures.SectorResolutionFailed)])
	assert.True(t, blocking["4C28X100_8/"+string(failures.InvalidValue)])
	assert.True(t, blocking["4C28X100_7/"+string(failures.MissingRequiredField)])
}

func TestEngineProgressIsMonotonic(t *testing.T) {
	db := testutil.DB(t)
	engine, _ := newTestEngine(t, db, 2, nil)

	rows := [][]string{}
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		rows = append(rows, []string{n})
	}
	frames := frameOf(imports.EntitySuppliers, sheet("Sheet1", []string{"supplier"}, rows...))

	var seen []int
	_, err := engine.Run(context.Background(), frames, failures.NewCollector(), func(processed, total int) {
		if total != 5 {
			t.Fatalf("progress: want total=5 got=%d", total)
		}
		seen = append(seen, processed)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, seen)
}

func TestInventoryPlanLoadsInDependencyOrder(t *testing.T) {
	db := testutil.DB(t)
	engine, net := newTestEngine(t, db, 200, nil)
	ctx := context.Background()

	sheets := []tabular.Sheet{
		sheet("Sites", siteHeader, []string{"C1", "Site 1", "1601", "Huawei", "36.7", "3.1", "10"}),
		sheet("Communes", []string{"commune_id", "commune_name", "wilaya_name"}, []string{"1601", "Alger Centre", "Alger"}),
		sheet("Vendors", []string{"supplier_name"}, []string{"Huawei"}),
		sheet("Wilayas", []string{"wilaya_code", "wilaya_name", "region_name"}, []string{"16", "Alger", "Centre"}),
		sheet("Regions", []string{"name"}, []string{"Centre"}),
		sheet("README", []string{"text"}, []string{"hello"}),
	}
	plan, err := BuildPlan(imports.EntityInventory, sheets)
	require.NoError(t, err)
	assert.Equal(t, []string{"README"}, plan.Skipped)

	var order []imports.Entity
	for _, f := range plan.Frames {
		order = append(order, f.Entity)
	}
	assert.Equal(t, []imports.Entity{
		imports.EntityRegions, imports.EntityWilayas, imports.EntityCommunes, imports.EntitySuppliers, imports.EntitySites,
	}, order)

	collector := failures.NewCollector()
	res, err := engine.Run(ctx, plan.Frames, collector, nil)
	require.NoError(t, err)
	assert.Zero(t, collector.Len(), "records: %v", collector.Records())
	assert.Equal(t, 5, res.Added)
	assert.Equal(t, 1, res.ByEntity[imports.EntitySites].Added)

	w, err := net.Wilayas.GetByCodeOrName(dbctx.Context{Ctx: ctx}, 16, "")
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, "Alger", w.Name)
}

func TestEngineUnparsableNumbersAreMissing(t *testing.T) {
	db := testutil.DB(t)
	engine, _ := newTestEngine(t, db, 200, nil)
	collector := failures.NewCollector()

	frames := frameOf(imports.EntitySectors, sheet("Sheet1",
		[]string{"sectors", "site", "Azimuth", "HBA"},
		[]string{"C1_1", "C1", "x", "30"},
		[]string{"C1_2", "C1", "400", "30"},
	))
	res, err := engine.Run(context.Background(), frames, collector, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Failed)

	recs := collector.Records()
	require.Len(t, recs, 2)
	if recs[0].Cause != failures.MissingRequiredField {
		t.Fatalf("azimuth x: want=%s got=%s", failures.MissingRequiredField, recs[0].Cause)
	}
	if recs[1].Cause != failures.InvalidValue {
		t.Fatalf("azimuth 400: want=%s got=%s", failures.InvalidValue, recs[1].Cause)
	}
}

func TestEngineCancelledBatchIsNotCounted(t *testing.T) {
	db := testutil.DB(t)
	engine, _ := newTestEngine(t, db, 2, nil)
	observed := 0
	engine.SetObserver(func(imports.Entity, string) { observed++ })
	collector := failures.NewCollector()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	frames := frameOf(imports.EntityRegions, sheet("Sheet1", []string{"name"},
		[]string{"Centre"}, []string{"Est"}, []string{"Ouest"}, []string{"Sud"},
	))
	res, err := engine.Run(ctx, frames, collector, func(processed, _ int) {
		if processed == 3 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run: want context.Canceled got=%v", err)
	}

	var committed int64
	require.NoError(t, db.Model(&types.Region{}).Count(&committed).Error)
	assert.Equal(t, int64(2), committed)
	if res.Added != int(committed) || res.Processed != 2 {
		t.Fatalf("counts: want added=%d processed=2 got added=%d processed=%d", committed, res.Added, res.Processed)
	}
	assert.Equal(t, 2, res.ByEntity[imports.EntityRegions].Added)
	assert.Equal(t, 2, observed)
	assert.Zero(t, collector.Len())
}

func TestEngineCancelledFirstBatchReportsNothing(t *testing.T) {
	db := testutil.DB(t)
	engine, _ := newTestEngine(t, db, 100, nil)
	collector := failures.NewCollector()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	frames := frameOf(imports.EntityRegions, sheet("Sheet1", []string{"name"},
		[]string{"Centre"}, []string{"Est"}, []string{"null"}, []string{"Sud"},
	))
	res, err := engine.Run(ctx, frames, collector, func(processed, _ int) {
		if processed == 3 {
			cancel()
		}
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Added)
	assert.Zero(t, res.Failed)
	assert.Zero(t, collector.Len(), "rejections from the discarded batch are dropped")

	var committed int64
	require.NoError(t, db.Model(&types.Region{}).Count(&committed).Error)
	assert.Zero(t, committed)
}
