package resolver

import (
	"context"
	"testing"

	"github.com/yungbote/netinv-backend/internal/data/repos"
	"github.com/yungbote/netinv-backend/internal/data/repos/testutil"
	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
)

func TestSplitCellName(t *testing.T) {
	cases := []struct {
		name     string
		strict   bool
		site     string
		cellCode string
		ok       bool
	}{
		{"4C28X100_1", false, "C28X100", "1", true},
		{"16A001_B_3", false, "A001_B", "3", true},
		{"xo12_2", false, "o12", "2", true},
		{"123456_2", false, "123456", "2", true},
		{"123456_2", true, "", "", false},
		{"NOUNDERSCORE", false, "", "", false},
		{"C100_", false, "", "", false},
	}
	for _, tc := range cases {
		site, code, ok := SplitCellName(tc.name, tc.strict)
		if site != tc.site || code != tc.cellCode || ok != tc.ok {
			t.Fatalf("SplitCellName(%q, %v): want=(%q,%q,%v) got=(%q,%q,%v)",
				tc.name, tc.strict, tc.site, tc.cellCode, tc.ok, site, code, ok)
		}
	}
}

func TestResolve(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	commune := testutil.SeedGeography(t, ctx, tx)
	site := testutil.SeedSite(t, ctx, tx, "C28X100", commune.ID)
	sector := testutil.SeedSector(t, ctx, tx, "C28X100_1", site.ID, 0)
	testutil.SeedMapping(t, ctx, tx, "M-1", "1", "4G", "1800", "1")

	r := New(log, repos.NewMappingRepo(db, log), repos.NewSectorRepo(db, log), Options{})
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	res := r.Resolve(dbc, "4C28X100_1", "4G", "1800")
	id, code := res.Pair()
	if !res.Resolved() || id == nil || *id != sector.ID || code == nil || *code != "C28X100_1" {
		t.Fatalf("Resolve(hit): want=(%d,C28X100_1) got=%+v", sector.ID, res)
	}

	miss := r.Resolve(dbc, "4C28X100_1", "4G", "2100")
	if id, code := miss.Pair(); id != nil || code != nil || miss.Resolved() {
		t.Fatalf("Resolve(no mapping): want=(nil,nil) got=%+v", miss)
	}

	testutil.SeedMapping(t, ctx, tx, "M-2", "2", "4G", "1800", "2")
	noSector := r.Resolve(dbc, "4C28X100_2", "4G", "1800")
	if noSector.Resolved() || noSector.SectorCode != "C28X100_2" {
		t.Fatalf("Resolve(no sector): want unresolved with candidate code got=%+v", noSector)
	}
	if id, code := noSector.Pair(); id != nil || code != nil {
		t.Fatalf("Resolve(no sector).Pair: want=(nil,nil) got=(%v,%v)", id, code)
	}

	if res := r.Resolve(dbc, "C28X100", "4G", "1800"); res.Resolved() {
		t.Fatalf("Resolve(no underscore): want unresolved got=%+v", res)
	}
	if res := r.Resolve(dbc, "4C28X100_1", "", "1800"); res.Resolved() {
		t.Fatalf("Resolve(no tech): want unresolved got=%+v", res)
	}
}
