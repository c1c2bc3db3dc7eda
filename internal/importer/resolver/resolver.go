package resolver

import (
	"strings"

	"github.com/yungbote/netinv-backend/internal/data/repos"
	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

type Status string

const (
	Resolved   Status = "resolved"
	Unresolved Status = "unresolved"
)

// Resolution is the outcome of assigning a cell to its parent sector.
// SectorCode is set whenever a mapping row matched, even if no sector with
// that code exists.
type Resolution struct {
	Status     Status
	SectorID   uint
	SectorCode string
	Reason     string
}

func (r Resolution) Resolved() bool { return r.Status == Resolved }

// Pair returns (sector id, sector code), both nil unless resolved.
func (r Resolution) Pair() (*uint, *string) {
	if r.Status != Resolved {
		return nil, nil
	}
	id, code := r.SectorID, r.SectorCode
	return &id, &code
}

func unresolved(reason string) Resolution {
	return Resolution{Status: Unresolved, Reason: reason}
}

type Options struct {
	// StrictSiteCode rejects site tokens with no C/A/O letter instead of
	// using them verbatim.
	StrictSiteCode bool
}

type Resolver struct {
	log      *logger.Logger
	mappings repos.MappingRepo
	sectors  repos.SectorRepo
	opts     Options
}

func New(log *logger.Logger, mappings repos.MappingRepo, sectors repos.SectorRepo, opts Options) *Resolver {
	return &Resolver{
		log:      log.With("service", "SectorResolver"),
		mappings: mappings,
		sectors:  sectors,
		opts:     opts,
	}
}

// SplitCellName splits "4C28X100_1" into the site code "C28X100" and the
// cell code "1". ok is false when the name has no "_" or an empty part, or,
// in strict mode, when the site token has no C/A/O letter.
func SplitCellName(cellName string, strict bool) (siteCode, cellCode string, ok bool) {
	i := strings.LastIndex(cellName, "_")
	if i < 0 {
		return "", "", false
	}
	rawSite := strings.TrimSpace(cellName[:i])
	cellCode = strings.TrimSpace(cellName[i+1:])
	if rawSite == "" || cellCode == "" {
		return "", "", false
	}
	if j := strings.IndexAny(rawSite, "CAOcao"); j >= 0 {
		return rawSite[j:], cellCode, true
	}
	if strict {
		return "", "", false
	}
	return rawSite, cellCode, true
}

// Resolve never returns an error: lookup failures come back as Unresolved
// with a reason.
func (r *Resolver) Resolve(dbc dbctx.Context, cellName, technology, band string) Resolution {
	siteCode, cellCode, ok := SplitCellName(strings.TrimSpace(cellName), r.opts.StrictSiteCode)
	if !ok {
		return unresolved("cell name does not follow SITE_CELL")
	}
	technology = strings.TrimSpace(technology)
	band = strings.TrimSpace(band)
	if technology == "" || band == "" {
		return unresolved("technology and band are required")
	}

	mapping, err := r.mappings.Lookup(dbc, cellCode, technology, band)
	if err != nil {
		r.log.Warn("Mapping lookup failed", "cell", cellName, "error", err)
		return unresolved("mapping lookup failed")
	}
	if mapping == nil {
		return unresolved("no mapping for cell code " + cellCode + " " + technology + " " + band)
	}

	sectorCode := siteCode + "_" + mapping.SectorCode
	sector, err := r.sectors.GetByCode(dbc, sectorCode)
	if err != nil {
		r.log.Warn("Sector lookup failed", "cell", cellName, "sector", sectorCode, "error", err)
		return Resolution{Status: Unresolved, SectorCode: sectorCode, Reason: "sector lookup failed"}
	}
	if sector == nil {
		return Resolution{Status: Unresolved, SectorCode: sectorCode, Reason: "sector " + sectorCode + " not found"}
	}
	return Resolution{Status: Resolved, SectorID: sector.ID, SectorCode: sector.Code}
}
