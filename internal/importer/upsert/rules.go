package upsert

import (
	"context"
	"strconv"
	"strings"

	"github.com/yungbote/netinv-backend/internal/data/repos"
	"github.com/yungbote/netinv-backend/internal/importer/resolver"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

// ElevationLookup returns the ground altitude in metres for a coordinate.
type ElevationLookup interface {
	Lookup(ctx context.Context, latitude, longitude float64) (float64, error)
}

type Deps struct {
	Log       *logger.Logger
	Repos     repos.Network
	Resolver  *resolver.Resolver
	Elevation ElevationLookup // optional
}

// DefaultRules returns one rule per importable table.
func DefaultRules(d Deps) []Rule {
	log := d.Log.With("service", "ImportRules")
	return []Rule{
		&regionRule{repos: d.Repos},
		&wilayaRule{repos: d.Repos},
		&communeRule{repos: d.Repos},
		&supplierRule{repos: d.Repos},
		&antennaRule{repos: d.Repos},
		&siteRule{repos: d.Repos, elevation: d.Elevation, log: log},
		&sectorRule{repos: d.Repos},
		&mappingRule{repos: d.Repos},
		&cellRule{repos: d.Repos, resolver: d.Resolver},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinKey(parts ...string) string { return strings.Join(parts, "|") }
