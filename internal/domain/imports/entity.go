package imports

import (
	"strings"
)

// Entity names one importable table, or Inventory for a workbook that carries
// one sheet per table.
type Entity string

const (
	EntityRegions   Entity = "regions"
	EntityWilayas   Entity = "wilayas"
	EntityCommunes  Entity = "communes"
	EntitySuppliers Entity = "suppliers"
	EntityAntennas  Entity = "antennas"
	EntitySites     Entity = "sites"
	EntitySectors   Entity = "sectors"
	EntityMapping   Entity = "mapping"
	EntityCells     Entity = "cells"
	EntityInventory Entity = "inventory"
)

// DependencyOrder is the order in which tables must be loaded so every
// dependency check sees already committed parents.
var DependencyOrder = []Entity{
	EntityRegions,
	EntityWilayas,
	EntityCommunes,
	EntitySuppliers,
	EntityAntennas,
	EntitySites,
	EntitySectors,
	EntityMapping,
	EntityCells,
}

var entityAliases = map[string]Entity{
	"cellules_reseau": EntityCells,
	"cellules_réseau": EntityCells,
	"cellules":        EntityCells,
	"cell":            EntityCells,
	"vendors":         EntitySuppliers,
	"vendor":          EntitySuppliers,
	"supplier":        EntitySuppliers,
	"region":          EntityRegions,
	"wilaya":          EntityWilayas,
	"commune":         EntityCommunes,
	"antenna":         EntityAntennas,
	"site":            EntitySites,
	"sector":          EntitySectors,
	"mappings":        EntityMapping,
}

// ParseEntity accepts canonical names and the legacy UI spellings.
func ParseEntity(raw string) (Entity, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if e, ok := entityAliases[key]; ok {
		return e, true
	}
	e := Entity(key)
	if e == EntityInventory {
		return e, true
	}
	for _, known := range DependencyOrder {
		if e == known {
			return e, true
		}
	}
	return "", false
}

func (e Entity) String() string { return string(e) }
