package tabular

import (
	"strings"
	"unicode"

	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/domain/network"
)

// HeaderKey lowercases raw, turns every non alphanumeric rune into "_",
// collapses runs of "_" and trims them from both ends.
func HeaderKey(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteByte('_')
		}
	}
	key := b.String()
	for strings.Contains(key, "__") {
		key = strings.ReplaceAll(key, "__", "_")
	}
	return strings.Trim(key, "_")
}

// Normalizer maps spreadsheet headers onto canonical column names.
type Normalizer struct {
	aliases map[string]string
}

// Canonical never fails: headers without an alias are upper-cased as-is.
func (n Normalizer) Canonical(raw string) string {
	if col, ok := n.aliases[HeaderKey(raw)]; ok {
		return col
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

func NormalizerFor(entity imports.Entity) Normalizer {
	return Normalizer{aliases: aliasTables[entity]}
}

var cellAliases = map[string]string{
	"cell":           ColCellName,
	"cell_name":      ColCellName,
	"cellname":       ColCellName,
	"tech":           ColTechnology,
	"technology":     ColTechnology,
	"band":           ColFrequency,
	"frequency":      ColFrequency,
	"antenna_tech":   ColAntennaTech,
	"mechanicaltilt": ColMechanicalTilt,
	"electricaltilt": ColElectricalTilt,
	"antenna":        ColAntenna,
	"bsc":            ColBSC,
	"lac":            ColLAC,
	"rac":            ColRAC,
	"bcch":           ColBCCH,
	"bsic":           ColBSIC,
	"rnc":            ColRNC,
	"psc":            ColPSC,
	"dlarfcn":        ColDLARFCN,
	"enodeb":         ColENodeB,
	"tac":            ColTAC,
	"rsi":            ColRSI,
	"pci":            ColPCI,
	"earfcn":         ColEARFCN,
	"gnodeb":         ColGNodeB,
	"arfcn":          ColARFCN,
	"ci":             ColCI,
}

var aliasTables = map[imports.Entity]map[string]string{
	imports.EntityRegions: {
		"name":        ColName,
		"region":      ColName,
		"region_name": ColName,
	},
	imports.EntityWilayas: {
		"wilaya_name": ColWilayaName,
		"wilaya":      ColWilayaName,
		"name":        ColWilayaName,
		"region_name": ColRegionName,
		"region":      ColRegionName,
		"wilaya_code": ColWilayaCode,
		"code":        ColWilayaCode,
		"wilaya_id":   ColWilayaCode,
	},
	imports.EntityCommunes: {
		"commune_id":   ColCommuneID,
		"id":           ColCommuneID,
		"commune_name": ColCommuneName,
		"commune":      ColCommuneName,
		"name":         ColCommuneName,
		"wilaya_name":  ColWilayaName,
		"wilaya":       ColWilayaName,
	},
	imports.EntitySuppliers: {
		"supplier_name": ColSupplierName,
		"supplier":      ColSupplierName,
		"vendor":        ColSupplierName,
		"name":          ColSupplierName,
	},
	imports.EntityAntennas: {
		"supplier":   ColSupplier,
		"vendor":     ColSupplier,
		"model":      ColModel,
		"frequency":  ColFrequency,
		"hbeamwidth": ColHBeamwidth,
		"vbeamwidth": ColVBeamwidth,
		"name":       ColName,
		"port":       ColPort,
		"type":       ColType,
		"gain":       ColGain,
	},
	imports.EntitySites: {
		"site_code":      ColSiteCode,
		"code_site":      ColSiteCode,
		"site_name":      ColSiteName,
		"name":           ColSiteName,
		"commune_id":     ColCommuneID,
		"supplier_name":  ColSupplierName,
		"supplier":       ColSupplierName,
		"latitude":       ColLatitude,
		"laltitude":      ColLatitude,
		"lat":            ColLatitude,
		"longitude":      ColLongitude,
		"lon":            ColLongitude,
		"lng":            ColLongitude,
		"addresses":      ColAddress,
		"address":        ColAddress,
		"altitude":       ColAltitude,
		"support_nature": ColSupportNature,
		"support_type":   ColSupportType,
		"support_hight":  ColSupportHeight,
		"support_height": ColSupportHeight,
		"comments":       ColComments,
	},
	imports.EntitySectors: {
		"sectors":       ColSectorCode,
		"sector":        ColSectorCode,
		"sector_code":   ColSectorCode,
		"code_sector":   ColSectorCode,
		"site":          ColSiteCode,
		"site_code":     ColSiteCode,
		"code_site":     ColSiteCode,
		"azimuth":       ColAzimuth,
		"hba":           ColHBA,
		"comments":      ColComments,
		"coverage_goal": ColCoverageGoal,
	},
	imports.EntityMapping: {
		"map_id":       ColMapID,
		"cell_code":    ColCellCode,
		"antenna_tech": ColAntennaTech,
		"band":         ColBand,
		"sector_code":  ColSectorCode,
		"technology":   ColTechnology,
		"tech":         ColTechnology,
	},
	imports.EntityCells: cellAliases,
}

// InferTechnology returns the first generation tag contained in the sheet
// name, or "" when there is none.
func InferTechnology(sheetName string) network.Technology {
	txt := strings.ToUpper(strings.TrimSpace(sheetName))
	for _, tech := range network.Technologies {
		if strings.Contains(txt, string(tech)) {
			return tech
		}
	}
	return ""
}

// BuildFrame renames headers to canonical columns and flattens sheets into
// rows. Cells concatenate every non-empty sheet and fill TECHNOLOGY from the
// sheet name where it is missing; every other entity reads the first
// non-empty sheet.
func BuildFrame(entity imports.Entity, sheets []Sheet) *Frame {
	frame := &Frame{Entity: entity}
	norm := NormalizerFor(entity)
	for _, sheet := range sheets {
		if sheet.Empty() {
			continue
		}
		var inferred network.Technology
		if entity == imports.EntityCells {
			inferred = InferTechnology(sheet.Name)
		}
		appendSheet(frame, norm, sheet, inferred)
		if entity != imports.EntityCells {
			break
		}
	}
	if len(frame.Rows) == 0 {
		// Header-only uploads still declare their columns.
		for _, sheet := range sheets {
			if len(sheet.Cells) > 0 {
				for _, raw := range sheet.Cells[0] {
					if strings.TrimSpace(raw) != "" {
						frame.addColumn(norm.Canonical(raw))
					}
				}
				break
			}
		}
	}
	return frame
}

func appendSheet(frame *Frame, norm Normalizer, sheet Sheet, inferred network.Technology) {
	header := make([]string, len(sheet.Cells[0]))
	for i, raw := range sheet.Cells[0] {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		header[i] = norm.Canonical(raw)
		frame.addColumn(header[i])
	}
	if inferred != "" {
		frame.addColumn(ColTechnology)
	}

	for i, line := range sheet.Cells[1:] {
		if blankLine(line) {
			continue
		}
		values := make(map[string]string, len(header))
		for j, col := range header {
			if col == "" || j >= len(line) {
				continue
			}
			// Several headers can share a canonical name (latitude and
			// laltitude); the first non-blank one wins.
			if strings.TrimSpace(values[col]) != "" {
				continue
			}
			values[col] = line[j]
		}
		if inferred != "" && strings.TrimSpace(values[ColTechnology]) == "" {
			values[ColTechnology] = string(inferred)
		}
		frame.Rows = append(frame.Rows, NewRow(sheet.Name, i+2, values))
	}
}

// SheetEntity matches an inventory workbook sheet to the table it loads,
// e.g. "Sites", "cells_4G" or "Cellules réseau".
func SheetEntity(sheetName string) (imports.Entity, bool) {
	key := HeaderKey(sheetName)
	if e, ok := imports.ParseEntity(key); ok && e != imports.EntityInventory {
		return e, true
	}
	for _, token := range strings.Split(key, "_") {
		if e, ok := imports.ParseEntity(token); ok && e != imports.EntityInventory {
			return e, true
		}
	}
	return "", false
}

// SplitInventory groups the sheets of a multi-table workbook by entity, in
// dependency order. Sheets that match no table are returned separately.
func SplitInventory(sheets []Sheet) (map[imports.Entity][]Sheet, []string) {
	grouped := map[imports.Entity][]Sheet{}
	var unmatched []string
	for _, sheet := range sheets {
		e, ok := SheetEntity(sheet.Name)
		if !ok {
			unmatched = append(unmatched, sheet.Name)
			continue
		}
		grouped[e] = append(grouped[e], sheet)
	}
	return grouped, unmatched
}
