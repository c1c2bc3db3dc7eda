package upsert

import (
	"github.com/yungbote/netinv-backend/internal/data/repos"
	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/domain/network"
	"github.com/yungbote/netinv-backend/internal/importer/failures"
	"github.com/yungbote/netinv-backend/internal/importer/resolver"
	"github.com/yungbote/netinv-backend/internal/importer/tabular"
)

type cellRule struct {
	repos    repos.Network
	resolver *resolver.Resolver
}

func (cellRule) Entity() imports.Entity { return imports.EntityCells }

// RequiredColumns only lists CELLNAME: technology may come from the sheet
// name or from the stored cell.
func (cellRule) RequiredColumns() []string         { return []string{tabular.ColCellName} }
func (cellRule) NaturalKey(row tabular.Row) string { return row.Text(tabular.ColCellName) }

func (r *cellRule) Upsert(rc *RowContext) (Outcome, error) {
	row := rc.Row
	name := row.Text(tabular.ColCellName)

	cell, err := r.repos.Cells.GetByName(rc.Context, name)
	if err != nil {
		return 0, err
	}
	exists := cell != nil
	if !exists {
		cell = &types.Cell{Name: name}
	}

	rawTech := row.Text(tabular.ColTechnology)
	if rawTech == "" {
		rawTech = cell.Technology
	}
	if rawTech == "" {
		return 0, rowErr(failures.MissingRequiredField, tabular.ColTechnology)
	}
	tech, ok := network.ParseTechnology(rawTech)
	if !ok {
		return 0, invalid("technology %q (want 2G, 3G, 4G or 5G)", rawTech)
	}
	cell.Technology = string(tech)

	if v := row.OptString(tabular.ColFrequency); v != nil {
		cell.Frequency = v
	}
	if v := row.OptString(tabular.ColAntennaTech); v != nil {
		cell.AntennaTech = v
	}
	if v := row.OptFloat(tabular.ColMechanicalTilt); v != nil {
		cell.TiltMechanical = v
	}
	if v := row.OptFloat(tabular.ColElectricalTilt); v != nil {
		cell.TiltElectrical = v
	}

	if model := row.Text(tabular.ColAntenna); model != "" {
		antenna, err := r.repos.Antennas.GetByModel(rc.Context, model)
		if err != nil {
			return 0, err
		}
		if antenna != nil {
			cell.AntennaID = &antenna.ID
		} else {
			rc.Warn(failures.DependencyNotFound, "antenna %q", model)
		}
	}

	if cell.SectorID == nil && cell.Frequency != nil && r.resolver != nil {
		res := r.resolver.Resolve(rc.Context, name, cell.Technology, *cell.Frequency)
		if id, _ := res.Pair(); id != nil {
			cell.SectorID = id
		} else {
			rc.Warn(failures.SectorResolutionFailed, "%s", res.Reason)
		}
	}

	if err := r.repos.Cells.Upsert(rc.Context, cell, exists); err != nil {
		return 0, err
	}
	if err := r.repos.Cells.ClearProfilesExcept(rc.Context, cell.ID, tech); err != nil {
		return 0, err
	}
	if err := r.saveProfile(rc, cell.ID, tech); err != nil {
		return 0, err
	}
	return outcomeOf(exists), nil
}

// saveProfile creates or reuses the single profile row of the cell's
// technology and overwrites the fields the row carries.
func (r *cellRule) saveProfile(rc *RowContext, cellID uint, tech network.Technology) error {
	row := rc.Row
	cells := r.repos.Cells
	setStr := func(dst **string, col string) {
		if v := row.OptString(col); v != nil {
			*dst = v
		}
	}
	setInt := func(dst **int, col string) {
		if v := row.OptInt(col); v != nil {
			*dst = v
		}
	}

	switch tech {
	case network.Tech2G:
		p, err := cells.Profile2G(rc.Context, cellID)
		if err != nil {
			return err
		}
		if p == nil {
			p = &types.Cell2G{CellID: cellID}
		}
		setStr(&p.BSC, tabular.ColBSC)
		setStr(&p.LAC, tabular.ColLAC)
		setStr(&p.RAC, tabular.ColRAC)
		setInt(&p.BCCH, tabular.ColBCCH)
		setStr(&p.BSIC, tabular.ColBSIC)
		setInt(&p.CI, tabular.ColCI)
		return cells.SaveProfile(rc.Context, p)
	case network.Tech3G:
		p, err := cells.Profile3G(rc.Context, cellID)
		if err != nil {
			return err
		}
		if p == nil {
			p = &types.Cell3G{CellID: cellID}
		}
		setStr(&p.RNC, tabular.ColRNC)
		setStr(&p.LAC, tabular.ColLAC)
		setStr(&p.RAC, tabular.ColRAC)
		setInt(&p.PSC, tabular.ColPSC)
		setStr(&p.DLARFCN, tabular.ColDLARFCN)
		setInt(&p.CI, tabular.ColCI)
		return cells.SaveProfile(rc.Context, p)
	case network.Tech4G:
		p, err := cells.Profile4G(rc.Context, cellID)
		if err != nil {
			return err
		}
		if p == nil {
			p = &types.Cell4G{CellID: cellID}
		}
		setStr(&p.ENodeB, tabular.ColENodeB)
		setStr(&p.TAC, tabular.ColTAC)
		setStr(&p.RSI, tabular.ColRSI)
		setInt(&p.PCI, tabular.ColPCI)
		setStr(&p.EARFCN, tabular.ColEARFCN)
		setInt(&p.CI, tabular.ColCI)
		return cells.SaveProfile(rc.Context, p)
	case network.Tech5G:
		p, err := cells.Profile5G(rc.Context, cellID)
		if err != nil {
			return err
		}
		if p == nil {
			p = &types.Cell5G{CellID: cellID}
		}
		setStr(&p.GNodeB, tabular.ColGNodeB)
		setStr(&p.LAC, tabular.ColLAC)
		setStr(&p.RSI, tabular.ColRSI)
		setInt(&p.PCI, tabular.ColPCI)
		setStr(&p.ARFCN, tabular.ColARFCN)
		setInt(&p.CI, tabular.ColCI)
		return cells.SaveProfile(rc.Context, p)
	}
	return invalid("technology %q", tech)
}
