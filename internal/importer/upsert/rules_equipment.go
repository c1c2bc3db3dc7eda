package upsert

import (
	"strings"

	"github.com/yungbote/netinv-backend/internal/data/repos"
	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/importer/tabular"
)

type supplierRule struct{ repos repos.Network }

func (supplierRule) Entity() imports.Entity { return imports.EntitySuppliers }
func (supplierRule) RequiredColumns() []string {
	return []string{tabular.ColSupplierName}
}
func (supplierRule) NaturalKey(row tabular.Row) string {
	return strings.ToLower(row.Text(tabular.ColSupplierName))
}

func (r *supplierRule) Upsert(rc *RowContext) (Outcome, error) {
	name := rc.Row.Text(tabular.ColSupplierName)
	supplier, err := r.repos.Suppliers.GetByName(rc.Context, name)
	if err != nil {
		return 0, err
	}
	exists := supplier != nil
	if !exists {
		supplier = &types.Supplier{}
	}
	supplier.Name = name
	if err := r.repos.Suppliers.Upsert(rc.Context, supplier, exists); err != nil {
		return 0, err
	}
	return outcomeOf(exists), nil
}

type antennaRule struct{ repos repos.Network }

func (antennaRule) Entity() imports.Entity { return imports.EntityAntennas }
func (antennaRule) RequiredColumns() []string {
	return []string{tabular.ColModel, tabular.ColSupplier, tabular.ColFrequency, tabular.ColHBeamwidth, tabular.ColVBeamwidth}
}

func (antennaRule) NumericColumns() []string {
	return []string{tabular.ColFrequency, tabular.ColHBeamwidth, tabular.ColVBeamwidth}
}

// NaturalKey normalises the frequency so "1800" and "1800.0" collide.
func (antennaRule) NaturalKey(row tabular.Row) string {
	freq := row.Text(tabular.ColFrequency)
	if f := row.OptFloat(tabular.ColFrequency); f != nil {
		freq = formatFloat(*f)
	}
	return joinKey(row.Text(tabular.ColModel), freq)
}

func (r *antennaRule) Upsert(rc *RowContext) (Outcome, error) {
	row := rc.Row
	freq := row.OptFloat(tabular.ColFrequency)
	if freq == nil {
		return 0, invalid("frequency %q is not a number", row.Text(tabular.ColFrequency))
	}
	hbw := row.OptFloat(tabular.ColHBeamwidth)
	if hbw == nil {
		return 0, invalid("hbeamwidth %q is not a number", row.Text(tabular.ColHBeamwidth))
	}
	vbw := row.OptFloat(tabular.ColVBeamwidth)
	if vbw == nil {
		return 0, invalid("vbeamwidth %q is not a number", row.Text(tabular.ColVBeamwidth))
	}
	model := row.Text(tabular.ColModel)

	antenna, err := r.repos.Antennas.GetByModelFrequency(rc.Context, model, *freq)
	if err != nil {
		return 0, err
	}
	exists := antenna != nil
	if !exists {
		antenna = &types.Antenna{Model: model, Frequency: *freq}
	}
	antenna.Supplier = row.Text(tabular.ColSupplier)
	antenna.HBeamwidth = *hbw
	antenna.VBeamwidth = *vbw
	if rc.Present(tabular.ColName) {
		antenna.Name = row.OptString(tabular.ColName)
	}
	if rc.Present(tabular.ColType) {
		antenna.Type = row.OptString(tabular.ColType)
	}
	if rc.Present(tabular.ColPort) {
		antenna.Port = row.OptInt(tabular.ColPort)
	}
	if rc.Present(tabular.ColGain) {
		antenna.Gain = row.OptFloat(tabular.ColGain)
	}
	if err := r.repos.Antennas.Upsert(rc.Context, antenna, exists); err != nil {
		return 0, err
	}
	return outcomeOf(exists), nil
}
