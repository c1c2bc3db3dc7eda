package upsert

import (
	"fmt"

	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/importer/tabular"
	apperr "github.com/yungbote/netinv-backend/internal/pkg/errors"
)

// Plan is the ordered list of frames one upload loads.
type Plan struct {
	Frames []*tabular.Frame
	// Skipped names inventory sheets that matched no table.
	Skipped []string
}

func (p Plan) Total() int {
	n := 0
	for _, f := range p.Frames {
		n += f.Len()
	}
	return n
}

// BuildPlan turns raw sheets into frames. A single-entity upload yields one
// frame; an inventory workbook yields one frame per table found, in
// dependency order.
func BuildPlan(entity imports.Entity, sheets []tabular.Sheet) (Plan, error) {
	if len(sheets) == 0 {
		return Plan{}, fmt.Errorf("%w: workbook is empty", apperr.ErrInvalidArgument)
	}
	if entity != imports.EntityInventory {
		return Plan{Frames: []*tabular.Frame{tabular.BuildFrame(entity, sheets)}}, nil
	}

	grouped, skipped := tabular.SplitInventory(sheets)
	plan := Plan{Skipped: skipped}
	for _, e := range imports.DependencyOrder {
		if group, ok := grouped[e]; ok {
			plan.Frames = append(plan.Frames, tabular.BuildFrame(e, group))
		}
	}
	if len(plan.Frames) == 0 {
		return Plan{}, fmt.Errorf("%w: no sheet matches an importable table", apperr.ErrInvalidArgument)
	}
	return plan, nil
}
