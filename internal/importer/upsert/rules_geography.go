package upsert

import (
	"strings"

	"github.com/yungbote/netinv-backend/internal/data/repos"
	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/importer/tabular"
)

type regionRule struct{ repos repos.Network }

func (regionRule) Entity() imports.Entity    { return imports.EntityRegions }
func (regionRule) RequiredColumns() []string { return []string{tabular.ColName} }
func (regionRule) NaturalKey(row tabular.Row) string {
	return strings.ToLower(row.Text(tabular.ColName))
}

func (r *regionRule) Upsert(rc *RowContext) (Outcome, error) {
	name := rc.Row.Text(tabular.ColName)
	region, err := r.repos.Regions.GetByName(rc.Context, name)
	if err != nil {
		return 0, err
	}
	exists := region != nil
	if !exists {
		region = &types.Region{}
	}
	region.Name = name
	if err := r.repos.Regions.Upsert(rc.Context, region, exists); err != nil {
		return 0, err
	}
	return outcomeOf(exists), nil
}

type wilayaRule struct{ repos repos.Network }

func (wilayaRule) Entity() imports.Entity { return imports.EntityWilayas }
func (wilayaRule) RequiredColumns() []string {
	return []string{tabular.ColWilayaCode, tabular.ColWilayaName, tabular.ColRegionName}
}
func (wilayaRule) NaturalKey(row tabular.Row) string { return row.Text(tabular.ColWilayaCode) }
func (wilayaRule) NumericColumns() []string          { return []string{tabular.ColWilayaCode} }

func (r *wilayaRule) Upsert(rc *RowContext) (Outcome, error) {
	code := rc.Row.OptInt(tabular.ColWilayaCode)
	if code == nil || *code <= 0 {
		return 0, invalid("wilaya code %q is not a positive integer", rc.Row.Text(tabular.ColWilayaCode))
	}
	name := rc.Row.Text(tabular.ColWilayaName)
	regionName := rc.Row.Text(tabular.ColRegionName)

	region, err := r.repos.Regions.GetByName(rc.Context, regionName)
	if err != nil {
		return 0, err
	}
	if region == nil {
		return 0, notFound("region %q", regionName)
	}

	wilaya, err := r.repos.Wilayas.GetByCodeOrName(rc.Context, uint(*code), name)
	if err != nil {
		return 0, err
	}
	exists := wilaya != nil
	if !exists {
		wilaya = &types.Wilaya{ID: uint(*code)}
	}
	wilaya.Name = name
	wilaya.RegionID = region.ID
	if err := r.repos.Wilayas.Upsert(rc.Context, wilaya, exists); err != nil {
		return 0, err
	}
	return outcomeOf(exists), nil
}

type communeRule struct{ repos repos.Network }

func (communeRule) Entity() imports.Entity { return imports.EntityCommunes }
func (communeRule) RequiredColumns() []string {
	return []string{tabular.ColCommuneID, tabular.ColCommuneName, tabular.ColWilayaName}
}
func (communeRule) NaturalKey(row tabular.Row) string { return row.Text(tabular.ColCommuneID) }
func (communeRule) NumericColumns() []string          { return []string{tabular.ColCommuneID} }

func (r *communeRule) Upsert(rc *RowContext) (Outcome, error) {
	id := rc.Row.OptInt(tabular.ColCommuneID)
	if id == nil || *id <= 0 {
		return 0, invalid("commune id %q is not a positive integer", rc.Row.Text(tabular.ColCommuneID))
	}
	wilayaRef := rc.Row.Text(tabular.ColWilayaName)

	// The wilaya column usually carries the name; some exports put the code.
	var wilayaCode uint
	if c := rc.Row.OptInt(tabular.ColWilayaName); c != nil && *c > 0 {
		wilayaCode = uint(*c)
	}
	wilaya, err := r.repos.Wilayas.GetByCodeOrName(rc.Context, wilayaCode, wilayaRef)
	if err != nil {
		return 0, err
	}
	if wilaya == nil {
		return 0, notFound("wilaya %q", wilayaRef)
	}

	commune, err := r.repos.Communes.GetByID(rc.Context, uint(*id))
	if err != nil {
		return 0, err
	}
	exists := commune != nil
	if !exists {
		commune = &types.Commune{ID: uint(*id)}
	}
	commune.Name = rc.Row.Text(tabular.ColCommuneName)
	commune.WilayaID = wilaya.ID
	if err := r.repos.Communes.Upsert(rc.Context, commune, exists); err != nil {
		return 0, err
	}
	return outcomeOf(exists), nil
}
