package upsert

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/netinv-backend/internal/data/repos"
	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/domain/network"
	"github.com/yungbote/netinv-backend/internal/importer/tabular"
	"github.com/yungbote/netinv-backend/internal/pkg/ctxutil"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

const elevationBudget = 5 * time.Second

type siteRule struct {
	repos     repos.Network
	elevation ElevationLookup
	log       *logger.Logger
}

func (siteRule) Entity() imports.Entity { return imports.EntitySites }
func (siteRule) RequiredColumns() []string {
	return []string{
		tabular.ColSiteCode,
		tabular.ColSiteName,
		tabular.ColCommuneID,
		tabular.ColSupplierName,
		tabular.ColLatitude,
		tabular.ColLongitude,
	}
}
func (siteRule) NaturalKey(row tabular.Row) string { return row.Text(tabular.ColSiteCode) }
func (siteRule) NumericColumns() []string {
	return []string{tabular.ColCommuneID, tabular.ColLatitude, tabular.ColLongitude}
}

func (r *siteRule) Upsert(rc *RowContext) (Outcome, error) {
	row := rc.Row
	lat := row.OptFloat(tabular.ColLatitude)
	if lat == nil || *lat < -90 || *lat > 90 {
		return 0, invalid("latitude %q", row.Text(tabular.ColLatitude))
	}
	lon := row.OptFloat(tabular.ColLongitude)
	if lon == nil || *lon < -180 || *lon > 180 {
		return 0, invalid("longitude %q", row.Text(tabular.ColLongitude))
	}
	communeID := row.OptInt(tabular.ColCommuneID)
	if communeID == nil || *communeID <= 0 {
		return 0, invalid("commune id %q is not a positive integer", row.Text(tabular.ColCommuneID))
	}

	commune, err := r.repos.Communes.GetByID(rc.Context, uint(*communeID))
	if err != nil {
		return 0, err
	}
	if commune == nil {
		return 0, notFound("commune %d", *communeID)
	}
	supplierName := row.Text(tabular.ColSupplierName)
	supplier, err := r.repos.Suppliers.GetByName(rc.Context, supplierName)
	if err != nil {
		return 0, err
	}
	if supplier == nil {
		return 0, notFound("supplier %q", supplierName)
	}

	code := row.Text(tabular.ColSiteCode)
	site, err := r.repos.Sites.GetByCode(rc.Context, code)
	if err != nil {
		return 0, err
	}
	exists := site != nil
	if !exists {
		site = &types.Site{Code: code, Status: network.DefaultSiteStatus}
	}
	site.Name = row.Text(tabular.ColSiteName)
	site.Latitude = *lat
	site.Longitude = *lon
	site.CommuneID = commune.ID
	site.SupplierID = &supplier.ID

	if rc.Present(tabular.ColAddress) {
		site.Address = row.OptString(tabular.ColAddress)
	}
	if rc.Present(tabular.ColAltitude) {
		site.Altitude = row.OptFloat(tabular.ColAltitude)
	}
	if rc.Present(tabular.ColSupportNature) {
		site.SupportNature = row.OptString(tabular.ColSupportNature)
	}
	if rc.Present(tabular.ColSupportType) {
		site.SupportType = row.OptString(tabular.ColSupportType)
	}
	if rc.Present(tabular.ColSupportHeight) {
		site.SupportHeight = row.OptFloat(tabular.ColSupportHeight)
	}
	if rc.Present(tabular.ColComments) {
		site.Comments = row.OptString(tabular.ColComments)
	}
	if site.Altitude == nil {
		site.Altitude = r.lookupAltitude(rc.Context.Ctx, code, *lat, *lon)
	}

	if err := r.repos.Sites.Upsert(rc.Context, site, exists); err != nil {
		return 0, err
	}
	return outcomeOf(exists), nil
}

// lookupAltitude is best effort: any failure leaves the altitude empty.
func (r *siteRule) lookupAltitude(ctx context.Context, code string, lat, lon float64) *float64 {
	if r.elevation == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), elevationBudget)
	defer cancel()
	alt, err := r.elevation.Lookup(ctx, lat, lon)
	if err != nil {
		r.log.Debug("Altitude unresolved", "site", code, "error", err)
		return nil
	}
	return &alt
}

type sectorRule struct{ repos repos.Network }

func (sectorRule) Entity() imports.Entity { return imports.EntitySectors }
func (sectorRule) RequiredColumns() []string {
	return []string{tabular.ColSectorCode, tabular.ColSiteCode, tabular.ColAzimuth, tabular.ColHBA}
}
func (sectorRule) NaturalKey(row tabular.Row) string { return row.Text(tabular.ColSectorCode) }
func (sectorRule) NumericColumns() []string {
	return []string{tabular.ColAzimuth, tabular.ColHBA}
}

func (r *sectorRule) Upsert(rc *RowContext) (Outcome, error) {
	row := rc.Row
	azimuth := row.OptInt(tabular.ColAzimuth)
	if azimuth == nil || *azimuth < 0 || *azimuth > 360 {
		return 0, invalid("azimuth %q must be between 0 and 360", row.Text(tabular.ColAzimuth))
	}
	hba := row.OptInt(tabular.ColHBA)
	if hba == nil {
		return 0, invalid("hba %q is not a number", row.Text(tabular.ColHBA))
	}
	siteCode := row.Text(tabular.ColSiteCode)
	site, err := r.repos.Sites.GetByCode(rc.Context, siteCode)
	if err != nil {
		return 0, err
	}
	if site == nil {
		return 0, notFound("site %q", siteCode)
	}

	code := row.Text(tabular.ColSectorCode)
	sector, err := r.repos.Sectors.GetByCode(rc.Context, code)
	if err != nil {
		return 0, err
	}
	exists := sector != nil
	if !exists {
		sector = &types.Sector{Code: code}
	}
	sector.Azimuth = *azimuth
	sector.HBA = *hba
	sector.SiteID = site.ID
	if rc.Present(tabular.ColCoverageGoal) {
		sector.CoverageGoal = row.OptString(tabular.ColCoverageGoal)
	}
	if rc.Present(tabular.ColComments) {
		sector.Comments = row.OptString(tabular.ColComments)
	}
	if err := r.repos.Sectors.Upsert(rc.Context, sector, exists); err != nil {
		return 0, err
	}
	return outcomeOf(exists), nil
}

type mappingRule struct{ repos repos.Network }

func (mappingRule) Entity() imports.Entity { return imports.EntityMapping }
func (mappingRule) RequiredColumns() []string {
	return []string{
		tabular.ColMapID,
		tabular.ColCellCode,
		tabular.ColAntennaTech,
		tabular.ColBand,
		tabular.ColSectorCode,
		tabular.ColTechnology,
	}
}
func (mappingRule) NaturalKey(row tabular.Row) string { return row.Text(tabular.ColMapID) }

func (r *mappingRule) Upsert(rc *RowContext) (Outcome, error) {
	row := rc.Row
	mapID := row.Text(tabular.ColMapID)
	mapping, err := r.repos.Mappings.GetByMapID(rc.Context, mapID)
	if err != nil {
		return 0, err
	}
	exists := mapping != nil
	if !exists {
		mapping = &types.Mapping{MapID: mapID}
	}
	// Stored in the same spelling cells use so the resolver's exact match
	// works for "LTE" as well as "4G".
	tech := strings.ToUpper(row.Text(tabular.ColTechnology))
	if parsed, ok := network.ParseTechnology(tech); ok {
		tech = string(parsed)
	}
	mapping.CellCode = row.Text(tabular.ColCellCode)
	mapping.AntennaTech = row.Text(tabular.ColAntennaTech)
	mapping.Band = row.Text(tabular.ColBand)
	mapping.SectorCode = row.Text(tabular.ColSectorCode)
	mapping.Technology = tech
	if err := r.repos.Mappings.Upsert(rc.Context, mapping, exists); err != nil {
		return 0, err
	}
	return outcomeOf(exists), nil
}
