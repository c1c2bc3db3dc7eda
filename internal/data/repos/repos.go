package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/netinv-backend/internal/data/repos/imports"
	"github.com/yungbote/netinv-backend/internal/data/repos/network"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

type RegionRepo = network.RegionRepo
type WilayaRepo = network.WilayaRepo
type CommuneRepo = network.CommuneRepo
type SupplierRepo = network.SupplierRepo
type AntennaRepo = network.AntennaRepo
type SiteRepo = network.SiteRepo
type SectorRepo = network.SectorRepo
type MappingRepo = network.MappingRepo
type CellRepo = network.CellRepo

type ImportJobRepo = imports.ImportJobRepo
type ImportReportRepo = imports.ImportReportRepo
type AuditEntryRepo = imports.AuditEntryRepo
type AuditFindParams = imports.AuditFindParams

func NewRegionRepo(db *gorm.DB, baseLog *logger.Logger) RegionRepo {
	return network.NewRegionRepo(db, baseLog)
}
func NewWilayaRepo(db *gorm.DB, baseLog *logger.Logger) WilayaRepo {
	return network.NewWilayaRepo(db, baseLog)
}
func NewCommuneRepo(db *gorm.DB, baseLog *logger.Logger) CommuneRepo {
	return network.NewCommuneRepo(db, baseLog)
}
func NewSupplierRepo(db *gorm.DB, baseLog *logger.Logger) SupplierRepo {
	return network.NewSupplierRepo(db, baseLog)
}
func NewAntennaRepo(db *gorm.DB, baseLog *logger.Logger) AntennaRepo {
	return network.NewAntennaRepo(db, baseLog)
}
func NewSiteRepo(db *gorm.DB, baseLog *logger.Logger) SiteRepo {
	return network.NewSiteRepo(db, baseLog)
}
func NewSectorRepo(db *gorm.DB, baseLog *logger.Logger) SectorRepo {
	return network.NewSectorRepo(db, baseLog)
}
func NewMappingRepo(db *gorm.DB, baseLog *logger.Logger) MappingRepo {
	return network.NewMappingRepo(db, baseLog)
}
func NewCellRepo(db *gorm.DB, baseLog *logger.Logger) CellRepo {
	return network.NewCellRepo(db, baseLog)
}

func NewImportJobRepo(db *gorm.DB, baseLog *logger.Logger) ImportJobRepo {
	return imports.NewImportJobRepo(db, baseLog)
}
func NewImportReportRepo(db *gorm.DB, baseLog *logger.Logger) ImportReportRepo {
	return imports.NewImportReportRepo(db, baseLog)
}
func NewAuditEntryRepo(db *gorm.DB, baseLog *logger.Logger) AuditEntryRepo {
	return imports.NewAuditEntryRepo(db, baseLog)
}

// Network groups the inventory repositories the import rules write through.
type Network struct {
	Regions   RegionRepo
	Wilayas   WilayaRepo
	Communes  CommuneRepo
	Suppliers SupplierRepo
	Antennas  AntennaRepo
	Sites     SiteRepo
	Sectors   SectorRepo
	Mappings  MappingRepo
	Cells     CellRepo
}

func NewNetwork(db *gorm.DB, baseLog *logger.Logger) Network {
	return Network{
		Regions:   NewRegionRepo(db, baseLog),
		Wilayas:   NewWilayaRepo(db, baseLog),
		Communes:  NewCommuneRepo(db, baseLog),
		Suppliers: NewSupplierRepo(db, baseLog),
		Antennas:  NewAntennaRepo(db, baseLog),
		Sites:     NewSiteRepo(db, baseLog),
		Sectors:   NewSectorRepo(db, baseLog),
		Mappings:  NewMappingRepo(db, baseLog),
		Cells:     NewCellRepo(db, baseLog),
	}
}
