package tabular

// Canonical column names shared by the normalizer and the upsert rules.
const (
	ColName = "NAME"

	ColRegionName = "REGION_NAME"
	ColWilayaName = "WILAYA_NAME"
	ColWilayaCode = "WILAYA_CODE"

	ColCommuneID   = "COMMUNE_ID"
	ColCommuneName = "COMMUNE_NAME"

	ColSupplierName = "SUPPLIER_NAME"

	ColSupplier   = "SUPPLIER"
	ColModel      = "MODEL"
	ColPort       = "PORT"
	ColType       = "TYPE"
	ColHBeamwidth = "HBEAMWIDTH"
	ColVBeamwidth = "VBEAMWIDTH"
	ColGain       = "GAIN"

	ColSiteCode      = "SITE_CODE"
	ColSiteName      = "SITE_NAME"
	ColAddress       = "ADDRESS"
	ColLatitude      = "LATITUDE"
	ColLongitude     = "LONGITUDE"
	ColAltitude      = "ALTITUDE"
	ColSupportNature = "SUPPORT_NATURE"
	ColSupportType   = "SUPPORT_TYPE"
	ColSupportHeight = "SUPPORT_HEIGHT"
	ColComments      = "COMMENTS"

	ColSectorCode   = "SECTOR_CODE"
	ColAzimuth      = "AZIMUTH"
	ColHBA          = "HBA"
	ColCoverageGoal = "COVERAGE_GOAL"

	ColMapID    = "MAP_ID"
	ColCellCode = "CELL_CODE"
	ColBand     = "BAND"

	ColCellName       = "CELLNAME"
	ColTechnology     = "TECHNOLOGY"
	ColFrequency      = "FREQUENCY"
	ColAntennaTech    = "ANTENNA_TECH"
	ColMechanicalTilt = "MECHANICALTILT"
	ColElectricalTilt = "ELECTRICALTILT"
	ColAntenna        = "ANTENNA"

	ColBSC     = "BSC"
	ColLAC     = "LAC"
	ColRAC     = "RAC"
	ColBCCH    = "BCCH"
	ColBSIC    = "BSIC"
	ColRNC     = "RNC"
	ColPSC     = "PSC"
	ColDLARFCN = "DLARFCN"
	ColENodeB  = "ENODEB"
	ColTAC     = "TAC"
	ColRSI     = "RSI"
	ColPCI     = "PCI"
	ColEARFCN  = "EARFCN"
	ColGNodeB  = "GNODEB"
	ColARFCN   = "ARFCN"
	ColCI      = "CI"
)
