package network

import "time"

const DefaultSiteStatus = "On air"

type Site struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Code          string    `gorm:"column:code_site;size:80;not null;uniqueIndex" json:"code_site"`
	Name          string    `gorm:"column:name;size:120;not null" json:"name"`
	Address       *string   `gorm:"column:address;size:255" json:"address,omitempty"`
	Latitude      float64   `gorm:"column:latitude;not null" json:"latitude"`
	Longitude     float64   `gorm:"column:longitude;not null" json:"longitude"`
	Altitude      *float64  `gorm:"column:altitude" json:"altitude,omitempty"`
	SupportNature *string   `gorm:"column:support_nature;size:50" json:"support_nature,omitempty"`
	SupportType   *string   `gorm:"column:support_type;size:50" json:"support_type,omitempty"`
	SupportHeight *float64  `gorm:"column:support_height" json:"support_height,omitempty"`
	Status        string    `gorm:"column:status;size:20;not null;default:'On air'" json:"status"`
	Comments      *string   `gorm:"column:comments;type:text" json:"comments,omitempty"`
	SupplierID    *uint     `gorm:"column:supplier_id;index" json:"supplier_id,omitempty"`
	Supplier      *Supplier `gorm:"foreignKey:SupplierID" json:"-"`
	CommuneID     uint      `gorm:"column:commune_id;not null;index" json:"commune_id"`
	Commune       *Commune  `gorm:"foreignKey:CommuneID;constraint:OnDelete:CASCADE" json:"-"`
	Sectors       []Sector  `gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Site) TableName() string { return "site" }

type Sector struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Code         string    `gorm:"column:code_sector;size:80;not null;uniqueIndex" json:"code_sector"`
	Azimuth      int       `gorm:"column:azimuth;not null" json:"azimuth"`
	HBA          int       `gorm:"column:hba;not null" json:"hba"`
	CoverageGoal *string   `gorm:"column:coverage_goal;size:50" json:"coverage_goal,omitempty"`
	Comments     *string   `gorm:"column:comments;type:text" json:"comments,omitempty"`
	SiteID       uint      `gorm:"column:site_id;not null;index" json:"site_id"`
	Cells        []Cell    `gorm:"foreignKey:SectorID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Sector) TableName() string { return "sector" }

// Mapping rows translate (cell code suffix, technology, band) into a sector
// code suffix. The importer only reads them while resolving cells.
type Mapping struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MapID       string    `gorm:"column:map_id;size:100;not null;uniqueIndex" json:"map_id"`
	CellCode    string    `gorm:"column:cell_code;size:50;not null;index:idx_mapping_lookup" json:"cell_code"`
	AntennaTech string    `gorm:"column:antenna_tech;size:50;not null" json:"antenna_tech"`
	Band        string    `gorm:"column:band;size:50;not null;index:idx_mapping_lookup" json:"band"`
	SectorCode  string    `gorm:"column:sector_code;size:50;not null" json:"sector_code"`
	Technology  string    `gorm:"column:technology;size:20;not null;index:idx_mapping_lookup" json:"technology"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Mapping) TableName() string { return "mapping" }
