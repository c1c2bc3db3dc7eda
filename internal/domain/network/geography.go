package network

import "time"

type Region struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;size:100;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Region) TableName() string { return "region" }

// Wilaya ids are the official administrative codes, never generated.
type Wilaya struct {
	ID        uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name      string    `gorm:"column:name;size:100;not null;uniqueIndex" json:"name"`
	RegionID  uint      `gorm:"column:region_id;not null;index" json:"region_id"`
	Region    *Region   `gorm:"foreignKey:RegionID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Wilaya) TableName() string { return "wilaya" }

// Commune ids come from the source file.
type Commune struct {
	ID        uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name      string    `gorm:"column:name;size:100;not null" json:"name"`
	WilayaID  uint      `gorm:"column:wilaya_id;not null;index" json:"wilaya_id"`
	Wilaya    *Wilaya   `gorm:"foreignKey:WilayaID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Commune) TableName() string { return "commune" }
