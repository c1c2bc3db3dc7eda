package network

import "time"

type Supplier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;size:120;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Supplier) TableName() string { return "supplier" }

// Antenna is keyed by (model, frequency). Supplier is free text, not a
// reference to the supplier table.
type Antenna struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Supplier   string    `gorm:"column:supplier;size:100;not null" json:"supplier"`
	Model      string    `gorm:"column:model;size:100;not null;uniqueIndex:idx_antenna_model_frequency" json:"model"`
	Frequency  float64   `gorm:"column:frequency;not null;uniqueIndex:idx_antenna_model_frequency" json:"frequency"`
	Name       *string   `gorm:"column:name;size:100" json:"name,omitempty"`
	Port       *int      `gorm:"column:port" json:"port,omitempty"`
	Type       *string   `gorm:"column:type;size:50" json:"type,omitempty"`
	HBeamwidth float64   `gorm:"column:hbeamwidth;not null" json:"hbeamwidth"`
	VBeamwidth float64   `gorm:"column:vbeamwidth;not null" json:"vbeamwidth"`
	Gain       *float64  `gorm:"column:gain" json:"gain,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Antenna) TableName() string { return "antenna" }
