package network

import (
	"strings"
	"time"
)

type Technology string

const (
	Tech2G Technology = "2G"
	Tech3G Technology = "3G"
	Tech4G Technology = "4G"
	Tech5G Technology = "5G"
)

var Technologies = []Technology{Tech2G, Tech3G, Tech4G, Tech5G}

var technologyAliases = map[string]Technology{
	"2G":    Tech2G,
	"GSM":   Tech2G,
	"3G":    Tech3G,
	"UMTS":  Tech3G,
	"WCDMA": Tech3G,
	"4G":    Tech4G,
	"LTE":   Tech4G,
	"5G":    Tech5G,
	"NR":    Tech5G,
}

// ParseTechnology upper-cases raw and maps radio access names onto their
// generation tag.
func ParseTechnology(raw string) (Technology, bool) {
	t, ok := technologyAliases[strings.ToUpper(strings.TrimSpace(raw))]
	return t, ok
}

type Cell struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"column:cellname;size:150;not null;uniqueIndex" json:"cellname"`
	Technology     string    `gorm:"column:technology;size:20;not null" json:"technology"`
	Frequency      *string   `gorm:"column:frequency;size:50" json:"frequency,omitempty"`
	AntennaTech    *string   `gorm:"column:antenna_tech;size:50" json:"antenna_tech,omitempty"`
	TiltMechanical *float64  `gorm:"column:tilt_mechanical" json:"tilt_mechanical,omitempty"`
	TiltElectrical *float64  `gorm:"column:tilt_electrical" json:"tilt_electrical,omitempty"`
	AntennaID      *uint     `gorm:"column:antenna_id;index" json:"antenna_id,omitempty"`
	Antenna        *Antenna  `gorm:"foreignKey:AntennaID" json:"-"`
	SectorID       *uint     `gorm:"column:sector_id;index" json:"sector_id,omitempty"`
	Profile2G      *Cell2G   `gorm:"foreignKey:CellID;constraint:OnDelete:CASCADE" json:"profile_2g,omitempty"`
	Profile3G      *Cell3G   `gorm:"foreignKey:CellID;constraint:OnDelete:CASCADE" json:"profile_3g,omitempty"`
	Profile4G      *Cell4G   `gorm:"foreignKey:CellID;constraint:OnDelete:CASCADE" json:"profile_4g,omitempty"`
	Profile5G      *Cell5G   `gorm:"foreignKey:CellID;constraint:OnDelete:CASCADE" json:"profile_5g,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Cell) TableName() string { return "cell" }

type Cell2G struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	CellID uint    `gorm:"column:cell_id;not null;uniqueIndex" json:"cell_id"`
	BSC    *string `gorm:"column:bsc;size:80" json:"bsc,omitempty"`
	LAC    *string `gorm:"column:lac;size:50" json:"lac,omitempty"`
	RAC    *string `gorm:"column:rac;size:50" json:"rac,omitempty"`
	BCCH   *int    `gorm:"column:bcch" json:"bcch,omitempty"`
	BSIC   *string `gorm:"column:bsic;size:20" json:"bsic,omitempty"`
	CI     *int    `gorm:"column:ci" json:"ci,omitempty"`
}

func (Cell2G) TableName() string { return "cell_2g" }

type Cell3G struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	CellID  uint    `gorm:"column:cell_id;not null;uniqueIndex" json:"cell_id"`
	RNC     *string `gorm:"column:rnc;size:80" json:"rnc,omitempty"`
	LAC     *string `gorm:"column:lac;size:50" json:"lac,omitempty"`
	RAC     *string `gorm:"column:rac;size:50" json:"rac,omitempty"`
	PSC     *int    `gorm:"column:psc" json:"psc,omitempty"`
	DLARFCN *string `gorm:"column:dlarfcn;size:50" json:"dlarfcn,omitempty"`
	CI      *int    `gorm:"column:ci" json:"ci,omitempty"`
}

func (Cell3G) TableName() string { return "cell_3g" }

type Cell4G struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	CellID uint    `gorm:"column:cell_id;not null;uniqueIndex" json:"cell_id"`
	ENodeB *string `gorm:"column:enodeb;size:80" json:"enodeb,omitempty"`
	TAC    *string `gorm:"column:tac;size:50" json:"tac,omitempty"`
	RSI    *string `gorm:"column:rsi;size:50" json:"rsi,omitempty"`
	PCI    *int    `gorm:"column:pci" json:"pci,omitempty"`
	EARFCN *string `gorm:"column:earfcn;size:50" json:"earfcn,omitempty"`
	CI     *int    `gorm:"column:ci" json:"ci,omitempty"`
}

func (Cell4G) TableName() string { return "cell_4g" }

type Cell5G struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	CellID uint    `gorm:"column:cell_id;not null;uniqueIndex" json:"cell_id"`
	GNodeB *string `gorm:"column:gnodeb;size:80" json:"gnodeb,omitempty"`
	LAC    *string `gorm:"column:lac;size:50" json:"lac,omitempty"`
	RSI    *string `gorm:"column:rsi;size:50" json:"rsi,omitempty"`
	PCI    *int    `gorm:"column:pci" json:"pci,omitempty"`
	ARFCN  *string `gorm:"column:arfcn;size:50" json:"arfcn,omitempty"`
	CI     *int    `gorm:"column:ci" json:"ci,omitempty"`
}

func (Cell5G) TableName() string { return "cell_5g" }
