package domain

import (
	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/domain/network"
)

type Region = network.Region
type Wilaya = network.Wilaya
type Commune = network.Commune
type Supplier = network.Supplier
type Antenna = network.Antenna
type Site = network.Site
type Sector = network.Sector
type Mapping = network.Mapping
type Cell = network.Cell
type Cell2G = network.Cell2G
type Cell3G = network.Cell3G
type Cell4G = network.Cell4G
type Cell5G = network.Cell5G
type Technology = network.Technology

type Entity = imports.Entity
type ImportJob = imports.ImportJob
type JobStatus = imports.JobStatus
type ImportReport = imports.ImportReport
type Summary = imports.Summary
type AuditEntry = imports.AuditEntry
type AuditAction = imports.AuditAction

const DefaultSiteStatus = network.DefaultSiteStatus

// Models lists every table owned by this service in migration order.
func Models() []any {
	return []any{
		&network.Region{},
		&network.Wilaya{},
		&network.Commune{},
		&network.Supplier{},
		&network.Antenna{},
		&network.Site{},
		&network.Sector{},
		&network.Mapping{},
		&network.Cell{},
		&network.Cell2G{},
		&network.Cell3G{},
		&network.Cell4G{},
		&network.Cell5G{},

		&imports.ImportJob{},
		&imports.ImportReport{},
		&imports.AuditEntry{},
	}
}
