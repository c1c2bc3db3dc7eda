package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/netinv-backend/internal/data/repos"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

type Repos struct {
	Network repos.Network
	Jobs    repos.ImportJobRepo
	Reports repos.ImportReportRepo
	Audit   repos.AuditEntryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Network: repos.NewNetwork(db, log),
		Jobs:    repos.NewImportJobRepo(db, log),
		Reports: repos.NewImportReportRepo(db, log),
		Audit:   repos.NewAuditEntryRepo(db, log),
	}
}
