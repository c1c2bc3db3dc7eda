package network_import

import (
	"github.com/yungbote/netinv-backend/internal/importer/report"
	"github.com/yungbote/netinv-backend/internal/importer/upsert"
	"github.com/yungbote/netinv-backend/internal/observability"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
	"github.com/yungbote/netinv-backend/internal/platform/storage"
)

const JobType = "network_import"

type Pipeline struct {
	log     *logger.Logger
	engine  *upsert.Engine
	reports *report.Writer
	uploads storage.ArtifactStore
	metrics *observability.Metrics
}

func New(
	baseLog *logger.Logger,
	engine *upsert.Engine,
	reports *report.Writer,
	uploads storage.ArtifactStore,
	metrics *observability.Metrics,
) *Pipeline {
	return &Pipeline{
		log:     baseLog.With("job", JobType),
		engine:  engine,
		reports: reports,
		uploads: uploads,
		metrics: metrics,
	}
}

func (p *Pipeline) Type() string { return JobType }
