package imports

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

func (s JobStatus) Terminal() bool { return s == JobCompleted || s == JobFailed }

type ImportJob struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Entity         Entity         `gorm:"column:entity;size:32;not null;index" json:"entity"`
	Status         JobStatus      `gorm:"column:status;size:16;not null;index" json:"status"`
	Stage          string         `gorm:"column:stage;size:32;not null" json:"stage"`
	Progress       int            `gorm:"column:progress;not null;default:0" json:"progress"`
	Processed      int            `gorm:"column:processed;not null;default:0" json:"processed"`
	Total          int            `gorm:"column:total;not null;default:0" json:"total"`
	EtaSeconds     *float64       `gorm:"column:eta_seconds" json:"eta_seconds"`
	Message        string         `gorm:"column:message;type:text" json:"message,omitempty"`
	Error          string         `gorm:"column:error;type:text" json:"error,omitempty"`
	SourceFilename string         `gorm:"column:source_filename;size:255" json:"source_filename"`
	SourcePath     string         `gorm:"column:source_path;size:512" json:"-"`
	Actor          string         `gorm:"column:actor;size:120;index" json:"actor"`
	ReportID       *uint          `gorm:"column:report_id" json:"report_id,omitempty"`
	Result         datatypes.JSON `gorm:"column:result" json:"result,omitempty"`
	StartedAt      *time.Time     `gorm:"column:started_at" json:"started_at,omitempty"`
	FinishedAt     *time.Time     `gorm:"column:finished_at" json:"finished_at,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ImportJob) TableName() string { return "import_job" }
