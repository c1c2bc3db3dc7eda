package imports

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Summary is the per-job outcome written into reports and job results.
type Summary struct {
	JobID           uuid.UUID `json:"job_id"`
	Entity          Entity    `json:"entity"`
	SourceFilename  string    `json:"source_filename"`
	Status          JobStatus `json:"status"`
	Added           int       `json:"added"`
	Updated         int       `json:"updated"`
	Failed          int       `json:"failed"`
	Warnings        int       `json:"warnings"`
	Processed       int       `json:"processed"`
	Total           int       `json:"total"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	DurationSeconds float64   `json:"duration_seconds"`
	Message         string    `json:"message,omitempty"`
}

type ImportReport struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	JobID           uuid.UUID      `gorm:"type:uuid;column:job_id;not null;uniqueIndex" json:"job_id"`
	Entity          Entity         `gorm:"column:entity;size:32;not null;index" json:"entity"`
	Status          JobStatus      `gorm:"column:status;size:16;not null" json:"status"`
	SourceFilename  string         `gorm:"column:source_filename;size:255" json:"source_filename"`
	Added           int            `gorm:"column:added;not null" json:"added"`
	Updated         int            `gorm:"column:updated;not null" json:"updated"`
	Failed          int            `gorm:"column:failed;not null" json:"failed"`
	Warnings        int            `gorm:"column:warnings;not null" json:"warnings"`
	Processed       int            `gorm:"column:processed;not null" json:"processed"`
	Total           int            `gorm:"column:total;not null" json:"total"`
	DurationSeconds float64        `gorm:"column:duration_seconds;not null" json:"duration_seconds"`
	FailedRows      datatypes.JSON `gorm:"column:failed_rows" json:"failed_rows,omitempty"`
	ArtifactKey     string         `gorm:"column:artifact_key;size:512;not null" json:"artifact_key"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (ImportReport) TableName() string { return "import_report" }
