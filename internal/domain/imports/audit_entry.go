package imports

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditImportStarted   AuditAction = "import_started"
	AuditImportCompleted AuditAction = "import_completed"
	AuditImportFailed    AuditAction = "import_failed"
)

// AuditEntry is an append-only record consumed by the administration views.
type AuditEntry struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	JobID     *uuid.UUID     `gorm:"type:uuid;column:job_id;index" json:"job_id,omitempty"`
	Actor     string         `gorm:"column:actor;size:120;not null;index" json:"actor"`
	Entity    Entity         `gorm:"column:entity;size:32;not null;index" json:"entity"`
	Action    AuditAction    `gorm:"column:action;size:32;not null;index" json:"action"`
	Status    string         `gorm:"column:status;size:16;not null;index" json:"status"`
	Message   string         `gorm:"column:message;type:text" json:"message,omitempty"`
	Data      datatypes.JSON `gorm:"column:data" json:"data,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditEntry) TableName() string { return "audit_entry" }
