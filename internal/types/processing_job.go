package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProcessingJob struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PostGUID         string         `gorm:"column:post_guid;not null;index" json:"post_guid"`
	Status           string         `gorm:"column:status;not null;default:'queued';index" json:"status"`
	Priority         string         `gorm:"column:priority;not null;default:'normal'" json:"priority"`
	CurrentStep      int            `gorm:"column:current_step;not null;default:0" json:"current_step"`
	TotalSteps       int            `gorm:"column:total_steps;not null;default:5" json:"total_steps"`
	SegmentsApproved bool           `gorm:"column:segments_approved;not null;default:false" json:"segments_approved"`
	Attempts         int            `gorm:"column:attempts;not null;default:0" json:"attempts"`
	Payload          datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`
	Error            string         `gorm:"column:error" json:"error,omitempty"`
	LastErrorAt      *time.Time     `gorm:"column:last_error_at" json:"last_error_at,omitempty"`
	StartedAt        *time.Time     `gorm:"column:started_at" json:"started_at,omitempty"`
	FinishedAt       *time.Time     `gorm:"column:finished_at" json:"finished_at,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (ProcessingJob) TableName() string { return "processing_job" }

const (
	JobStatusQueued        = "queued"
	JobStatusRunning       = "running"
	JobStatusPendingReview = "pending_review"
	JobStatusCompleted     = "completed"
	JobStatusFailed        = "failed"
)
