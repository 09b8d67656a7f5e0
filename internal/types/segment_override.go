package types

import (
	"time"

	"github.com/google/uuid"
)

// SegmentOverride is a human-approved removal range for a post. It is an
// independent time range, not tied to transcript segment boundaries. All
// overrides for a post are replaced atomically on every submission.
type SegmentOverride struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PostID       uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	Post         *Post     `gorm:"constraint:OnDelete:CASCADE;foreignKey:PostID;references:ID" json:"post,omitempty"`
	StartTime    float64   `gorm:"column:start_time;not null" json:"start_time"`
	EndTime      float64   `gorm:"column:end_time;not null" json:"end_time"`
	UserApproved bool      `gorm:"column:user_approved;not null;default:true" json:"user_approved"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (SegmentOverride) TableName() string { return "segment_override" }
