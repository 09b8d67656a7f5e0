package types

import (
	"time"

	"github.com/google/uuid"
)

// Identification is a machine-assigned content label for one transcript
// segment. Written by the classification stage, read-only here.
type Identification struct {
	ID                  uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TranscriptSegmentID uuid.UUID          `gorm:"type:uuid;not null;index" json:"transcript_segment_id"`
	TranscriptSegment   *TranscriptSegment `gorm:"constraint:OnDelete:CASCADE;foreignKey:TranscriptSegmentID;references:ID" json:"transcript_segment,omitempty"`
	Label               string             `gorm:"column:label;not null;index" json:"label"`
	Confidence          float64            `gorm:"column:confidence;not null;default:0" json:"confidence"`
	ModelName           string             `gorm:"column:model_name" json:"model_name"`
	CreatedAt           time.Time          `gorm:"not null;default:now()" json:"created_at"`
}

func (Identification) TableName() string { return "identification" }

const (
	LabelAd      = "ad"
	LabelUnknown = "unknown"
)
