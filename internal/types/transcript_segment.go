package types

import (
	"time"

	"github.com/google/uuid"
)

// TranscriptSegment is written once by the transcription stage and never
// mutated here. SequenceNum and StartTime order segments consistently.
type TranscriptSegment struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PostID      uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	Post        *Post     `gorm:"constraint:OnDelete:CASCADE;foreignKey:PostID;references:ID" json:"post,omitempty"`
	SequenceNum int       `gorm:"column:sequence_num;not null" json:"sequence_num"`
	StartTime   float64   `gorm:"column:start_time;not null" json:"start_time"`
	EndTime     float64   `gorm:"column:end_time;not null" json:"end_time"`
	Text        string    `gorm:"column:text" json:"text"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (TranscriptSegment) TableName() string { return "transcript_segment" }
