package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GUID        string         `gorm:"column:guid;not null;uniqueIndex" json:"guid"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	FeedURL     string         `gorm:"column:feed_url" json:"feed_url"`
	AudioURL    string         `gorm:"column:audio_url" json:"audio_url"`
	Duration    float64        `gorm:"column:duration" json:"duration"`
	PublishedAt *time.Time     `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Post) TableName() string { return "post" }
