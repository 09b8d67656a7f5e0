package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/podsweep/podsweep-backend/internal/logger"
	"github.com/podsweep/podsweep-backend/internal/types"
)

type TranscriptSegmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, segs []*types.TranscriptSegment) ([]*types.TranscriptSegment, error)
	GetByPostID(ctx context.Context, tx *gorm.DB, postID uuid.UUID) ([]*types.TranscriptSegment, error)
}

type transcriptSegmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTranscriptSegmentRepo(db *gorm.DB, baseLog *logger.Logger) TranscriptSegmentRepo {
	return &transcriptSegmentRepo{db: db, log: baseLog.With("repo", "TranscriptSegmentRepo")}
}

func (r *transcriptSegmentRepo) Create(ctx context.Context, tx *gorm.DB, segs []*types.TranscriptSegment) ([]*types.TranscriptSegment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(segs) == 0 {
		return []*types.TranscriptSegment{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&segs).Error; err != nil {
		return nil, err
	}
	return segs, nil
}

func (r *transcriptSegmentRepo) GetByPostID(ctx context.Context, tx *gorm.DB, postID uuid.UUID) ([]*types.TranscriptSegment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.TranscriptSegment
	if postID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("sequence_num ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
