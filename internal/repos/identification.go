package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/podsweep/podsweep-backend/internal/logger"
	"github.com/podsweep/podsweep-backend/internal/types"
)

type IdentificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, idents []*types.Identification) ([]*types.Identification, error)
	// GetByPostIDAndLabel returns identifications for the post's segments with
	// the given label, segment preloaded, ordered by segment sequence with
	// highest confidence first within a segment (id breaks remaining ties).
	GetByPostIDAndLabel(ctx context.Context, tx *gorm.DB, postID uuid.UUID, label string) ([]*types.Identification, error)
	GetBySegmentIDs(ctx context.Context, tx *gorm.DB, segmentIDs []uuid.UUID) ([]*types.Identification, error)
}

type identificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIdentificationRepo(db *gorm.DB, baseLog *logger.Logger) IdentificationRepo {
	return &identificationRepo{db: db, log: baseLog.With("repo", "IdentificationRepo")}
}

func (r *identificationRepo) Create(ctx context.Context, tx *gorm.DB, idents []*types.Identification) ([]*types.Identification, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(idents) == 0 {
		return []*types.Identification{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&idents).Error; err != nil {
		return nil, err
	}
	return idents, nil
}

func (r *identificationRepo) GetByPostIDAndLabel(ctx context.Context, tx *gorm.DB, postID uuid.UUID, label string) ([]*types.Identification, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Identification
	if postID == uuid.Nil || label == "" {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Joins("JOIN transcript_segment ON transcript_segment.id = identification.transcript_segment_id").
		Where("transcript_segment.post_id = ? AND identification.label = ?", postID, label).
		Order("transcript_segment.sequence_num ASC, identification.confidence DESC, identification.id ASC").
		Preload("TranscriptSegment").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *identificationRepo) GetBySegmentIDs(ctx context.Context, tx *gorm.DB, segmentIDs []uuid.UUID) ([]*types.Identification, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Identification
	if len(segmentIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Where("transcript_segment_id IN ?", segmentIDs).
		Order("confidence DESC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
