package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/podsweep/podsweep-backend/internal/logger"
	"github.com/podsweep/podsweep-backend/internal/types"
)

type SegmentOverrideRepo interface {
	// ReplaceForPost deletes every override row for the post and inserts the
	// given rows in one transaction. An empty slice clears all overrides.
	ReplaceForPost(ctx context.Context, tx *gorm.DB, postID uuid.UUID, overrides []*types.SegmentOverride) ([]*types.SegmentOverride, error)
	GetApprovedByPostID(ctx context.Context, tx *gorm.DB, postID uuid.UUID) ([]*types.SegmentOverride, error)
}

type segmentOverrideRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSegmentOverrideRepo(db *gorm.DB, baseLog *logger.Logger) SegmentOverrideRepo {
	return &segmentOverrideRepo{db: db, log: baseLog.With("repo", "SegmentOverrideRepo")}
}

func (r *segmentOverrideRepo) ReplaceForPost(ctx context.Context, tx *gorm.DB, postID uuid.UUID, overrides []*types.SegmentOverride) ([]*types.SegmentOverride, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if postID == uuid.Nil {
		return []*types.SegmentOverride{}, nil
	}
	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		if err := txx.
			Where("post_id = ?", postID).
			Delete(&types.SegmentOverride{}).Error; err != nil {
			return err
		}
		if len(overrides) == 0 {
			return nil
		}
		return txx.Create(&overrides).Error
	})
	if err != nil {
		return nil, err
	}
	if overrides == nil {
		overrides = []*types.SegmentOverride{}
	}
	return overrides, nil
}

func (r *segmentOverrideRepo) GetApprovedByPostID(ctx context.Context, tx *gorm.DB, postID uuid.UUID) ([]*types.SegmentOverride, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.SegmentOverride
	if postID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Where("post_id = ? AND user_approved = ?", postID, true).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
