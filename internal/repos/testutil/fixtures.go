package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/podsweep/podsweep-backend/internal/types"
)

func SeedPost(tb testing.TB, ctx context.Context, tx *gorm.DB, guid string) *types.Post {
	tb.Helper()
	p := &types.Post{
		ID:    uuid.New(),
		GUID:  guid,
		Title: "episode",
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed post: %v", err)
	}
	return p
}

func SeedTranscriptSegment(tb testing.TB, ctx context.Context, tx *gorm.DB, postID uuid.UUID, seq int, start, end float64, text string) *types.TranscriptSegment {
	tb.Helper()
	s := &types.TranscriptSegment{
		ID:          uuid.New(),
		PostID:      postID,
		SequenceNum: seq,
		StartTime:   start,
		EndTime:     end,
		Text:        text,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed transcript segment: %v", err)
	}
	return s
}

func SeedIdentification(tb testing.TB, ctx context.Context, tx *gorm.DB, segmentID uuid.UUID, label string, confidence float64) *types.Identification {
	tb.Helper()
	ident := &types.Identification{
		ID:                  uuid.New(),
		TranscriptSegmentID: segmentID,
		Label:               label,
		Confidence:          confidence,
		ModelName:           "test-model",
	}
	if err := tx.WithContext(ctx).Create(ident).Error; err != nil {
		tb.Fatalf("seed identification: %v", err)
	}
	return ident
}

func SeedOverride(tb testing.TB, ctx context.Context, tx *gorm.DB, postID uuid.UUID, start, end float64, approved bool) *types.SegmentOverride {
	tb.Helper()
	o := &types.SegmentOverride{
		ID:           uuid.New(),
		PostID:       postID,
		StartTime:    start,
		EndTime:      end,
		UserApproved: approved,
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed override: %v", err)
	}
	return o
}

func SeedJob(tb testing.TB, ctx context.Context, tx *gorm.DB, postGUID string, status string) *types.ProcessingJob {
	tb.Helper()
	j := &types.ProcessingJob{
		ID:       uuid.New(),
		PostGUID: postGUID,
		Status:   status,
		Priority: "normal",
	}
	if err := tx.WithContext(ctx).Create(j).Error; err != nil {
		tb.Fatalf("seed job: %v", err)
	}
	return j
}
