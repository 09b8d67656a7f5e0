package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/podsweep/podsweep-backend/internal/logger"
	"github.com/podsweep/podsweep-backend/internal/repos"
	"github.com/podsweep/podsweep-backend/internal/segments"
	"github.com/podsweep/podsweep-backend/internal/types"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidRange = errors.New("segment start_time must not exceed end_time")
)

// SegmentView is one transcript segment with its label, as shown to the
// review UI.
type SegmentView struct {
	ID          uuid.UUID `json:"id"`
	SequenceNum int       `json:"sequence_num"`
	StartTime   float64   `json:"start_time"`
	EndTime     float64   `json:"end_time"`
	Text        string    `json:"text"`
	Label       string    `json:"label"`
	Confidence  float64   `json:"confidence"`
}

// IdentifiedSegmentsView is the triple view behind the identified-segments
// endpoint: ad candidates, their merged ranges, and the full transcript for
// context.
type IdentifiedSegmentsView struct {
	Segments     []SegmentView    `json:"segments"`
	MergedRanges []segments.Range `json:"merged_ranges"`
	Transcript   []SegmentView    `json:"transcript"`
}

// RemovalRange is one interval the audio-edit stage should cut.
type RemovalRange struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// RemovalPlan is the authoritative removal set for a post and where it came
// from.
type RemovalPlan struct {
	Ranges []RemovalRange `json:"ranges"`
	Source string         `json:"source"`
}

const (
	RemovalSourceOverride       = "override"
	RemovalSourceIdentification = "identification"
)

// OverrideInput is one submitted override range. Approved defaults to true
// when omitted.
type OverrideInput struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Approved  *bool   `json:"approved"`
}

func (o OverrideInput) IsApproved() bool {
	return o.Approved == nil || *o.Approved
}

type SegmentService interface {
	ResolvePost(ctx context.Context, tx *gorm.DB, guid string) (*types.Post, error)
	GetIdentifiedSegments(ctx context.Context, tx *gorm.DB, post *types.Post) (*IdentifiedSegmentsView, error)
	GetRemovalRanges(ctx context.Context, tx *gorm.DB, post *types.Post) (*RemovalPlan, error)
	// ApplyOverrides replaces every override for the post with the approved
	// subset of the input and returns how many rows were stored. Rejected
	// items are dropped, not persisted.
	ApplyOverrides(ctx context.Context, tx *gorm.DB, post *types.Post, overrides []OverrideInput) (int, error)
}

type segmentService struct {
	db           *gorm.DB
	log          *logger.Logger
	postRepo     repos.PostRepo
	segmentRepo  repos.TranscriptSegmentRepo
	identRepo    repos.IdentificationRepo
	overrideRepo repos.SegmentOverrideRepo
	cache        CacheService
	gapTolerance float64
	cacheTTL     time.Duration
}

func NewSegmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	postRepo repos.PostRepo,
	segmentRepo repos.TranscriptSegmentRepo,
	identRepo repos.IdentificationRepo,
	overrideRepo repos.SegmentOverrideRepo,
	cache CacheService,
	gapTolerance float64,
	cacheTTL time.Duration,
) SegmentService {
	if gapTolerance <= 0 {
		gapTolerance = segments.DefaultGapTolerance
	}
	return &segmentService{
		db:           db,
		log:          baseLog.With("service", "SegmentService"),
		postRepo:     postRepo,
		segmentRepo:  segmentRepo,
		identRepo:    identRepo,
		overrideRepo: overrideRepo,
		cache:        cache,
		gapTolerance: gapTolerance,
		cacheTTL:     cacheTTL,
	}
}

func viewCacheKey(postID uuid.UUID) string    { return "segments:view:" + postID.String() }
func removalCacheKey(postID uuid.UUID) string { return "segments:removal:" + postID.String() }

func (s *segmentService) ResolvePost(ctx context.Context, tx *gorm.DB, guid string) (*types.Post, error) {
	post, err := s.postRepo.GetByGUID(ctx, tx, guid)
	if err != nil {
		return nil, fmt.Errorf("load post %q: %w", guid, err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *segmentService) GetIdentifiedSegments(ctx context.Context, tx *gorm.DB, post *types.Post) (*IdentifiedSegmentsView, error) {
	if post == nil {
		return nil, ErrPostNotFound
	}

	if s.cache != nil {
		var cached IdentifiedSegmentsView
		hit, err := s.cache.Get(ctx, viewCacheKey(post.ID), &cached)
		if err != nil {
			s.log.Warn("Cache read failed", "post_id", post.ID, "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	adSegments, err := s.getAdSegments(ctx, tx, post)
	if err != nil {
		return nil, err
	}
	mergedRanges := segments.MergeContiguous(toMergeInput(adSegments), s.gapTolerance)

	transcript, err := s.getTranscriptView(ctx, tx, post)
	if err != nil {
		return nil, err
	}

	view := &IdentifiedSegmentsView{
		Segments:     adSegments,
		MergedRanges: mergedRanges,
		Transcript:   transcript,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, viewCacheKey(post.ID), view, s.cacheTTL); err != nil {
			s.log.Warn("Cache write failed", "post_id", post.ID, "error", err)
		}
	}
	return view, nil
}

func (s *segmentService) GetRemovalRanges(ctx context.Context, tx *gorm.DB, post *types.Post) (*RemovalPlan, error) {
	if post == nil {
		return nil, ErrPostNotFound
	}

	if s.cache != nil {
		var cached RemovalPlan
		hit, err := s.cache.Get(ctx, removalCacheKey(post.ID), &cached)
		if err != nil {
			s.log.Warn("Cache read failed", "post_id", post.ID, "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	overrides, err := s.overrideRepo.GetApprovedByPostID(ctx, tx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("load overrides for post %s: %w", post.GUID, err)
	}

	var plan *RemovalPlan
	if len(overrides) > 0 {
		// Human approval replaces machine output outright; the two are never
		// merged together.
		s.log.Info("Using user-approved segments", "post_guid", post.GUID, "count", len(overrides))
		ranges := make([]RemovalRange, 0, len(overrides))
		for _, o := range overrides {
			ranges = append(ranges, RemovalRange{StartTime: o.StartTime, EndTime: o.EndTime})
		}
		plan = &RemovalPlan{Ranges: ranges, Source: RemovalSourceOverride}
	} else {
		s.log.Info("No overrides found, using identified segments", "post_guid", post.GUID)
		adSegments, err := s.getAdSegments(ctx, tx, post)
		if err != nil {
			return nil, err
		}
		merged := segments.MergeContiguous(toMergeInput(adSegments), s.gapTolerance)
		ranges := make([]RemovalRange, 0, len(merged))
		for _, r := range merged {
			ranges = append(ranges, RemovalRange{StartTime: r.StartTime, EndTime: r.EndTime})
		}
		plan = &RemovalPlan{Ranges: ranges, Source: RemovalSourceIdentification}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, removalCacheKey(post.ID), plan, s.cacheTTL); err != nil {
			s.log.Warn("Cache write failed", "post_id", post.ID, "error", err)
		}
	}
	return plan, nil
}

func (s *segmentService) ApplyOverrides(ctx context.Context, tx *gorm.DB, post *types.Post, overrides []OverrideInput) (int, error) {
	if post == nil {
		return 0, ErrPostNotFound
	}
	for _, o := range overrides {
		if o.StartTime > o.EndTime || o.StartTime < 0 {
			return 0, fmt.Errorf("%w: (%v, %v)", ErrInvalidRange, o.StartTime, o.EndTime)
		}
	}

	rows := make([]*types.SegmentOverride, 0, len(overrides))
	for _, o := range overrides {
		if !o.IsApproved() {
			continue
		}
		rows = append(rows, &types.SegmentOverride{
			ID:           uuid.New(),
			PostID:       post.ID,
			StartTime:    o.StartTime,
			EndTime:      o.EndTime,
			UserApproved: true,
		})
	}

	if _, err := s.overrideRepo.ReplaceForPost(ctx, tx, post.ID, rows); err != nil {
		return 0, fmt.Errorf("replace overrides for post %s: %w", post.GUID, err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, viewCacheKey(post.ID), removalCacheKey(post.ID)); err != nil {
			s.log.Warn("Cache invalidation failed", "post_id", post.ID, "error", err)
		}
	}

	s.log.Info("Applied segment overrides", "post_guid", post.GUID, "submitted", len(overrides), "stored", len(rows))
	return len(rows), nil
}

// getAdSegments returns the ad-labeled segments for the post in sequence
// order. When a segment carries more than one ad identification, the highest
// confidence row wins (query order breaks remaining ties by id).
func (s *segmentService) getAdSegments(ctx context.Context, tx *gorm.DB, post *types.Post) ([]SegmentView, error) {
	idents, err := s.identRepo.GetByPostIDAndLabel(ctx, tx, post.ID, types.LabelAd)
	if err != nil {
		return nil, fmt.Errorf("load ad identifications for post %s: %w", post.GUID, err)
	}

	out := make([]SegmentView, 0, len(idents))
	seen := map[uuid.UUID]bool{}
	for _, ident := range idents {
		seg := ident.TranscriptSegment
		if seg == nil || seen[seg.ID] {
			continue
		}
		seen[seg.ID] = true
		out = append(out, SegmentView{
			ID:          seg.ID,
			SequenceNum: seg.SequenceNum,
			StartTime:   seg.StartTime,
			EndTime:     seg.EndTime,
			Text:        seg.Text,
			Label:       types.LabelAd,
			Confidence:  ident.Confidence,
		})
	}
	return out, nil
}

// getTranscriptView returns every segment of the post in sequence order with
// its best identification, or the unknown label when none exists.
func (s *segmentService) getTranscriptView(ctx context.Context, tx *gorm.DB, post *types.Post) ([]SegmentView, error) {
	segs, err := s.segmentRepo.GetByPostID(ctx, tx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("load transcript for post %s: %w", post.GUID, err)
	}

	segIDs := make([]uuid.UUID, 0, len(segs))
	for _, seg := range segs {
		segIDs = append(segIDs, seg.ID)
	}
	idents, err := s.identRepo.GetBySegmentIDs(ctx, tx, segIDs)
	if err != nil {
		return nil, fmt.Errorf("load identifications for post %s: %w", post.GUID, err)
	}
	// Repo orders by confidence desc, so first seen per segment wins.
	bySegment := map[uuid.UUID]*types.Identification{}
	for _, ident := range idents {
		if _, ok := bySegment[ident.TranscriptSegmentID]; !ok {
			bySegment[ident.TranscriptSegmentID] = ident
		}
	}

	out := make([]SegmentView, 0, len(segs))
	for _, seg := range segs {
		view := SegmentView{
			ID:          seg.ID,
			SequenceNum: seg.SequenceNum,
			StartTime:   seg.StartTime,
			EndTime:     seg.EndTime,
			Text:        seg.Text,
			Label:       types.LabelUnknown,
			Confidence:  0.0,
		}
		if ident, ok := bySegment[seg.ID]; ok {
			view.Label = ident.Label
			view.Confidence = ident.Confidence
		}
		out = append(out, view)
	}
	return out, nil
}

func toMergeInput(views []SegmentView) []segments.Segment {
	out := make([]segments.Segment, 0, len(views))
	for _, v := range views {
		out = append(out, segments.Segment{
			ID:        v.ID,
			StartTime: v.StartTime,
			EndTime:   v.EndTime,
		})
	}
	return out
}
