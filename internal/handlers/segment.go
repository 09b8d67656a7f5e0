package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/podsweep/podsweep-backend/internal/logger"
	"github.com/podsweep/podsweep-backend/internal/services"
)

type SegmentHandler struct {
	log            *logger.Logger
	segmentService services.SegmentService
	jobService     services.JobService
}

func NewSegmentHandler(log *logger.Logger, segmentService services.SegmentService, jobService services.JobService) *SegmentHandler {
	return &SegmentHandler{
		log:            log.With("handler", "SegmentHandler"),
		segmentService: segmentService,
		jobService:     jobService,
	}
}

// segmentListRequest carries the override ranges submitted by the review UI.
// Segments is a pointer so a missing field is distinguishable from an empty
// list, which legitimately clears the stored overrides.
type segmentListRequest struct {
	Segments *[]services.OverrideInput `json:"segments"`
}

// GET /api/posts/:guid/identified-segments
func (h *SegmentHandler) GetIdentifiedSegments(c *gin.Context) {
	ctx := c.Request.Context()
	guid := c.Param("guid")

	post, err := h.segmentService.ResolvePost(ctx, nil, guid)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			RespondError(c, http.StatusNotFound, "post_not_found", err)
			return
		}
		h.log.Error("GetIdentifiedSegments failed", "post_guid", guid, "error", err)
		RespondError(c, http.StatusInternalServerError, "load_post_failed", err)
		return
	}

	view, err := h.segmentService.GetIdentifiedSegments(ctx, nil, post)
	if err != nil {
		h.log.Error("GetIdentifiedSegments failed", "post_guid", guid, "error", err)
		RespondError(c, http.StatusInternalServerError, "load_segments_failed", err)
		return
	}
	RespondOK(c, view)
}

// POST /api/posts/:guid/approve-segments
//
// Stores the approved subset of the submitted ranges and resumes the latest
// job waiting on review, when one exists. A resume failure is reported as 500
// but the stored overrides stand.
func (h *SegmentHandler) ApproveSegments(c *gin.Context) {
	ctx := c.Request.Context()
	guid := c.Param("guid")

	var req segmentListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.Segments == nil {
		RespondError(c, http.StatusBadRequest, "missing_segments", errors.New("missing required field: segments"))
		return
	}

	post, err := h.segmentService.ResolvePost(ctx, nil, guid)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			RespondError(c, http.StatusNotFound, "post_not_found", err)
			return
		}
		h.log.Error("ApproveSegments failed", "post_guid", guid, "error", err)
		RespondError(c, http.StatusInternalServerError, "load_post_failed", err)
		return
	}

	approved := make([]services.OverrideInput, 0, len(*req.Segments))
	for _, seg := range *req.Segments {
		if seg.IsApproved() {
			approved = append(approved, seg)
		}
	}

	count, err := h.segmentService.ApplyOverrides(ctx, nil, post, approved)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRange) {
			RespondError(c, http.StatusBadRequest, "invalid_segment_range", err)
			return
		}
		h.log.Error("ApproveSegments failed", "post_guid", guid, "error", err)
		RespondError(c, http.StatusInternalServerError, "apply_overrides_failed", err)
		return
	}

	job, found, err := h.jobService.ResumeAfterApproval(ctx, nil, guid)
	if err != nil {
		h.log.Error("Failed to resume processing", "post_guid", guid, "error", err)
		RespondError(c, http.StatusInternalServerError, "resume_failed", err)
		return
	}
	if found {
		RespondOK(c, gin.H{
			"message":        "Segments approved, processing resumed",
			"approved_count": count,
			"job":            job,
		})
		return
	}
	RespondOK(c, gin.H{
		"message":        "Segments approved",
		"approved_count": count,
	})
}

// POST /api/posts/:guid/override-segments
//
// Replaces the stored overrides without touching job state. Every submitted
// range is handed to the service; rejected ones are dropped there.
func (h *SegmentHandler) OverrideSegments(c *gin.Context) {
	ctx := c.Request.Context()
	guid := c.Param("guid")

	var req segmentListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.Segments == nil {
		RespondError(c, http.StatusBadRequest, "missing_segments", errors.New("missing required field: segments"))
		return
	}

	post, err := h.segmentService.ResolvePost(ctx, nil, guid)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			RespondError(c, http.StatusNotFound, "post_not_found", err)
			return
		}
		h.log.Error("OverrideSegments failed", "post_guid", guid, "error", err)
		RespondError(c, http.StatusInternalServerError, "load_post_failed", err)
		return
	}

	if _, err := h.segmentService.ApplyOverrides(ctx, nil, post, *req.Segments); err != nil {
		if errors.Is(err, services.ErrInvalidRange) {
			RespondError(c, http.StatusBadRequest, "invalid_segment_range", err)
			return
		}
		h.log.Error("OverrideSegments failed", "post_guid", guid, "error", err)
		RespondError(c, http.StatusInternalServerError, "apply_overrides_failed", err)
		return
	}

	RespondOK(c, gin.H{
		"message":       "Segment overrides saved",
		"segment_count": len(*req.Segments),
	})
}

// GET /api/posts/:guid/removal-ranges
func (h *SegmentHandler) GetRemovalRanges(c *gin.Context) {
	ctx := c.Request.Context()
	guid := c.Param("guid")

	post, err := h.segmentService.ResolvePost(ctx, nil, guid)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			RespondError(c, http.StatusNotFound, "post_not_found", err)
			return
		}
		h.log.Error("GetRemovalRanges failed", "post_guid", guid, "error", err)
		RespondError(c, http.StatusInternalServerError, "load_post_failed", err)
		return
	}

	plan, err := h.segmentService.GetRemovalRanges(ctx, nil, post)
	if err != nil {
		h.log.Error("GetRemovalRanges failed", "post_guid", guid, "error", err)
		RespondError(c, http.StatusInternalServerError, "load_removal_ranges_failed", err)
		return
	}
	RespondOK(c, plan)
}
