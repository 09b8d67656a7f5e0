package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/podsweep/podsweep-backend/internal/logger"
	"github.com/podsweep/podsweep-backend/internal/repos"
	"github.com/podsweep/podsweep-backend/internal/types"
)

const (
	JobPriorityNormal      = "normal"
	JobPriorityInteractive = "interactive"
)

// Processor runs one claimed job and returns the payload to store on
// completion. The heavy pipeline stages (download, transcription,
// classification, audio edit) live outside this backend; the default
// processor wired by the app computes the removal plan for the post.
type Processor func(ctx context.Context, job *types.ProcessingJob) (map[string]any, error)

type JobService interface {
	StartPostProcessing(ctx context.Context, tx *gorm.DB, postGUID string, priority string) (*types.ProcessingJob, error)
	// ResumeAfterApproval re-queues the latest pending_review job for the
	// post with segments_approved set. The bool reports whether such a job
	// existed.
	ResumeAfterApproval(ctx context.Context, tx *gorm.DB, postGUID string) (*types.ProcessingJob, bool, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProcessingJob, error)
	StartWorker(ctx context.Context)
}

type jobService struct {
	db        *gorm.DB
	log       *logger.Logger
	repo      repos.ProcessingJobRepo
	processor Processor

	maxAttempts  int
	retryDelay   time.Duration
	pollInterval time.Duration
	nudge        chan struct{}
}

func NewJobService(
	db *gorm.DB,
	baseLog *logger.Logger,
	repo repos.ProcessingJobRepo,
	processor Processor,
	maxAttempts int,
	retryDelay time.Duration,
	pollInterval time.Duration,
) JobService {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if retryDelay <= 0 {
		retryDelay = 30 * time.Second
	}
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &jobService{
		db:           db,
		log:          baseLog.With("service", "JobService"),
		repo:         repo,
		processor:    processor,
		maxAttempts:  maxAttempts,
		retryDelay:   retryDelay,
		pollInterval: pollInterval,
		nudge:        make(chan struct{}, 1),
	}
}

func (s *jobService) StartPostProcessing(ctx context.Context, tx *gorm.DB, postGUID string, priority string) (*types.ProcessingJob, error) {
	if postGUID == "" {
		return nil, fmt.Errorf("missing post_guid")
	}
	if priority == "" {
		priority = JobPriorityNormal
	}

	payload, _ := json.Marshal(map[string]any{"trigger": "api"})
	job := &types.ProcessingJob{
		ID:       uuid.New(),
		PostGUID: postGUID,
		Status:   types.JobStatusQueued,
		Priority: priority,
		Payload:  datatypes.JSON(payload),
	}
	created, err := s.repo.Create(ctx, tx, []*types.ProcessingJob{job})
	if err != nil {
		return nil, fmt.Errorf("enqueue processing job for %s: %w", postGUID, err)
	}
	s.log.Info("Queued post processing", "post_guid", postGUID, "job_id", job.ID, "priority", priority)
	s.wake()
	return created[0], nil
}

func (s *jobService) ResumeAfterApproval(ctx context.Context, tx *gorm.DB, postGUID string) (*types.ProcessingJob, bool, error) {
	pending, err := s.repo.GetLatestByPostGUID(ctx, tx, postGUID, types.JobStatusPendingReview)
	if err != nil {
		return nil, false, fmt.Errorf("find pending review job for %s: %w", postGUID, err)
	}
	if pending == nil {
		return nil, false, nil
	}

	err = s.repo.UpdateFields(ctx, tx, pending.ID, map[string]interface{}{
		"segments_approved": true,
		"status":            types.JobStatusQueued,
		"priority":          JobPriorityInteractive,
		"error":             "",
	})
	if err != nil {
		return nil, true, fmt.Errorf("resume job %s: %w", pending.ID, err)
	}

	job, err := s.repo.GetByID(ctx, tx, pending.ID)
	if err != nil {
		return nil, true, fmt.Errorf("reload job %s: %w", pending.ID, err)
	}
	s.log.Info("Resumed job after approval", "post_guid", postGUID, "job_id", pending.ID)
	s.wake()
	return job, true, nil
}

func (s *jobService) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProcessingJob, error) {
	return s.repo.GetByID(ctx, tx, id)
}

func (s *jobService) StartWorker(ctx context.Context) {
	go s.workerLoop(ctx)
}

func (s *jobService) wake() {
	select {
	case s.nudge <- struct{}{}:
	default:
	}
}

func (s *jobService) workerLoop(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		s.drainRunnable(ctx)
		select {
		case <-ctx.Done():
			return
		case <-s.nudge:
		case <-ticker.C:
		}
	}
}

func (s *jobService) drainRunnable(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		job, err := s.repo.ClaimNextRunnable(ctx, nil, s.maxAttempts, s.retryDelay)
		if err != nil {
			s.log.Error("Failed to claim next job", "error", err)
			return
		}
		if job == nil {
			return
		}
		s.runJob(ctx, job)
	}
}

func (s *jobService) runJob(ctx context.Context, job *types.ProcessingJob) {
	jobLog := s.log.With("job_id", job.ID, "post_guid", job.PostGUID)
	jobLog.Info("Processing job")

	var (
		result map[string]any
		err    error
	)
	if s.processor != nil {
		result, err = s.processor(ctx, job)
	}
	now := time.Now()
	if err != nil {
		jobLog.Error("Job failed", "error", err)
		uErr := s.repo.UpdateFields(ctx, nil, job.ID, map[string]interface{}{
			"status":        types.JobStatusFailed,
			"error":         err.Error(),
			"last_error_at": now,
		})
		if uErr != nil {
			jobLog.Error("Failed to record job failure", "error", uErr)
		}
		return
	}

	updates := map[string]interface{}{
		"status":       types.JobStatusCompleted,
		"current_step": job.TotalSteps,
		"finished_at":  now,
	}
	if result != nil {
		if raw, mErr := json.Marshal(result); mErr == nil {
			updates["payload"] = datatypes.JSON(raw)
		}
	}
	if uErr := s.repo.UpdateFields(ctx, nil, job.ID, updates); uErr != nil {
		jobLog.Error("Failed to record job completion", "error", uErr)
		return
	}
	jobLog.Info("Job completed")
}
