package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/podsweep/podsweep-backend/internal/repos/testutil"
	"github.com/podsweep/podsweep-backend/internal/types"
)

func TestProcessingJobRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewProcessingJobRepo(db, testutil.Logger(t))

	now := time.Now().UTC()
	lastErr := now.Add(-2 * time.Hour)

	queued := &types.ProcessingJob{
		ID:        uuid.New(),
		PostGUID:  "job-repo-guid",
		Status:    types.JobStatusQueued,
		Priority:  "normal",
		Payload:   datatypes.JSON([]byte("{}")),
		CreatedAt: now.Add(-3 * time.Hour),
		UpdatedAt: now.Add(-3 * time.Hour),
	}
	failed := &types.ProcessingJob{
		ID:          uuid.New(),
		PostGUID:    "job-repo-guid",
		Status:      types.JobStatusFailed,
		Priority:    "normal",
		Attempts:    1,
		LastErrorAt: &lastErr,
		Payload:     datatypes.JSON([]byte("{}")),
		CreatedAt:   now.Add(-2 * time.Hour),
		UpdatedAt:   now.Add(-2 * time.Hour),
	}
	pending := &types.ProcessingJob{
		ID:        uuid.New(),
		PostGUID:  "job-repo-guid",
		Status:    types.JobStatusPendingReview,
		Priority:  "normal",
		Payload:   datatypes.JSON([]byte("{}")),
		CreatedAt: now.Add(-1 * time.Hour),
		UpdatedAt: now.Add(-1 * time.Hour),
	}

	if _, err := repo.Create(ctx, tx, []*types.ProcessingJob{queued, failed, pending}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, queued.ID)
	if err != nil || got == nil || got.ID != queued.ID {
		t.Fatalf("GetByID: err=%v got=%v", err, got)
	}
	if got, err := repo.GetByID(ctx, tx, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetByID (absent): err=%v got=%v", err, got)
	}

	latest, err := repo.GetLatestByPostGUID(ctx, tx, "job-repo-guid", types.JobStatusPendingReview)
	if err != nil {
		t.Fatalf("GetLatestByPostGUID: %v", err)
	}
	if latest == nil || latest.ID != pending.ID {
		t.Fatalf("GetLatestByPostGUID: expected %v got %v", pending.ID, latest)
	}
	if latest, err := repo.GetLatestByPostGUID(ctx, tx, "job-repo-guid", ""); err != nil || latest == nil || latest.ID != pending.ID {
		t.Fatalf("GetLatestByPostGUID (any status): err=%v got=%v", err, latest)
	}

	// Runnable jobs are claimed oldest first: the queued job, then the
	// retryable failed one. The pending_review job is never claimed.
	claim1, err := repo.ClaimNextRunnable(ctx, tx, 3, time.Hour)
	if err != nil {
		t.Fatalf("ClaimNextRunnable #1: %v", err)
	}
	if claim1 == nil || claim1.ID != queued.ID {
		t.Fatalf("ClaimNextRunnable #1: expected %v got %v", queued.ID, claim1)
	}

	claim2, err := repo.ClaimNextRunnable(ctx, tx, 3, time.Hour)
	if err != nil {
		t.Fatalf("ClaimNextRunnable #2: %v", err)
	}
	if claim2 == nil || claim2.ID != failed.ID {
		t.Fatalf("ClaimNextRunnable #2: expected %v got %v", failed.ID, claim2)
	}

	claim3, err := repo.ClaimNextRunnable(ctx, tx, 3, time.Hour)
	if err != nil {
		t.Fatalf("ClaimNextRunnable #3: %v", err)
	}
	if claim3 != nil {
		t.Fatalf("ClaimNextRunnable #3: expected nil, got %v", claim3)
	}

	if err := repo.UpdateFields(ctx, tx, pending.ID, map[string]interface{}{
		"segments_approved": true,
		"status":            types.JobStatusQueued,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	updated, err := repo.GetByID(ctx, tx, pending.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if !updated.SegmentsApproved || updated.Status != types.JobStatusQueued {
		t.Fatalf("UpdateFields not applied: %+v", updated)
	}
}

func TestProcessingJobRepo_FailedJobWaitsForRetryDelay(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewProcessingJobRepo(db, testutil.Logger(t))

	justFailed := time.Now().UTC().Add(-time.Minute)
	failed := &types.ProcessingJob{
		ID:          uuid.New(),
		PostGUID:    "job-repo-retry-guid",
		Status:      types.JobStatusFailed,
		Priority:    "normal",
		Attempts:    1,
		LastErrorAt: &justFailed,
		Payload:     datatypes.JSON([]byte("{}")),
	}
	if _, err := repo.Create(ctx, tx, []*types.ProcessingJob{failed}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	claimed, err := repo.ClaimNextRunnable(ctx, tx, 3, time.Hour)
	if err != nil {
		t.Fatalf("ClaimNextRunnable: %v", err)
	}
	if claimed != nil {
		t.Fatalf("expected no claim inside retry delay, got %v", claimed.ID)
	}
}
