package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/podsweep/podsweep-backend/internal/logger"
	"github.com/podsweep/podsweep-backend/internal/services"
	"github.com/podsweep/podsweep-backend/internal/types"
)

type Services struct {
	Cache   services.CacheService
	Pricing services.PricingService
	Segment services.SegmentService
	Job     services.JobService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	cache := wireCache(log, cfg)
	pricing := services.NewPricingService(log, cfg.PricingCSVPath)

	segment := services.NewSegmentService(
		db,
		log,
		reposet.Post,
		reposet.TranscriptSegment,
		reposet.Identification,
		reposet.SegmentOverride,
		cache,
		cfg.MergeGapTolerance,
		cfg.CacheTTL,
	)

	job := services.NewJobService(
		db,
		log,
		reposet.ProcessingJob,
		removalPlanProcessor(segment),
		cfg.WorkerMaxAttempts,
		cfg.WorkerRetryDelay,
		cfg.WorkerPollInterval,
	)

	return Services{
		Cache:   cache,
		Pricing: pricing,
		Segment: segment,
		Job:     job,
	}, nil
}

func wireCache(log *logger.Logger, cfg Config) services.CacheService {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, using in-memory cache")
		return services.NewMemoryCache()
	}
	cache, err := services.NewRedisCache(log)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory cache", "addr", cfg.RedisAddr, "error", err)
		return services.NewMemoryCache()
	}
	return cache
}

// removalPlanProcessor is the default worker step: it resolves the post and
// stores the current removal plan in the job payload. The heavier pipeline
// stages run outside this backend.
func removalPlanProcessor(segment services.SegmentService) services.Processor {
	return func(ctx context.Context, job *types.ProcessingJob) (map[string]any, error) {
		post, err := segment.ResolvePost(ctx, nil, job.PostGUID)
		if err != nil {
			return nil, fmt.Errorf("resolve post for job %s: %w", job.ID, err)
		}
		plan, err := segment.GetRemovalRanges(ctx, nil, post)
		if err != nil {
			return nil, fmt.Errorf("compute removal plan for job %s: %w", job.ID, err)
		}
		return map[string]any{
			"removal_ranges": plan.Ranges,
			"source":         plan.Source,
		}, nil
	}
}
