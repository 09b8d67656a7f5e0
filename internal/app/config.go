package app

import (
	"strings"
	"time"

	"github.com/podsweep/podsweep-backend/internal/logger"
	"github.com/podsweep/podsweep-backend/internal/segments"
	"github.com/podsweep/podsweep-backend/internal/utils"
)

type Config struct {
	Port              string
	AllowOrigins      []string
	RedisAddr         string
	MergeGapTolerance float64
	CacheTTL          time.Duration
	PricingCSVPath    string

	WorkerMaxAttempts  int
	WorkerRetryDelay   time.Duration
	WorkerPollInterval time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	origins := utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173", log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "", log)
	gapTolerance := utils.GetEnvAsFloat("MERGE_GAP_TOLERANCE", segments.DefaultGapTolerance, log)
	cacheTTLSeconds := utils.GetEnvAsInt("SEGMENT_CACHE_TTL", 300, log)
	pricingCSVPath := utils.GetEnv("MODEL_PRICING_CSV", "model_pricing.csv", log)
	workerMaxAttempts := utils.GetEnvAsInt("JOB_MAX_ATTEMPTS", 3, log)
	workerRetryDelaySeconds := utils.GetEnvAsInt("JOB_RETRY_DELAY", 30, log)
	workerPollSeconds := utils.GetEnvAsInt("JOB_POLL_INTERVAL", 5, log)

	return Config{
		Port:               port,
		AllowOrigins:       splitOrigins(origins),
		RedisAddr:          redisAddr,
		MergeGapTolerance:  gapTolerance,
		CacheTTL:           time.Duration(cacheTTLSeconds) * time.Second,
		PricingCSVPath:     pricingCSVPath,
		WorkerMaxAttempts:  workerMaxAttempts,
		WorkerRetryDelay:   time.Duration(workerRetryDelaySeconds) * time.Second,
		WorkerPollInterval: time.Duration(workerPollSeconds) * time.Second,
	}
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
