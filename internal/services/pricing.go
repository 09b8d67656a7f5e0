package services

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/podsweep/podsweep-backend/internal/logger"
)

// ModelPricing holds per-token costs for one model pattern.
type ModelPricing struct {
	Pattern            string  `json:"pattern"`
	InputCostPerToken  float64 `json:"input_cost_per_token"`
	OutputCostPerToken float64 `json:"output_cost_per_token"`
}

// PricingService loads custom model pricing from a CSV file
// (model_pattern,input_cost_per_million,output_cost_per_million; lines
// starting with # are comments). Owned by the app and injected, not a
// process-global.
type PricingService interface {
	GetPricing(modelName string) (*ModelPricing, bool)
	List() []ModelPricing
	Reload() error
}

type pricingService struct {
	log     *logger.Logger
	csvPath string

	mu      sync.RWMutex
	pricing []ModelPricing
}

func NewPricingService(baseLog *logger.Logger, csvPath string) PricingService {
	s := &pricingService{
		log:     baseLog.With("service", "PricingService"),
		csvPath: csvPath,
	}
	if err := s.Reload(); err != nil {
		// A missing or malformed file disables custom pricing but is not
		// fatal for the process.
		s.log.Warn("Failed to load model pricing", "path", csvPath, "error", err)
	}
	return s
}

func (s *pricingService) Reload() error {
	raw, err := os.ReadFile(s.csvPath)
	if err != nil {
		s.mu.Lock()
		s.pricing = nil
		s.mu.Unlock()
		return fmt.Errorf("read pricing csv: %w", err)
	}

	var kept []string
	for _, line := range strings.Split(string(raw), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		kept = append(kept, line)
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(kept, "\n")))
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("parse pricing csv: %w", err)
	}
	if len(records) == 0 {
		s.mu.Lock()
		s.pricing = nil
		s.mu.Unlock()
		return nil
	}

	header := map[string]int{}
	for i, col := range records[0] {
		header[strings.TrimSpace(strings.ToLower(col))] = i
	}
	patternIdx, ok1 := header["model_pattern"]
	inputIdx, ok2 := header["input_cost_per_million"]
	outputIdx, ok3 := header["output_cost_per_million"]
	if !ok1 || !ok2 || !ok3 {
		return fmt.Errorf("pricing csv missing required columns")
	}

	var loaded []ModelPricing
	for _, row := range records[1:] {
		if len(row) <= patternIdx || len(row) <= inputIdx || len(row) <= outputIdx {
			continue
		}
		pattern := strings.ToLower(strings.TrimSpace(row[patternIdx]))
		if pattern == "" {
			continue
		}
		inputCost, err := strconv.ParseFloat(strings.TrimSpace(row[inputIdx]), 64)
		if err != nil {
			return fmt.Errorf("parse input cost for %q: %w", pattern, err)
		}
		outputCost, err := strconv.ParseFloat(strings.TrimSpace(row[outputIdx]), 64)
		if err != nil {
			return fmt.Errorf("parse output cost for %q: %w", pattern, err)
		}
		loaded = append(loaded, ModelPricing{
			Pattern:            pattern,
			InputCostPerToken:  inputCost / 1_000_000,
			OutputCostPerToken: outputCost / 1_000_000,
		})
	}

	s.mu.Lock()
	s.pricing = loaded
	s.mu.Unlock()
	s.log.Info("Loaded custom model pricing", "patterns", len(loaded))
	return nil
}

func (s *pricingService) GetPricing(modelName string) (*ModelPricing, bool) {
	name := strings.ToLower(modelName)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pricing {
		if strings.Contains(name, p.Pattern) {
			match := p
			return &match, true
		}
	}
	return nil, false
}

func (s *pricingService) List() []ModelPricing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ModelPricing, len(s.pricing))
	copy(out, s.pricing)
	return out
}
