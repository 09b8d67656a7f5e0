package services

import (
	"os"
	"path/filepath"
	"testing"
)

func writePricingCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model_pricing.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestPricingService_LoadAndLookup(t *testing.T) {
	path := writePricingCSV(t, `# custom pricing
model_pattern,input_cost_per_million,output_cost_per_million
gpt-4o-mini,0.15,0.60
whisper,6.0,0.0
`)
	log := testLogger(t)
	svc := NewPricingService(log, path)

	p, ok := svc.GetPricing("openai/GPT-4o-mini-2024")
	if !ok {
		t.Fatal("expected pricing match")
	}
	if p.InputCostPerToken != 0.15/1_000_000 {
		t.Errorf("input cost = %v", p.InputCostPerToken)
	}
	if p.OutputCostPerToken != 0.60/1_000_000 {
		t.Errorf("output cost = %v", p.OutputCostPerToken)
	}

	if _, ok := svc.GetPricing("claude-sonnet"); ok {
		t.Error("expected no match for unknown model")
	}

	if got := len(svc.List()); got != 2 {
		t.Errorf("List() returned %d patterns, want 2", got)
	}
}

func TestPricingService_MissingFileIsNonFatal(t *testing.T) {
	log := testLogger(t)
	svc := NewPricingService(log, filepath.Join(t.TempDir(), "absent.csv"))

	if _, ok := svc.GetPricing("gpt-4o"); ok {
		t.Error("expected empty pricing table")
	}
	if len(svc.List()) != 0 {
		t.Error("expected no patterns loaded")
	}
}

func TestPricingService_Reload(t *testing.T) {
	path := writePricingCSV(t, `model_pattern,input_cost_per_million,output_cost_per_million
gpt-4o,2.5,10.0
`)
	log := testLogger(t)
	svc := NewPricingService(log, path)

	if _, ok := svc.GetPricing("gpt-4o"); !ok {
		t.Fatal("expected initial match")
	}

	if err := os.WriteFile(path, []byte(`model_pattern,input_cost_per_million,output_cost_per_million
glm-4,0.6,2.2
`), 0o644); err != nil {
		t.Fatalf("rewrite csv: %v", err)
	}
	if err := svc.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	if _, ok := svc.GetPricing("gpt-4o"); ok {
		t.Error("stale pattern survived reload")
	}
	if _, ok := svc.GetPricing("zhipu/GLM-4-flash"); !ok {
		t.Error("expected new pattern after reload")
	}
}
