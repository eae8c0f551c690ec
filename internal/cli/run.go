package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/akozyrev/redflag/internal/cache"
	"github.com/akozyrev/redflag/internal/engine"
	"github.com/akozyrev/redflag/internal/llm"
	"github.com/akozyrev/redflag/internal/metrics"
	"github.com/akozyrev/redflag/internal/model"
)

// buildEngine assembles an engine from the effective configuration.
// The returned closer releases the cache backend.
func buildEngine() (*engine.Engine, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	store, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("cache backend: %w", err)
	}

	chain := llm.NewChain(cfg.Providers)
	if len(chain) == 0 && verbose {
		fmt.Fprintln(os.Stderr, "Warning: no usable providers, results will be deterministic")
	}

	eng := engine.New(cfg, store, chain, metrics.New())
	return eng, func() { _ = store.Close() }, nil
}

// loadAnswers reads an answer set from a YAML (or JSON) file mapping
// question IDs to chosen option indexes
func loadAnswers(path string) (model.AnswerSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers file: %w", err)
	}
	var answers model.AnswerSet
	if err := yaml.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("parse answers file %s: %w", path, err)
	}
	return answers, nil
}

// printResult renders a finished analysis to stdout. With jsonOut the
// raw structure goes out instead, for piping.
func printResult(res *engine.Result, jsonOut bool) error {
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	p := res.Profile
	fmt.Printf("Overall risk:  %.1f / 100  [%s]\n", p.OverallScore, p.Urgency)
	fmt.Printf("Source:        %s", p.Source)
	if res.Meta.ProviderUsed != "" && res.Meta.ProviderUsed != "none" {
		fmt.Printf(" (%s)", res.Meta.ProviderUsed)
	}
	if res.Meta.CacheHit {
		fmt.Print(" [cached]")
	}
	fmt.Println()

	if len(p.CategoryScores) > 0 {
		fmt.Println("\nCategory scores:")
		names := make([]string, 0, len(p.CategoryScores))
		for name := range p.CategoryScores {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-12s %.1f / 10\n", name, p.CategoryScores[name])
		}
	}

	if len(p.SafetyAlerts) > 0 {
		fmt.Println("\nSAFETY ALERTS:")
		for _, alert := range p.SafetyAlerts {
			fmt.Printf("  !! %s\n", alert)
		}
	}

	if len(p.RedFlags) > 0 {
		fmt.Println("\nRed flags:")
		for _, flag := range p.RedFlags {
			fmt.Printf("  - %s\n", flag)
		}
	}

	if p.PersonalityType != "" {
		fmt.Printf("\nDominant pattern: %s\n", p.PersonalityType)
	}
	if p.Narrative != "" {
		fmt.Printf("\n%s\n", p.Narrative)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "\nattempts=%d quality=%d strategy=%d latency=%dms\n",
			res.Meta.Attempts, res.Meta.QualityScore, res.Meta.ExtractionStrategy, res.Meta.LatencyMS)
	}
	return nil
}
