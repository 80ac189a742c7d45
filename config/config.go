// Package config loads a RunnerConfig from YAML: the sizing and strategy
// choices a runner.BookRunner needs at construction time, which spec.md §7
// treats as caller-supplied configuration (a recoverable error if
// out-of-range) rather than a book-internal invariant.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"limitbook/table"
)

// Strategy selects which table.LevelStore implementation a side uses.
type Strategy string

const (
	StrategyMap         Strategy = "map"
	StrategyBTree       Strategy = "btree"
	StrategySortedSlice Strategy = "sorted_slice"
	StrategyHotCold     Strategy = "hot_cold"
)

// RunnerConfig is the YAML-loaded configuration for one runner.BookRunner.
type RunnerConfig struct {
	// BookId tags which book this config describes, carried through into
	// events.Record.BookId when multiplexing multiple runners upstream.
	BookId uint32 `yaml:"book_id"`

	// BuyStrategy / SellStrategy select the LevelStore implementation for
	// each side independently — nothing requires the two sides to match.
	BuyStrategy  Strategy `yaml:"buy_strategy"`
	SellStrategy Strategy `yaml:"sell_strategy"`

	// HotLevels is the hot/cold ring-buffer size, only consulted when the
	// corresponding side's strategy is StrategyHotCold. Rounded up to the
	// next power of two and validated against
	// [table.MinHotLevels, table.MaxHotLevels] by table.NewHotColdLevelStore
	// itself; this package only supplies a default (via
	// DefaultRunnerConfig) when the YAML file omits the field.
	HotLevels int `yaml:"hot_levels"`

	// RingBufferCapacity sizes the runner's event queue (runner.BookRunner).
	// Must be a power of two.
	RingBufferCapacity int `yaml:"ring_buffer_capacity"`
}

// DefaultRunnerConfig returns the configuration a runner.BookRunner uses
// when no YAML file overrides it: S1 (map-based) on both sides, the
// original's default hot window size, and a modest ring buffer.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		BuyStrategy:        StrategyMap,
		SellStrategy:       StrategyMap,
		HotLevels:          table.DefaultHotLevels,
		RingBufferCapacity: 1024,
	}
}

// Load reads and parses a RunnerConfig from a YAML file at path, starting
// from DefaultRunnerConfig so an omitted field keeps its default rather
// than zeroing out.
func Load(path string) (RunnerConfig, error) {
	cfg := DefaultRunnerConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return RunnerConfig{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunnerConfig{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return RunnerConfig{}, err
	}
	return cfg, nil
}

// Validate checks the fields this package itself is responsible for
// (strategy names, ring-buffer power-of-two); hot/cold range validation is
// left to table.NewHotColdLevelStore, which owns that invariant and is the
// single source of truth for it.
func (c RunnerConfig) Validate() error {
	for _, s := range []Strategy{c.BuyStrategy, c.SellStrategy} {
		switch s {
		case StrategyMap, StrategyBTree, StrategySortedSlice, StrategyHotCold:
		default:
			return fmt.Errorf("config: unknown level-store strategy %q", s)
		}
	}
	if c.RingBufferCapacity <= 0 || c.RingBufferCapacity&(c.RingBufferCapacity-1) != 0 {
		return fmt.Errorf("config: ring_buffer_capacity must be a positive power of two, got %d", c.RingBufferCapacity)
	}
	return nil
}
