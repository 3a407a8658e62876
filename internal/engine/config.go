// Package engine implements the supplier routing engine: given a
// money-transfer order and a supplier catalog it decides which suppliers
// are eligible, what each would cost, and which one wins.
//
// The engine works in three stages:
//  1. Eligibility filtering per supplier/service (service type, amount
//     bracket, qualification answers, rate presence)
//  2. Cost calculation over the eligible set
//  3. Minimum-cost selection with first-wins tie-breaking
//
// Example usage:
//
//	config := engine.DefaultConfig()
//	config.ServiceMatchMode = engine.MatchModeFuzzy
//
//	eng, err := engine.NewEngine(config)
//	result, err := eng.Route(order, suppliers)
package engine

import (
	"fmt"

	"supplier-routing-service/internal/normalize"
	"supplier-routing-service/pkg/logger"
)

// MatchMode defines how order service types are matched against the
// service types declared in the catalog.
type MatchMode string

const (
	// MatchModeExact requires canonical equality of service type labels.
	// This is the default; hand-entered catalogs are small enough that a
	// miss is better surfaced than silently approximated.
	MatchModeExact MatchMode = "exact"

	// MatchModeFuzzy accepts service types whose similarity meets the
	// configured threshold, tolerating typos and word reordering.
	MatchModeFuzzy MatchMode = "fuzzy"
)

// Config holds configuration parameters for the routing engine.
//
// Use the provided factory functions for common scenarios:
//   - DefaultConfig(): exact service matching, balanced for most use cases
//   - StrictConfig(): exact matching, malformed catalog entries reported loudly
//   - LenientConfig(): fuzzy matching for exploratory runs over messy catalogs
type Config struct {
	// ServiceMatchMode selects exact or fuzzy service type matching
	ServiceMatchMode MatchMode `json:"service_match_mode"`

	// SimilarityThreshold is the minimum similarity for fuzzy service
	// matching (0.0 to 1.0). Ignored in exact mode.
	SimilarityThreshold float64 `json:"similarity_threshold"`

	// IncludeInactive considers suppliers flagged inactive. Off by default;
	// inactive suppliers are skipped before any service inspection.
	IncludeInactive bool `json:"include_inactive"`

	// CollectReasons records per-supplier ineligibility reasons on outcomes.
	// Costs a little allocation per evaluation; useful for reports and
	// debugging, safe to disable for large batches.
	CollectReasons bool `json:"collect_reasons"`

	// Logger receives malformed-catalog diagnostics. Defaults to the
	// global logger.
	Logger logger.Logger `json:"-"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ServiceMatchMode:    MatchModeExact,
		SimilarityThreshold: normalize.DefaultFuzzyThreshold,
		IncludeInactive:     false,
		CollectReasons:      true,
	}
}

// StrictConfig returns a configuration for strict routing
func StrictConfig() *Config {
	return &Config{
		ServiceMatchMode:    MatchModeExact,
		SimilarityThreshold: 1.0,
		IncludeInactive:     false,
		CollectReasons:      true,
	}
}

// LenientConfig returns a configuration tolerant of messy catalog labels
func LenientConfig() *Config {
	return &Config{
		ServiceMatchMode:    MatchModeFuzzy,
		SimilarityThreshold: normalize.DefaultFuzzyThreshold,
		IncludeInactive:     false,
		CollectReasons:      true,
	}
}

// Validate checks if the engine configuration is valid
func (c *Config) Validate() error {
	switch c.ServiceMatchMode {
	case MatchModeExact, MatchModeFuzzy:
	default:
		return fmt.Errorf("invalid service match mode: %s", c.ServiceMatchMode)
	}

	if c.SimilarityThreshold < 0.0 || c.SimilarityThreshold > 1.0 {
		return fmt.Errorf("similarity threshold must be between 0.0 and 1.0: %f", c.SimilarityThreshold)
	}

	if c.ServiceMatchMode == MatchModeFuzzy && c.SimilarityThreshold == 0.0 {
		return fmt.Errorf("fuzzy matching requires a positive similarity threshold")
	}

	return nil
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	return &clone
}

// matcher builds the service type matcher implied by the configuration
func (c *Config) matcher() normalize.Matcher {
	if c.ServiceMatchMode == MatchModeFuzzy {
		return normalize.NewFuzzyMatcher(c.SimilarityThreshold)
	}
	return normalize.NewExactMatcher()
}

// String returns a human-readable description of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{ServiceMatchMode: %s, SimilarityThreshold: %.2f, IncludeInactive: %t}",
		c.ServiceMatchMode, c.SimilarityThreshold, c.IncludeInactive)
}
