package config

import (
	"testing"

	"supplier-routing-service/internal/engine"
	"supplier-routing-service/internal/reporter"
)

func TestCreateEngineConfig(t *testing.T) {
	tests := []struct {
		name        string
		matchMode   string
		threshold   float64
		expectError bool
		expectMode  engine.MatchMode
	}{
		{
			name:       "default exact",
			matchMode:  "",
			expectMode: engine.MatchModeExact,
		},
		{
			name:       "explicit exact",
			matchMode:  "exact",
			expectMode: engine.MatchModeExact,
		},
		{
			name:       "fuzzy with threshold",
			matchMode:  "fuzzy",
			threshold:  0.85,
			expectMode: engine.MatchModeFuzzy,
		},
		{
			name:        "unknown mode",
			matchMode:   "phonetic",
			expectError: true,
		},
		{
			name:        "threshold out of range",
			matchMode:   "exact",
			threshold:   1.5,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := CreateEngineConfig(tt.matchMode, tt.threshold, false)

			if tt.expectError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if config.ServiceMatchMode != tt.expectMode {
				t.Errorf("expected mode %s, got %s", tt.expectMode, config.ServiceMatchMode)
			}
			if tt.threshold > 0 && config.SimilarityThreshold != tt.threshold {
				t.Errorf("expected threshold %g, got %g", tt.threshold, config.SimilarityThreshold)
			}
			if !config.CollectReasons {
				t.Error("CLI engine config should collect rejection reasons")
			}
		})
	}
}

func TestCreateEngineConfig_IncludeInactive(t *testing.T) {
	config, err := CreateEngineConfig("exact", 0, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !config.IncludeInactive {
		t.Error("expected IncludeInactive to be set")
	}
}

func TestCreateParserConfig(t *testing.T) {
	config := CreateParserConfig(0)
	if config.MaxErrors <= 0 {
		t.Error("expected a positive default error limit")
	}
	if !config.ContinueOnError {
		t.Error("CLI parsing should continue past bad rows")
	}

	config = CreateParserConfig(5)
	if config.MaxErrors != 5 {
		t.Errorf("expected MaxErrors 5, got %d", config.MaxErrors)
	}
}

func TestCreateReportConfig(t *testing.T) {
	tests := []struct {
		format      string
		expectError bool
		expect      reporter.OutputFormat
	}{
		{format: "console", expect: reporter.FormatConsole},
		{format: "json", expect: reporter.FormatJSON},
		{format: "csv", expect: reporter.FormatCSV},
		{format: "xml", expectError: true},
		{format: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run("format_"+tt.format, func(t *testing.T) {
			config, err := CreateReportConfig(tt.format, true, false)

			if tt.expectError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if config.Format != tt.expect {
				t.Errorf("expected format %s, got %s", tt.expect, config.Format)
			}
			if !config.IncludeUnmatched || config.IncludeInvalid {
				t.Error("include flags not applied")
			}
		})
	}
}
