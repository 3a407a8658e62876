package engine

import "testing"

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}

	if config.ServiceMatchMode != MatchModeExact {
		t.Errorf("Expected exact match mode, got %s", config.ServiceMatchMode)
	}

	if config.IncludeInactive {
		t.Error("Default config should exclude inactive suppliers")
	}
}

func TestFactoryConfigs(t *testing.T) {
	for name, config := range map[string]*Config{
		"strict":  StrictConfig(),
		"lenient": LenientConfig(),
	} {
		if err := config.Validate(); err != nil {
			t.Errorf("%s config should be valid: %v", name, err)
		}
	}

	if LenientConfig().ServiceMatchMode != MatchModeFuzzy {
		t.Error("Lenient config should use fuzzy matching")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"bad match mode", func(c *Config) { c.ServiceMatchMode = "phonetic" }, true},
		{"threshold above 1", func(c *Config) { c.SimilarityThreshold = 1.5 }, true},
		{"negative threshold", func(c *Config) { c.SimilarityThreshold = -0.1 }, true},
		{"fuzzy with zero threshold", func(c *Config) {
			c.ServiceMatchMode = MatchModeFuzzy
			c.SimilarityThreshold = 0
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	original := DefaultConfig()
	clone := original.Clone()

	clone.ServiceMatchMode = MatchModeFuzzy
	clone.SimilarityThreshold = 0.5

	if original.ServiceMatchMode != MatchModeExact {
		t.Error("Modifying clone should not affect original")
	}

	var nilConfig *Config
	if nilConfig.Clone() != nil {
		t.Error("Cloning nil should return nil")
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.SimilarityThreshold = 2.0

	if _, err := NewEngine(config); err == nil {
		t.Error("Expected error for invalid configuration")
	}
}

func TestNewEngine_NilConfig(t *testing.T) {
	eng, err := NewEngine(nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if eng.Config().ServiceMatchMode != MatchModeExact {
		t.Error("Nil config should fall back to defaults")
	}
}
