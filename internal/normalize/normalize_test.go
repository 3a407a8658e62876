package normalize

import "testing"

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"English Account?", "englishaccount"},
		{"  ALIPAY transfer ", "alipaytransfer"},
		{"english-account", "englishaccount"},
		{"USD Transfer", "usdtransfer"},
		{"工商银行", "工商银行"},
		{"农业银行", "农业银行"},
		{"rate (daily)", "ratedaily"},
		{"", ""},
		{"?!.,", ""},
		{"limit 500", "limit500"},
	}

	for _, tt := range tests {
		if got := CanonicalKey(tt.input); got != tt.expected {
			t.Errorf("CanonicalKey(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

// Distinct non-Latin labels must not collapse to the same key.
func TestCanonicalKey_DistinctScripts(t *testing.T) {
	if CanonicalKey("工商银行") == CanonicalKey("农业银行") {
		t.Error("Distinct CJK labels collapsed to the same canonical key")
	}
}

func TestCanonicalValue(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Yes  ", "yes"},
		{"YES", "yes"},
		{"7.05", "7.05"},
		{"Bank   of   China", "bank of china"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CanonicalValue(tt.input); got != tt.expected {
			t.Errorf("CanonicalValue(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestExactMatcher(t *testing.T) {
	m := NewExactMatcher()

	tests := []struct {
		a, b     string
		expected bool
	}{
		{"alipay", "Alipay", true},
		{"english account", "English-Account?", true},
		{"alipay", "wechat", false},
		{"alipay", "alipays", false},
	}

	for _, tt := range tests {
		if got := m.Match(tt.a, tt.b); got != tt.expected {
			t.Errorf("Match(%q, %q) = %v, expected %v", tt.a, tt.b, got, tt.expected)
		}
	}

	if m.Similarity("alipay", "ALIPAY") != 1.0 {
		t.Error("Expected similarity 1.0 for canonical equals")
	}
	if m.Similarity("alipay", "wechat") != 0.0 {
		t.Error("Expected similarity 0.0 for mismatch")
	}
}

func TestFuzzyMatcher_Match(t *testing.T) {
	m := NewFuzzyMatcher(DefaultFuzzyThreshold)

	tests := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{"identical", "alipay", "alipay", true},
		{"case and punctuation", "English Account?", "english account", true},
		{"single typo", "alipay transfer", "alipay transfper", true},
		{"word order", "usd bank transfer", "bank transfer usd", true},
		{"unrelated", "alipay", "wechat", false},
		{"short vs long", "a", "alipay", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Match(tt.a, tt.b); got != tt.expected {
				t.Errorf("Match(%q, %q) = %v (similarity %.3f), expected %v",
					tt.a, tt.b, got, m.Similarity(tt.a, tt.b), tt.expected)
			}
		})
	}
}

func TestFuzzyMatcher_Similarity(t *testing.T) {
	m := NewFuzzyMatcher(DefaultFuzzyThreshold)

	if got := m.Similarity("alipay", "ALIPAY"); got != 1.0 {
		t.Errorf("Expected 1.0 for canonical equals, got %.3f", got)
	}

	if got := m.Similarity("", "alipay"); got != 0.0 {
		t.Errorf("Expected 0.0 against empty string, got %.3f", got)
	}

	got := m.Similarity("alipay", "alipey")
	if got <= 0.7 || got >= 1.0 {
		t.Errorf("Expected one-typo similarity in (0.7, 1.0), got %.3f", got)
	}
}

func TestNewFuzzyMatcher_DefaultThreshold(t *testing.T) {
	m := NewFuzzyMatcher(0)
	if m.Threshold != DefaultFuzzyThreshold {
		t.Errorf("Expected default threshold %.2f, got %.2f", DefaultFuzzyThreshold, m.Threshold)
	}

	m = NewFuzzyMatcher(0.9)
	if m.Threshold != 0.9 {
		t.Errorf("Expected threshold 0.9, got %.2f", m.Threshold)
	}
}
