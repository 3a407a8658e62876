package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func ratePtrValue(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

const sampleCatalog = `[
  {
    "name": "Union",
    "isActive": true,
    "services": [
      {
        "serviceType": "alipay",
        "amountLimits": [{"limit": ">500", "rate": 7.05}],
        "serviceCharges": [{"condition": "<10000", "charge": "50"}],
        "additionalQuestions": [
          {"label": "english account", "value": "yes"},
          {"label": "chinese account", "value": "yes"}
        ]
      }
    ]
  },
  {
    "name": "Atvantic",
    "isActive": true,
    "services": [
      {
        "serviceType": "alipay",
        "amountLimits": [{"limit": ">0.01", "rate": null}]
      }
    ]
  },
  {
    "name": "",
    "services": []
  }
]`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(sampleCatalog), 0644); err != nil {
		t.Fatalf("Failed to write test catalog: %v", err)
	}

	loader := NewLoader()
	suppliers, stats, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(suppliers) != 2 {
		t.Fatalf("Expected 2 valid suppliers, got %d", len(suppliers))
	}

	if stats.SkippedEntries != 1 {
		t.Errorf("Expected 1 skipped entry, got %d", stats.SkippedEntries)
	}

	union := suppliers[0]
	if union.Name != "Union" || !union.IsActive {
		t.Errorf("Unexpected first supplier: %+v", union)
	}

	service := union.Services[0]
	if len(service.AmountLimits) != 1 || service.AmountLimits[0].Limit != ">500" {
		t.Errorf("Unexpected amount limits: %+v", service.AmountLimits)
	}
	if service.AmountLimits[0].Rate == nil || !service.AmountLimits[0].Rate.Equal(ratePtrValue(7.05)) {
		t.Errorf("Unexpected rate: %v", service.AmountLimits[0].Rate)
	}
	if len(service.Qualifications) != 2 {
		t.Errorf("Expected 2 qualifications, got %d", len(service.Qualifications))
	}

	// A null rate decodes as absent
	if suppliers[1].Services[0].AmountLimits[0].Rate != nil {
		t.Error("Expected null rate to decode as nil")
	}
}

func TestLoadFile_ObjectShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	wrapped := `{"suppliers": ` + sampleCatalog + `}`
	if err := os.WriteFile(path, []byte(wrapped), 0644); err != nil {
		t.Fatalf("Failed to write test catalog: %v", err)
	}

	loader := NewLoader()
	suppliers, _, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(suppliers) != 2 {
		t.Errorf("Expected 2 suppliers from wrapped shape, got %d", len(suppliers))
	}
}

func TestLoadFile_NotFound(t *testing.T) {
	loader := NewLoader()
	if _, _, err := loader.LoadFile("/nonexistent/catalog.json"); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write test catalog: %v", err)
	}

	loader := NewLoader()
	if _, _, err := loader.LoadFile(path); err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
}

func TestSaveFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")

	loader := NewLoader()
	original, err := loader.Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}
	valid, _ := loader.Validate(original)

	if err := loader.SaveFile(path, valid); err != nil {
		t.Fatalf("Unexpected save error: %v", err)
	}

	reloaded, stats, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("Unexpected reload error: %v", err)
	}

	if len(reloaded) != len(valid) || stats.SkippedEntries != 0 {
		t.Errorf("Round trip changed the catalog: %s", stats.String())
	}

	if reloaded[0].Name != "Union" {
		t.Errorf("Unexpected supplier after round trip: %s", reloaded[0].Name)
	}
}

func TestLoadFile_Fixture(t *testing.T) {
	loader := NewLoader()

	suppliers, stats, err := loader.LoadFile("testdata/suppliers.json")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(suppliers) != 3 || stats.SkippedEntries != 0 {
		t.Fatalf("Expected 3 suppliers, got %d (%s)", len(suppliers), stats.String())
	}

	eastlink := suppliers[1]
	if eastlink.Name != "Eastlink" {
		t.Fatalf("Unexpected supplier order: %+v", suppliers)
	}
	if eastlink.Services[0].AmountLimits[1].Rate != nil {
		t.Error("Expected the unpriced bracket to keep a nil rate")
	}

	if suppliers[2].IsActive {
		t.Error("Expected Atvantic to be inactive")
	}
}
