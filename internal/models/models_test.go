package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrder_Validate(t *testing.T) {
	tests := []struct {
		name    string
		order   Order
		wantErr bool
	}{
		{
			name: "valid order",
			order: Order{
				ServiceType: "alipay",
				Amount:      decimal.NewFromFloat(600),
				Attributes:  map[string]string{"english account": "yes"},
			},
			wantErr: false,
		},
		{
			name: "missing service type",
			order: Order{
				ServiceType: "   ",
				Amount:      decimal.NewFromFloat(600),
			},
			wantErr: true,
		},
		{
			name: "zero amount",
			order: Order{
				ServiceType: "alipay",
				Amount:      decimal.Zero,
			},
			wantErr: true,
		},
		{
			name: "negative amount",
			order: Order{
				ServiceType: "alipay",
				Amount:      decimal.NewFromFloat(-5),
			},
			wantErr: true,
		},
		{
			name: "no attributes is fine",
			order: Order{
				ServiceType: "usd transfer",
				Amount:      decimal.NewFromFloat(100),
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.order.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSupplier_Validate(t *testing.T) {
	valid := Supplier{
		Name:     "Union",
		IsActive: true,
		Services: []Service{
			{
				ServiceType:  "alipay",
				AmountLimits: []AmountBracket{{Limit: ">500"}},
			},
		},
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid supplier, got error: %v", err)
	}

	noName := valid
	noName.Name = ""
	if err := noName.Validate(); err == nil {
		t.Error("Expected error for supplier without name")
	}

	noServices := Supplier{Name: "Empty"}
	if err := noServices.Validate(); err == nil {
		t.Error("Expected error for supplier without services")
	}

	noBrackets := Supplier{
		Name:     "Bare",
		Services: []Service{{ServiceType: "alipay"}},
	}
	if err := noBrackets.Validate(); err == nil {
		t.Error("Expected error for service without brackets")
	}
}

func TestParseBoundary_ClosedRange(t *testing.T) {
	b, err := ParseBoundary("500-10000")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if b.Kind != BoundaryClosed {
		t.Errorf("Expected closed boundary, got %v", b.Kind)
	}

	if !b.Min.Equal(decimal.NewFromInt(500)) || !b.Max.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("Unexpected bounds: %s", b.String())
	}

	// Inclusive both ends
	if !b.Contains(decimal.NewFromInt(500)) {
		t.Error("Expected min to be included")
	}
	if !b.Contains(decimal.NewFromInt(10000)) {
		t.Error("Expected max to be included")
	}
	if b.Contains(decimal.NewFromFloat(499.99)) {
		t.Error("Expected amount below min to be excluded")
	}
	if b.Contains(decimal.NewFromFloat(10000.01)) {
		t.Error("Expected amount above max to be excluded")
	}
}

func TestParseBoundary_OpenLowerBound(t *testing.T) {
	b, err := ParseBoundary("> 0.01")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if b.Kind != BoundaryOpenLower {
		t.Errorf("Expected open lower bound, got %v", b.Kind)
	}

	// Strictly greater
	if b.Contains(decimal.NewFromFloat(0.01)) {
		t.Error("Expected boundary value itself to be excluded")
	}
	if !b.Contains(decimal.NewFromFloat(0.02)) {
		t.Error("Expected amount above bound to be included")
	}
	if !b.Contains(decimal.NewFromFloat(7696.70)) {
		t.Error("Expected large amount to be included")
	}
}

func TestParseBoundary_Tolerance(t *testing.T) {
	b, err := ParseBoundary("1,000 - 20,000 CNY")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !b.Min.Equal(decimal.NewFromInt(1000)) || !b.Max.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("Unexpected bounds after cleanup: %s", b.String())
	}
}

func TestParseBoundary_Malformed(t *testing.T) {
	malformed := []string{
		"",
		"abc-def",
		"1000",     // bare number never matches, mirroring source behavior
		"500-",     // missing maximum
		"-500",     // missing minimum
		"900-100",  // inverted range
		">",        // missing bound
		"> banana", // non-numeric bound
	}

	for _, input := range malformed {
		if _, err := ParseBoundary(input); err == nil {
			t.Errorf("Expected error for malformed boundary %q", input)
		}
	}
}

func TestParseChargeCondition(t *testing.T) {
	tests := []struct {
		input     string
		operator  ChargeOperator
		threshold string
		wantErr   bool
	}{
		{"<10000", OpLess, "10000", false},
		{"< 10,000 CNY", OpLess, "10000", false},
		{">= 500", OpGreaterOrEqual, "500", false},
		{"<= 2500.50", OpLessOrEqual, "2500.5", false},
		{"> 100", OpGreater, "100", false},
		{"", "", "", true},
		{"== 100", "", "", true},
		{"less than 100", "", "", true},
		{"< abc", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cond, err := ParseChargeCondition(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseChargeCondition(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if cond.Operator != tt.operator {
				t.Errorf("Expected operator %s, got %s", tt.operator, cond.Operator)
			}

			want, _ := decimal.NewFromString(tt.threshold)
			if !cond.Threshold.Equal(want) {
				t.Errorf("Expected threshold %s, got %s", tt.threshold, cond.Threshold.String())
			}
		})
	}
}

func TestChargeCondition_Holds(t *testing.T) {
	amount := decimal.NewFromInt(600)

	tests := []struct {
		condition string
		expected  bool
	}{
		{"<10000", true},
		{"<600", false},
		{"<=600", true},
		{">500", true},
		{">600", false},
		{">=600", true},
	}

	for _, tt := range tests {
		cond, err := ParseChargeCondition(tt.condition)
		if err != nil {
			t.Fatalf("Unexpected parse error for %q: %v", tt.condition, err)
		}

		if got := cond.Holds(amount); got != tt.expected {
			t.Errorf("Condition %q against 600: expected %v, got %v", tt.condition, tt.expected, got)
		}
	}
}

func TestAmountBracket_HasUsableRate(t *testing.T) {
	rate := decimal.NewFromFloat(7.05)
	zero := decimal.Zero
	negative := decimal.NewFromFloat(-1)

	tests := []struct {
		name     string
		bracket  AmountBracket
		expected bool
	}{
		{"priced bracket", AmountBracket{Limit: ">500", Rate: &rate}, true},
		{"absent rate", AmountBracket{Limit: ">500", Rate: nil}, false},
		{"zero rate", AmountBracket{Limit: ">500", Rate: &zero}, false},
		{"negative rate", AmountBracket{Limit: ">500", Rate: &negative}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bracket.HasUsableRate(); got != tt.expected {
				t.Errorf("HasUsableRate() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestParseChargeAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"50", "50", false},
		{"50 CNY", "50", false},
		{"¥1,250.75", "1250.75", false},
		{"free", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseChargeAmount(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseChargeAmount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if tt.wantErr {
			continue
		}

		want, _ := decimal.NewFromString(tt.expected)
		if !got.Equal(want) {
			t.Errorf("ParseChargeAmount(%q) = %s, expected %s", tt.input, got.String(), tt.expected)
		}
	}
}

func TestParseDecimalFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"7696.70", "7696.7", false},
		{"  600 ", "600", false},
		{"$1,234.56", "1234.56", false},
		{"12,500.00 CNY", "12500", false},
		{"", "", true},
		{"abc", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDecimalFromString(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseDecimalFromString(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if tt.wantErr {
			continue
		}

		want, _ := decimal.NewFromString(tt.expected)
		if !got.Equal(want) {
			t.Errorf("ParseDecimalFromString(%q) = %s, expected %s", tt.input, got.String(), tt.expected)
		}
	}
}

func TestMatchResult_String(t *testing.T) {
	none := NoMatch()
	if none.String() != "No suitable supplier found" {
		t.Errorf("Unexpected no-match string: %s", none.String())
	}

	matched := &MatchResult{
		SupplierName: "Union",
		ServiceType:  "alipay",
		TotalCost:    decimal.NewFromFloat(92.198581),
		Matched:      true,
	}

	if matched.String() != "Union (alipay) at cost 92.20" {
		t.Errorf("Unexpected match string: %s", matched.String())
	}
}
