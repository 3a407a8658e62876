// Package models defines the value records the routing engine operates on:
// orders, suppliers and their services, amount brackets, conditional charges,
// qualification questions, and routing results.
//
// All monetary values use decimal arithmetic. Bracket boundaries and charge
// conditions arrive as free text from catalog sources (sheets, JSON exports)
// and are parsed here by small closed parsers; caller-supplied text is never
// evaluated as code.
package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Order represents a money-transfer order to be routed to a supplier.
// Orders are constructed by an upstream source (manual entry, spreadsheet
// row, OCR line) and never mutated by the engine.
type Order struct {
	ServiceType     string            `json:"serviceType"`
	Amount          decimal.Decimal   `json:"amount"`
	Attributes      map[string]string `json:"attributes,omitempty"`
	ReferenceNumber string            `json:"referenceNumber,omitempty"`
	MarkingNumber   string            `json:"markingNumber,omitempty"`
}

// NewOrder creates a new Order instance
func NewOrder(serviceType string, amount decimal.Decimal, attributes map[string]string) *Order {
	return &Order{
		ServiceType: serviceType,
		Amount:      amount,
		Attributes:  attributes,
	}
}

// Validate performs basic shape validation on the Order. A failing order is
// rejected for that single routing call; it must never crash a batch.
func (o *Order) Validate() error {
	if strings.TrimSpace(o.ServiceType) == "" {
		return fmt.Errorf("order service type cannot be empty")
	}

	if o.Amount.Sign() <= 0 {
		return fmt.Errorf("order amount must be positive, got %s", o.Amount.String())
	}

	return nil
}

// String returns a string representation of the Order
func (o *Order) String() string {
	return fmt.Sprintf("Order{ServiceType: %s, Amount: %s, Attributes: %d}",
		o.ServiceType, o.Amount.String(), len(o.Attributes))
}

// Supplier represents one catalog entry offering one or more services.
type Supplier struct {
	Name     string    `json:"name"`
	IsActive bool      `json:"isActive"`
	Services []Service `json:"services"`
}

// Validate performs basic validation on the Supplier record
func (s *Supplier) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("supplier name cannot be empty")
	}

	if len(s.Services) == 0 {
		return fmt.Errorf("supplier '%s' must offer at least one service", s.Name)
	}

	for i := range s.Services {
		if err := s.Services[i].Validate(); err != nil {
			return fmt.Errorf("supplier '%s': %w", s.Name, err)
		}
	}

	return nil
}

// Service is one service type offered by a supplier, gated by amount
// brackets and qualification questions, with a conditional charge schedule.
type Service struct {
	ServiceType    string              `json:"serviceType"`
	AmountLimits   []AmountBracket     `json:"amountLimits"`
	ServiceCharges []ConditionalCharge `json:"serviceCharges"`
	Qualifications []Qualification     `json:"additionalQuestions"`
}

// Validate checks the service has a type and at least one bracket
func (s *Service) Validate() error {
	if strings.TrimSpace(s.ServiceType) == "" {
		return fmt.Errorf("service type cannot be empty")
	}

	if len(s.AmountLimits) == 0 {
		return fmt.Errorf("service '%s' must declare at least one amount bracket", s.ServiceType)
	}

	return nil
}

// AmountBracket associates an amount boundary with a daily rate. The raw
// Limit string is parsed lazily via ParseBoundary so that malformed catalog
// data degrades to a non-matching bracket instead of a load failure.
// A nil Rate means the bracket is not yet priced and is ineligible.
type AmountBracket struct {
	Limit string           `json:"limit"`
	Rate  *decimal.Decimal `json:"rate"`
}

// HasUsableRate reports whether the bracket carries a defined, strictly
// positive rate.
func (b *AmountBracket) HasUsableRate() bool {
	return b.Rate != nil && b.Rate.Sign() > 0
}

// ConditionalCharge is a flat fee applied when the order amount satisfies
// the comparison predicate in Condition. Both fields are raw catalog text.
type ConditionalCharge struct {
	Condition string `json:"condition"`
	Charge    string `json:"charge"`
}

// Qualification is a required auxiliary answer gating eligibility, e.g.
// {Label: "english account", Value: "yes"}.
type Qualification struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// MatchResult is the outcome of routing one order over a catalog.
// Matched=false is the "nobody qualifies" result (conceptually an infinite
// cost); callers distinguish it from errors by shape, not by error type.
type MatchResult struct {
	SupplierName string          `json:"supplier_name,omitempty"`
	ServiceType  string          `json:"service_type,omitempty"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Matched      bool            `json:"matched"`
}

// NoMatch returns the result used when no supplier qualifies
func NoMatch() *MatchResult {
	return &MatchResult{Matched: false}
}

// String returns a human-readable representation of the result
func (mr *MatchResult) String() string {
	if !mr.Matched {
		return "No suitable supplier found"
	}
	return fmt.Sprintf("%s (%s) at cost %s", mr.SupplierName, mr.ServiceType, mr.TotalCost.StringFixed(2))
}

// BoundaryKind distinguishes the two bracket boundary shapes
type BoundaryKind int

const (
	// BoundaryClosed is an inclusive range: min <= amount <= max
	BoundaryClosed BoundaryKind = iota

	// BoundaryOpenLower is an open lower bound: amount > min
	BoundaryOpenLower
)

// Boundary is the parsed form of an amount bracket limit string.
type Boundary struct {
	Kind BoundaryKind
	Min  decimal.Decimal
	Max  decimal.Decimal
}

// trailing currency tokens such as "CNY" are tolerated on catalog values
var trailingCurrencyPattern = regexp.MustCompile(`(?i)\s*[a-z]{2,4}\s*$`)

// ParseBoundary parses a bracket limit string. Accepted forms:
//
//	"500-10000"  closed range, inclusive both ends
//	">0.01"      open lower bound, strictly greater
//
// Commas and a trailing currency token are tolerated. Anything else,
// including a bare number, is an error; such brackets never match.
func ParseBoundary(s string) (Boundary, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Boundary{}, fmt.Errorf("bracket limit cannot be empty")
	}

	cleaned := strings.ReplaceAll(raw, ",", "")
	cleaned = trailingCurrencyPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	if strings.HasPrefix(cleaned, ">") {
		min, err := decimal.NewFromString(strings.TrimSpace(strings.TrimPrefix(cleaned, ">")))
		if err != nil {
			return Boundary{}, fmt.Errorf("invalid open lower bound '%s': %w", raw, err)
		}
		return Boundary{Kind: BoundaryOpenLower, Min: min}, nil
	}

	parts := strings.SplitN(cleaned, "-", 2)
	if len(parts) != 2 {
		return Boundary{}, fmt.Errorf("invalid bracket limit '%s': expected 'min-max' or '>min'", raw)
	}

	min, err := decimal.NewFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return Boundary{}, fmt.Errorf("invalid bracket minimum in '%s': %w", raw, err)
	}

	max, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return Boundary{}, fmt.Errorf("invalid bracket maximum in '%s': %w", raw, err)
	}

	if max.LessThan(min) {
		return Boundary{}, fmt.Errorf("invalid bracket '%s': maximum below minimum", raw)
	}

	return Boundary{Kind: BoundaryClosed, Min: min, Max: max}, nil
}

// Contains reports whether the boundary covers the given amount
func (b Boundary) Contains(amount decimal.Decimal) bool {
	switch b.Kind {
	case BoundaryOpenLower:
		return amount.GreaterThan(b.Min)
	default:
		return amount.GreaterThanOrEqual(b.Min) && amount.LessThanOrEqual(b.Max)
	}
}

// String returns the canonical text form of the boundary
func (b Boundary) String() string {
	if b.Kind == BoundaryOpenLower {
		return ">" + b.Min.String()
	}
	return b.Min.String() + "-" + b.Max.String()
}

// ChargeOperator is a comparison operator in a charge condition
type ChargeOperator string

const (
	OpLess           ChargeOperator = "<"
	OpLessOrEqual    ChargeOperator = "<="
	OpGreater        ChargeOperator = ">"
	OpGreaterOrEqual ChargeOperator = ">="
)

// ChargeCondition is the parsed form of a conditional charge predicate,
// e.g. "< 10000 CNY" becomes {OpLess, 10000}.
type ChargeCondition struct {
	Operator  ChargeOperator
	Threshold decimal.Decimal
}

var chargeConditionPattern = regexp.MustCompile(`^([<>]=?)\s*([0-9,]+(?:\.[0-9]+)?)\s*(?i:[a-z]{2,4})?$`)

// ParseChargeCondition parses a condition string into an operator/threshold
// pair. The condition is later evaluated with an explicit switch; the text
// is never executed.
func ParseChargeCondition(s string) (ChargeCondition, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return ChargeCondition{}, fmt.Errorf("charge condition cannot be empty")
	}

	match := chargeConditionPattern.FindStringSubmatch(raw)
	if match == nil {
		return ChargeCondition{}, fmt.Errorf("invalid charge condition '%s': expected an operator and threshold such as '<10000'", raw)
	}

	threshold, err := decimal.NewFromString(strings.ReplaceAll(match[2], ",", ""))
	if err != nil {
		return ChargeCondition{}, fmt.Errorf("invalid charge threshold in '%s': %w", raw, err)
	}

	return ChargeCondition{
		Operator:  ChargeOperator(match[1]),
		Threshold: threshold,
	}, nil
}

// Holds evaluates the condition against an order amount
func (c ChargeCondition) Holds(amount decimal.Decimal) bool {
	switch c.Operator {
	case OpLess:
		return amount.LessThan(c.Threshold)
	case OpLessOrEqual:
		return amount.LessThanOrEqual(c.Threshold)
	case OpGreater:
		return amount.GreaterThan(c.Threshold)
	case OpGreaterOrEqual:
		return amount.GreaterThanOrEqual(c.Threshold)
	default:
		return false
	}
}

// Utility functions for type conversion and validation

var nonNumericPattern = regexp.MustCompile(`[^0-9.]`)

// ParseChargeAmount parses a charge value, stripping currency symbols and
// separators ("50 CNY" parses as 50).
func ParseChargeAmount(s string) (decimal.Decimal, error) {
	cleaned := nonNumericPattern.ReplaceAllString(s, "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("charge '%s' contains no numeric value", s)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid charge amount '%s': %w", s, err)
	}

	return d, nil
}

// ParseDecimalFromString parses a decimal value from string with validation
func ParseDecimalFromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	// Remove common currency symbols and thousand separators
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "¥", "")
	s = strings.ReplaceAll(s, ",", "")
	s = trailingCurrencyPattern.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d, nil
}
