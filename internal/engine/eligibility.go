package engine

import (
	"fmt"

	"supplier-routing-service/internal/models"
	"supplier-routing-service/internal/normalize"
	"supplier-routing-service/pkg/errors"
	"supplier-routing-service/pkg/logger"
)

// Engine evaluates orders against supplier catalogs. An Engine is safe for
// concurrent use; it holds no per-order state.
type Engine struct {
	config  *Config
	matcher normalize.Matcher
	logger  logger.Logger
}

// NewEngine creates a routing engine with the given configuration
func NewEngine(config *Config) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "engine", config.String(), err)
	}

	log := config.Logger
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	return &Engine{
		config:  config,
		matcher: config.matcher(),
		logger:  log.WithComponent("engine"),
	}, nil
}

// Config returns a copy of the engine's configuration
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// EligibilityOutcome is the result of evaluating one supplier for one order.
// When Eligible is true, Service and Bracket identify the offering that
// qualified and Rate is its daily rate. Reasons explains ineligibility in
// human-readable terms when reason collection is enabled.
type EligibilityOutcome struct {
	SupplierName string
	Eligible     bool
	Service      *models.Service
	Bracket      *models.AmountBracket
	Reasons      []string
}

func (o *EligibilityOutcome) addReason(collect bool, format string, args ...interface{}) {
	if collect {
		o.Reasons = append(o.Reasons, fmt.Sprintf(format, args...))
	}
}

// Evaluate checks whether a supplier qualifies for an order. The checks
// short-circuit in a fixed sequence: active flag, service type, amount
// bracket, qualification answers, rate presence. Malformed catalog data
// never causes a failure; the affected entry simply does not match and a
// diagnostic is logged.
func (e *Engine) Evaluate(order *models.Order, supplier *models.Supplier) *EligibilityOutcome {
	collect := e.config.CollectReasons
	outcome := &EligibilityOutcome{SupplierName: supplier.Name}

	if !supplier.IsActive && !e.config.IncludeInactive {
		outcome.addReason(collect, "supplier is inactive")
		return outcome
	}

	service := e.findService(order, supplier)
	if service == nil {
		outcome.addReason(collect, "no service matching type '%s'", order.ServiceType)
		return outcome
	}

	bracket := e.findBracket(order, supplier, service)
	if bracket == nil {
		outcome.addReason(collect, "amount %s outside all brackets of service '%s'",
			order.Amount.String(), service.ServiceType)
		return outcome
	}

	if label, want, ok := e.unmetQualification(order, service); !ok {
		outcome.addReason(collect, "qualification '%s' requires '%s'", label, want)
		return outcome
	}

	if !bracket.HasUsableRate() {
		outcome.addReason(collect, "bracket '%s' has no usable rate", bracket.Limit)
		return outcome
	}

	outcome.Eligible = true
	outcome.Service = service
	outcome.Bracket = bracket
	return outcome
}

// findService returns the first service whose type matches the order's
func (e *Engine) findService(order *models.Order, supplier *models.Supplier) *models.Service {
	for i := range supplier.Services {
		if e.matcher.Match(order.ServiceType, supplier.Services[i].ServiceType) {
			return &supplier.Services[i]
		}
	}
	return nil
}

// findBracket returns the first declared bracket containing the order
// amount. Brackets with unparseable limits are skipped with a diagnostic.
func (e *Engine) findBracket(order *models.Order, supplier *models.Supplier, service *models.Service) *models.AmountBracket {
	for i := range service.AmountLimits {
		bracket := &service.AmountLimits[i]

		boundary, err := models.ParseBoundary(bracket.Limit)
		if err != nil {
			e.logger.WithError(errors.CatalogEntryError(
				errors.CodeMalformedBracket, supplier.Name, service.ServiceType, "amount_limits", bracket.Limit,
			)).Warn("Skipping malformed amount bracket")
			continue
		}

		if boundary.Contains(order.Amount) {
			return bracket
		}
	}
	return nil
}

// unmetQualification returns the first qualification the order does not
// satisfy. Every catalog qualification must be answered with a matching
// value; a service with no qualifications passes vacuously.
func (e *Engine) unmetQualification(order *models.Order, service *models.Service) (label, want string, ok bool) {
	for _, q := range service.Qualifications {
		if !e.qualificationMet(order, q) {
			return q.Label, q.Value, false
		}
	}
	return "", "", true
}

// qualificationMet checks the order's answer for one qualification. Raw
// attribute keys may collide after canonicalization; every colliding answer
// must carry the required value, so conflicting duplicates fail the
// qualification instead of letting map iteration order pick a winner.
func (e *Engine) qualificationMet(order *models.Order, q models.Qualification) bool {
	wantKey := normalize.CanonicalKey(q.Label)
	wantValue := normalize.CanonicalValue(q.Value)

	answered := false
	for label, value := range order.Attributes {
		if normalize.CanonicalKey(label) != wantKey {
			continue
		}
		if normalize.CanonicalValue(value) != wantValue {
			return false
		}
		answered = true
	}

	return answered
}
