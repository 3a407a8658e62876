package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"supplier-routing-service/internal/models"
	"supplier-routing-service/pkg/errors"
	"supplier-routing-service/pkg/logger"
)

// Candidate is one eligible supplier with its calculated cost, used for
// ranked reporting.
type Candidate struct {
	SupplierName string          `json:"supplier_name"`
	ServiceType  string          `json:"service_type"`
	Bracket      string          `json:"bracket"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// Route finds the cheapest eligible supplier for an order. The whole
// catalog is scanned; costs are compared with strict less-than, so on a tie
// the supplier declared earlier wins. When no supplier qualifies the
// returned result has Matched=false and carries no error: an empty market
// is an answer, not a failure.
func (e *Engine) Route(order *models.Order, suppliers []models.Supplier) (*models.MatchResult, error) {
	if order == nil {
		return nil, errors.InvalidOrderError("order", nil, nil)
	}
	if err := order.Validate(); err != nil {
		return nil, errors.InvalidOrderError("order", order.String(), err)
	}

	best := models.NoMatch()
	var bestCost decimal.Decimal

	for i := range suppliers {
		supplier := &suppliers[i]

		outcome := e.Evaluate(order, supplier)
		if !outcome.Eligible {
			e.logger.WithFields(logger.Fields{
				"supplier": supplier.Name,
				"reasons":  outcome.Reasons,
			}).Debug("Supplier not eligible")
			continue
		}

		cost, err := e.Cost(order, supplier.Name, outcome.Service, outcome.Bracket)
		if err != nil {
			e.logger.WithError(err).WithField("supplier", supplier.Name).
				Warn("Skipping supplier after cost calculation failure")
			continue
		}

		if !best.Matched || cost.LessThan(bestCost) {
			best = &models.MatchResult{
				SupplierName: supplier.Name,
				ServiceType:  outcome.Service.ServiceType,
				TotalCost:    cost,
				Matched:      true,
			}
			bestCost = cost
		}
	}

	return best, nil
}

// RouteAll evaluates every supplier and returns the eligible candidates
// ranked by ascending cost. Ties keep catalog declaration order, matching
// the tie-break used by Route.
func (e *Engine) RouteAll(order *models.Order, suppliers []models.Supplier) ([]Candidate, error) {
	if order == nil {
		return nil, errors.InvalidOrderError("order", nil, nil)
	}
	if err := order.Validate(); err != nil {
		return nil, errors.InvalidOrderError("order", order.String(), err)
	}

	var candidates []Candidate

	for i := range suppliers {
		supplier := &suppliers[i]

		outcome := e.Evaluate(order, supplier)
		if !outcome.Eligible {
			continue
		}

		cost, err := e.Cost(order, supplier.Name, outcome.Service, outcome.Bracket)
		if err != nil {
			continue
		}

		candidates = append(candidates, Candidate{
			SupplierName: supplier.Name,
			ServiceType:  outcome.Service.ServiceType,
			Bracket:      outcome.Bracket.Limit,
			TotalCost:    cost,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TotalCost.LessThan(candidates[j].TotalCost)
	})

	return candidates, nil
}
