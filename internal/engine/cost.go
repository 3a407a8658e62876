package engine

import (
	"github.com/shopspring/decimal"

	"supplier-routing-service/internal/models"
	"supplier-routing-service/pkg/errors"
)

// Cost calculates the total cost of sending an order through a service
// bracket: (order amount + applicable flat charges) divided by the
// bracket's daily rate. Charges whose condition holds for the order amount
// are all added; conditions are not mutually exclusive.
//
// The bracket must carry a usable rate; Evaluate guarantees this for
// eligible outcomes.
func (e *Engine) Cost(order *models.Order, supplierName string, service *models.Service, bracket *models.AmountBracket) (decimal.Decimal, error) {
	if !bracket.HasUsableRate() {
		return decimal.Zero, errors.RoutingError(errors.CodeRoutingFailed, "cost calculation",
			nil).WithContext("supplier", supplierName).WithContext("bracket", bracket.Limit)
	}

	total := order.Amount.Add(e.applicableCharges(order, supplierName, service))
	return total.Div(*bracket.Rate), nil
}

// applicableCharges sums the flat charges whose conditions hold for the
// order amount. Entries that fail to parse are skipped with a diagnostic;
// a bad charge row must not disqualify the supplier.
func (e *Engine) applicableCharges(order *models.Order, supplierName string, service *models.Service) decimal.Decimal {
	sum := decimal.Zero

	for _, charge := range service.ServiceCharges {
		condition, err := models.ParseChargeCondition(charge.Condition)
		if err != nil {
			e.logger.WithError(errors.CatalogEntryError(
				errors.CodeMalformedCharge, supplierName, service.ServiceType, "service_charges", charge.Condition,
			)).Warn("Skipping malformed charge condition")
			continue
		}

		if !condition.Holds(order.Amount) {
			continue
		}

		amount, err := models.ParseChargeAmount(charge.Charge)
		if err != nil {
			e.logger.WithError(errors.CatalogEntryError(
				errors.CodeMalformedCharge, supplierName, service.ServiceType, "service_charges", charge.Charge,
			)).Warn("Skipping malformed charge amount")
			continue
		}

		sum = sum.Add(amount)
	}

	return sum
}
