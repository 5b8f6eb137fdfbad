package valuation

import (
	"github.com/KotFed0t/portfolio_tracker/internal/model"
)

// Merge adds the trade to the existing position.
// The result keeps identity fields of existing and gets the quantity weighted average price.
// Values are kept at full precision.
func Merge(existing model.Position, incoming model.Trade) (model.Position, error) {
	if err := ValidatePosition(existing); err != nil {
		return model.Position{}, err
	}
	if err := validateTrade(existing.Symbol, incoming); err != nil {
		return model.Position{}, err
	}

	totalQty := existing.Quantity.Add(incoming.Quantity)
	if !totalQty.IsPositive() {
		return model.Position{}, &InvalidMergeError{Symbol: existing.Symbol, Quantity: totalQty}
	}

	totalCost := existing.InvestedValue().Add(incoming.Quantity.Mul(incoming.Price))

	merged := existing
	merged.Quantity = totalQty
	merged.BuyPrice = totalCost.Div(totalQty)

	return merged, nil
}
