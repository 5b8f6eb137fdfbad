package valuation

import (
	"github.com/KotFed0t/portfolio_tracker/internal/model"
)

// ValidatePosition rejects an empty symbol and negative quantity or buy price.
func ValidatePosition(p model.Position) error {
	if p.Symbol == "" {
		return &InvalidPositionError{Reason: "symbol is empty"}
	}
	if p.Quantity.IsNegative() {
		return &InvalidPositionError{Symbol: p.Symbol, Reason: "quantity is negative"}
	}
	if p.BuyPrice.IsNegative() {
		return &InvalidPositionError{Symbol: p.Symbol, Reason: "buy price is negative"}
	}
	return nil
}

func validateTrade(symbol string, t model.Trade) error {
	if t.Quantity.IsNegative() {
		return &InvalidPositionError{Symbol: symbol, Reason: "trade quantity is negative"}
	}
	if t.Price.IsNegative() {
		return &InvalidPositionError{Symbol: symbol, Reason: "trade price is negative"}
	}
	return nil
}
