package valuation

import (
	"github.com/KotFed0t/portfolio_tracker/internal/model"
)

// Simulate applies changes in order to a copy of positions.
// BUY merges into the held symbol or appends a new position.
// SELL keeps the average cost and removes the position once its quantity reaches zero.
func Simulate(positions []model.Position, changes []model.Change) ([]model.Position, error) {
	result := make([]model.Position, len(positions))
	copy(result, positions)

	for i, ch := range changes {
		symbol := model.NormalizeSymbol(ch.Symbol)
		if symbol == "" {
			return nil, &InvalidChangeError{Index: i, Reason: "symbol is empty"}
		}
		if !ch.Quantity.IsPositive() {
			return nil, &InvalidChangeError{Index: i, Symbol: symbol, Reason: "quantity must be positive"}
		}

		idx := indexBySymbol(result, symbol)

		switch ch.Action {
		case model.ChangeBuy:
			if ch.Price.IsNegative() {
				return nil, &InvalidChangeError{Index: i, Symbol: symbol, Reason: "price is negative"}
			}
			if idx < 0 {
				result = append(result, model.Position{
					Name:      nameOrSymbol(ch.Name, symbol),
					Symbol:    symbol,
					AssetType: model.NormalizeAssetType(string(ch.AssetType)),
					Quantity:  ch.Quantity,
					BuyPrice:  ch.Price,
				})
				continue
			}
			merged, err := Merge(result[idx], model.Trade{Quantity: ch.Quantity, Price: ch.Price})
			if err != nil {
				return nil, err
			}
			result[idx] = merged
		case model.ChangeSell:
			if idx < 0 {
				return nil, &InvalidChangeError{Index: i, Symbol: symbol, Reason: "symbol is not held"}
			}
			left := result[idx].Quantity.Sub(ch.Quantity)
			if left.IsNegative() {
				return nil, &InvalidChangeError{Index: i, Symbol: symbol, Reason: "not enough units to sell"}
			}
			if left.IsZero() {
				result = append(result[:idx], result[idx+1:]...)
				continue
			}
			result[idx].Quantity = left
		default:
			return nil, &InvalidChangeError{Index: i, Symbol: symbol, Reason: "unknown action " + string(ch.Action)}
		}
	}

	return result, nil
}

func indexBySymbol(positions []model.Position, symbol string) int {
	for i, p := range positions {
		if p.Symbol == symbol {
			return i
		}
	}
	return -1
}

func nameOrSymbol(name, symbol string) string {
	if name == "" {
		return symbol
	}
	return name
}
