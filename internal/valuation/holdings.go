package valuation

import (
	"github.com/KotFed0t/portfolio_tracker/internal/model"
)

// Holdings returns per-position valuations in input order.
func Holdings(positions []model.Position, prices model.Prices) []model.Holding {
	holdings := make([]model.Holding, 0, len(positions))
	for _, p := range positions {
		invested := p.InvestedValue()
		market := MarketValue(p, prices)
		pl := market.Sub(invested)

		holdings = append(holdings, model.Holding{
			ID:                p.ID,
			Name:              p.Name,
			Symbol:            p.Symbol,
			AssetType:         p.AssetType,
			Quantity:          p.Quantity,
			BuyPrice:          p.BuyPrice,
			CurrentPrice:      EffectivePrice(p, prices),
			PriceAvailable:    prices.Available(p.Symbol),
			InvestedValue:     invested,
			MarketValue:       market,
			ProfitLoss:        pl,
			ProfitLossPercent: percentOf(pl, invested),
		})
	}
	return holdings
}

// Value builds the full valuation of positions in one call.
func Value(positions []model.Position, prices model.Prices) model.Portfolio {
	return model.Portfolio{
		Summary:    Summarize(positions, prices),
		Holdings:   Holdings(positions, prices),
		Allocation: Allocate(positions, prices),
	}
}
