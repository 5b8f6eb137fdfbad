package apiConverter

import (
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/model/portfolioApiModel"
	"github.com/shopspring/decimal"
)

func ConvertAsset(asset portfolioApiModel.Asset) model.Position {
	return model.Position{
		ID:        asset.ID,
		Name:      asset.Name,
		Symbol:    model.NormalizeSymbol(asset.Symbol),
		AssetType: model.NormalizeAssetType(asset.AssetType),
		Quantity:  asset.Quantity,
		BuyPrice:  asset.BuyPrice,
	}
}

func ConvertAssets(assets []portfolioApiModel.Asset) []model.Position {
	positions := make([]model.Position, 0, len(assets))
	for _, a := range assets {
		positions = append(positions, ConvertAsset(a))
	}
	return positions
}

func ConvertPosition(p model.Position) portfolioApiModel.Asset {
	return portfolioApiModel.Asset{
		ID:        p.ID,
		Name:      p.Name,
		Symbol:    p.Symbol,
		AssetType: string(p.AssetType),
		Quantity:  p.Quantity,
		BuyPrice:  p.BuyPrice,
	}
}

// ConvertPrice maps a null price to zero, which valuation treats as unavailable.
func ConvertPrice(price portfolioApiModel.Price) model.PriceQuote {
	quote := model.PriceQuote{
		Symbol:   model.NormalizeSymbol(price.Symbol),
		Price:    decimal.Zero,
		Currency: price.Currency,
	}
	if price.Price.Valid {
		quote.Price = price.Price.Decimal
	}
	return quote
}

func ConvertPrices(prices map[string]portfolioApiModel.Price) model.Prices {
	res := make(model.Prices, len(prices))
	for symbol, price := range prices {
		if price.Symbol == "" {
			price.Symbol = symbol
		}
		quote := ConvertPrice(price)
		res[quote.Symbol] = quote
	}
	return res
}

func ConvertHistory(points []portfolioApiModel.HistoryPoint) []model.HistoryPoint {
	res := make([]model.HistoryPoint, 0, len(points))
	for _, p := range points {
		res = append(res, model.HistoryPoint{Date: p.Time, TotalValue: p.TotalValue})
	}
	return res
}
