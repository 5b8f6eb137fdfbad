package valuation

import (
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// EffectivePrice is the live quote when it is positive, otherwise the buy price.
func EffectivePrice(p model.Position, prices model.Prices) decimal.Decimal {
	if q, ok := prices[p.Symbol]; ok && q.Price.IsPositive() {
		return q.Price
	}
	return p.BuyPrice
}

// MarketValue is quantity * EffectivePrice.
func MarketValue(p model.Position, prices model.Prices) decimal.Decimal {
	return p.Quantity.Mul(EffectivePrice(p, prices))
}

// Summarize never fails. An empty list gives a zero summary.
func Summarize(positions []model.Position, prices model.Prices) model.ValuationSummary {
	summary := model.ValuationSummary{
		TotalInvestedValue:     decimal.Zero,
		TotalPortfolioValue:    decimal.Zero,
		TotalProfitLoss:        decimal.Zero,
		TotalProfitLossPercent: decimal.Zero,
		PositionsCount:         len(positions),
	}

	for _, p := range positions {
		summary.TotalInvestedValue = summary.TotalInvestedValue.Add(p.InvestedValue())
		summary.TotalPortfolioValue = summary.TotalPortfolioValue.Add(MarketValue(p, prices))
	}

	summary.TotalProfitLoss = summary.TotalPortfolioValue.Sub(summary.TotalInvestedValue)
	summary.TotalProfitLossPercent = percentOf(summary.TotalProfitLoss, summary.TotalInvestedValue)

	return summary
}

// percentOf returns part/total*100, or zero when total is zero.
func percentOf(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred)
}
