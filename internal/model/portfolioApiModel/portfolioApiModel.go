package portfolioApiModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Asset struct {
	ID        int64           `json:"id,omitempty"`
	Name      string          `json:"name"`
	Symbol    string          `json:"symbol"`
	AssetType string          `json:"assetType"`
	Quantity  decimal.Decimal `json:"quantity"`
	BuyPrice  decimal.Decimal `json:"buyPrice"`
}

// Price can be null when the quote source is down.
type Price struct {
	Symbol   string              `json:"symbol"`
	Price    decimal.NullDecimal `json:"price"`
	Currency string              `json:"currency"`
}

type BulkPricesRequest struct {
	Symbols []string `json:"symbols"`
}

type HistoryPoint struct {
	Time       time.Time       `json:"time"`
	TotalValue decimal.Decimal `json:"totalValue"`
}
