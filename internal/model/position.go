package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AssetType is an open key: unknown types are kept as is.
type AssetType string

const (
	AssetTypeStock      AssetType = "STOCK"
	AssetTypeETF        AssetType = "ETF"
	AssetTypeCrypto     AssetType = "CRYPTO"
	AssetTypeForex      AssetType = "FOREX"
	AssetTypeMutualFund AssetType = "MUTUAL_FUND"
	AssetTypeBond       AssetType = "BOND"
	AssetTypeCash       AssetType = "CASH"
	AssetTypeCommodity  AssetType = "COMMODITY"
	AssetTypeRealEstate AssetType = "REAL_ESTATE"
)

// NormalizeAssetType uppercases the value and replaces spaces with "_".
// Empty input gives AssetTypeStock.
func NormalizeAssetType(raw string) AssetType {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return AssetTypeStock
	}
	return AssetType(strings.ReplaceAll(strings.ToUpper(raw), " ", "_"))
}

func NormalizeSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Position is a held quantity of one symbol at an average cost basis.
// ID == 0 means the position is not persisted yet.
type Position struct {
	ID        int64
	Name      string
	Symbol    string
	AssetType AssetType
	Quantity  decimal.Decimal
	BuyPrice  decimal.Decimal
}

// InvestedValue is quantity * buyPrice.
func (p Position) InvestedValue() decimal.Decimal {
	return p.Quantity.Mul(p.BuyPrice)
}

// Trade is an incoming purchase merged into an existing position.
type Trade struct {
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

type PriceQuote struct {
	Symbol   string
	Price    decimal.Decimal
	Currency string
}

// Prices are keyed by uppercase symbol.
type Prices map[string]PriceQuote

// Available reports whether a positive quote exists for the symbol.
func (p Prices) Available(symbol string) bool {
	q, ok := p[symbol]
	return ok && q.Price.IsPositive()
}
