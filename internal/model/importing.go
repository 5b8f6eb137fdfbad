package model

import "github.com/shopspring/decimal"

type ImportedPosition struct {
	Line      int
	Symbol    string
	Name      string
	AssetType AssetType
	Quantity  decimal.Decimal
	BuyPrice  decimal.Decimal
}

type SkippedRow struct {
	Line   int
	Reason string
}

type ImportReport struct {
	CreatedCount int
	UpdatedCount int
	FailedCount  int
	SkippedCount int
	Errors       []string
}
