package model

import "github.com/shopspring/decimal"

type ChangeAction string

const (
	ChangeBuy  ChangeAction = "BUY"
	ChangeSell ChangeAction = "SELL"
)

// Change is one hypothetical trade applied by the what-if simulation.
type Change struct {
	Action    ChangeAction
	Symbol    string
	Name      string
	AssetType AssetType
	Quantity  decimal.Decimal
	Price     decimal.Decimal
}
