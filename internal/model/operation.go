package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OperationKind string

const (
	OperationCreate OperationKind = "CREATE"
	OperationEdit   OperationKind = "EDIT"
	OperationMerge  OperationKind = "MERGE"
	OperationDelete OperationKind = "DELETE"
	OperationImport OperationKind = "IMPORT"
)

// Operation is a journal record of one applied mutation.
type Operation struct {
	ID         int64
	Kind       OperationKind
	PositionID int64
	Symbol     string
	Quantity   decimal.Decimal
	Price      decimal.Decimal
	RequestID  string
	CreatedAt  time.Time
}
