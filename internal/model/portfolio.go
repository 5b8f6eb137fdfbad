package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ValuationSummary struct {
	TotalInvestedValue     decimal.Decimal
	TotalPortfolioValue    decimal.Decimal
	TotalProfitLoss        decimal.Decimal
	TotalProfitLossPercent decimal.Decimal
	PositionsCount         int
}

type AllocationEntry struct {
	AssetType            AssetType
	Value                decimal.Decimal
	PercentageAllocation decimal.Decimal
}

type Holding struct {
	ID                int64
	Name              string
	Symbol            string
	AssetType         AssetType
	Quantity          decimal.Decimal
	BuyPrice          decimal.Decimal
	CurrentPrice      decimal.Decimal
	PriceAvailable    bool
	InvestedValue     decimal.Decimal
	MarketValue       decimal.Decimal
	ProfitLoss        decimal.Decimal
	ProfitLossPercent decimal.Decimal
}

type HistoryPoint struct {
	Date          time.Time
	TotalValue    decimal.Decimal
	TotalInvested decimal.Decimal
}

// HistoryStats summarizes a range of history points.
type HistoryStats struct {
	Start         HistoryPoint
	End           HistoryPoint
	Highest       HistoryPoint
	Lowest        HistoryPoint
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
}

type Snapshot struct {
	ID             int64
	Date           time.Time
	TotalValue     decimal.Decimal
	TotalInvested  decimal.Decimal
	ProfitLoss     decimal.Decimal
	PositionsCount int
	CreatedAt      time.Time
}

type Portfolio struct {
	Summary    ValuationSummary
	Holdings   []Holding
	Allocation []AllocationEntry
}

type SimulationResult struct {
	Before Portfolio
	After  Portfolio
}

// Report holds everything rendered into the exported file.
type Report struct {
	GeneratedAt time.Time
	Portfolio   Portfolio
	Operations  []Operation
	Snapshots   []Snapshot
}
