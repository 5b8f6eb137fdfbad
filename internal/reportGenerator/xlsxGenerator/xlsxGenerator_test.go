package xlsxGenerator

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGenerate(t *testing.T) {
	generatedAt := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)
	report := model.Report{
		GeneratedAt: generatedAt,
		Portfolio: model.Portfolio{
			Summary: model.ValuationSummary{
				TotalInvestedValue:     decimal.NewFromInt(1000),
				TotalPortfolioValue:    decimal.RequireFromString("1500.456"),
				TotalProfitLoss:        decimal.RequireFromString("500.456"),
				TotalProfitLossPercent: decimal.RequireFromString("50.0456"),
				PositionsCount:         1,
			},
			Holdings: []model.Holding{{
				ID:                7,
				Name:              "Apple",
				Symbol:            "AAPL",
				AssetType:         model.AssetTypeStock,
				Quantity:          decimal.NewFromInt(10),
				BuyPrice:          decimal.NewFromInt(100),
				InvestedValue:     decimal.NewFromInt(1000),
				MarketValue:       decimal.NewFromInt(1000),
				ProfitLoss:        decimal.Zero,
				ProfitLossPercent: decimal.Zero,
			}},
			Allocation: []model.AllocationEntry{{
				AssetType:            model.AssetTypeStock,
				Value:                decimal.NewFromInt(1000),
				PercentageAllocation: decimal.NewFromInt(100),
			}},
		},
		Operations: []model.Operation{{
			Kind:       model.OperationMerge,
			PositionID: 7,
			Symbol:     "AAPL",
			Quantity:   decimal.NewFromInt(5),
			Price:      decimal.NewFromInt(90),
			RequestID:  "rq-1",
			CreatedAt:  generatedAt,
		}},
		Snapshots: []model.Snapshot{{
			Date:           generatedAt,
			TotalValue:     decimal.NewFromInt(1400),
			TotalInvested:  decimal.NewFromInt(1000),
			ProfitLoss:     decimal.NewFromInt(400),
			PositionsCount: 1,
		}},
	}

	fileBytes, ext, err := New().Generate(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", ext)

	f, err := excelize.OpenReader(bytes.NewReader(fileBytes))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetPortfolio, SheetOperations, SheetSnapshots}, f.GetSheetList())

	get := func(sheet, axis string) string {
		v, err := f.GetCellValue(sheet, axis)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Summary", get(SheetPortfolio, "A1"))
	assert.Equal(t, "2025-03-10 12:30:00", get(SheetPortfolio, "B2"))
	assert.Equal(t, "1500.46", get(SheetPortfolio, "B4"))
	assert.Equal(t, "50.05", get(SheetPortfolio, "B6"))

	// holdings start after the summary block
	assert.Equal(t, "Holdings", get(SheetPortfolio, "A10"))
	assert.Equal(t, "symbol", get(SheetPortfolio, "C11"))
	assert.Equal(t, "AAPL", get(SheetPortfolio, "C12"))
	assert.Equal(t, "n/a", get(SheetPortfolio, "G12"))

	assert.Equal(t, "Allocation", get(SheetPortfolio, "A15"))
	assert.Equal(t, "STOCK", get(SheetPortfolio, "A17"))
	assert.Equal(t, "100", get(SheetPortfolio, "C17"))

	assert.Equal(t, "MERGE", get(SheetOperations, "B3"))
	assert.Equal(t, "rq-1", get(SheetOperations, "G3"))

	assert.Equal(t, "2025-03-10", get(SheetSnapshots, "A3"))
	assert.Equal(t, "400", get(SheetSnapshots, "D3"))
}

func TestGenerate_EmptyReport(t *testing.T) {
	fileBytes, _, err := New().Generate(context.Background(), model.Report{GeneratedAt: time.Now()})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(fileBytes))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetOperations)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
