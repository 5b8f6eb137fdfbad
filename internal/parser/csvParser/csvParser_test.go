package csvParser

import (
	"errors"
	"strings"
	"testing"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImportFile_MinimalHeader(t *testing.T) {
	positions, skipped, err := ParseImportFile(strings.NewReader("Ticker,Qty,Price\nAAPL,10,150.50\n"))
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, positions, 1)

	p := positions[0]
	assert.Equal(t, "AAPL", p.Symbol)
	assert.Equal(t, "AAPL", p.Name)
	assert.Equal(t, model.AssetTypeStock, p.AssetType)
	assert.True(t, p.Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, p.BuyPrice.Equal(decimal.RequireFromString("150.50")))
	assert.Equal(t, 2, p.Line)
}

func TestParseImportFile_FullHeaderWithSynonyms(t *testing.T) {
	input := "  Asset Name , SYMBOL ,Shares,Buy Price,Asset Type\n" +
		"\"Apple, Inc.\",aapl,3,100,stock\n" +
		"Bitcoin,btc,0.25,30000,crypto\n" +
		"Vanguard,VOO,1,400,mutual fund\n"

	positions, skipped, err := ParseImportFile(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, positions, 3)

	assert.Equal(t, "Apple, Inc.", positions[0].Name)
	assert.Equal(t, "AAPL", positions[0].Symbol)
	assert.Equal(t, model.AssetTypeStock, positions[0].AssetType)

	assert.Equal(t, "BTC", positions[1].Symbol)
	assert.Equal(t, model.AssetTypeCrypto, positions[1].AssetType)
	assert.True(t, positions[1].Quantity.Equal(decimal.RequireFromString("0.25")))

	assert.Equal(t, model.AssetTypeMutualFund, positions[2].AssetType)
}

func TestParseImportFile_CostAndTypeSynonyms(t *testing.T) {
	positions, _, err := ParseImportFile(strings.NewReader("symbol,quantity,cost,type\nGLD,2,180,COMMODITY\n"))
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, model.AssetTypeCommodity, positions[0].AssetType)
	assert.True(t, positions[0].BuyPrice.Equal(decimal.NewFromInt(180)))
}

func TestParseImportFile_MissingColumn(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		column string
	}{
		{name: "no quantity", input: "Ticker,Price\nAAPL,150\n", column: "quantity"},
		{name: "no symbol", input: "Name,Qty,Price\nApple,1,150\n", column: "symbol"},
		{name: "no price", input: "Ticker,Qty\nAAPL,1\n", column: "price"},
		{name: "empty input", input: "", column: "symbol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseImportFile(strings.NewReader(tt.input))

			var colErr *MissingColumnError
			require.True(t, errors.As(err, &colErr), "got %v", err)
			assert.Equal(t, tt.column, colErr.Column)
		})
	}
}

func TestParseImportFile_SkipsBadRows(t *testing.T) {
	input := "Ticker,Qty,Price\n" +
		"AAPL,ten,150\n" +
		"MSFT,5,300\n" +
		"\n" +
		"GOOG,0,100\n" +
		"TSLA,1,abc\n" +
		",1,1\n" +
		"AMZN,-2,10\n" +
		"NVDA,2,-1\n" +
		"META,1\n" +
		"VOO,2,410.25\n"

	positions, skipped, err := ParseImportFile(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, positions, 2)
	assert.Equal(t, "MSFT", positions[0].Symbol)
	assert.Equal(t, "VOO", positions[1].Symbol)
	assert.Equal(t, 11, positions[1].Line)

	require.Len(t, skipped, 7)
	assert.Equal(t, 2, skipped[0].Line)
	assert.Contains(t, skipped[0].Reason, "invalid quantity")
}

func TestParseImportFile_ZeroPriceAllowed(t *testing.T) {
	positions, skipped, err := ParseImportFile(strings.NewReader("ticker,qty,price\nGIFT,3,0\n"))
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, positions, 1)
	assert.True(t, positions[0].BuyPrice.IsZero())
}
