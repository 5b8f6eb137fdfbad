package valuation

import (
	"errors"
	"testing"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate_BuyMergesAndAppends(t *testing.T) {
	positions := []model.Position{pos("AAPL", model.AssetTypeStock, "10", "100")}

	result, err := Simulate(positions, []model.Change{
		{Action: model.ChangeBuy, Symbol: "aapl", Quantity: d("10"), Price: d("200")},
		{Action: model.ChangeBuy, Symbol: "BTC", AssetType: "crypto", Quantity: d("0.5"), Price: d("30000")},
	})
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.True(t, result[0].Quantity.Equal(d("20")))
	assert.True(t, result[0].BuyPrice.Equal(d("150")))
	assert.Equal(t, "BTC", result[1].Symbol)
	assert.Equal(t, "BTC", result[1].Name)
	assert.Equal(t, model.AssetTypeCrypto, result[1].AssetType)

	// input is untouched
	assert.True(t, positions[0].Quantity.Equal(d("10")))
}

func TestSimulate_SellKeepsCostBasis(t *testing.T) {
	positions := []model.Position{pos("AAPL", model.AssetTypeStock, "10", "100")}

	result, err := Simulate(positions, []model.Change{
		{Action: model.ChangeSell, Symbol: "AAPL", Quantity: d("4"), Price: d("500")},
	})
	require.NoError(t, err)
	require.Len(t, result, 1)

	assert.True(t, result[0].Quantity.Equal(d("6")))
	assert.True(t, result[0].BuyPrice.Equal(d("100")))
}

func TestSimulate_SellAllRemovesPosition(t *testing.T) {
	positions := []model.Position{
		pos("AAPL", model.AssetTypeStock, "10", "100"),
		pos("MSFT", model.AssetTypeStock, "1", "300"),
	}

	result, err := Simulate(positions, []model.Change{
		{Action: model.ChangeSell, Symbol: "AAPL", Quantity: d("10")},
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "MSFT", result[0].Symbol)
	assert.Len(t, positions, 2)
}

func TestSimulate_InvalidChanges(t *testing.T) {
	positions := []model.Position{pos("AAPL", model.AssetTypeStock, "10", "100")}

	tests := []struct {
		name   string
		change model.Change
	}{
		{name: "sell not held", change: model.Change{Action: model.ChangeSell, Symbol: "TSLA", Quantity: d("1")}},
		{name: "oversell", change: model.Change{Action: model.ChangeSell, Symbol: "AAPL", Quantity: d("11")}},
		{name: "zero quantity", change: model.Change{Action: model.ChangeBuy, Symbol: "AAPL", Quantity: d("0"), Price: d("1")}},
		{name: "unknown action", change: model.Change{Action: "HOLD", Symbol: "AAPL", Quantity: d("1")}},
		{name: "empty symbol", change: model.Change{Action: model.ChangeBuy, Quantity: d("1")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Simulate(positions, []model.Change{tt.change})
			var changeErr *InvalidChangeError
			assert.True(t, errors.As(err, &changeErr), "got %v", err)
		})
	}
}
