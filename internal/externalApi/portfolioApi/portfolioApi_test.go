package portfolioApi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/internal/externalApi"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/model/portfolioApiModel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApi(t *testing.T, handler http.HandlerFunc) *PortfolioApi {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.API.Timeout = 5 * time.Second
	cfg.API.RetryCount = 1
	cfg.API.PortfolioApi.Url = server.URL + "/api"
	return New(cfg)
}

func TestPortfolioApi_GetAssets(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/assets", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"name":"Apple","symbol":"aapl","assetType":"STOCK","quantity":10,"buyPrice":150.25},
			{"id":2,"name":"Bitcoin","symbol":"BTC","assetType":"crypto","quantity":0.5,"buyPrice":30000}
		]`))
	})

	positions, err := api.GetAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 2)

	assert.Equal(t, int64(1), positions[0].ID)
	assert.Equal(t, "AAPL", positions[0].Symbol)
	assert.True(t, positions[0].BuyPrice.Equal(decimal.RequireFromString("150.25")))
	assert.Equal(t, model.AssetTypeCrypto, positions[1].AssetType)
	assert.True(t, positions[1].Quantity.Equal(decimal.RequireFromString("0.5")))
}

func TestPortfolioApi_GetAssetBySymbol_NotFound(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/assets/symbol/TSLA", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := api.GetAssetBySymbol(context.Background(), "TSLA")
	assert.ErrorIs(t, err, externalApi.ErrNotFound)
}

func TestPortfolioApi_CreateAsset(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/assets", r.URL.Path)

		var body portfolioApiModel.Asset
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(0), body.ID)
		assert.Equal(t, "VOO", body.Symbol)
		assert.Equal(t, "ETF", body.AssetType)
		assert.True(t, body.Quantity.Equal(decimal.NewFromInt(3)))

		body.ID = 42
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})

	created, err := api.CreateAsset(context.Background(), model.Position{
		ID:        99,
		Name:      "Vanguard",
		Symbol:    "VOO",
		AssetType: model.AssetTypeETF,
		Quantity:  decimal.NewFromInt(3),
		BuyPrice:  decimal.NewFromInt(400),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, "Vanguard", created.Name)
}

func TestPortfolioApi_UpdateAndDelete(t *testing.T) {
	var calls []string
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPut {
			var body portfolioApiModel.Asset
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.True(t, body.BuyPrice.Equal(decimal.NewFromInt(150)))
			_ = json.NewEncoder(w).Encode(body)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	updated, err := api.UpdateAsset(context.Background(), model.Position{
		ID: 5, Symbol: "AAPL", AssetType: model.AssetTypeStock, Quantity: decimal.NewFromInt(20), BuyPrice: decimal.NewFromInt(150),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), updated.ID)

	require.NoError(t, api.DeleteAsset(context.Background(), 5))

	assert.Equal(t, []string{"PUT /api/assets/5", "DELETE /api/assets/5"}, calls)
}

func TestPortfolioApi_GetLivePrices(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/prices/bulk", r.URL.Path)

		var body portfolioApiModel.BulkPricesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"AAPL", "BTC"}, body.Symbols)

		_, _ = w.Write([]byte(`{
			"AAPL":{"symbol":"AAPL","price":190.5,"currency":"USD"},
			"BTC":{"symbol":"BTC","price":null,"currency":"USD"}
		}`))
	})

	prices, err := api.GetLivePrices(context.Background(), []string{"AAPL", "BTC"})
	require.NoError(t, err)

	assert.True(t, prices["AAPL"].Price.Equal(decimal.RequireFromString("190.5")))
	assert.True(t, prices.Available("AAPL"))
	assert.False(t, prices.Available("BTC"))
}

func TestPortfolioApi_GetLivePrice(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/api/assets/price/MSFT":
			_, _ = w.Write([]byte(`{"price":415.1,"currency":"USD"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	quote, err := api.GetLivePrice(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", quote.Symbol)
	assert.True(t, quote.Price.Equal(decimal.RequireFromString("415.1")))

	_, err = api.GetLivePrice(context.Background(), "NOPE")
	assert.ErrorIs(t, err, externalApi.ErrNotFound)
}

func TestPortfolioApi_GetLivePrices_EmptySymbols(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	prices, err := api.GetLivePrices(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestPortfolioApi_GetHistory(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/portfolio/history", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("days"))
		_, _ = w.Write([]byte(`[{"time":"2025-01-02T00:00:00Z","totalValue":1000.5}]`))
	})

	points, err := api.GetHistory(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 2025, points[0].Date.Year())
	assert.True(t, points[0].TotalValue.Equal(decimal.RequireFromString("1000.5")))
}

func TestPortfolioApi_RetriesReadsOnServerError(t *testing.T) {
	var attempts atomic.Int32
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"id":3,"symbol":"MSFT","assetType":"STOCK","quantity":1,"buyPrice":300}`))
	})

	p, err := api.GetAsset(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "MSFT", p.Symbol)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestPortfolioApi_DoesNotRetryCreate(t *testing.T) {
	var attempts atomic.Int32
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := api.CreateAsset(context.Background(), model.Position{Symbol: "AAPL"})
	assert.True(t, errors.Is(err, externalApi.ErrUnavailable))
	assert.Equal(t, int32(1), attempts.Load())
}

func TestPortfolioApi_ClientError(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad symbol"}`))
	})

	_, err := api.UpdateAsset(context.Background(), model.Position{ID: 1, Symbol: "AAPL"})
	assert.ErrorIs(t, err, externalApi.ErrUnexpectedStatus)
}
