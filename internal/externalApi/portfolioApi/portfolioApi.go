package portfolioApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/internal/converter/apiConverter"
	"github.com/KotFed0t/portfolio_tracker/internal/externalApi"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/model/portfolioApiModel"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/go-resty/resty/v2"
)

type PortfolioApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *PortfolioApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.PortfolioApi.Url).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.API.RetryCount).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		// only reads are retried, a repeated POST would create a duplicate asset
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
				return false
			}
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	return &PortfolioApi{client: client}
}

func (a *PortfolioApi) GetAssets(ctx context.Context) ([]model.Position, error) {
	var assets []portfolioApiModel.Asset
	err := a.do(ctx, "PortfolioApi.GetAssets", a.client.R().SetContext(ctx), http.MethodGet, "/assets", &assets)
	if err != nil {
		return nil, err
	}
	return apiConverter.ConvertAssets(assets), nil
}

func (a *PortfolioApi) GetAsset(ctx context.Context, id int64) (model.Position, error) {
	var asset portfolioApiModel.Asset
	req := a.client.R().SetContext(ctx).SetPathParam("id", strconv.FormatInt(id, 10))
	err := a.do(ctx, "PortfolioApi.GetAsset", req, http.MethodGet, "/assets/{id}", &asset)
	if err != nil {
		return model.Position{}, err
	}
	return apiConverter.ConvertAsset(asset), nil
}

// GetAssetBySymbol returns externalApi.ErrNotFound when the symbol is not held.
func (a *PortfolioApi) GetAssetBySymbol(ctx context.Context, symbol string) (model.Position, error) {
	var asset portfolioApiModel.Asset
	req := a.client.R().SetContext(ctx).SetPathParam("symbol", symbol)
	err := a.do(ctx, "PortfolioApi.GetAssetBySymbol", req, http.MethodGet, "/assets/symbol/{symbol}", &asset)
	if err != nil {
		return model.Position{}, err
	}
	return apiConverter.ConvertAsset(asset), nil
}

func (a *PortfolioApi) CreateAsset(ctx context.Context, position model.Position) (model.Position, error) {
	var created portfolioApiModel.Asset
	payload := apiConverter.ConvertPosition(position)
	payload.ID = 0

	req := a.client.R().SetContext(ctx).SetHeader("Content-Type", "application/json").SetBody(payload)
	err := a.do(ctx, "PortfolioApi.CreateAsset", req, http.MethodPost, "/assets", &created)
	if err != nil {
		return model.Position{}, err
	}
	return apiConverter.ConvertAsset(created), nil
}

// UpdateAsset replaces every field of the stored asset with position.
func (a *PortfolioApi) UpdateAsset(ctx context.Context, position model.Position) (model.Position, error) {
	var updated portfolioApiModel.Asset
	req := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("id", strconv.FormatInt(position.ID, 10)).
		SetBody(apiConverter.ConvertPosition(position))
	err := a.do(ctx, "PortfolioApi.UpdateAsset", req, http.MethodPut, "/assets/{id}", &updated)
	if err != nil {
		return model.Position{}, err
	}
	return apiConverter.ConvertAsset(updated), nil
}

func (a *PortfolioApi) DeleteAsset(ctx context.Context, id int64) error {
	req := a.client.R().SetContext(ctx).SetPathParam("id", strconv.FormatInt(id, 10))
	return a.do(ctx, "PortfolioApi.DeleteAsset", req, http.MethodDelete, "/assets/{id}", nil)
}

func (a *PortfolioApi) GetLivePrice(ctx context.Context, symbol string) (model.PriceQuote, error) {
	var price portfolioApiModel.Price
	req := a.client.R().SetContext(ctx).SetPathParam("symbol", symbol)
	err := a.do(ctx, "PortfolioApi.GetLivePrice", req, http.MethodGet, "/assets/price/{symbol}", &price)
	if err != nil {
		return model.PriceQuote{}, err
	}
	if price.Symbol == "" {
		price.Symbol = symbol
	}
	return apiConverter.ConvertPrice(price), nil
}

// GetLivePrices fetches quotes for all symbols in one request.
// Symbols the upstream has no quote for are absent from the result.
func (a *PortfolioApi) GetLivePrices(ctx context.Context, symbols []string) (model.Prices, error) {
	if len(symbols) == 0 {
		return model.Prices{}, nil
	}

	var prices map[string]portfolioApiModel.Price
	req := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(portfolioApiModel.BulkPricesRequest{Symbols: symbols})
	err := a.do(ctx, "PortfolioApi.GetLivePrices", req, http.MethodPost, "/prices/bulk", &prices)
	if err != nil {
		return nil, err
	}
	return apiConverter.ConvertPrices(prices), nil
}

func (a *PortfolioApi) GetHistory(ctx context.Context, days int) ([]model.HistoryPoint, error) {
	var points []portfolioApiModel.HistoryPoint
	req := a.client.R().SetContext(ctx).SetQueryParam("days", strconv.Itoa(days))
	err := a.do(ctx, "PortfolioApi.GetHistory", req, http.MethodGet, "/portfolio/history", &points)
	if err != nil {
		return nil, err
	}
	return apiConverter.ConvertHistory(points), nil
}

// do executes req and unmarshals a successful body into result when result is not nil.
func (a *PortfolioApi) do(ctx context.Context, op string, req *resty.Request, method, url string, result any) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("request start", slog.String("rqID", rqID), slog.String("op", op), slog.String("method", method), slog.String("url", url))

	resp, err := req.Execute(method, url)
	if err != nil {
		slog.Error("error while dialing PortfolioApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return fmt.Errorf("%w: %w", externalApi.ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		slog.Warn("PortfolioApi returned not found", slog.String("rqID", rqID), slog.String("op", op), slog.String("url", resp.Request.URL))
		return externalApi.ErrNotFound
	case resp.StatusCode() >= http.StatusInternalServerError:
		slog.Error("PortfolioApi server error", slog.String("rqID", rqID), slog.String("op", op), slog.Int("status", resp.StatusCode()))
		return fmt.Errorf("%w: status %d", externalApi.ErrUnavailable, resp.StatusCode())
	case resp.IsError():
		slog.Error(
			"PortfolioApi unexpected status",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.Int("status", resp.StatusCode()),
			slog.String("body", resp.String()),
		)
		return fmt.Errorf("%w: status %d", externalApi.ErrUnexpectedStatus, resp.StatusCode())
	}

	if result != nil && len(resp.Body()) > 0 {
		err = json.Unmarshal(resp.Body(), result)
		if err != nil {
			slog.Error("can't unmarshall PortfolioApi response", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return err
		}
	}

	slog.Debug("request completed", slog.String("rqID", rqID), slog.String("op", op))

	return nil
}
