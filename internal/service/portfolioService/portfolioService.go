package portfolioService

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/internal/externalApi"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/utils"
)

type PortfolioApi interface {
	GetAssets(ctx context.Context) ([]model.Position, error)
	GetAsset(ctx context.Context, id int64) (model.Position, error)
	GetAssetBySymbol(ctx context.Context, symbol string) (model.Position, error)
	CreateAsset(ctx context.Context, position model.Position) (model.Position, error)
	UpdateAsset(ctx context.Context, position model.Position) (model.Position, error)
	DeleteAsset(ctx context.Context, id int64) error
	GetLivePrice(ctx context.Context, symbol string) (model.PriceQuote, error)
	GetLivePrices(ctx context.Context, symbols []string) (model.Prices, error)
	GetHistory(ctx context.Context, days int) ([]model.HistoryPoint, error)
}

type Cache interface {
	GetPrices(ctx context.Context, symbols []string) (found model.Prices, missing []string, err error)
	SetPrices(ctx context.Context, prices model.Prices) error
}

type LastKnownPrices interface {
	Get(symbols []string) model.Prices
	Set(prices model.Prices)
}

type Repository interface {
	WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error
	InsertOperation(ctx context.Context, operation model.Operation) (err error)
	GetOperations(ctx context.Context, limit int) (operations []model.Operation, err error)
	InsertSnapshot(ctx context.Context, snapshot model.Snapshot) (snapshotID int64, err error)
	DeleteSnapshot(ctx context.Context, date time.Time) (err error)
	SnapshotExists(ctx context.Context, date time.Time) (exists bool, err error)
	GetSnapshots(ctx context.Context, from time.Time) (snapshots []model.Snapshot, err error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, report model.Report) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
	DeleteOldFiles(ctx context.Context) error
}

type PortfolioService struct {
	cfg             *config.Config
	repo            Repository
	cache           Cache
	lastKnown       LastKnownPrices
	portfolioApi    PortfolioApi
	reportGenerator ReportGenerator
	cloudStorage    CloudStorage
	now             func() time.Time
}

func New(
	cfg *config.Config,
	repo Repository,
	cache Cache,
	lastKnown LastKnownPrices,
	portfolioApi PortfolioApi,
	reportGenerator ReportGenerator,
	cloudStorage CloudStorage,
) *PortfolioService {
	return &PortfolioService{
		cfg:             cfg,
		repo:            repo,
		cache:           cache,
		lastKnown:       lastKnown,
		portfolioApi:    portfolioApi,
		reportGenerator: reportGenerator,
		cloudStorage:    cloudStorage,
		now:             time.Now,
	}
}

// getPrices resolves quotes for positions: redis first, then the api, then the last known quotes.
// Symbols left without a quote are valued at cost basis by the valuation package.
func (s *PortfolioService) getPrices(ctx context.Context, positions []model.Position) model.Prices {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.getPrices"

	symbols := uniqueSymbols(positions)
	if len(symbols) == 0 {
		return model.Prices{}
	}

	prices, missing, err := s.cache.GetPrices(ctx, symbols)
	if err != nil {
		slog.Warn("can't get prices from cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		prices, missing = nil, symbols
	}
	if prices == nil {
		prices = make(model.Prices, len(symbols))
	}

	if len(missing) == 0 {
		return prices
	}

	fresh, err := s.portfolioApi.GetLivePrices(ctx, missing)
	if err != nil {
		slog.Warn("can't get live prices in bulk, asking one by one", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		fresh = s.getPricesOneByOne(ctx, missing)
	}

	s.rememberPrices(ctx, fresh)

	var stillMissing []string
	for _, symbol := range missing {
		if quote, ok := fresh[symbol]; ok && quote.Price.IsPositive() {
			prices[symbol] = quote
			continue
		}
		stillMissing = append(stillMissing, symbol)
	}

	if len(stillMissing) > 0 {
		for symbol, quote := range s.lastKnown.Get(stillMissing) {
			prices[symbol] = quote
		}
	}

	return prices
}

// getPricesOneByOne stops at the first ErrUnavailable, the rest is left to the last known quotes.
func (s *PortfolioService) getPricesOneByOne(ctx context.Context, symbols []string) model.Prices {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.getPricesOneByOne"

	prices := make(model.Prices, len(symbols))
	for _, symbol := range symbols {
		quote, err := s.portfolioApi.GetLivePrice(ctx, symbol)
		if err != nil {
			if errors.Is(err, externalApi.ErrUnavailable) {
				slog.Warn("portfolio api unavailable, using last known prices", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
				break
			}
			slog.Debug("no live price", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", err.Error()))
			continue
		}
		if quote.Price.IsPositive() {
			prices[symbol] = quote
		}
	}

	return prices
}

func (s *PortfolioService) rememberPrices(ctx context.Context, prices model.Prices) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.rememberPrices"

	available := make(model.Prices, len(prices))
	for symbol, quote := range prices {
		if quote.Price.IsPositive() {
			available[symbol] = quote
		}
	}

	s.lastKnown.Set(available)

	if err := s.cache.SetPrices(ctx, available); err != nil {
		slog.Error("got error from cache.SetPrices", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}
}

func (s *PortfolioService) journal(ctx context.Context, kind model.OperationKind, position model.Position, trade model.Trade) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.journal"

	err := s.repo.InsertOperation(ctx, model.Operation{
		Kind:       kind,
		PositionID: position.ID,
		Symbol:     position.Symbol,
		Quantity:   trade.Quantity,
		Price:      trade.Price,
		RequestID:  rqID,
	})
	if err != nil {
		slog.Error("got error from repo.InsertOperation", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}
}

func uniqueSymbols(positions []model.Position) []string {
	seen := make(map[string]struct{}, len(positions))
	symbols := make([]string, 0, len(positions))
	for _, p := range positions {
		if _, ok := seen[p.Symbol]; ok {
			continue
		}
		seen[p.Symbol] = struct{}{}
		symbols = append(symbols, p.Symbol)
	}
	return symbols
}
