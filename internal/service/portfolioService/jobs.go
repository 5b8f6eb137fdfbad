package portfolioService

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/portfolio_tracker/utils"
)

// WarmPricesCache fetches quotes for every held symbol so that reads hit redis.
func (s *PortfolioService) WarmPricesCache(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.WarmPricesCache"

	positions, err := s.portfolioApi.GetAssets(ctx)
	if err != nil {
		return err
	}

	symbols := uniqueSymbols(positions)
	if len(symbols) == 0 {
		return nil
	}

	prices, err := s.portfolioApi.GetLivePrices(ctx, symbols)
	if err != nil {
		return err
	}

	s.rememberPrices(ctx, prices)

	slog.Info("prices cache warmed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("symbols", len(symbols)), slog.Int("quotes", len(prices)))

	return nil
}

func (s *PortfolioService) DeleteOldReports(ctx context.Context) error {
	return s.cloudStorage.DeleteOldFiles(ctx)
}
