package portfolioService

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/service"
	"github.com/KotFed0t/portfolio_tracker/internal/valuation"
	"github.com/KotFed0t/portfolio_tracker/utils"
)

func (s *PortfolioService) GetPortfolio(ctx context.Context) (model.Portfolio, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetPortfolio"

	slog.Debug("GetPortfolio start", slog.String("rqID", rqID), slog.String("op", op))

	positions, err := s.portfolioApi.GetAssets(ctx)
	if err != nil {
		return model.Portfolio{}, err
	}

	portfolio := valuation.Value(positions, s.getPrices(ctx, positions))

	slog.Debug("GetPortfolio completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("positions", len(positions)))

	return portfolio, nil
}

func (s *PortfolioService) GetSummary(ctx context.Context) (model.ValuationSummary, error) {
	positions, err := s.portfolioApi.GetAssets(ctx)
	if err != nil {
		return model.ValuationSummary{}, err
	}
	return valuation.Summarize(positions, s.getPrices(ctx, positions)), nil
}

func (s *PortfolioService) GetHoldings(ctx context.Context) ([]model.Holding, error) {
	positions, err := s.portfolioApi.GetAssets(ctx)
	if err != nil {
		return nil, err
	}
	return valuation.Holdings(positions, s.getPrices(ctx, positions)), nil
}

func (s *PortfolioService) GetAllocation(ctx context.Context) ([]model.AllocationEntry, error) {
	positions, err := s.portfolioApi.GetAssets(ctx)
	if err != nil {
		return nil, err
	}
	return valuation.Allocate(positions, s.getPrices(ctx, positions)), nil
}

// SimulatePortfolio values the current portfolio and the portfolio after changes.
// Nothing is written upstream.
func (s *PortfolioService) SimulatePortfolio(ctx context.Context, changes []model.Change) (model.SimulationResult, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.SimulatePortfolio"

	slog.Debug("SimulatePortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("changes", len(changes)))

	if len(changes) == 0 {
		return model.SimulationResult{}, fmt.Errorf("%w: no changes to simulate", service.ErrInvalidRequest)
	}

	positions, err := s.portfolioApi.GetAssets(ctx)
	if err != nil {
		return model.SimulationResult{}, err
	}

	after, err := valuation.Simulate(positions, changes)
	if err != nil {
		return model.SimulationResult{}, err
	}

	// цены нужны и для новых символов из сделок
	prices := s.getPrices(ctx, append(append([]model.Position{}, positions...), after...))

	result := model.SimulationResult{
		Before: valuation.Value(positions, prices),
		After:  valuation.Value(after, prices),
	}

	slog.Debug("SimulatePortfolio completed", slog.String("rqID", rqID), slog.String("op", op))

	return result, nil
}

// GetHistory returns the portfolio value over the last days.
// The upstream history is preferred, locally saved snapshots are used when it is unavailable.
func (s *PortfolioService) GetHistory(ctx context.Context, days int) ([]model.HistoryPoint, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetHistory"

	if days <= 0 {
		days = s.cfg.HistoryDefaultDays
	}

	slog.Debug("GetHistory start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("days", days))

	points, err := s.portfolioApi.GetHistory(ctx, days)
	if err == nil && len(points) > 0 {
		return points, nil
	}
	if err != nil {
		slog.Warn("can't get history from api, using snapshots", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	snapshots, dbErr := s.repo.GetSnapshots(ctx, s.now().AddDate(0, 0, -days))
	if dbErr != nil {
		if err != nil {
			return nil, err
		}
		return nil, dbErr
	}

	points = make([]model.HistoryPoint, 0, len(snapshots))
	for _, snap := range snapshots {
		points = append(points, model.HistoryPoint{
			Date:          snap.Date,
			TotalValue:    snap.TotalValue,
			TotalInvested: snap.TotalInvested,
		})
	}

	return points, nil
}

func (s *PortfolioService) takeSnapshot(ctx context.Context) (model.Snapshot, error) {
	positions, err := s.portfolioApi.GetAssets(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	if len(positions) == 0 {
		return model.Snapshot{}, service.ErrEmptyPortfolio
	}

	summary := valuation.Summarize(positions, s.getPrices(ctx, positions))

	return model.Snapshot{
		Date:           today(s.now()),
		TotalValue:     summary.TotalPortfolioValue,
		TotalInvested:  summary.TotalInvestedValue,
		ProfitLoss:     summary.TotalProfitLoss,
		PositionsCount: summary.PositionsCount,
		CreatedAt:      s.now(),
	}, nil
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
