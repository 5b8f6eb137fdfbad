package portfolioService

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KotFed0t/portfolio_tracker/data/repository"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/utils"
)

// SaveSnapshot stores the current valuation, replacing a snapshot already saved today.
func (s *PortfolioService) SaveSnapshot(ctx context.Context) (snapshot model.Snapshot, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.SaveSnapshot"

	slog.Debug("SaveSnapshot start", slog.String("rqID", rqID), slog.String("op", op))

	snapshot, err = s.takeSnapshot(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}

	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.DeleteSnapshot(ctx, snapshot.Date); err != nil {
			return err
		}
		id, err := s.repo.InsertSnapshot(ctx, snapshot)
		if err != nil {
			return err
		}
		snapshot.ID = id
		return nil
	})
	if err != nil {
		return model.Snapshot{}, err
	}

	slog.Info("SaveSnapshot completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("snapshotID", snapshot.ID))

	return snapshot, nil
}

// AutoSaveSnapshot stores one snapshot a day, a day that already has one is left untouched.
func (s *PortfolioService) AutoSaveSnapshot(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.AutoSaveSnapshot"

	exists, err := s.repo.SnapshotExists(ctx, today(s.now()))
	if err != nil {
		return err
	}
	if exists {
		slog.Debug("snapshot for today already exists", slog.String("rqID", rqID), slog.String("op", op))
		return nil
	}

	snapshot, err := s.takeSnapshot(ctx)
	if err != nil {
		return err
	}

	id, err := s.repo.InsertSnapshot(ctx, snapshot)
	if err != nil {
		// гонка с ручным /snapshot
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil
		}
		return err
	}

	slog.Info("AutoSaveSnapshot completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("snapshotID", id))

	return nil
}
