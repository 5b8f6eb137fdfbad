package portfolioService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/portfolio_tracker/internal/externalApi"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/service"
	"github.com/KotFed0t/portfolio_tracker/internal/valuation"
	"github.com/KotFed0t/portfolio_tracker/utils"
)

// Apply writes a position the way the request kind asks for.
func (s *PortfolioService) Apply(ctx context.Context, req model.TradeRequest) (position model.Position, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.Apply"

	slog.Debug("Apply start", slog.String("rqID", rqID), slog.String("op", op), slog.Any("request", req))
	defer func() {
		if err != nil {
			slog.Warn("Apply failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("Apply finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("positionID", position.ID))
		}
	}()

	switch r := req.(type) {
	case model.CreateRequest:
		return s.createPosition(ctx, r)
	case model.EditRequest:
		return s.editPosition(ctx, r)
	case model.MergeRequest:
		return s.addUnits(ctx, r)
	default:
		return model.Position{}, fmt.Errorf("%w: unsupported request %T", service.ErrInvalidRequest, req)
	}
}

func (s *PortfolioService) createPosition(ctx context.Context, req model.CreateRequest) (model.Position, error) {
	p, err := normalizePosition(req.Position)
	if err != nil {
		return model.Position{}, err
	}

	_, err = s.portfolioApi.GetAssetBySymbol(ctx, p.Symbol)
	switch {
	case err == nil:
		return model.Position{}, fmt.Errorf("%w: %s is already in portfolio", service.ErrAlreadyExists, p.Symbol)
	case !errors.Is(err, externalApi.ErrNotFound):
		return model.Position{}, err
	}

	return s.create(ctx, p, model.OperationCreate)
}

func (s *PortfolioService) editPosition(ctx context.Context, req model.EditRequest) (model.Position, error) {
	p, err := normalizePosition(req.Position)
	if err != nil {
		return model.Position{}, err
	}
	p.ID = req.ID

	// symbol stays unique per portfolio
	holder, err := s.portfolioApi.GetAssetBySymbol(ctx, p.Symbol)
	switch {
	case err == nil && holder.ID != req.ID:
		return model.Position{}, fmt.Errorf("%w: %s is held by position %d", service.ErrAlreadyExists, p.Symbol, holder.ID)
	case err != nil && !errors.Is(err, externalApi.ErrNotFound):
		return model.Position{}, err
	}

	updated, err := s.portfolioApi.UpdateAsset(ctx, p)
	if err != nil {
		return model.Position{}, mapApiErr(err)
	}

	s.journal(ctx, model.OperationEdit, updated, model.Trade{Quantity: updated.Quantity, Price: updated.BuyPrice})

	return updated, nil
}

func (s *PortfolioService) addUnits(ctx context.Context, req model.MergeRequest) (model.Position, error) {
	existing, err := s.portfolioApi.GetAsset(ctx, req.ID)
	if err != nil {
		return model.Position{}, mapApiErr(err)
	}

	return s.merge(ctx, existing, req.Trade, model.OperationMerge)
}

func (s *PortfolioService) create(ctx context.Context, p model.Position, kind model.OperationKind) (model.Position, error) {
	created, err := s.portfolioApi.CreateAsset(ctx, p)
	if err != nil {
		return model.Position{}, err
	}

	s.journal(ctx, kind, created, model.Trade{Quantity: created.Quantity, Price: created.BuyPrice})

	return created, nil
}

func (s *PortfolioService) merge(ctx context.Context, existing model.Position, trade model.Trade, kind model.OperationKind) (model.Position, error) {
	merged, err := valuation.Merge(existing, trade)
	if err != nil {
		return model.Position{}, err
	}

	updated, err := s.portfolioApi.UpdateAsset(ctx, merged)
	if err != nil {
		return model.Position{}, mapApiErr(err)
	}

	s.journal(ctx, kind, updated, trade)

	return updated, nil
}

func (s *PortfolioService) GetPositionBySymbol(ctx context.Context, symbol string) (model.Position, error) {
	p, err := s.portfolioApi.GetAssetBySymbol(ctx, model.NormalizeSymbol(symbol))
	if err != nil {
		return model.Position{}, mapApiErr(err)
	}
	return p, nil
}

func (s *PortfolioService) DeletePosition(ctx context.Context, id int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.DeletePosition"

	slog.Debug("DeletePosition start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("id", id))
	defer func() {
		if err != nil {
			slog.Warn("DeletePosition failed", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("id", id), slog.String("err", err.Error()))
		} else {
			slog.Info("DeletePosition completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("id", id))
		}
	}()

	p, err := s.portfolioApi.GetAsset(ctx, id)
	if err != nil {
		return mapApiErr(err)
	}

	err = s.portfolioApi.DeleteAsset(ctx, id)
	if err != nil {
		return mapApiErr(err)
	}

	s.journal(ctx, model.OperationDelete, p, model.Trade{Quantity: p.Quantity, Price: p.BuyPrice})

	return nil
}

// normalizePosition validates p and fills defaults. Stored positions always have a positive quantity.
func normalizePosition(p model.Position) (model.Position, error) {
	p.Symbol = model.NormalizeSymbol(p.Symbol)
	p.AssetType = model.NormalizeAssetType(string(p.AssetType))
	if p.Name == "" {
		p.Name = p.Symbol
	}

	if err := valuation.ValidatePosition(p); err != nil {
		return model.Position{}, err
	}
	if !p.Quantity.IsPositive() {
		return model.Position{}, &valuation.InvalidPositionError{Symbol: p.Symbol, Reason: "quantity must be positive"}
	}

	return p, nil
}

func mapApiErr(err error) error {
	if errors.Is(err, externalApi.ErrNotFound) {
		return service.ErrNotFound
	}
	return err
}
