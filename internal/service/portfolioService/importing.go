package portfolioService

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/KotFed0t/portfolio_tracker/internal/externalApi"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/parser/csvParser"
	"github.com/KotFed0t/portfolio_tracker/utils"
)

// ImportPositions parses a csv file and writes every row to the portfolio one after another.
// A row for a symbol already held is merged into it, any other row creates a position.
// Rows written before a failure stay written.
func (s *PortfolioService) ImportPositions(ctx context.Context, r io.Reader) (report model.ImportReport, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.ImportPositions"

	slog.Debug("ImportPositions start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Info(
			"ImportPositions finished",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.Int("created", report.CreatedCount),
			slog.Int("updated", report.UpdatedCount),
			slog.Int("failed", report.FailedCount),
			slog.Int("skipped", report.SkippedCount),
		)
	}()

	rows, skipped, err := csvParser.ParseImportFile(r)
	if err != nil {
		return model.ImportReport{}, err
	}

	report.Errors = make([]string, 0, len(skipped))
	for _, row := range skipped {
		report.SkippedCount++
		report.Errors = append(report.Errors, fmt.Sprintf("line %d: %s", row.Line, row.Reason))
	}

	// строки применяются строго по очереди: merge читает и перезаписывает позицию
	for _, row := range rows {
		if err = ctx.Err(); err != nil {
			return report, err
		}

		updated, rowErr := s.importRow(ctx, row)
		if rowErr != nil {
			report.FailedCount++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %s: %s", row.Line, row.Symbol, rowErr.Error()))
			continue
		}

		if updated {
			report.UpdatedCount++
		} else {
			report.CreatedCount++
		}
	}

	return report, nil
}

func (s *PortfolioService) importRow(ctx context.Context, row model.ImportedPosition) (updated bool, err error) {
	existing, err := s.portfolioApi.GetAssetBySymbol(ctx, row.Symbol)
	switch {
	case err == nil:
		_, err = s.merge(ctx, existing, model.Trade{Quantity: row.Quantity, Price: row.BuyPrice}, model.OperationImport)
		return true, err
	case errors.Is(err, externalApi.ErrNotFound):
		p, err := normalizePosition(model.Position{
			Name:      row.Name,
			Symbol:    row.Symbol,
			AssetType: row.AssetType,
			Quantity:  row.Quantity,
			BuyPrice:  row.BuyPrice,
		})
		if err != nil {
			return false, err
		}
		_, err = s.create(ctx, p, model.OperationImport)
		return false, err
	default:
		return false, err
	}
}
