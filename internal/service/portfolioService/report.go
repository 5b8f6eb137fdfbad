package portfolioService

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/utils"
)

// GenerateReport renders the portfolio with its journal and snapshots and uploads the file.
// Returns the download link.
func (s *PortfolioService) GenerateReport(ctx context.Context) (link string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GenerateReport"

	slog.Debug("GenerateReport start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error("GenerateReport failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GenerateReport completed", slog.String("rqID", rqID), slog.String("op", op), slog.String("link", link))
		}
	}()

	portfolio, err := s.GetPortfolio(ctx)
	if err != nil {
		return "", err
	}

	operations, err := s.repo.GetOperations(ctx, s.cfg.ReportOperations)
	if err != nil {
		return "", err
	}

	now := s.now()
	snapshots, err := s.repo.GetSnapshots(ctx, now.AddDate(0, 0, -s.cfg.HistoryDefaultDays))
	if err != nil {
		return "", err
	}

	fileBytes, ext, err := s.reportGenerator.Generate(ctx, model.Report{
		GeneratedAt: now,
		Portfolio:   portfolio,
		Operations:  operations,
		Snapshots:   snapshots,
	})
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("portfolio_%s%s", now.Format("2006-01-02_15-04-05"), ext)

	return s.cloudStorage.UploadFile(ctx, bytes.NewReader(fileBytes), filename)
}
