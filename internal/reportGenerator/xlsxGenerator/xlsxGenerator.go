package xlsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetPortfolio  = "Portfolio"
	SheetOperations = "Operations"
	SheetSnapshots  = "Snapshots"

	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

func (g *XLSXGenerator) Generate(ctx context.Context, report model.Report) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	fillers := []struct {
		sheet string
		fill  func(f *excelize.File, sheet string, report model.Report) error
	}{
		{SheetPortfolio, g.fillPortfolio},
		{SheetOperations, g.fillOperations},
		{SheetSnapshots, g.fillSnapshots},
	}

	for _, filler := range fillers {
		if _, err := f.NewSheet(filler.sheet); err != nil {
			slog.Error("got error while creating NewSheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, "", err
		}
		if err := filler.fill(f, filler.sheet, report); err != nil {
			slog.Error("got error while filling sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("sheet", filler.sheet), slog.String("err", err.Error()))
			return nil, "", err
		}
	}

	// Удаляем лист по умолчанию "Sheet1"
	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XLSXGenerator) fillPortfolio(f *excelize.File, sheet string, report model.Report) error {
	summary := report.Portfolio.Summary

	// сводка
	if err := sectionHeader(f, sheet, 1, "B", "Summary", "#cfe2f3"); err != nil {
		return err
	}

	rows := []struct {
		label string
		value any
	}{
		{"generated at", report.GeneratedAt.Format(dateTimeLayout)},
		{"invested", money(summary.TotalInvestedValue)},
		{"market value", money(summary.TotalPortfolioValue)},
		{"profit / loss", money(summary.TotalProfitLoss)},
		{"profit / loss %", money(summary.TotalProfitLossPercent)},
		{"positions", summary.PositionsCount},
	}
	for i, r := range rows {
		_ = f.SetCellStr(sheet, cell("A", i+2), r.label)
		_ = f.SetCellValue(sheet, cell("B", i+2), r.value)
	}

	// позиции
	rowNum := len(rows) + 4
	if err := sectionHeader(f, sheet, rowNum, "K", "Holdings", "#d9ead3"); err != nil {
		return err
	}

	rowNum++
	setHeaderRow(f, sheet, rowNum, "id", "name", "symbol", "type", "quantity", "buy price", "current price", "invested", "market value", "p/l", "p/l %")

	for _, h := range report.Portfolio.Holdings {
		rowNum++
		currentPrice := any("n/a")
		if h.PriceAvailable {
			currentPrice = money(h.CurrentPrice)
		}
		_ = f.SetCellInt(sheet, cell("A", rowNum), h.ID)
		_ = f.SetCellStr(sheet, cell("B", rowNum), h.Name)
		_ = f.SetCellStr(sheet, cell("C", rowNum), h.Symbol)
		_ = f.SetCellStr(sheet, cell("D", rowNum), string(h.AssetType))
		_ = f.SetCellValue(sheet, cell("E", rowNum), h.Quantity.InexactFloat64())
		_ = f.SetCellValue(sheet, cell("F", rowNum), money(h.BuyPrice))
		_ = f.SetCellValue(sheet, cell("G", rowNum), currentPrice)
		_ = f.SetCellValue(sheet, cell("H", rowNum), money(h.InvestedValue))
		_ = f.SetCellValue(sheet, cell("I", rowNum), money(h.MarketValue))
		_ = f.SetCellValue(sheet, cell("J", rowNum), money(h.ProfitLoss))
		_ = f.SetCellValue(sheet, cell("K", rowNum), money(h.ProfitLossPercent))
	}

	// распределение по типам
	rowNum += 3
	if err := sectionHeader(f, sheet, rowNum, "C", "Allocation", "#f9cb9c"); err != nil {
		return err
	}

	rowNum++
	setHeaderRow(f, sheet, rowNum, "type", "value", "%")

	for _, a := range report.Portfolio.Allocation {
		rowNum++
		_ = f.SetCellStr(sheet, cell("A", rowNum), string(a.AssetType))
		_ = f.SetCellValue(sheet, cell("B", rowNum), money(a.Value))
		_ = f.SetCellValue(sheet, cell("C", rowNum), money(a.PercentageAllocation))
	}

	return nil
}

func (g *XLSXGenerator) fillOperations(f *excelize.File, sheet string, report model.Report) error {
	if err := sectionHeader(f, sheet, 1, "G", "Operations history", "#cccccc"); err != nil {
		return err
	}

	setHeaderRow(f, sheet, 2, "date", "kind", "position id", "symbol", "quantity", "price", "request id")

	for i, o := range report.Operations {
		rowNum := i + 3
		_ = f.SetCellStr(sheet, cell("A", rowNum), o.CreatedAt.Format(dateTimeLayout))
		_ = f.SetCellStr(sheet, cell("B", rowNum), string(o.Kind))
		_ = f.SetCellInt(sheet, cell("C", rowNum), o.PositionID)
		_ = f.SetCellStr(sheet, cell("D", rowNum), o.Symbol)
		_ = f.SetCellValue(sheet, cell("E", rowNum), o.Quantity.InexactFloat64())
		_ = f.SetCellValue(sheet, cell("F", rowNum), money(o.Price))
		_ = f.SetCellStr(sheet, cell("G", rowNum), o.RequestID)
	}

	return nil
}

func (g *XLSXGenerator) fillSnapshots(f *excelize.File, sheet string, report model.Report) error {
	if err := sectionHeader(f, sheet, 1, "E", "Valuation snapshots", "#f4cccc"); err != nil {
		return err
	}

	setHeaderRow(f, sheet, 2, "date", "market value", "invested", "p/l", "positions")

	for i, s := range report.Snapshots {
		rowNum := i + 3
		_ = f.SetCellStr(sheet, cell("A", rowNum), s.Date.Format(dateLayout))
		_ = f.SetCellValue(sheet, cell("B", rowNum), money(s.TotalValue))
		_ = f.SetCellValue(sheet, cell("C", rowNum), money(s.TotalInvested))
		_ = f.SetCellValue(sheet, cell("D", rowNum), money(s.ProfitLoss))
		_ = f.SetCellInt(sheet, cell("E", rowNum), int64(s.PositionsCount))
	}

	return nil
}

// sectionHeader merges row cells from A to lastCol and writes a colored title.
func sectionHeader(f *excelize.File, sheet string, row int, lastCol, title, color string) error {
	err := f.MergeCell(sheet, cell("A", row), cell(lastCol, row))
	if err != nil {
		return err
	}

	_ = f.SetCellStr(sheet, cell("A", row), title)

	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheet, cell("A", row), cell("A", row), styleID); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	return nil
}

func setHeaderRow(f *excelize.File, sheet string, row int, titles ...string) {
	for i, title := range titles {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetCellStr(sheet, cell(col, row), title)
	}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// money rounds for presentation only, computations stay at full precision.
func money(v decimal.Decimal) float64 {
	return v.Round(2).InexactFloat64()
}
