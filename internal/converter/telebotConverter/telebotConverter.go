package telebotConverter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/model/tg/tgCallback"
	"github.com/KotFed0t/portfolio_tracker/internal/valuation"
	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"
)

const (
	dateLayout = "02.01.2006"

	HoldingsPageSize = 10
	HistoryPageSize  = 30
)

func SummaryResponse(summary model.ValuationSummary) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	var sb strings.Builder

	sb.WriteString("📊 Портфель\n\n")
	sb.WriteString(fmt.Sprintf("💰 Стоимость: %s\n", Money(summary.TotalPortfolioValue)))
	sb.WriteString(fmt.Sprintf("💵 Вложено: %s\n", Money(summary.TotalInvestedValue)))
	sb.WriteString(fmt.Sprintf("%s P/L: %s (%s)\n", trendEmoji(summary.TotalProfitLoss), SignedMoney(summary.TotalProfitLoss), Percent(summary.TotalProfitLossPercent)))
	sb.WriteString(fmt.Sprintf("📋 Позиций: %d\n", summary.PositionsCount))

	markup.Inline(
		markup.Row(
			markup.Data("📋 Позиции", tgCallback.ShowHoldings),
			markup.Data("🥧 Распределение", tgCallback.ShowAllocation),
		),
		markup.Row(
			markup.Data("📈 История", tgCallback.ShowHistory),
			markup.Data("📄 Отчет", tgCallback.GenerateReport),
		),
		markup.Row(
			markup.Data("📸 Сохранить снимок", tgCallback.SaveSnapshot),
		),
	)

	return sb.String(), markup
}

// HoldingsResponse renders one page of holdings, pages start from 0.
func HoldingsResponse(holdings []model.Holding, page int) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	navRow := markup.Row(
		markup.Data("📊 Сводка", tgCallback.ShowSummary),
		markup.Data("🥧 Распределение", tgCallback.ShowAllocation),
	)

	if len(holdings) == 0 {
		markup.Inline(navRow)
		return "Портфель пуст. Добавьте позицию командой /add или загрузите файл через /import", markup
	}

	from, to, page, pages := pageBounds(len(holdings), page, HoldingsPageSize)

	var sb strings.Builder
	sb.WriteString("📋 Состав портфеля")
	if pages > 1 {
		sb.WriteString(fmt.Sprintf(" (стр. %d из %d)", page+1, pages))
	}
	sb.WriteString(":\n\n")

	for _, h := range holdings[from:to] {
		sb.WriteString(fmt.Sprintf("#%d %s (%s) · %s\n", h.ID, h.Symbol, h.Name, h.AssetType))
		sb.WriteString(fmt.Sprintf("   ▸ Кол-во: %s\n", h.Quantity.String()))
		sb.WriteString(fmt.Sprintf("   ▸ Средняя цена: %s\n", Money(h.BuyPrice)))
		if h.PriceAvailable {
			sb.WriteString(fmt.Sprintf("   ▸ Текущая цена: %s\n", Money(h.CurrentPrice)))
		} else {
			sb.WriteString("   ▸ Текущая цена: нет котировки, оценка по цене покупки\n")
		}
		sb.WriteString(fmt.Sprintf("   ▸ Стоимость: %s\n", Money(h.MarketValue)))
		sb.WriteString(fmt.Sprintf("   %s P/L: %s (%s)\n\n", trendEmoji(h.ProfitLoss), SignedMoney(h.ProfitLoss), Percent(h.ProfitLossPercent)))
	}

	rows := make([]tele.Row, 0, 2)
	if btns := paginationBtns(markup, tgCallback.HoldingsPage, page, pages); len(btns) > 0 {
		rows = append(rows, markup.Row(btns...))
	}
	rows = append(rows, navRow)
	markup.Inline(rows...)

	return sb.String(), markup
}

func AllocationResponse(entries []model.AllocationEntry) string {
	if len(entries) == 0 {
		return "Нет данных для распределения"
	}

	var sb strings.Builder
	sb.WriteString("🥧 Распределение по типам активов:\n\n")

	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%s: %s%% (%s)\n", e.AssetType, e.PercentageAllocation.StringFixed(2), Money(e.Value)))
	}

	return sb.String()
}

// HistoryResponse renders range stats and one page of points.
// days goes back into the page buttons, 0 means the default range.
func HistoryResponse(points []model.HistoryPoint, days, page int) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	navRow := markup.Row(markup.Data("📊 Сводка", tgCallback.ShowSummary))

	stats, ok := valuation.HistoryRange(points)
	if !ok {
		markup.Inline(navRow)
		return "История пока пуста", markup
	}

	from, to, page, pages := pageBounds(len(points), page, HistoryPageSize)

	var sb strings.Builder
	sb.WriteString("📈 История стоимости")
	if pages > 1 {
		sb.WriteString(fmt.Sprintf(" (стр. %d из %d)", page+1, pages))
	}
	sb.WriteString(":\n\n")

	sb.WriteString(fmt.Sprintf("Начало: %s (%s)\n", Money(stats.Start.TotalValue), stats.Start.Date.Format(dateLayout)))
	sb.WriteString(fmt.Sprintf("Конец: %s (%s)\n", Money(stats.End.TotalValue), stats.End.Date.Format(dateLayout)))
	sb.WriteString(fmt.Sprintf("Максимум: %s (%s)\n", Money(stats.Highest.TotalValue), stats.Highest.Date.Format(dateLayout)))
	sb.WriteString(fmt.Sprintf("Минимум: %s (%s)\n", Money(stats.Lowest.TotalValue), stats.Lowest.Date.Format(dateLayout)))
	sb.WriteString(fmt.Sprintf("%s Изменение за период: %s (%s)\n\n", trendEmoji(stats.Change), SignedMoney(stats.Change), Percent(stats.ChangePercent)))

	for _, p := range points[from:to] {
		sb.WriteString(fmt.Sprintf("%s: %s", p.Date.Format(dateLayout), Money(p.TotalValue)))
		if !p.TotalInvested.IsZero() {
			sb.WriteString(fmt.Sprintf(" (вложено %s)", Money(p.TotalInvested)))
		}
		sb.WriteString("\n")
	}

	rows := make([]tele.Row, 0, 2)
	if btns := paginationBtns(markup, tgCallback.HistoryPage, page, pages, strconv.Itoa(days)); len(btns) > 0 {
		rows = append(rows, markup.Row(btns...))
	}
	rows = append(rows, navRow)
	markup.Inline(rows...)

	return strings.TrimRight(sb.String(), "\n"), markup
}

func PositionResponse(title string, p model.Position) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ %s\n\n", title))
	sb.WriteString(fmt.Sprintf("#%d %s (%s) · %s\n", p.ID, p.Symbol, p.Name, p.AssetType))
	sb.WriteString(fmt.Sprintf("   ▸ Кол-во: %s\n", p.Quantity.String()))
	sb.WriteString(fmt.Sprintf("   ▸ Средняя цена: %s\n", Money(p.BuyPrice)))
	sb.WriteString(fmt.Sprintf("   ▸ Вложено: %s", Money(p.InvestedValue())))
	return sb.String()
}

func DeleteConfirmationResponse(id int64) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("🗑 Удалить", tgCallback.ConfirmDelete, strconv.FormatInt(id, 10)),
		markup.Data("Отмена", tgCallback.CancelDelete),
	))
	return fmt.Sprintf("Удалить позицию #%d?", id), markup
}

func ImportPromptResponse(limitInBytes int64) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("Отмена", tgCallback.CancelImport)))

	text = fmt.Sprintf(
		"Пришлите CSV файл (до %d КБ).\n"+
			"Обязательные колонки: symbol (ticker), quantity (qty, shares), price (buy price, cost).\n"+
			"Необязательные: name, asset type.",
		limitInBytes/1024,
	)
	return text, markup
}

func ImportReportResponse(report model.ImportReport) string {
	var sb strings.Builder
	sb.WriteString("📥 Импорт завершен\n\n")
	sb.WriteString(fmt.Sprintf("➕ Создано: %d\n", report.CreatedCount))
	sb.WriteString(fmt.Sprintf("🔄 Обновлено: %d\n", report.UpdatedCount))
	sb.WriteString(fmt.Sprintf("⚠️ Пропущено: %d\n", report.SkippedCount))
	sb.WriteString(fmt.Sprintf("❌ Ошибок: %d\n", report.FailedCount))

	if len(report.Errors) > 0 {
		sb.WriteString("\nПодробности:\n")
		for _, e := range report.Errors {
			sb.WriteString("• " + e + "\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func SimulationResponse(result model.SimulationResult) string {
	before, after := result.Before.Summary, result.After.Summary

	var sb strings.Builder
	sb.WriteString("🧪 Что если:\n\n")
	sb.WriteString(fmt.Sprintf("Стоимость: %s → %s\n", Money(before.TotalPortfolioValue), Money(after.TotalPortfolioValue)))
	sb.WriteString(fmt.Sprintf("Вложено: %s → %s\n", Money(before.TotalInvestedValue), Money(after.TotalInvestedValue)))
	sb.WriteString(fmt.Sprintf("P/L: %s → %s\n", SignedMoney(before.TotalProfitLoss), SignedMoney(after.TotalProfitLoss)))
	sb.WriteString(fmt.Sprintf("Позиций: %d → %d\n", before.PositionsCount, after.PositionsCount))

	if len(result.After.Allocation) > 0 {
		sb.WriteString("\nРаспределение после:\n")
		for _, e := range result.After.Allocation {
			sb.WriteString(fmt.Sprintf("%s: %s%%\n", e.AssetType, e.PercentageAllocation.StringFixed(2)))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func SnapshotResponse(s model.Snapshot) string {
	return fmt.Sprintf(
		"📸 Снимок за %s сохранен\nСтоимость: %s, вложено: %s, P/L: %s",
		s.Date.Format(dateLayout),
		Money(s.TotalValue),
		Money(s.TotalInvested),
		SignedMoney(s.ProfitLoss),
	)
}

// Money rounds to cents for display only.
func Money(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func SignedMoney(v decimal.Decimal) string {
	if v.IsPositive() {
		return "+" + v.StringFixed(2)
	}
	return v.StringFixed(2)
}

func Percent(v decimal.Decimal) string {
	return SignedMoney(v) + "%"
}

// pageBounds clamps page into range and returns the slice bounds of it.
func pageBounds(total, page, size int) (from, to, curPage, pages int) {
	pages = (total + size - 1) / size
	curPage = max(0, min(page, pages-1))
	from = curPage * size
	to = min(from+size, total)
	return from, to, curPage, pages
}

// paginationBtns carries data before the page number, e.g. days for history.
func paginationBtns(markup *tele.ReplyMarkup, unique string, page, pages int, data ...string) []tele.Btn {
	btns := make([]tele.Btn, 0, 2)
	if page > 0 {
		btns = append(btns, markup.Data("предыдущая", unique, append(data, strconv.Itoa(page-1))...))
	}
	if page < pages-1 {
		btns = append(btns, markup.Data("следующая", unique, append(data, strconv.Itoa(page+1))...))
	}
	return btns
}

func trendEmoji(v decimal.Decimal) string {
	switch {
	case v.IsPositive():
		return "🟢"
	case v.IsNegative():
		return "🔴"
	default:
		return "⚪️"
	}
}
