package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/data/session"
	"github.com/KotFed0t/portfolio_tracker/internal/converter/telebotConverter"
	"github.com/KotFed0t/portfolio_tracker/internal/externalApi"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/parser/csvParser"
	"github.com/KotFed0t/portfolio_tracker/internal/service"
	"github.com/KotFed0t/portfolio_tracker/internal/valuation"
	"github.com/KotFed0t/portfolio_tracker/utils"
	tele "gopkg.in/telebot.v4"
)

const (
	internalErrMsg = "что-то пошло не так..."

	helpMsg = "Команды:\n" +
		"/summary — стоимость и P/L портфеля\n" +
		"/holdings — позиции\n" +
		"/allocation — распределение по типам активов\n" +
		"/history [DAYS] — история стоимости\n" +
		"/add SYMBOL QTY PRICE [TYPE] [NAME...] — новая позиция\n" +
		"/addunits SYMBOL QTY PRICE — докупить, цена усредняется\n" +
		"/edit ID SYMBOL QTY PRICE TYPE [NAME...] — изменить позицию\n" +
		"/delete ID — удалить позицию\n" +
		"/import — загрузить позиции из CSV\n" +
		"/simulate BUY|SELL SYMBOL QTY [PRICE] [TYPE]; ... — что если\n" +
		"/report — XLSX отчет\n" +
		"/snapshot — сохранить снимок стоимости"
)

type PortfolioService interface {
	Apply(ctx context.Context, req model.TradeRequest) (model.Position, error)
	DeletePosition(ctx context.Context, id int64) error
	GetPositionBySymbol(ctx context.Context, symbol string) (model.Position, error)
	ImportPositions(ctx context.Context, r io.Reader) (model.ImportReport, error)
	GetSummary(ctx context.Context) (model.ValuationSummary, error)
	GetHoldings(ctx context.Context) ([]model.Holding, error)
	GetAllocation(ctx context.Context) ([]model.AllocationEntry, error)
	GetHistory(ctx context.Context, days int) ([]model.HistoryPoint, error)
	SimulatePortfolio(ctx context.Context, changes []model.Change) (model.SimulationResult, error)
	GenerateReport(ctx context.Context) (link string, err error)
	SaveSnapshot(ctx context.Context) (model.Snapshot, error)
}

type Session interface {
	GetSession(ctx context.Context, key string) (model.Session, error)
	SetSession(ctx context.Context, key string, session model.Session) error
}

type Controller struct {
	cfg              *config.Config
	portfolioService PortfolioService
	session          Session
}

func NewController(cfg *config.Config, portfolioService PortfolioService, session Session) *Controller {
	return &Controller{
		cfg:              cfg,
		portfolioService: portfolioService,
		session:          session,
	}
}

func (ctrl *Controller) Start(c tele.Context) error {
	return c.Send("Привет! Я слежу за стоимостью портфеля.\n\n" + helpMsg)
}

func (ctrl *Controller) Help(c tele.Context) error {
	return c.Send(helpMsg)
}

func (ctrl *Controller) Summary(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	summary, err := ctrl.portfolioService.GetSummary(ctx)
	if err != nil {
		return ctrl.sendError(ctx, c, err, "")
	}

	return c.Send(telebotConverter.SummaryResponse(summary))
}

func (ctrl *Controller) Holdings(c tele.Context) error {
	return ctrl.sendHoldings(c, 0)
}

// HoldingsPage handles the page buttons under the holdings list.
func (ctrl *Controller) HoldingsPage(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	page, err := parsePage(c.Args())
	if err != nil {
		return ctrl.sendError(ctx, c, err, "")
	}

	return ctrl.sendHoldings(c, page)
}

func (ctrl *Controller) sendHoldings(c tele.Context, page int) error {
	ctx := utils.CreateCtxWithRqID(c)

	holdings, err := ctrl.portfolioService.GetHoldings(ctx)
	if err != nil {
		return ctrl.sendError(ctx, c, err, "")
	}

	return c.Send(telebotConverter.HoldingsResponse(holdings, page))
}

func (ctrl *Controller) Allocation(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	entries, err := ctrl.portfolioService.GetAllocation(ctx)
	if err != nil {
		return ctrl.sendError(ctx, c, err, "")
	}

	return c.Send(telebotConverter.AllocationResponse(entries))
}

func (ctrl *Controller) History(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	days, err := parseDays(c.Args())
	if err != nil {
		return ctrl.sendError(ctx, c, err, historyUsage)
	}

	return ctrl.sendHistory(c, days, 0)
}

// HistoryPage handles the page buttons, callback data is days|page.
func (ctrl *Controller) HistoryPage(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	args := c.Args()
	if len(args) != 2 {
		return ctrl.sendError(ctx, c, errBadArgs, historyUsage)
	}

	rawDays := args[0]
	if rawDays == "0" { // диапазон по умолчанию
		rawDays = ""
	}
	days, err := parseDays([]string{rawDays})
	if err != nil {
		return ctrl.sendError(ctx, c, err, historyUsage)
	}

	page, err := parsePage(args[1:])
	if err != nil {
		return ctrl.sendError(ctx, c, err, historyUsage)
	}

	return ctrl.sendHistory(c, days, page)
}

func (ctrl *Controller) sendHistory(c tele.Context, days, page int) error {
	ctx := utils.CreateCtxWithRqID(c)

	points, err := ctrl.portfolioService.GetHistory(ctx, days)
	if err != nil {
		return ctrl.sendError(ctx, c, err, historyUsage)
	}

	return c.Send(telebotConverter.HistoryResponse(points, days, page))
}

func (ctrl *Controller) Add(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	position, err := parseAddArgs(c.Args())
	if err != nil {
		return ctrl.sendError(ctx, c, err, addUsage)
	}

	created, err := ctrl.portfolioService.Apply(ctx, model.CreateRequest{Position: position})
	if err != nil {
		return ctrl.sendError(ctx, c, err, addUsage)
	}

	return c.Send(telebotConverter.PositionResponse("Позиция добавлена", created))
}

func (ctrl *Controller) AddUnits(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	symbol, trade, err := parseTradeArgs(c.Args())
	if err != nil {
		return ctrl.sendError(ctx, c, err, addUnitsUsage)
	}

	existing, err := ctrl.portfolioService.GetPositionBySymbol(ctx, symbol)
	if err != nil {
		return ctrl.sendError(ctx, c, err, addUnitsUsage)
	}

	merged, err := ctrl.portfolioService.Apply(ctx, model.MergeRequest{ID: existing.ID, Trade: trade})
	if err != nil {
		return ctrl.sendError(ctx, c, err, addUnitsUsage)
	}

	return c.Send(telebotConverter.PositionResponse("Позиция обновлена", merged))
}

func (ctrl *Controller) Edit(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	id, position, err := parseEditArgs(c.Args())
	if err != nil {
		return ctrl.sendError(ctx, c, err, editUsage)
	}

	edited, err := ctrl.portfolioService.Apply(ctx, model.EditRequest{ID: id, Position: position})
	if err != nil {
		return ctrl.sendError(ctx, c, err, editUsage)
	}

	return c.Send(telebotConverter.PositionResponse("Позиция изменена", edited))
}

func (ctrl *Controller) Delete(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	id, err := parseID(c.Args())
	if err != nil {
		return ctrl.sendError(ctx, c, err, deleteUsage)
	}

	return c.Send(telebotConverter.DeleteConfirmationResponse(id))
}

func (ctrl *Controller) ConfirmDelete(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	id, err := parseID([]string{c.Data()})
	if err != nil {
		return ctrl.sendError(ctx, c, err, deleteUsage)
	}

	err = ctrl.portfolioService.DeletePosition(ctx, id)
	if err != nil {
		return ctrl.sendError(ctx, c, err, "")
	}

	return c.Send("🗑 Позиция #" + strconv.FormatInt(id, 10) + " удалена")
}

func (ctrl *Controller) CancelDelete(c tele.Context) error {
	return c.Send("Удаление отменено")
}

func (ctrl *Controller) InitImport(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	if err := ctrl.setAction(ctx, c, model.ExpectingImportFile); err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.ImportPromptResponse(ctrl.cfg.Import.FileLimitInBytes))
}

func (ctrl *Controller) CancelImport(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	if err := ctrl.setAction(ctx, c, model.DefaultAction); err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send("Импорт отменен")
}

// ProcessImportFile handles a document sent after /import.
func (ctrl *Controller) ProcessImportFile(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return c.Send(internalErrMsg)
	}

	if chatSession.Action != model.ExpectingImportFile {
		return c.Send("Чтобы загрузить позиции из файла, сначала отправьте /import")
	}

	doc := c.Message().Document
	if doc == nil {
		return c.Send("Пришлите CSV файл документом")
	}

	if doc.FileSize > ctrl.cfg.Import.FileLimitInBytes {
		return c.Send("Файл слишком большой, пришлите файл поменьше")
	}

	file, err := c.Bot().File(&doc.File)
	if err != nil {
		slog.Error("can't download import file", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}
	defer file.Close()

	// ожидание файла сбрасывается и при ошибке импорта, повторить можно через /import
	if err = ctrl.setAction(ctx, c, model.DefaultAction); err != nil {
		return c.Send(internalErrMsg)
	}

	report, err := ctrl.portfolioService.ImportPositions(ctx, io.LimitReader(file, ctrl.cfg.Import.FileLimitInBytes))
	if err != nil {
		return ctrl.sendError(ctx, c, err, "")
	}

	return c.Send(telebotConverter.ImportReportResponse(report))
}

func (ctrl *Controller) Simulate(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	changes, err := parseSimulateArgs(c.Message().Payload)
	if err != nil {
		return ctrl.sendError(ctx, c, err, simulateUsage)
	}

	result, err := ctrl.portfolioService.SimulatePortfolio(ctx, changes)
	if err != nil {
		return ctrl.sendError(ctx, c, err, simulateUsage)
	}

	return c.Send(telebotConverter.SimulationResponse(result))
}

func (ctrl *Controller) Report(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	_ = c.Send("⏳ Готовлю отчет...")

	link, err := ctrl.portfolioService.GenerateReport(ctx)
	if err != nil {
		return ctrl.sendError(ctx, c, err, "")
	}

	return c.Send("📄 Отчет готов: " + link)
}

func (ctrl *Controller) Snapshot(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	snapshot, err := ctrl.portfolioService.SaveSnapshot(ctx)
	if err != nil {
		return ctrl.sendError(ctx, c, err, "")
	}

	return c.Send(telebotConverter.SnapshotResponse(snapshot))
}

// Text handles plain messages, there is no free text input.
func (ctrl *Controller) Text(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return c.Send(internalErrMsg)
	}

	if chatSession.Action == model.ExpectingImportFile {
		return c.Send("Жду CSV файл. Пришлите его документом или отмените импорт")
	}

	return c.Send("сначала введите одну из команд\n\n" + helpMsg)
}

func (ctrl *Controller) setAction(ctx context.Context, c tele.Context, action model.Action) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return err
	}

	chatSession.Action = action
	err = ctrl.session.SetSession(ctx, strconv.FormatInt(c.Chat().ID, 10), chatSession)
	if err != nil {
		slog.Error("got error from session.SetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	c.Set("session", chatSession)

	return nil
}

func (ctrl *Controller) getSessionFromTeleCtxOrStorage(ctx context.Context, c tele.Context) (model.Session, error) {
	chatSession, ok := c.Get("session").(model.Session)
	if ok {
		return chatSession, nil
	}

	rqID := utils.GetRequestIDFromCtx(ctx)
	chatSession, err := ctrl.session.GetSession(ctx, strconv.FormatInt(c.Chat().ID, 10))
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		}
		return model.Session{}, err
	}
	return chatSession, nil
}

// sendError answers with a message the user can act on. usage is shown for malformed input.
func (ctrl *Controller) sendError(ctx context.Context, c tele.Context, err error, usage string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	var (
		posErr    *valuation.InvalidPositionError
		mergeErr  *valuation.InvalidMergeError
		changeErr *valuation.InvalidChangeError
		columnErr *csvParser.MissingColumnError
	)

	switch {
	case errors.Is(err, errBadArgs), errors.Is(err, service.ErrInvalidRequest):
		if usage == "" {
			return c.Send("Некорректный запрос")
		}
		return c.Send(usage)
	case errors.As(err, &posErr), errors.As(err, &mergeErr), errors.As(err, &changeErr):
		return c.Send("Некорректные данные: " + err.Error())
	case errors.As(err, &columnErr):
		return c.Send("В файле нет колонки " + columnErr.Column)
	case errors.Is(err, service.ErrNotFound):
		return c.Send("Позиция не найдена")
	case errors.Is(err, service.ErrAlreadyExists):
		return c.Send("Этот символ уже есть в портфеле. Чтобы докупить, используйте /addunits")
	case errors.Is(err, service.ErrEmptyPortfolio):
		return c.Send("Портфель пуст")
	case errors.Is(err, externalApi.ErrUnavailable):
		slog.Warn("portfolio api unavailable", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send("Сервис портфеля недоступен, попробуйте позже")
	default:
		slog.Error("unexpected error", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}
}
