package tgbot

import (
	"log/slog"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/internal/model/tg/tgCallback"
	"github.com/KotFed0t/portfolio_tracker/internal/transport/telegram"
	customMW "github.com/KotFed0t/portfolio_tracker/internal/transport/telegram/middleware"
	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

type TGBot struct {
	bot  *tele.Bot
	cfg  *config.Config
	ctrl *telegram.Controller
}

func New(cfg *config.Config, ctrl *telegram.Controller) *TGBot {
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.UpdTimeout},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		panic(err)
	}

	return &TGBot{bot: b, cfg: cfg, ctrl: ctrl}
}

func (b *TGBot) Start() {
	b.bot.Use(middleware.Recover(), customMW.Logger(), customMW.AllowChats(b.cfg.Telegram.AllowedChatIDs...))

	b.setupRoutes()

	if err := b.bot.SetCommands(commands()); err != nil {
		slog.Error("can't set bot commands", slog.String("err", err.Error()))
	}

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func (b *TGBot) setupRoutes() {
	b.bot.Handle("/start", b.ctrl.Start)
	b.bot.Handle("/help", b.ctrl.Help)

	b.bot.Handle("/summary", b.ctrl.Summary)
	b.bot.Handle("/holdings", b.ctrl.Holdings)
	b.bot.Handle("/allocation", b.ctrl.Allocation)
	b.bot.Handle("/history", b.ctrl.History)

	b.bot.Handle("/add", b.ctrl.Add)
	b.bot.Handle("/addunits", b.ctrl.AddUnits)
	b.bot.Handle("/edit", b.ctrl.Edit)
	b.bot.Handle("/delete", b.ctrl.Delete)

	b.bot.Handle("/import", b.ctrl.InitImport)
	b.bot.Handle(tele.OnDocument, b.ctrl.ProcessImportFile)

	b.bot.Handle("/simulate", b.ctrl.Simulate)
	b.bot.Handle("/report", b.ctrl.Report)
	b.bot.Handle("/snapshot", b.ctrl.Snapshot)

	b.bot.Handle(tele.OnText, b.ctrl.Text)

	// callbacks
	b.bot.Handle(&tele.Btn{Unique: tgCallback.ShowSummary}, callback(b.ctrl.Summary))
	b.bot.Handle(&tele.Btn{Unique: tgCallback.ShowHoldings}, callback(b.ctrl.Holdings))
	b.bot.Handle(&tele.Btn{Unique: tgCallback.ShowAllocation}, callback(b.ctrl.Allocation))
	b.bot.Handle(&tele.Btn{Unique: tgCallback.ShowHistory}, callback(b.ctrl.History))
	b.bot.Handle(&tele.Btn{Unique: tgCallback.HoldingsPage}, callback(b.ctrl.HoldingsPage))
	b.bot.Handle(&tele.Btn{Unique: tgCallback.HistoryPage}, callback(b.ctrl.HistoryPage))
	b.bot.Handle(&tele.Btn{Unique: tgCallback.GenerateReport}, callback(b.ctrl.Report))
	b.bot.Handle(&tele.Btn{Unique: tgCallback.SaveSnapshot}, callback(b.ctrl.Snapshot))
	b.bot.Handle(&tele.Btn{Unique: tgCallback.CancelImport}, callback(b.ctrl.CancelImport))
	b.bot.Handle(&tele.Btn{Unique: tgCallback.ConfirmDelete}, callback(b.ctrl.ConfirmDelete))
	b.bot.Handle(&tele.Btn{Unique: tgCallback.CancelDelete}, callback(b.ctrl.CancelDelete))
}

// callback answers the callback query so the client stops showing the loader.
func callback(h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if err := c.Respond(); err != nil {
				slog.Warn("can't respond to callback", slog.Any("rqID", c.Get("rqID")), slog.String("err", err.Error()))
			}
		}()
		return h(c)
	}
}

func commands() []tele.Command {
	return []tele.Command{
		{Text: "summary", Description: "Стоимость и P/L портфеля"},
		{Text: "holdings", Description: "Позиции"},
		{Text: "allocation", Description: "Распределение по типам"},
		{Text: "history", Description: "История стоимости"},
		{Text: "add", Description: "Добавить позицию"},
		{Text: "addunits", Description: "Докупить"},
		{Text: "edit", Description: "Изменить позицию"},
		{Text: "delete", Description: "Удалить позицию"},
		{Text: "import", Description: "Импорт из CSV"},
		{Text: "simulate", Description: "Что если"},
		{Text: "report", Description: "XLSX отчет"},
		{Text: "snapshot", Description: "Сохранить снимок"},
		{Text: "help", Description: "Помощь"},
	}
}
