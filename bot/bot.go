// Package bot wires the dialog engine, command registry, and Telegram
// transport into runnable bot options.
package bot

import (
	"context"
	"errors"
	"sync/atomic"

	coreconfig "github.com/m3rciful/spendbot/core/config"
	"github.com/m3rciful/spendbot/core/logger"
	tg "github.com/m3rciful/spendbot/core/telegram"
	"github.com/m3rciful/spendbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/spendbot/core/telegram/helpers"
	"github.com/m3rciful/spendbot/core/telegram/keyboard"
	"github.com/m3rciful/spendbot/core/telegram/router"

	"github.com/m3rciful/spendbot/bot/flows"
	"github.com/m3rciful/spendbot/dialog"
	"github.com/m3rciful/spendbot/report"
	"github.com/m3rciful/spendbot/store"

	tele "gopkg.in/telebot.v4"
	"log/slog"
)

const welcomeText = "Welcome to the expense tracker!\n\n" +
	"/add - add a new expense\n" +
	"/query - query expenses with filters\n" +
	"/summary - expense summary for the current month\n" +
	"/table - expense report tables\n" +
	"/handlecategories - add, edit or delete categories\n" +
	"/handlesheets - create or switch sheets\n" +
	"/cancel - cancel the current task"

// telegramSender delivers dialog replies through the bot API. The bot
// instance exists only after RunTelegram builds it, so the sender is bound
// from the OnStart hook.
type telegramSender struct {
	bot atomic.Pointer[tele.Bot]
}

func (s *telegramSender) Bind(b *tele.Bot) {
	s.bot.Store(b)
}

func (s *telegramSender) Send(_ context.Context, userID int64, reply dialog.Reply) error {
	b := s.bot.Load()
	if b == nil {
		return errors.New("bot: sender is not bound yet")
	}

	markup := keyboard.RemoveKeyboard()
	if len(reply.Options) > 0 {
		markup = keyboard.Options(reply.Options, reply.Columns, reply.Placeholder)
	}
	opts := &tele.SendOptions{ReplyMarkup: markup}
	if reply.Markdown {
		opts.ParseMode = tele.ModeMarkdown
	}
	_, err := b.Send(tele.ChatID(userID), reply.Text, opts)
	return err
}

// Options carries the collaborators Build needs.
type Options struct {
	Config *coreconfig.Config
	Store  store.Store
	Active *store.ActiveSheet
}

// Build assembles run options for the Telegram transport: the dialog engine
// with every flow registered, the command registry, and the routes.
func Build(opts Options) (tg.RunOptions, error) {
	sender := &telegramSender{}
	engine := dialog.NewEngine(sender.Send)

	deps := flows.Deps{Store: opts.Store, Active: opts.Active}
	for _, def := range []dialog.Definition{
		flows.AddExpense(deps),
		flows.Query(deps),
		flows.Categories(deps),
		flows.Sheets(deps),
		flows.Table(deps),
	} {
		if err := engine.Register(def); err != nil {
			return tg.RunOptions{}, err
		}
	}

	reg := tg.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{
		Handler:     func(c tele.Context) error { return tghelpers.SendText(c, welcomeText) },
		Description: "Show available commands",
	})
	reg.RegisterCommand("/add", commands.Command{
		Handler:     startDialog(engine, flows.KindAddExpense),
		Description: "Add a new expense",
	})
	reg.RegisterCommand("/query", commands.Command{
		Handler:     startDialog(engine, flows.KindQuery),
		Description: "Query expenses with filters",
	})
	reg.RegisterCommand("/summary", commands.Command{
		Handler:     summaryHandler(opts.Store),
		Description: "Expense summary for the current month",
	})
	reg.RegisterCommand("/table", commands.Command{
		Handler:     startDialog(engine, flows.KindTable),
		Description: "Expense report tables",
	})
	reg.RegisterCommand("/handlecategories", commands.Command{
		Handler:     startDialog(engine, flows.KindCategories),
		Description: "Add, edit or delete categories",
	})
	reg.RegisterCommand("/handlesheets", commands.Command{
		Handler:     startDialog(engine, flows.KindSheets),
		Description: "Create or switch sheets",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler: func(c tele.Context) error {
			return engine.Cancel(tghelpers.BuildContext(c), c.Sender().ID)
		},
		Description: "Cancel the current task",
	})

	reg.SetTextFallback(func(c tele.Context) error {
		return tghelpers.SendText(c, "Unknown command. Type /start to see what I can do.")
	})

	routes := router.CommandRoutes(reg)
	routes = append(routes, router.TextRoutes(engine, reg, router.TextOptions{})...)

	onLimited := func(c tele.Context) error {
		return tghelpers.SendText(c, "Too many requests. Please slow down.")
	}

	return tg.RunOptions{
		Config:      opts.Config,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(opts.Config, onLimited),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			sender.Bind(rt.Bot)
			logger.Info(ctx, "bot", "bot.ready",
				slog.String("active_sheet", opts.Active.Get()),
			)
			return nil
		},
	}, nil
}

func startDialog(engine *dialog.Engine, kind string) tele.HandlerFunc {
	return func(c tele.Context) error {
		return engine.Start(tghelpers.BuildContext(c), c.Sender().ID, kind)
	}
}

func summaryHandler(st store.Store) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		sum, err := st.Summary(ctx)
		if err != nil {
			logger.Error(ctx, "bot", "summary",
				slog.String("err", err.Error()),
			)
			return tghelpers.SendText(c, "Failed to fetch summary. Please try again later.")
		}
		return tghelpers.SendMD(c, report.FormatSummary(sum))
	}
}
