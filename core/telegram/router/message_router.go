package router

import (
	"context"
	"time"

	tg "github.com/m3rciful/spendbot/core/telegram"
	tghelpers "github.com/m3rciful/spendbot/core/telegram/helpers"
	"github.com/m3rciful/spendbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Dialogs defines the minimal interface for the conversation engine.
type Dialogs interface {
	InProgress(userID int64) bool
	HandleText(ctx context.Context, userID int64, text string) (bool, error)
}

// TextOptions controls fallback behaviour for text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoutes builds the handler for plain text routing. An active dialog
// consumes the message first; otherwise the text is resolved as a command,
// then handed to the registry fallback.
func TextRoutes(dialogs Dialogs, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if dialogs != nil && dialogs.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "dialog", start, "", "", func() error {
				_, err := dialogs.HandleText(tghelpers.BuildContext(c), c.Sender().ID, text)
				return err
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}
