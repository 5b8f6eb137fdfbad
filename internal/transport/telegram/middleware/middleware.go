package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v4"
)

// Logger sets rqID for the update and logs its duration.
func Logger() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			now := time.Now()

			rqID := uuid.NewString()
			c.Set("rqID", rqID)

			attrs := []any{slog.String("rqID", rqID), slog.String("update", updateKind(c))}
			if chat := c.Chat(); chat != nil {
				attrs = append(attrs, slog.Int64("chatID", chat.ID))
			}

			slog.Info("start request", attrs...)

			defer func() {
				slog.Info(
					"request finished",
					slog.String("rqID", rqID),
					slog.String("request duration", fmt.Sprintf("%.2fs", time.Since(now).Seconds())),
				)
			}()

			return next(c)
		}
	}
}

// AllowChats drops updates from chats that are not listed. An empty list allows every chat.
func AllowChats(chatIDs ...int64) tele.MiddlewareFunc {
	allowed := make(map[int64]struct{}, len(chatIDs))
	for _, id := range chatIDs {
		allowed[id] = struct{}{}
	}

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if len(allowed) == 0 {
				return next(c)
			}
			chat := c.Chat()
			if chat == nil {
				return nil
			}
			if _, ok := allowed[chat.ID]; !ok {
				slog.Warn("update from unknown chat dropped", slog.Any("rqID", c.Get("rqID")), slog.Int64("chatID", chat.ID))
				return nil
			}
			return next(c)
		}
	}
}

func updateKind(c tele.Context) string {
	switch {
	case c.Callback() != nil:
		return "callback"
	case c.Message() != nil && c.Message().Document != nil:
		return "document"
	case c.Message() != nil:
		return "message"
	default:
		return "other"
	}
}
