package middleware

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"

	"github.com/set-night/erpchat/internal/config"
)

const rateLimitedMessage = "⏳ Bạn gửi quá nhiều câu hỏi. Vui lòng chờ một chút."

// ChatLimiter hands out one token bucket per chat.
type ChatLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewChatLimiter(perMinute, burst int) *ChatLimiter {
	return &ChatLimiter{
		limiters: make(map[int64]*rate.Limiter),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
	}
}

func (c *ChatLimiter) Allow(chatID int64) bool {
	c.mu.Lock()
	l, ok := c.limiters[chatID]
	if !ok {
		l = rate.NewLimiter(c.limit, c.burst)
		c.limiters[chatID] = l
	}
	c.mu.Unlock()
	return l.Allow()
}

// RateLimit returns middleware that limits text messages per chat.
// Commands and callbacks are never limited.
func RateLimit(limiter *ChatLimiter) bot.Middleware {
	if limiter == nil {
		limiter = NewChatLimiter(config.RateLimitPerMinute, config.RateLimitBurst)
	}
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			msg := update.Message
			if msg == nil || msg.Text == "" || msg.Text[0] == '/' {
				next(ctx, b, update)
				return
			}

			if !limiter.Allow(msg.Chat.ID) {
				slog.Debug("rate limited", "chat_id", msg.Chat.ID)
				if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: msg.Chat.ID,
					Text:   rateLimitedMessage,
				}); err != nil {
					slog.Error("send rate limit notice", "error", err, "chat_id", msg.Chat.ID)
				}
				return
			}

			next(ctx, b, update)
		}
	}
}
