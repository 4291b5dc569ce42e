package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/erpchat/internal/domain"
	"github.com/set-night/erpchat/internal/telegram"
)

var modeLabels = map[Mode]string{
	ModeFinance:     "Tài chính – Kế toán",
	ModeHRM:         "Nhân sự (HRM)",
	ModeSalesCRM:    "Sales & CRM",
	ModeSupplyChain: "Supply Chain",
	ModeRAG:         "Tài liệu (RAG)",
	ModeChat:        "Tài liệu có ngữ cảnh hội thoại",
	ModeAuto:        "Tự động",
}

func modeLabel(m Mode) string {
	if l, ok := modeLabels[m]; ok {
		return l
	}
	return string(m)
}

func (h *Handler) handleNew(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if old := h.newSession(chatID); old != "" && h.sessions != nil {
		if err := h.sessions.Clear(ctx, old); err != nil && !errors.Is(err, domain.ErrNotFound) {
			slog.Error("clear session history", "error", err, "session_id", old)
		}
	}
	telegram.SendText(ctx, b, chatID, "🔄 Đã bắt đầu cuộc trò chuyện mới.")
}

func (h *Handler) handleDomain(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	fields := strings.Fields(update.Message.Text)
	if len(fields) < 2 {
		buttons := make([]telegram.Button, 0, len(h.modes()))
		for _, m := range h.modes() {
			buttons = append(buttons, telegram.Button{Text: modeLabel(m), Data: domainCallbackPrefix + string(m)})
		}
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        "Chọn nghiệp vụ (hiện tại: " + modeLabel(h.state(chatID).mode) + "):",
			ReplyMarkup: telegram.InlineKeyboard(2, buttons...),
		})
		return
	}

	m, err := h.ParseMode(strings.ToLower(fields[1]))
	if err != nil {
		telegram.SendText(ctx, b, chatID, "❌ Nghiệp vụ không hợp lệ. Dùng: "+h.modeList())
		return
	}
	h.setMode(chatID, m)
	telegram.SendText(ctx, b, chatID, "✅ Đã chọn: "+modeLabel(m))
}

func (h *Handler) handleDomainCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	q := update.CallbackQuery
	if q == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: q.ID})
	if q.Message.Message == nil {
		return
	}
	chatID := q.Message.Message.Chat.ID

	m, err := h.ParseMode(strings.TrimPrefix(q.Data, domainCallbackPrefix))
	if err != nil {
		return
	}
	h.setMode(chatID, m)
	telegram.SendText(ctx, b, chatID, "✅ Đã chọn: "+modeLabel(m))
}

func (h *Handler) modeList() string {
	names := make([]string, 0, len(h.modes()))
	for _, m := range h.modes() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}
