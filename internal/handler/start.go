package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const helpText = "👋 Xin chào! Tôi là trợ lý ERP của doanh nghiệp.\n\n" +
	"Tôi trả lời câu hỏi về Tài chính – Kế toán, Nhân sự, Bán hàng – CRM, Chuỗi cung ứng " +
	"và tra cứu tài liệu nội bộ.\n\n" +
	"📋 Lệnh:\n" +
	"/domain <finance|hrm|sales|supply|rag|chat> - Chọn nghiệp vụ trả lời\n" +
	"/new - Bắt đầu cuộc trò chuyện mới\n" +
	"/help - Hướng dẫn\n\n" +
	"Gửi file .pdf, .txt, .md hoặc .html để nạp vào kho tài liệu."

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	st := h.state(chatID)

	var sb strings.Builder
	sb.WriteString(helpText)
	sb.WriteString("\n\nĐang dùng: ")
	sb.WriteString(modeLabel(st.mode))
	if h.chainEnabled {
		sb.WriteString("\n/domain auto - Tự động chọn nghiệp vụ")
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   sb.String(),
	})
}
