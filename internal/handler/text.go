package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/erpchat/internal/domain"
	"github.com/set-night/erpchat/internal/service"
	"github.com/set-night/erpchat/internal/telegram"
)

// HandleText answers a plain message with the chat's selected handler and
// ingests uploaded documents.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	if msg.Document != nil {
		h.handleDocument(ctx, b, msg)
		return
	}
	if msg.Text == "" || strings.HasPrefix(msg.Text, "/") {
		return
	}

	chatID := msg.Chat.ID
	st := h.state(chatID)

	stopTyping := telegram.StartTyping(ctx, b, chatID)
	resp, err := h.answer(ctx, st.mode, domain.ChatRequest{
		Question:  msg.Text,
		SessionID: st.sessionID,
	})
	stopTyping()
	if err != nil {
		if !errors.Is(err, domain.ErrEmptyQuestion) {
			slog.Error("answer message", "error", err, "chat_id", chatID, "mode", st.mode)
		}
		telegram.SendText(ctx, b, chatID, "❌ Không thể xử lý câu hỏi.")
		return
	}

	replyTo := msg.ID
	if err := telegram.SendLongMessage(ctx, b, chatID, resp.Answer, &replyTo); err != nil {
		slog.Error("send answer", "error", err, "chat_id", chatID)
	}
}

func (h *Handler) handleDocument(ctx context.Context, b *bot.Bot, msg *models.Message) {
	chatID := msg.Chat.ID
	doc := msg.Document
	if h.ingestor == nil || h.uploadDir == "" {
		telegram.SendText(ctx, b, chatID, "❌ Chức năng nạp tài liệu chưa được bật.")
		return
	}
	if !service.Supported(doc.FileName) {
		telegram.SendText(ctx, b, chatID, "❌ Chỉ hỗ trợ file .pdf, .txt, .md, .html.")
		return
	}

	stopTyping := telegram.StartTyping(ctx, b, chatID)
	defer stopTyping()

	path, err := telegram.DownloadFile(ctx, b, doc.FileID, h.uploadDir, doc.FileName)
	if err != nil {
		slog.Error("download document", "error", err, "file", doc.FileName)
		telegram.SendText(ctx, b, chatID, "❌ Không tải được file.")
		return
	}
	n, err := h.ingestor.IngestFile(ctx, path)
	if err != nil {
		slog.Error("ingest document", "error", err, "file", doc.FileName)
		telegram.SendText(ctx, b, chatID, "❌ Không nạp được tài liệu: "+err.Error())
		return
	}
	telegram.SendText(ctx, b, chatID, fmt.Sprintf("✅ Đã nạp %d đoạn từ %s.", n, doc.FileName))
}
