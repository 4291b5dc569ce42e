package handler

import (
	"github.com/go-telegram/bot"
)

const domainCallbackPrefix = "domain:"

// Register registers all command and callback handlers on the bot instance.
// Plain text is wired by the caller through HandleText.
func (h *Handler) Register() {
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/new", bot.MatchTypePrefix, h.handleNew)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/domain", bot.MatchTypePrefix, h.handleDomain)

	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, domainCallbackPrefix, bot.MatchTypePrefix, h.handleDomainCallback)
}
