package handler

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/google/uuid"

	"github.com/set-night/erpchat/internal/domain"
)

// ChatService answers questions; see service.ChatService.
type ChatService interface {
	HandleDomain(ctx context.Context, d domain.Domain, req domain.ChatRequest) (domain.ChatResponse, error)
	HandleRAG(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error)
	HandleChat(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error)
	Dispatch(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error)
}

type ReviewCreator interface {
	Create(ctx context.Context, r domain.Review) (int64, error)
}

type SessionClearer interface {
	Clear(ctx context.Context, sessionID string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// DocumentIngestor indexes an uploaded document and reports its chunk count.
type DocumentIngestor interface {
	IngestFile(ctx context.Context, path string) (int, error)
}

// Handler serves the HTTP, WebSocket and Telegram transports over one ChatService.
type Handler struct {
	bot          *bot.Bot
	chat         ChatService
	reviews      ReviewCreator
	sessions     SessionClearer
	health       Pinger
	metrics      http.Handler
	ingestor     DocumentIngestor
	uploadDir    string
	chainEnabled bool

	mu    sync.Mutex
	chats map[int64]*chatState
}

// Deps contains all dependencies required to construct a Handler.
// Bot, Reviews, Sessions, Health, Metrics and Ingestor may be nil.
type Deps struct {
	Bot          *bot.Bot
	Chat         ChatService
	Reviews      ReviewCreator
	Sessions     SessionClearer
	Health       Pinger
	Metrics      http.Handler
	Ingestor     DocumentIngestor
	UploadDir    string
	ChainEnabled bool
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:          deps.Bot,
		chat:         deps.Chat,
		reviews:      deps.Reviews,
		sessions:     deps.Sessions,
		health:       deps.Health,
		metrics:      deps.Metrics,
		ingestor:     deps.Ingestor,
		uploadDir:    deps.UploadDir,
		chainEnabled: deps.ChainEnabled,
		chats:        make(map[int64]*chatState),
	}
}

// Mode selects which handler answers a conversation.
type Mode string

const (
	ModeFinance     Mode = "finance"
	ModeHRM         Mode = "hrm"
	ModeSalesCRM    Mode = "sales"
	ModeSupplyChain Mode = "supply"
	ModeRAG         Mode = "rag"
	ModeChat        Mode = "chat"
	ModeAuto        Mode = "auto"
)

var botModes = []Mode{ModeFinance, ModeHRM, ModeSalesCRM, ModeSupplyChain, ModeRAG, ModeChat}

func (h *Handler) modes() []Mode {
	if h.chainEnabled {
		return append(botModes[:len(botModes):len(botModes)], ModeAuto)
	}
	return botModes
}

// ParseMode accepts the bot mode names plus every domain alias.
func (h *Handler) ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeRAG, ModeChat:
		return m, nil
	case ModeAuto:
		if h.chainEnabled {
			return m, nil
		}
		return "", domain.ErrUnknownDomain
	}
	d, err := domain.ParseDomain(s)
	if err != nil {
		return "", err
	}
	switch d {
	case domain.DomainFinance:
		return ModeFinance, nil
	case domain.DomainHRM:
		return ModeHRM, nil
	case domain.DomainSalesCRM:
		return ModeSalesCRM, nil
	default:
		return ModeSupplyChain, nil
	}
}

func (h *Handler) defaultMode() Mode {
	if h.chainEnabled {
		return ModeAuto
	}
	return ModeChat
}

// answer runs req through the handler selected by m.
func (h *Handler) answer(ctx context.Context, m Mode, req domain.ChatRequest) (domain.ChatResponse, error) {
	switch m {
	case ModeRAG:
		return h.chat.HandleRAG(ctx, req)
	case ModeChat:
		return h.chat.HandleChat(ctx, req)
	case ModeAuto:
		return h.chat.Dispatch(ctx, req)
	}
	d, err := domain.ParseDomain(string(m))
	if err != nil {
		return domain.ChatResponse{}, err
	}
	return h.chat.HandleDomain(ctx, d, req)
}

// chatState is the per-chat conversation of the Telegram transport.
type chatState struct {
	sessionID string
	mode      Mode
}

func (h *Handler) state(chatID int64) chatState {
	h.mu.Lock()
	defer h.mu.Unlock()
	st, ok := h.chats[chatID]
	if !ok {
		st = &chatState{sessionID: uuid.NewString(), mode: h.defaultMode()}
		h.chats[chatID] = st
	}
	return *st
}

func (h *Handler) setMode(chatID int64, m Mode) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if st, ok := h.chats[chatID]; ok {
		st.mode = m
		return
	}
	h.chats[chatID] = &chatState{sessionID: uuid.NewString(), mode: m}
}

// newSession replaces the chat's session and returns the one it ended.
func (h *Handler) newSession(chatID int64) (old string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	st, ok := h.chats[chatID]
	if !ok {
		h.chats[chatID] = &chatState{sessionID: uuid.NewString(), mode: h.defaultMode()}
		return ""
	}
	old = st.sessionID
	st.sessionID = uuid.NewString()
	return old
}
