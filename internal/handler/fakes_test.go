package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-telegram/bot"

	"github.com/set-night/erpchat/internal/domain"
)

type chatCall struct {
	handler string
	req     domain.ChatRequest
}

type fakeChat struct {
	mu    sync.Mutex
	calls []chatCall
	err   error
}

func (f *fakeChat) record(handler string, req domain.ChatRequest) (domain.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, chatCall{handler: handler, req: req})
	if f.err != nil {
		return domain.ChatResponse{}, f.err
	}
	if strings.TrimSpace(req.Question) == "" {
		return domain.ChatResponse{}, domain.ErrEmptyQuestion
	}
	return domain.ChatResponse{
		Answer:       "trả lời: " + req.Question,
		ResponseType: domain.ResponseRAGWithHistory,
		SessionID:    req.SessionID,
		Sources:      []domain.Source{},
	}, nil
}

func (f *fakeChat) HandleDomain(_ context.Context, d domain.Domain, req domain.ChatRequest) (domain.ChatResponse, error) {
	return f.record(string(d), req)
}

func (f *fakeChat) HandleRAG(_ context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	return f.record("rag", req)
}

func (f *fakeChat) HandleChat(_ context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	return f.record("chat", req)
}

func (f *fakeChat) Dispatch(_ context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	return f.record("auto", req)
}

func (f *fakeChat) last() chatCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return chatCall{}
	}
	return f.calls[len(f.calls)-1]
}

type fakeReviews struct {
	got []domain.Review
	err error
}

func (f *fakeReviews) Create(_ context.Context, r domain.Review) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.got = append(f.got, r)
	return int64(len(f.got)), nil
}

type fakeSessions struct {
	cleared []string
}

func (f *fakeSessions) Clear(_ context.Context, sessionID string) error {
	f.cleared = append(f.cleared, sessionID)
	return nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

// botAPI fakes the Telegram Bot API and keeps the texts the bot sent.
type botAPI struct {
	mu   sync.Mutex
	sent []string
}

func (a *botAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		r.ParseForm()
	}
	w.Header().Set("Content-Type", "application/json")
	if strings.HasSuffix(r.URL.Path, "/sendMessage") {
		a.mu.Lock()
		a.sent = append(a.sent, r.FormValue("text"))
		a.mu.Unlock()
		w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
		return
	}
	w.Write([]byte(`{"ok":true,"result":true}`))
}

func (a *botAPI) texts() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.sent...)
}

func newTestBot(t *testing.T) (*bot.Bot, *botAPI) {
	t.Helper()
	api := &botAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	b, err := bot.New("123:test", bot.WithServerURL(srv.URL), bot.WithSkipGetMe())
	if err != nil {
		t.Fatal(err)
	}
	return b, api
}
