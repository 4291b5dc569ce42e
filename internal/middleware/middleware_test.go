package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func TestChatLimiterPerChat(t *testing.T) {
	l := NewChatLimiter(6, 3)
	for i := range 3 {
		if !l.Allow(1) {
			t.Fatalf("message %d of the burst was refused", i+1)
		}
	}
	if l.Allow(1) {
		t.Error("fourth message in a row was allowed")
	}
	if !l.Allow(2) {
		t.Error("another chat shares the first chat's bucket")
	}
}

func TestRateLimitPassesCommands(t *testing.T) {
	l := NewChatLimiter(6, 1)
	calls := 0
	h := RateLimit(l)(func(context.Context, *bot.Bot, *models.Update) { calls++ })

	cmd := &models.Update{Message: &models.Message{Text: "/new", Chat: models.Chat{ID: 5}}}
	for range 4 {
		h(context.Background(), nil, cmd)
	}
	h(context.Background(), nil, &models.Update{})
	if calls != 5 {
		t.Errorf("next called %d times, want 5", calls)
	}
}

func TestRecoverSwallowsPanic(t *testing.T) {
	h := Recover()(func(context.Context, *bot.Bot, *models.Update) { panic("boom") })
	h(context.Background(), nil, &models.Update{ID: 9})
}

func TestHTTPRecover(t *testing.T) {
	h := HTTPRecover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestHTTPLoggingKeepsStatus(t *testing.T) {
	h := HTTPLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
}
