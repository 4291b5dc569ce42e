package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/set-night/erpchat/internal/domain"
)

func newTestOpenRouter(t *testing.T, model string, h http.HandlerFunc) *OpenRouterLLM {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	o := NewOpenRouterLLM("test-key", model)
	o.baseURL = srv.URL
	return o
}

func TestOpenRouterGenerate(t *testing.T) {
	var got map[string]any
	o := newTestOpenRouter(t, "openai/gpt-4o-mini", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"Số dư là 0."}}]}`))
	})

	answer, err := o.Generate(context.Background(), "xin chào", 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if answer != "Số dư là 0." {
		t.Errorf("answer = %q", answer)
	}
	if got["temperature"] != 0.1 {
		t.Errorf("temperature = %v, want 0.1", got["temperature"])
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("messages = %v", got["messages"])
	}
	if m := msgs[0].(map[string]any); m["role"] != "user" || m["content"] != "xin chào" {
		t.Errorf("message = %v", m)
	}
}

func TestOpenRouterOmitsTemperatureForGemini(t *testing.T) {
	var got map[string]any
	o := newTestOpenRouter(t, "google/gemini-2.5-flash", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})

	if _, err := o.Generate(context.Background(), "q", 0.3); err != nil {
		t.Fatal(err)
	}
	if _, ok := got["temperature"]; ok {
		t.Errorf("temperature sent for a gemini model: %v", got["temperature"])
	}
}

func TestOpenRouterErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		unavailable bool
	}{
		{"rate limited", http.StatusTooManyRequests, ``, true},
		{"unavailable", http.StatusServiceUnavailable, ``, true},
		{"api error", http.StatusBadRequest, `{"error":{"message":"bad model"}}`, false},
		{"no choices", http.StatusOK, `{"choices":[]}`, false},
		{"garbage", http.StatusOK, `not json`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOpenRouter(t, "m", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := o.Generate(context.Background(), "q", 0.1)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.Is(err, domain.ErrLLMUnavailable); got != tt.unavailable {
				t.Errorf("errors.Is(ErrLLMUnavailable) = %v, want %v (%v)", got, tt.unavailable, err)
			}
		})
	}
}
