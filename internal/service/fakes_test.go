package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/set-night/erpchat/internal/domain"
)

type generateCall struct {
	Prompt      string
	Temperature float64
}

type fakeLLM struct {
	mu     sync.Mutex
	calls  []generateCall
	answer string
	err    error
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, temperature float64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, generateCall{Prompt: prompt, Temperature: temperature})
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

// fakeEmbedder maps every text to a 3-dimensional vector derived from its
// content, so equal texts embed equally.
type fakeEmbedder struct {
	mu     sync.Mutex
	inputs [][]string
	err    error
	// failOn makes Embed fail when any text contains it.
	failOn string
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, append([]string(nil), texts...))
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if f.failOn != "" && strings.Contains(t, f.failOn) {
			return nil, errors.New("embedding backend down")
		}
		out[i] = []float32{float32(len(t)%7) + 1, float32(strings.Count(t, " ")%5) + 1, 1}
	}
	return out, nil
}

type fakeIndex struct {
	matches []domain.RetrievalMatch
	err     error
	k       int
}

func (f *fakeIndex) ReplaceSource(context.Context, string, []domain.Chunk) error { return f.err }

func (f *fakeIndex) Search(_ context.Context, _ []float32, k int) ([]domain.RetrievalMatch, error) {
	f.k = k
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

func (f *fakeIndex) DeleteSource(context.Context, string) error { return f.err }

type fakeHistory struct {
	mu      sync.Mutex
	turns   []domain.Turn
	loadErr error
}

func (f *fakeHistory) Append(_ context.Context, sessionID, question, answer string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.turns = append(f.turns, domain.Turn{
		ID:        int64(len(f.turns) + 1),
		SessionID: sessionID,
		Question:  question,
		Answer:    answer,
	})
	return nil
}

func (f *fakeHistory) Load(_ context.Context, sessionID string, limit int) ([]domain.Turn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	var out []domain.Turn
	for _, t := range f.turns {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// fakeRouter recognizes questions containing keyword.
type fakeRouter struct {
	domain     domain.Domain
	keyword    string
	result     domain.Result
	err        error
	classified []domain.Query
}

func (f *fakeRouter) Domain() domain.Domain { return f.domain }

func (f *fakeRouter) Classify(q domain.Query) (*domain.Intent, bool) {
	f.classified = append(f.classified, q)
	if !strings.Contains(strings.ToLower(q.Text), f.keyword) {
		return nil, false
	}
	return &domain.Intent{
		Domain:     f.domain,
		Area:       "test",
		Operation:  "get_" + f.keyword,
		Confidence: 0.9,
		Entities:   domain.Entities{},
		Query:      q,
	}, true
}

func (f *fakeRouter) Execute(context.Context, *domain.Intent) (domain.Result, error) {
	return f.result, f.err
}
