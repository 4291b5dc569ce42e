package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/set-night/erpchat/internal/config"
	"github.com/set-night/erpchat/internal/domain"
	"github.com/set-night/erpchat/internal/metrics"
	"github.com/set-night/erpchat/internal/router"
)

const (
	llmNotConfiguredMessage = "LỖI: Mô hình LLM chưa được cấu hình. Vui lòng kiểm tra GOOGLE_API_KEY."
	unknownSource           = "Không rõ"
)

var outOfScopeMessages = map[domain.Domain]string{
	domain.DomainFinance:     "❌ Câu hỏi không thuộc nghiệp vụ Tài chính – Kế toán.",
	domain.DomainHRM:         "❌ Câu hỏi không thuộc nghiệp vụ Nhân sự (HRM).",
	domain.DomainSalesCRM:    "❌ Câu hỏi không thuộc nghiệp vụ Sales & CRM.",
	domain.DomainSupplyChain: "❌ Câu hỏi không thuộc nghiệp vụ Supply Chain.",
}

var domainResponses = map[domain.Domain]domain.ResponseType{
	domain.DomainFinance:     domain.ResponseFinance,
	domain.DomainHRM:         domain.ResponseHRM,
	domain.DomainSalesCRM:    domain.ResponseSalesCRM,
	domain.DomainSupplyChain: domain.ResponseSupplyChain,
}

// chainOrder is the order Dispatch offers a question to the domain routers.
var chainOrder = []domain.Domain{
	domain.DomainFinance,
	domain.DomainHRM,
	domain.DomainSalesCRM,
	domain.DomainSupplyChain,
}

type ChatDeps struct {
	Routers   []router.Router
	Retriever *Retriever
	History   HistoryStore
	// LLM may be nil; every handler then answers with a configuration error.
	LLM     LLM
	Metrics *metrics.Metrics

	DefaultEmployeeID int
	DefaultUserID     int
}

// ChatService answers questions from ERP data or from indexed documents.
type ChatService struct {
	routers   map[domain.Domain]router.Router
	retriever *Retriever
	history   HistoryStore
	llm       LLM
	metrics   *metrics.Metrics

	defaultEmployeeID int
	defaultUserID     int
}

func NewChatService(deps ChatDeps) *ChatService {
	routers := make(map[domain.Domain]router.Router, len(deps.Routers))
	for _, r := range deps.Routers {
		routers[r.Domain()] = r
	}
	return &ChatService{
		routers:           routers,
		retriever:         deps.Retriever,
		history:           deps.History,
		llm:               deps.LLM,
		metrics:           deps.Metrics,
		defaultEmployeeID: deps.DefaultEmployeeID,
		defaultUserID:     deps.DefaultUserID,
	}
}

func (s *ChatService) HandleFinance(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	return s.HandleDomain(ctx, domain.DomainFinance, req)
}

func (s *ChatService) HandleHRM(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	return s.HandleDomain(ctx, domain.DomainHRM, req)
}

func (s *ChatService) HandleSalesCRM(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	return s.HandleDomain(ctx, domain.DomainSalesCRM, req)
}

func (s *ChatService) HandleSupplyChain(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	return s.HandleDomain(ctx, domain.DomainSupplyChain, req)
}

// HandleDomain answers through a single domain router. A question the router
// does not recognize gets the domain's out-of-scope message without an LLM
// call. The returned error is only ever a request validation error.
func (s *ChatService) HandleDomain(ctx context.Context, d domain.Domain, req domain.ChatRequest) (domain.ChatResponse, error) {
	r, ok := s.routers[d]
	if !ok {
		return domain.ChatResponse{}, fmt.Errorf("%s: %w", d, domain.ErrUnknownDomain)
	}
	req, err := s.prepare(req)
	if err != nil {
		return domain.ChatResponse{}, err
	}

	in, ok := r.Classify(s.query(d, req))
	if !ok {
		return s.respond(domain.ChatResponse{
			Answer:       outOfScopeMessages[d],
			ResponseType: domain.ResponseOutOfScope,
			SessionID:    req.SessionID,
			Sources:      []domain.Source{},
		}), nil
	}
	return s.answerIntent(ctx, r, in, req), nil
}

// Dispatch offers the question to every domain router in turn and falls back
// to the conversational document handler when none recognizes it.
func (s *ChatService) Dispatch(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	req, err := s.prepare(req)
	if err != nil {
		return domain.ChatResponse{}, err
	}
	for _, d := range chainOrder {
		r, ok := s.routers[d]
		if !ok {
			continue
		}
		if in, ok := r.Classify(s.query(d, req)); ok {
			return s.answerIntent(ctx, r, in, req), nil
		}
	}
	return s.HandleChat(ctx, req)
}

func (s *ChatService) answerIntent(ctx context.Context, r router.Router, in *domain.Intent, req domain.ChatRequest) domain.ChatResponse {
	if s.llm == nil {
		return s.llmMissing(req)
	}

	res, err := r.Execute(ctx, in)
	if err != nil {
		return s.fail(req, fmt.Errorf("execute %s: %w", in.Operation, err))
	}
	history, err := s.history.Load(ctx, req.SessionID, config.HistoryLimit)
	if err != nil {
		return s.fail(req, err)
	}

	prompt := DomainPrompt(in.Domain, req.Question, res, history)
	answer, err := s.generate(ctx, prompt, config.DomainTemperature)
	if err != nil {
		return s.fail(req, err)
	}
	s.save(ctx, req, answer)

	return s.respond(domain.ChatResponse{
		Answer:       answer,
		ResponseType: domainResponses[in.Domain],
		SessionID:    req.SessionID,
		Sources:      []domain.Source{},
		ActionData: map[string]any{
			"domain":     in.Domain,
			"operation":  in.Operation,
			"confidence": in.Confidence,
			"result":     res,
		},
	})
}

// HandleRAG answers from indexed documents with the plain prompt.
func (s *ChatService) HandleRAG(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	return s.handleDocuments(ctx, req, domain.ResponseRAG, RAGPrompt)
}

// HandleChat answers from indexed documents with the conversational prompt.
func (s *ChatService) HandleChat(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	return s.handleDocuments(ctx, req, domain.ResponseRAGWithHistory, ChatPrompt)
}

type promptBuilder func(question string, passages []string, history []domain.Turn) string

func (s *ChatService) handleDocuments(ctx context.Context, req domain.ChatRequest, rt domain.ResponseType, build promptBuilder) (domain.ChatResponse, error) {
	req, err := s.prepare(req)
	if err != nil {
		return domain.ChatResponse{}, err
	}
	if s.llm == nil {
		return s.llmMissing(req), nil
	}

	history, err := s.history.Load(ctx, req.SessionID, config.HistoryLimit)
	if err != nil {
		return s.fail(req, err), nil
	}

	matches := s.retriever.Query(ctx, req.Question, config.RetrievalTopK)
	passages := make([]string, len(matches))
	sources := make([]domain.Source, len(matches))
	for i, m := range matches {
		passages[i] = m.Content
		src := m.Source
		if src == "" {
			src = unknownSource
		}
		score := m.Score
		sources[i] = domain.Source{DocID: i, Title: src, Content: m.Content, Source: src, Score: &score}
	}

	answer, err := s.generate(ctx, build(req.Question, passages, history), config.RAGTemperature)
	if err != nil {
		return s.fail(req, err), nil
	}
	s.save(ctx, req, answer)

	return s.respond(domain.ChatResponse{
		Answer:       answer,
		ResponseType: rt,
		SessionID:    req.SessionID,
		Sources:      sources,
	}), nil
}

func (s *ChatService) prepare(req domain.ChatRequest) (domain.ChatRequest, error) {
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return req, domain.ErrEmptyQuestion
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	return req, nil
}

// query picks the actor a router acts for: the employee for HRM, the
// customer for Sales-CRM.
func (s *ChatService) query(d domain.Domain, req domain.ChatRequest) domain.Query {
	q := domain.Query{Text: req.Question}
	switch d {
	case domain.DomainHRM:
		q.ActorID = s.defaultEmployeeID
		if req.EmployeeID > 0 {
			q.ActorID = req.EmployeeID
		}
	case domain.DomainSalesCRM:
		q.ActorID = s.defaultUserID
		if req.UserID > 0 {
			q.ActorID = req.UserID
		}
	}
	return q
}

func (s *ChatService) generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	defer cancel()

	start := time.Now()
	answer, err := s.llm.Generate(ctx, prompt, temperature)
	s.metrics.ObserveLLM(time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}

// save runs only after a successful generation. A failed write is logged and
// the answer is still returned.
func (s *ChatService) save(ctx context.Context, req domain.ChatRequest, answer string) {
	if err := s.history.Append(ctx, req.SessionID, req.Question, answer); err != nil {
		slog.Error("save chat history failed", "session_id", req.SessionID, "error", err)
	}
}

func (s *ChatService) fail(req domain.ChatRequest, err error) domain.ChatResponse {
	slog.Error("chat failed", "session_id", req.SessionID, "error", err)
	return s.respond(domain.ChatResponse{
		Answer:       "Gặp lỗi khi xử lý: " + err.Error(),
		ResponseType: domain.ResponseRAGError,
		SessionID:    req.SessionID,
		Sources:      []domain.Source{},
	})
}

func (s *ChatService) llmMissing(req domain.ChatRequest) domain.ChatResponse {
	return s.respond(domain.ChatResponse{
		Answer:       llmNotConfiguredMessage,
		ResponseType: domain.ResponseRAGError,
		SessionID:    req.SessionID,
		Sources:      []domain.Source{},
	})
}

func (s *ChatService) respond(resp domain.ChatResponse) domain.ChatResponse {
	s.metrics.ObserveResponse(string(resp.ResponseType))
	return resp
}
