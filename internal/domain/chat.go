package domain

import "time"

// ResponseType tags how an answer was produced.
type ResponseType string

const (
	ResponseRAG            ResponseType = "RAG"
	ResponseRAGWithHistory ResponseType = "RAG_WITH_HISTORY"
	ResponseFinance        ResponseType = "ERP_FINANCE"
	ResponseHRM            ResponseType = "ERP_HRM"
	ResponseSalesCRM       ResponseType = "ERP_SALES_CRM"
	ResponseSupplyChain    ResponseType = "ERP_SUPPLY_CHAIN"
	ResponseOutOfScope     ResponseType = "OUT_OF_SCOPE"
	ResponseRAGError       ResponseType = "RAG_ERROR"
)

// Turn is one persisted question/answer pair of a session.
type Turn struct {
	ID        int64
	SessionID string
	Question  string
	Answer    string
	Timestamp time.Time
}

// ChatRequest is the inbound question.
// EmployeeID and UserID override the configured demo identities for HRM and Sales-CRM.
type ChatRequest struct {
	Question   string `json:"question"`
	SessionID  string `json:"session_id"`
	EmployeeID int    `json:"employee_id,omitempty"`
	UserID     int    `json:"user_id,omitempty"`
}

// Source is a retrieved passage returned alongside a RAG answer.
type Source struct {
	DocID   int      `json:"doc_id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Source  string   `json:"source"`
	Score   *float64 `json:"score"`
}

type ChatResponse struct {
	Answer       string         `json:"answer"`
	ResponseType ResponseType   `json:"response_type"`
	SessionID    string         `json:"session_id,omitempty"`
	Sources      []Source       `json:"sources"`
	ActionData   map[string]any `json:"action_data,omitempty"`
}
