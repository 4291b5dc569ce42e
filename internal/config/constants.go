package config

import "time"

const (
	// Chunking, in characters
	ChunkSize    = 800
	ChunkOverlap = 100

	// Retrieval
	RetrievalTopK = 3
	// Asymmetric retrieval: applied to queries only, never to stored chunks.
	QueryInstruction = "Represent this sentence for searching relevant passages: "

	// Conversation history
	HistoryLimit = 5

	// Generation temperatures
	DomainTemperature = 0.1
	RAGTemperature    = 0.3

	// AI request timeout
	RequestTimeout = 90 * time.Second

	// Embedding request timeout
	EmbeddingTimeout = 60 * time.Second

	// Finance list sizes
	CashFlowHistoryLimit = 10
	JournalEntriesLimit  = 10
	FiscalPeriodsLimit   = 6

	// HRM list sizes
	AttendanceHistoryLimit = 10
	SalaryHistoryLimit     = 6

	// Supply chain analytics
	OverstockThreshold = 500
	DeadStockDays      = 90
	RecentReceiptDays  = 7

	// Content of a review created from a chat question
	ChatbotReviewContent = "Đánh giá từ chatbot"

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Rate limits (per chat)
	RateLimitPerMinute = 6
	RateLimitBurst     = 3

	// HTTP server
	ReadHeaderTimeout = 10 * time.Second
	ShutdownTimeout   = 15 * time.Second
)

// WatchedExtensions are the document types ingestion understands.
var WatchedExtensions = []string{".pdf", ".txt", ".md", ".html", ".htm"}
