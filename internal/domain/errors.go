package domain

import "errors"

var (
	ErrEmptyQuestion       = errors.New("empty question")
	ErrUnknownDomain       = errors.New("unknown domain")
	ErrLLMUnavailable      = errors.New("llm not configured")
	ErrNotFound            = errors.New("not found")
	ErrEmptyDocument       = errors.New("document has no content")
	ErrUnsupportedDocument = errors.New("unsupported document type")
	ErrEmbeddingMismatch   = errors.New("embedding shape mismatch")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrInvalidProduct      = errors.New("product_id is required")
)
