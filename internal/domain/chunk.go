package domain

// Chunk is an indexed passage of an ingested document.
type Chunk struct {
	ID        string
	Content   string
	Source    string
	Embedding []float32
}

// RetrievalMatch is one ranked passage for a query. Rank starts at 0.
type RetrievalMatch struct {
	ChunkID string
	Content string
	Source  string
	Rank    int
	Score   float64
}
