package entity

// Configuration is the immutable record a pipeline is configured with.
type Configuration struct {
	GenerativeAPIKey string `json:"generative_api_key" yaml:"generative_api_key" validate:"required"`
	VectorAPIKey     string `json:"vector_api_key" yaml:"vector_api_key" validate:"required"`
	IndexName        string `json:"index_name" yaml:"index_name" validate:"required"`
	TopK             int    `json:"top_k" yaml:"top_k" validate:"gte=1"`
}

// EmbeddingVector is a fixed-length embedding of one query text.
type EmbeddingVector []float32

// RetrievedMatch is one document chunk returned by the vector index.
// Score is a similarity in [0,1], higher is more relevant.
type RetrievedMatch struct {
	ID         string  `json:"id"`
	Score      float64 `json:"score"`
	SourceName string  `json:"source_name"`
	Text       string  `json:"text"`
}
