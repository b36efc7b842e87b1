package entity

type ConfigureRequest struct {
	GenerativeAPIKey string `json:"generative_api_key"`
	VectorAPIKey     string `json:"vector_api_key"`
	IndexName        string `json:"index_name"`
	TopK             int    `json:"top_k"`
}

func (r *ConfigureRequest) ToConfiguration() Configuration {
	return Configuration{
		GenerativeAPIKey: r.GenerativeAPIKey,
		VectorAPIKey:     r.VectorAPIKey,
		IndexName:        r.IndexName,
		TopK:             r.TopK,
	}
}

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Message ChatMessage   `json:"message"`
	State   PipelineState `json:"state"`
}

type MessagesResponse struct {
	Messages []ChatMessage `json:"messages"`
}

type SourcesResponse struct {
	Sources []RetrievedMatch `json:"sources"`
}

type ErrorResponse struct {
	Error   string    `json:"error"`
	Kind    ErrorKind `json:"kind,omitempty"`
	Message string    `json:"message,omitempty"`
}
