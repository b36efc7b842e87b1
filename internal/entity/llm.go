package entity

// Wire types of the Gemini generateContent endpoint.

type GenerativePart struct {
	Text string `json:"text"`
}

type GenerativeContent struct {
	Role  string           `json:"role,omitempty"`
	Parts []GenerativePart `json:"parts"`
}

type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type GenerateContentRequest struct {
	Contents         []GenerativeContent `json:"contents"`
	GenerationConfig GenerationConfig    `json:"generationConfig"`
}

type GenerativeCandidate struct {
	Content      *GenerativeContent `json:"content,omitempty"`
	FinishReason string             `json:"finishReason,omitempty"`
}

type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type GenerateContentResponse struct {
	Candidates     []GenerativeCandidate `json:"candidates"`
	PromptFeedback *PromptFeedback       `json:"promptFeedback,omitempty"`
}
