package entity

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of a conversation log. Messages are never mutated
// after they are appended.
type ChatMessage struct {
	ID        string           `json:"id"`
	Role      Role             `json:"role"`
	Content   string           `json:"content"`
	Timestamp time.Time        `json:"timestamp"`
	Sources   []RetrievedMatch `json:"sources"`
	IsError   bool             `json:"is_error"`
	ErrorKind ErrorKind        `json:"error_kind,omitempty"`
	// Retryable marks an error message whose cause is transient, even when
	// the kind names the failed stage rather than the cause.
	Retryable bool `json:"retryable,omitempty"`
}

// PipelineState is the state of a query pipeline.
type PipelineState string

const (
	StateUnconfigured PipelineState = "Unconfigured"
	StateReady        PipelineState = "Ready"
	StateQuerying     PipelineState = "Querying"
)

// Session is a snapshot of one conversation and the pipeline behind it.
type Session struct {
	ID           string        `json:"id"`
	State        PipelineState `json:"state"`
	IndexName    string        `json:"index_name,omitempty"`
	TopK         int           `json:"top_k,omitempty"`
	MessageCount int           `json:"message_count"`
	CreatedAt    time.Time     `json:"created_at"`
}

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

// Document is a rendered export of a conversation.
type Document struct {
	FileName    string
	ContentType string
	Content     []byte
}
