package formatter

import (
	"fmt"
	"strings"

	"github.com/futig/docs-assistant/internal/entity"
)

const baseTitle = "Conversation transcript"

// Formatter renders a conversation log into a downloadable document.
type Formatter interface {
	Format(messages []entity.ChatMessage) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidFormat, format)
	}
}

const timestampLayout = "2006-01-02 15:04:05"

func speaker(m entity.ChatMessage) string {
	switch {
	case m.Role == entity.RoleUser:
		return "You"
	case m.IsError:
		return "Assistant (error)"
	default:
		return "Assistant"
	}
}

func sourceLine(i int, s entity.RetrievedMatch) string {
	return fmt.Sprintf("%d. %s (relevance %.0f%%)", i+1, s.SourceName, s.Score*100)
}

func heading(m entity.ChatMessage) string {
	return fmt.Sprintf("%s, %s", speaker(m), m.Timestamp.Format(timestampLayout))
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
