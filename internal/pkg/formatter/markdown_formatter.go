package formatter

import (
	"bytes"
	"fmt"

	"github.com/futig/docs-assistant/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(messages []entity.ChatMessage) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", baseTitle)

	for _, m := range messages {
		fmt.Fprintf(&buf, "\n## %s\n\n%s\n", heading(m), trimmed(m.Content))
		if len(m.Sources) == 0 {
			continue
		}
		buf.WriteString("\n**Sources:**\n\n")
		for i, s := range m.Sources {
			fmt.Fprintf(&buf, "%s\n", sourceLine(i, s))
		}
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
