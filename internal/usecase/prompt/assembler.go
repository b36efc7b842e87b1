// Package prompt renders retrieved document chunks and a user question into
// a grounding prompt for the generative model.
package prompt

import (
	"strings"

	"github.com/futig/docs-assistant/internal/entity"
)

const (
	header       = "Based on the following document excerpts, please answer the user's question comprehensively and accurately.\n\nContext from documents:\n"
	questionHead = "\n\nUser question: "
	instructions = "\n\nInstructions:\n" +
		"- Answer only from the provided context, do not use outside knowledge\n" +
		"- If the context doesn't contain enough information, clearly state what's missing\n" +
		"- Cite which documents you're referencing when possible\n" +
		"- Be concise but thorough and don't make up information\n" +
		"- Format your response in a clear, readable manner"
)

// Assemble returns the prompt for question grounded on matches. The output is
// a pure function of its arguments. An empty matches slice yields an empty
// context section.
func Assemble(question string, matches []entity.RetrievedMatch) string {
	var b strings.Builder
	b.WriteString(header)
	for i, m := range matches {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Document: ")
		b.WriteString(m.SourceName)
		b.WriteString("\nContent: ")
		b.WriteString(m.Text)
	}
	b.WriteString(questionHead)
	b.WriteString(question)
	b.WriteString(instructions)
	return b.String()
}
