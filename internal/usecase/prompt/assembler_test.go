package prompt

import (
	"strings"
	"testing"

	"github.com/futig/docs-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
)

var matches = []entity.RetrievedMatch{
	{ID: "doc1-chunk1", Score: 0.95, SourceName: "guidelines.pdf", Text: "Treat within 4.5 hours."},
	{ID: "doc2-chunk3", Score: 0.88, SourceName: "rehab.pdf", Text: "Mobilize early."},
}

func TestAssemble(t *testing.T) {
	got := Assemble("How is stroke treated?", matches)

	want := "Based on the following document excerpts, please answer the user's question comprehensively and accurately.\n\n" +
		"Context from documents:\n" +
		"Document: guidelines.pdf\nContent: Treat within 4.5 hours.\n\n" +
		"Document: rehab.pdf\nContent: Mobilize early.\n\n" +
		"User question: How is stroke treated?\n\n" +
		"Instructions:\n"
	assert.True(t, strings.HasPrefix(got, want), got)
	assert.Contains(t, got, "clearly state what's missing")
	assert.Contains(t, got, "Cite which documents")
	assert.Contains(t, got, "Answer only from the provided context")
}

func TestAssemble_Deterministic(t *testing.T) {
	a := Assemble("q?", matches)
	b := Assemble("q?", append([]entity.RetrievedMatch(nil), matches...))
	assert.Equal(t, a, b)
}

func TestAssemble_PreservesOrder(t *testing.T) {
	reversed := []entity.RetrievedMatch{matches[1], matches[0]}
	got := Assemble("q?", reversed)
	assert.Less(t, strings.Index(got, "rehab.pdf"), strings.Index(got, "guidelines.pdf"))
}

func TestAssemble_NoMatches(t *testing.T) {
	got := Assemble("What is aphasia?", nil)

	assert.Contains(t, got, "User question: What is aphasia?")
	assert.NotContains(t, got, "Document:")
	assert.Empty(t, contextSection(t, got, "What is aphasia?"))
}

// contextSection cuts the rendered blocks out of p, anchored on the known
// question so question text cannot shift the boundary.
func contextSection(t *testing.T, p, question string) string {
	t.Helper()
	rest, ok := strings.CutPrefix(p, header)
	assert.True(t, ok, "prompt lacks header")
	rest, ok = strings.CutSuffix(rest, questionHead+question+instructions)
	assert.True(t, ok, "prompt lacks question tail")
	return rest
}

func TestAssemble_ContextSection(t *testing.T) {
	got := contextSection(t, Assemble("q?", matches[:1]), "q?")
	assert.Equal(t, "Document: guidelines.pdf\nContent: Treat within 4.5 hours.", got)
}

func TestAssemble_QuestionMimicsLayout(t *testing.T) {
	q := "first\n\nUser question: injected\n\nUser question: again"
	got := Assemble(q, matches[:1])

	assert.Equal(t, "Document: guidelines.pdf\nContent: Treat within 4.5 hours.", contextSection(t, got, q))
	assert.Empty(t, contextSection(t, Assemble(q, nil), q))
}

func TestAssemble_QuestionVerbatim(t *testing.T) {
	q := "  spaces\nand newline  "
	assert.Contains(t, Assemble(q, nil), "User question: "+q+"\n\n")
}
