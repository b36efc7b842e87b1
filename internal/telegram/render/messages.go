package render

import (
	"fmt"
	"strings"

	"github.com/futig/docs-assistant/internal/entity"
)

const (
	MsgHelp = `🤖 Commands:

/start - connect to the document index
/reset - clear the conversation
/sources - show the sources of the last answer
/export - download the conversation as a Markdown file
/help - show this help

Just send a question to ask it.`

	MsgReady         = "✅ Connected. Ask me anything about your documents."
	MsgCleared       = "🧹 Conversation cleared."
	MsgBusy          = "⏳ I'm still working on your previous question, please wait."
	MsgEmptyQuestion = "✏️ Please send a non-empty question."
	MsgDiscarded     = "ℹ️ The conversation was reset while I was answering, the answer was dropped."
	MsgNoSources     = "📭 No sources yet. Ask a question first."
	MsgUnknown       = "❌ Unknown command. Use /help"
	ErrGeneric       = "❌ Something went wrong. Please try again or use /start"
	ErrNotConfigured = "⚙️ The assistant is not configured. Use /start"

	MsgSlowDown     = "⚠️ Too many requests. Please wait a little."
	MsgRateLimited  = "⚠️ Rate limit exceeded. Wait about 30 seconds before the next question."
	MsgRateLimitHit = "🛑 You are sending requests too often. Please wait a minute."
)

// Answer renders an assistant message with its numbered sources.
func Answer(msg *entity.ChatMessage) string {
	if msg.IsError || len(msg.Sources) == 0 {
		return msg.Content
	}

	var b strings.Builder
	b.WriteString(msg.Content)
	b.WriteString("\n\n📚 Sources:\n")
	writeSources(&b, msg.Sources)
	return strings.TrimRight(b.String(), "\n")
}

// Sources renders matches with their relevance and an excerpt.
func Sources(matches []entity.RetrievedMatch) string {
	if len(matches) == 0 {
		return MsgNoSources
	}

	var b strings.Builder
	b.WriteString("📚 Sources of the last answer:\n")
	for i, m := range matches {
		fmt.Fprintf(&b, "\n%d. %s (%s)\n%s\n", i+1, m.SourceName, relevance(m.Score), excerpt(m.Text, 200))
	}
	return strings.TrimRight(b.String(), "\n")
}

// ConfigurationError explains why /start could not connect.
func ConfigurationError(err error) string {
	return fmt.Sprintf("⚙️ Could not configure the assistant: %v", err)
}

func writeSources(b *strings.Builder, matches []entity.RetrievedMatch) {
	for i, m := range matches {
		fmt.Fprintf(b, "%d. %s (%s)\n", i+1, m.SourceName, relevance(m.Score))
	}
}

func relevance(score float64) string {
	return fmt.Sprintf("%.0f%% relevant", score*100)
}

func excerpt(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}
