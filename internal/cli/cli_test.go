package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ENABLE_MOCKS", "true")

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env", "test-missing"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func configFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assistant.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validYAML = `
generative_api_key: g-key
vector_api_key: v-key
index_name: stroke
top_k: 2
`

func TestConfigCheck(t *testing.T) {
	out, err := run(t, "config", "check", configFile(t, validYAML))
	require.NoError(t, err)
	assert.Contains(t, out, `configuration is valid: index "stroke", top_k 2`)
}

func TestConfigCheck_Invalid(t *testing.T) {
	_, err := run(t, "config", "check", configFile(t, "index_name: stroke\ntop_k: 0\n"))
	require.Error(t, err)
}

func TestAsk_WithMocks(t *testing.T) {
	out, err := run(t, "ask", "--config", configFile(t, validYAML), "What", "is", "stroke?")
	require.NoError(t, err)

	assert.Contains(t, out, "This is a mock answer based on the following documents: stroke_treatment_guidelines.pdf, rehabilitation_protocols.pdf.")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "1. stroke_treatment_guidelines.pdf (95% relevant)")
	assert.Contains(t, out, "2. rehabilitation_protocols.pdf (88% relevant)")
	assert.NotContains(t, out, "stroke_prevention_study.pdf (82%")
}

func TestAsk_RequiresQuestion(t *testing.T) {
	_, err := run(t, "ask")
	assert.Error(t, err)
}
