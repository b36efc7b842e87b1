package validator

import (
	"testing"

	"github.com/futig/docs-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfiguration(t *testing.T) {
	v := New(10)

	valid := entity.Configuration{
		GenerativeAPIKey: "key1",
		VectorAPIKey:     "key2",
		IndexName:        "stroke",
		TopK:             3,
	}

	tests := []struct {
		name    string
		mutate  func(c *entity.Configuration)
		wantErr string
	}{
		{name: "valid", mutate: func(c *entity.Configuration) {}},
		{name: "missing generative key", mutate: func(c *entity.Configuration) { c.GenerativeAPIKey = "" }, wantErr: "generative_api_key is required"},
		{name: "blank vector key", mutate: func(c *entity.Configuration) { c.VectorAPIKey = "   " }, wantErr: "vector_api_key is required"},
		{name: "missing index", mutate: func(c *entity.Configuration) { c.IndexName = "" }, wantErr: "index_name is required"},
		{name: "zero top k", mutate: func(c *entity.Configuration) { c.TopK = 0 }, wantErr: "top_k must be at least 1"},
		{name: "top k above bound", mutate: func(c *entity.Configuration) { c.TopK = 11 }, wantErr: "top_k must be at most 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := v.ValidateConfiguration(&cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, entity.ErrInvalidConfiguration)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateConfiguration_ReportsEveryMissingField(t *testing.T) {
	err := New(5).ValidateConfiguration(&entity.Configuration{})

	require.ErrorIs(t, err, entity.ErrInvalidConfiguration)
	for _, field := range []string{"generative_api_key", "vector_api_key", "index_name", "top_k"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestValidateQuestion(t *testing.T) {
	v := New(5)

	require.NoError(t, v.ValidateQuestion("What are stroke prevention measures?"))
	assert.ErrorIs(t, v.ValidateQuestion(""), entity.ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateQuestion(" \n\t "), entity.ErrInvalidInput)
}
