package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_TypedGetters(t *testing.T) {
	s := NewConfigStore(map[string]any{
		"embedding.provider":       "hashing",
		"embedding.dimensions":     int64(512),
		"retrieval.min_similarity": 0.3,
		"retrieval.top_k":          float64(12),
	})

	assert.Equal(t, "hashing", s.GetString("embedding.provider"))
	assert.Equal(t, 512, s.GetInt("embedding.dimensions"))
	assert.Equal(t, 12, s.GetInt("retrieval.top_k"))
	assert.InDelta(t, 0.3, s.GetFloat("retrieval.min_similarity"), 1e-9)
	assert.InDelta(t, 512.0, s.GetFloat("embedding.dimensions"), 1e-9)

	assert.Empty(t, s.GetString("missing"))
	assert.Zero(t, s.GetInt("embedding.provider"))
	assert.Zero(t, s.GetFloat("missing"))
}

func TestConfigStore_SetAndPersistenceNoops(t *testing.T) {
	s := NewConfigStore()
	require.NoError(t, s.Set("llm.model", "gpt-4o-mini"))

	v, ok := s.Get("llm.model")
	assert.True(t, ok)
	assert.Equal(t, "gpt-4o-mini", v)

	assert.NoError(t, s.Save())
	assert.NoError(t, s.Load())
	assert.Equal(t, ":memory:", s.Path())
}
