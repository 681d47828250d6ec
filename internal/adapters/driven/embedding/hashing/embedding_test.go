package hashing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

func cosine(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

func TestNewEmbeddingService_Dimensions(t *testing.T) {
	assert.Equal(t, domain.DefaultHashingDimensions, NewEmbeddingService(0).Dimensions())
	assert.Equal(t, domain.DefaultHashingDimensions, NewEmbeddingService(-4).Dimensions())
	assert.Equal(t, 64, NewEmbeddingService(64).Dimensions())
	assert.Equal(t, ModelName, NewEmbeddingService(0).ModelName())
}

func TestEmbed_DeterministicAndNormalised(t *testing.T) {
	svc := NewEmbeddingService(256)
	ctx := context.Background()

	a, err := svc.Embed(ctx, "Tenant shall maintain the HVAC system.")
	require.NoError(t, err)
	b, err := svc.Embed(ctx, "Tenant shall maintain the HVAC system.")
	require.NoError(t, err)

	require.Len(t, a, 256)
	assert.Equal(t, a, b)

	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestEmbed_RelatedTextIsCloser(t *testing.T) {
	svc := NewEmbeddingService(0)
	ctx := context.Background()

	query, _ := svc.Embed(ctx, "Who repairs the roof?")
	roof, _ := svc.Embed(ctx, "Landlord shall repair the roof and structural elements.")
	rent, _ := svc.Embed(ctx, "Base rent is payable monthly in advance.")

	assert.Greater(t, cosine(query, roof), cosine(query, rent))
}

func TestEmbed_EmptyTextIsZeroVector(t *testing.T) {
	vec, err := NewEmbeddingService(16).Embed(context.Background(), " ,.; ")

	require.NoError(t, err)
	assert.Equal(t, make([]float32, 16), vec)
}

func TestEmbedBatch(t *testing.T) {
	svc := NewEmbeddingService(32)
	ctx := context.Background()

	batch, err := svc.EmbedBatch(ctx, []string{"roof", "rent"})
	require.NoError(t, err)
	require.Len(t, batch, 2)

	single, _ := svc.Embed(ctx, "rent")
	assert.Equal(t, single, batch[1])

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.EmbedBatch(cancelled, []string{"roof"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "Repairs to ROOFS", want: []string{"repair", "to", "roof"}},
		{in: "lessee's access", want: []string{"lessee", "s", "access"}},
		{in: "HVAC, 12 units", want: []string{"hvac", "12", "unit"}},
		{in: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := tokenize(tt.in)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
