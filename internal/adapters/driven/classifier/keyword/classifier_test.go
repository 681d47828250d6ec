package keyword

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantTopic domain.Topic
		wantParty domain.ResponsibleParty
	}{
		{
			name:      "tenant hvac",
			text:      "Tenant shall maintain and repair the HVAC system serving the Premises.",
			wantTopic: domain.TopicHVAC,
			wantParty: domain.PartyTenant,
		},
		{
			name:      "landlord roof at expense",
			text:      "The roof shall be replaced at Landlord's sole cost and expense.",
			wantTopic: domain.TopicRoof,
			wantParty: domain.PartyLandlord,
		},
		{
			name:      "lessor alias",
			text:      "Lessor agrees to keep the foundation and structural elements in good order.",
			wantTopic: domain.TopicStructural,
			wantParty: domain.PartyLandlord,
		},
		{
			name:      "both parties",
			text:      "Landlord shall procure property insurance and Tenant shall carry liability insurance.",
			wantTopic: domain.TopicInsurance,
			wantParty: domain.PartyShared,
		},
		{
			name:      "no obligation phrase",
			text:      "Parking spaces are allocated in the north lot.",
			wantTopic: domain.TopicParking,
			wantParty: domain.PartyUnknown,
		},
		{
			name:      "nothing recognised",
			text:      "IN WITNESS WHEREOF the parties have executed this instrument.",
			wantTopic: domain.TopicOther,
			wantParty: domain.PartyUnknown,
		},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(context.Background(), tt.text, "")

			require.NoError(t, err)
			assert.Equal(t, tt.wantTopic.String(), got.Topic)
			assert.Equal(t, tt.wantParty.String(), got.ResponsibleParty)
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, maxConfidence)
		})
	}
}

func TestClassifier_Confidence(t *testing.T) {
	c := New()
	ctx := context.Background()

	none, _ := c.Classify(ctx, "IN WITNESS WHEREOF", "")
	assert.InDelta(t, noMatchConfidence, none.Confidence, 1e-9)

	one, _ := c.Classify(ctx, "Parking is free.", "")
	assert.InDelta(t, 0.6, one.Confidence, 1e-9)

	many, _ := c.Classify(ctx, "Tenant shall pay roof repairs; the roof, roof drains and roof membrane.", "")
	assert.InDelta(t, maxConfidence, many.Confidence, 1e-9)
}

func TestClassifier_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Classify(ctx, "roof", "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "keyword", New().Name())
}
