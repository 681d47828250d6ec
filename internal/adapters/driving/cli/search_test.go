package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

const roofClause = "Tenant shall keep the roof in good repair at its own cost and expense."

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_FindsClause(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetFlags()

	seedLease(roofClause)

	out, err := execute(t, "search", roofClause)

	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] Harbour Point / Acme Ltd - Section 7.1 (1.00)")
	assert.Contains(t, out, "ROOF, TENANT")
}

func TestSearchCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetFlags()

	detail := seedLease(roofClause)

	out, err := execute(t, "search", "--json", roofClause)
	require.NoError(t, err)

	var results []searchResultJSON
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, detail.Lease.ID, results[0].LeaseID)
	assert.Equal(t, "ROOF", results[0].Topic)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
}

func TestSearchCmd_FiltersExclude(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	seedLease(roofClause)

	tests := []struct {
		name string
		args []string
	}{
		{"other party", []string{"search", "--party", "landlord", roofClause}},
		{"other topic", []string{"search", "--topic", "HVAC,parking", roofClause}},
		{"other lease", []string{"search", "--lease", "nope", roofClause}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer resetFlags()
			out, err := execute(t, tt.args...)

			require.NoError(t, err)
			assert.Contains(t, out, "No matching clauses found.")
		})
	}
}

func TestSearchCmd_InvalidFilters(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown topic", []string{"search", "--topic", "ROOF,GARDENS", "x"}, `unknown topic "GARDENS"`},
		{"unknown party", []string{"search", "--party", "BROKER", "x"}, `unknown responsible party "BROKER"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer resetFlags()
			_, err := execute(t, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseTopics(t *testing.T) {
	topics, err := parseTopics(" roof , cam,,")
	require.NoError(t, err)
	assert.Equal(t, []domain.Topic{domain.TopicRoof, domain.TopicCAM}, topics)

	topics, err = parseTopics("")
	require.NoError(t, err)
	assert.Nil(t, topics)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "a b c", snippet("a\n b\t c", 10))
	assert.Equal(t, "abc...", snippet("abcdef", 3))
}
