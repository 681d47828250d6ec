package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

func TestAskCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "ask")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAskCmd_AnswersWithCitations(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetFlags()

	detail := seedLease(roofClause)

	out, err := execute(t, "ask", "--lease", detail.Lease.ID, roofClause)

	require.NoError(t, err)
	assert.Contains(t, out, stubAnswer)
	assert.Contains(t, out, "Citations:")
	assert.Contains(t, out, "[1] Harbour Point / Acme Ltd - Section 7.1")
}

func TestAskCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetFlags()

	seedLease(roofClause)

	out, err := execute(t, "ask", "--json", roofClause)
	require.NoError(t, err)

	var answer domain.Answer
	require.NoError(t, json.Unmarshal([]byte(out), &answer))
	assert.Equal(t, domain.QueryModeClauseRAG, answer.Mode)
	assert.Equal(t, domain.ScopePortfolio, answer.Scope)
	assert.NotEmpty(t, answer.Citations)
}

func TestAskCmd_NoClauses(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetFlags()

	out, err := execute(t, "ask", "Who pays for roof repairs?")

	require.NoError(t, err)
	assert.NotContains(t, out, stubAnswer)
	assert.NotContains(t, out, "Citations:")
}

func TestAskCmd_UnknownTopic(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetFlags()

	_, err := execute(t, "ask", "--topic", "GARDENS", "Who mows?")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown topic "GARDENS"`)
}

func TestAskCmd_WithoutLLM(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetFlags()

	queryService = &failingQuery{err: domain.ErrLLMUnavailable}

	_, err := execute(t, "ask", "Who pays?")

	require.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.Contains(t, err.Error(), "leaserag search")
}

// failingQuery returns err from every Ask.
type failingQuery struct {
	err error
}

func (f *failingQuery) Ask(context.Context, domain.QueryRequest) (*domain.Answer, error) {
	return nil, f.err
}
