package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fluentplan/internal/scoring"
)

func TestEvalCacheReturnsIndependentBundles(t *testing.T) {
	c, err := newEvalCache(scoring.New(), 4)
	require.NoError(t, err)
	want := scoring.Evaluate(testResponses())
	require.NotEmpty(t, want.Recommendations)
	require.NotEmpty(t, want.Projection.Milestones)

	first, hit := c.Evaluate(testResponses())
	require.False(t, hit)
	first.Recommendations[0] = "tampered"
	first.Projection.Milestones[0] = "tampered"
	first.Insights = append(first.Insights, "tampered")

	second, hit := c.Evaluate(testResponses())
	require.True(t, hit)
	assert.Equal(t, want, second)

	second.NextSteps = nil
	third, hit := c.Evaluate(testResponses())
	require.True(t, hit)
	assert.Equal(t, want, third)
}

func TestEvalCacheDisabled(t *testing.T) {
	c, err := newEvalCache(scoring.New(), 0)
	require.NoError(t, err)

	_, hit := c.Evaluate(testResponses())
	assert.False(t, hit)
	_, hit = c.Evaluate(testResponses())
	assert.False(t, hit)
	assert.Zero(t, c.Len())
}
