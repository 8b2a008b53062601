package sentiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveLinks(t *testing.T) {
	in := "see [the docs](https://example.com/docs) or https://example.com and www.example.org now"
	assert.Equal(t, "see the docs or and now", RemoveLinks(in))
}

func TestConvertMarkdownToText(t *testing.T) {
	out := ConvertMarkdownToText("# Great\n\nThis is **really** good, [link](https://x.io)")
	assert.Equal(t, "Great This is really good, link", out)

	assert.Equal(t, `I didn't say "fine" & left`, ConvertMarkdownToText(`I didn't say "fine" & left`))
}

func TestVADERScorer(t *testing.T) {
	scorer := NewVADERScorer()
	assert.Equal(t, "vader", scorer.Name())

	scores, err := scorer.Score(context.Background(), []string{
		"It was surprisingly quite good!",
		"I really did not like the taste of it",
		"The table is brown.",
	})
	require.NoError(t, err)
	require.Len(t, scores, 3)

	for _, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
	assert.Greater(t, scores[0], 0.6)
	assert.Less(t, scores[1], 0.5)
	assert.InDelta(t, 0.5, scores[2], 1e-9)
}

func TestVADERScorerRespectsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewVADERScorer().Score(ctx, []string{"hi"})
	assert.ErrorIs(t, err, context.Canceled)
}
