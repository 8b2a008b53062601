package sentiment

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/spacesedan/getsentiment/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreBatchesPreservesOrder(t *testing.T) {
	texts := []string{"a", "bb", "ccc", "dddd", "eeeee", "ffffff", "g"}
	var batches atomic.Int32

	scores, err := ScoreBatches(context.Background(), texts, 3, 4, func(ctx context.Context, batch []string) ([]float64, error) {
		batches.Add(1)
		out := make([]float64, len(batch))
		for i, b := range batch {
			out[i] = float64(len(b))
		}
		return out, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 1}, scores)
	assert.Equal(t, int32(3), batches.Load())
}

func TestScoreBatchesEmpty(t *testing.T) {
	scores, err := ScoreBatches(context.Background(), nil, 3, 1, func(ctx context.Context, batch []string) ([]float64, error) {
		t.Fatal("should not be called")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestScoreBatchesReturnsErrorUnchanged(t *testing.T) {
	boom := errors.New("service unavailable")

	_, err := ScoreBatches(context.Background(), []string{"a", "b"}, 1, 1, func(ctx context.Context, batch []string) ([]float64, error) {
		return nil, boom
	})
	assert.Equal(t, boom, err)
}

func TestScoreBatchesRejectsWrongCount(t *testing.T) {
	_, err := ScoreBatches(context.Background(), []string{"a", "b"}, 2, 1, func(ctx context.Context, batch []string) ([]float64, error) {
		return []float64{0.1}, nil
	})
	assert.ErrorIs(t, err, ErrScoreCount)
}

func TestNewScorer(t *testing.T) {
	scorer, cleanup, err := NewScorer(config.Config{Scorer: config.ScorerVADER})
	require.NoError(t, err)
	defer cleanup()
	assert.Equal(t, "vader", scorer.Name())

	scorer, cleanup, err = NewScorer(config.Config{
		Scorer:              config.ScorerHuggingFace,
		HFSentimentEndpoint: "http://localhost:1/analyze_batch",
		BatchSize:           4,
		Workers:             1,
	})
	require.NoError(t, err)
	defer cleanup()
	assert.Equal(t, "huggingface", scorer.Name())

	_, _, err = NewScorer(config.Config{Scorer: "sql-server"})
	assert.ErrorIs(t, err, config.ErrUnknownScorer)
}
