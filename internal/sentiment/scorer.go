// Package sentiment wraps the sentiment capabilities a text can be scored
// with. Every scorer returns one score per text, in input order,
// conventionally within [0, 1].
package sentiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/spacesedan/getsentiment/internal/utils"
	"golang.org/x/sync/errgroup"
)

var ErrScoreCount = errors.New("scorer returned wrong number of scores")

type Scorer interface {
	Name() string
	Score(ctx context.Context, texts []string) ([]float64, error)
}

// ScoreBatches scores texts in chunks of batchSize with at most workers
// chunks in flight. The first failing chunk cancels the others and its
// error is returned unchanged.
func ScoreBatches(ctx context.Context, texts []string, batchSize, workers int, score func(ctx context.Context, batch []string) ([]float64, error)) ([]float64, error) {
	scores := make([]float64, len(texts))
	if len(texts) == 0 {
		return scores, nil
	}
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, span := range utils.Chunk(len(texts), batchSize) {
		g.Go(func() error {
			batch := texts[span.Start:span.End]
			out, err := score(gctx, batch)
			if err != nil {
				return err
			}
			if len(out) != len(batch) {
				return fmt.Errorf("%w: sent %d texts, got %d scores", ErrScoreCount, len(batch), len(out))
			}
			copy(scores[span.Start:span.End], out)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}
