package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/getsentiment/internal/metrics"
	"github.com/spacesedan/getsentiment/internal/models"
)

type ScoreCache interface {
	GetScores(ctx context.Context, keys []string) (map[string]float64, error)
	SetScores(ctx context.Context, scores map[string]float64, ttl time.Duration) error
}

// CachedScorer consults the cache before the wrapped scorer and only sends
// misses upstream. Cache failures degrade to a full upstream call.
type CachedScorer struct {
	next  Scorer
	cache ScoreCache
	ttl   time.Duration
}

func NewCachedScorer(next Scorer, cache ScoreCache, ttl time.Duration) *CachedScorer {
	return &CachedScorer{next: next, cache: cache, ttl: ttl}
}

func (c *CachedScorer) Name() string { return c.next.Name() }

func (c *CachedScorer) Score(ctx context.Context, texts []string) ([]float64, error) {
	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = c.next.Name() + ":" + models.ContentID(text)
	}

	cached, err := c.cache.GetScores(ctx, uniq(keys))
	if err != nil {
		slog.Warn("[CachedScorer] Cache lookup failed, scoring everything",
			slog.String("error", err.Error()))
		cached = map[string]float64{}
	}

	scores := make([]float64, len(texts))
	var missTexts []string
	var missIdx []int
	missSeen := make(map[string]int)

	for i, key := range keys {
		if score, ok := cached[key]; ok {
			scores[i] = score
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			continue
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		if j, ok := missSeen[key]; ok {
			missIdx = append(missIdx, j)
			continue
		}
		missSeen[key] = len(missTexts)
		missIdx = append(missIdx, len(missTexts))
		missTexts = append(missTexts, texts[i])
	}

	if len(missTexts) == 0 {
		return scores, nil
	}

	fresh, err := c.next.Score(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("%w: sent %d texts, got %d scores", ErrScoreCount, len(missTexts), len(fresh))
	}

	toCache := make(map[string]float64, len(fresh))
	m := 0
	for i, key := range keys {
		if _, ok := cached[key]; ok {
			continue
		}
		scores[i] = fresh[missIdx[m]]
		toCache[key] = scores[i]
		m++
	}

	if err := c.cache.SetScores(ctx, toCache, c.ttl); err != nil {
		slog.Warn("[CachedScorer] Failed to cache scores",
			slog.String("error", err.Error()))
	}

	return scores, nil
}

func uniq(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
