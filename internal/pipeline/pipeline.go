// Package pipeline scores a table of texts, labels every row and hands the
// results to the configured sinks.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/getsentiment/internal/classifier"
	"github.com/spacesedan/getsentiment/internal/dataset"
	"github.com/spacesedan/getsentiment/internal/metrics"
	"github.com/spacesedan/getsentiment/internal/models"
	"github.com/spacesedan/getsentiment/internal/sentiment"
)

type Sink interface {
	Name() string
	Store(ctx context.Context, results []models.ScoredText) error
}

type Pipeline struct {
	Scorer     sentiment.Scorer
	Classifier *classifier.Classifier
	Sinks      []Sink

	now func() time.Time
}

func New(scorer sentiment.Scorer, c *classifier.Classifier, sinks ...Sink) *Pipeline {
	return &Pipeline{
		Scorer:     scorer,
		Classifier: c,
		Sinks:      sinks,
		now:        time.Now,
	}
}

// Run fills in scores and labels. A scoring failure is returned exactly as
// the scorer reported it and leaves the table untouched. Sink failures are
// joined and returned after every sink has been tried.
func (p *Pipeline) Run(ctx context.Context, table *dataset.Table) error {
	start := time.Now()
	scorerName := p.Scorer.Name()

	scores, err := p.Scorer.Score(ctx, table.Texts())
	if err != nil {
		metrics.ScoringErrors.WithLabelValues(scorerName).Inc()
		slog.Error("[Pipeline] Scoring failed",
			slog.String("scorer", scorerName),
			slog.String("error", err.Error()))
		return err
	}
	if len(scores) != table.Len() {
		metrics.ScoringErrors.WithLabelValues(scorerName).Inc()
		return fmt.Errorf("%w: sent %d texts, got %d scores", sentiment.ErrScoreCount, table.Len(), len(scores))
	}
	metrics.ScoringDuration.WithLabelValues(scorerName).Observe(time.Since(start).Seconds())

	labels := p.Classifier.ClassifyAll(scores)
	if err := table.SetScores(scores); err != nil {
		return err
	}
	if err := table.SetLabels(labels); err != nil {
		return err
	}

	for _, label := range labels {
		metrics.LabelsTotal.WithLabelValues(label).Inc()
	}

	slog.Info("[Pipeline] Classified texts",
		slog.String("scorer", scorerName),
		slog.Int("count", table.Len()),
		slog.Float64("threshold", p.Classifier.Threshold()),
		slog.Duration("elapsed", time.Since(start)))

	if len(p.Sinks) == 0 {
		return nil
	}

	results := p.results(table)
	var errs []error
	for _, sink := range p.Sinks {
		if err := sink.Store(ctx, results); err != nil {
			metrics.SinkErrors.WithLabelValues(sink.Name()).Inc()
			slog.Error("[Pipeline] Sink failed",
				slog.String("sink", sink.Name()),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}

	return errors.Join(errs...)
}

func (p *Pipeline) results(table *dataset.Table) []models.ScoredText {
	createdAt := p.now()
	results := make([]models.ScoredText, table.Len())
	for i, row := range table.Rows {
		results[i] = models.ScoredText{
			ContentID: models.ContentID(row.Text),
			Text:      row.Text,
			Score:     row.Score,
			Label:     row.Label,
			Threshold: p.Classifier.Threshold(),
			Scorer:    p.Scorer.Name(),
			CreatedAt: createdAt,
		}
	}
	return results
}
