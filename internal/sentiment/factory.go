package sentiment

import (
	"fmt"

	"github.com/spacesedan/getsentiment/config"
	"github.com/spacesedan/getsentiment/internal/clients"
)

// NewScorer builds the scorer named by cfg.Scorer. The returned cleanup must
// be called once the scorer is no longer used.
func NewScorer(cfg config.Config) (Scorer, func(), error) {
	noop := func() {}

	switch cfg.Scorer {
	case config.ScorerVADER:
		return NewVADERScorer(), noop, nil

	case config.ScorerHuggingFace:
		client := clients.NewHuggingFaceClient(cfg.HFSentimentEndpoint, cfg.Env)
		return NewHuggingFaceScorer(client, cfg.BatchSize, cfg.Workers), noop, nil

	case config.ScorerHugot:
		scorer, err := NewHugotScorer(cfg.HugotModelPath, cfg.HugotModelName, cfg.BatchSize)
		if err != nil {
			return nil, noop, err
		}
		return scorer, func() { _ = scorer.Close() }, nil

	case config.ScorerOpenAI:
		client := clients.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		return NewOpenAIScorer(client, cfg.BatchSize, cfg.Workers), noop, nil

	default:
		return nil, noop, fmt.Errorf("%w: %q", config.ErrUnknownScorer, cfg.Scorer)
	}
}
