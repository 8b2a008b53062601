package sentiment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spacesedan/getsentiment/internal/clients"
	"github.com/spacesedan/getsentiment/internal/models"
)

// HuggingFaceScorer sends texts to the remote batch analysis service.
type HuggingFaceScorer struct {
	client    *clients.HuggingFaceClient
	batchSize int
	workers   int
}

func NewHuggingFaceScorer(client *clients.HuggingFaceClient, batchSize, workers int) *HuggingFaceScorer {
	return &HuggingFaceScorer{client: client, batchSize: batchSize, workers: workers}
}

func (h *HuggingFaceScorer) Name() string { return "huggingface" }

func (h *HuggingFaceScorer) Score(ctx context.Context, texts []string) ([]float64, error) {
	return ScoreBatches(ctx, texts, h.batchSize, h.workers, h.scoreBatch)
}

func (h *HuggingFaceScorer) scoreBatch(ctx context.Context, texts []string) ([]float64, error) {
	var req models.SentimentAnalysisBatchRequest
	for i, text := range texts {
		req.Posts = append(req.Posts, models.SentimentAnalysisRequest{
			ContentID: strconv.Itoa(i),
			Text:      text,
		})
	}

	resp, err := h.client.GetBatchedSentimentAnalysis(ctx, req)
	if err != nil {
		return nil, err
	}

	mapped := mapSentimentScoreToContentID(resp)

	scores := make([]float64, len(texts))
	for i, post := range req.Posts {
		score, ok := mapped[post.ContentID]
		if !ok {
			return nil, fmt.Errorf("%w: no result for content id %s", ErrScoreCount, post.ContentID)
		}
		scores[i] = score.SentimentScore
	}
	return scores, nil
}

// mapSentimentScoreToContentID indexes the response by content id.
func mapSentimentScoreToContentID(scores models.SentimentAnalysisBatchResponse) map[string]models.SentimentAnalysisResponse {
	scoreMap := make(map[string]models.SentimentAnalysisResponse, len(scores))

	for _, score := range scores {
		scoreMap[score.ContentID] = score
	}

	return scoreMap
}
