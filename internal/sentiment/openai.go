package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/openai/openai-go"
	"github.com/spacesedan/getsentiment/internal/clients"
	"github.com/spacesedan/getsentiment/internal/models"
)

const openAIScorePrompt = `Rate the sentiment of each text on a scale from 0.0 (very negative) to 1.0 (very positive), 0.5 being neutral.

### **STRICT OUTPUT FORMAT**
You MUST return only **valid JSON**, formatted exactly as follows:
{
  "scores": [
    {"id": "XXX", "score": 0.0}
  ]
}

### **REQUIREMENTS**
- Return exactly one entry per input id.
- **No Markdown formatting** (no triple backticks, no explanations).
- **No extra text before or after the JSON output**.
`

// OpenAIScorer asks a chat model to rate sentiment.
type OpenAIScorer struct {
	client    *clients.OpenAIClient
	batchSize int
	workers   int
}

func NewOpenAIScorer(client *clients.OpenAIClient, batchSize, workers int) *OpenAIScorer {
	return &OpenAIScorer{client: client, batchSize: batchSize, workers: workers}
}

func (o *OpenAIScorer) Name() string { return "openai" }

func (o *OpenAIScorer) Score(ctx context.Context, texts []string) ([]float64, error) {
	return ScoreBatches(ctx, texts, o.batchSize, o.workers, o.scoreBatch)
}

func (o *OpenAIScorer) scoreBatch(ctx context.Context, texts []string) ([]float64, error) {
	reqs := make([]models.OpenAIScoreRequest, len(texts))
	for i, text := range texts {
		reqs[i] = models.OpenAIScoreRequest{ID: strconv.Itoa(i), Text: text}
	}

	batchBytes, err := json.Marshal(reqs)
	if err != nil {
		return nil, fmt.Errorf("[OpenAIScorer] failed to marshal batch: %w", err)
	}

	completion, err := o.client.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(openAIScorePrompt),
			openai.UserMessage(string(batchBytes)),
		}),
		Model:       openai.F(openai.ChatModel(o.client.Model)),
		Temperature: openai.Float(0),
	})
	if err != nil {
		return nil, fmt.Errorf("[OpenAIScorer] chat completion failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("[OpenAIScorer] empty response")
	}

	return parseOpenAIScores(completion.Choices[0].Message.Content, len(texts))
}

func parseOpenAIScores(content string, n int) ([]float64, error) {
	var resp models.OpenAIScoreResponse
	if err := json.Unmarshal([]byte(cleanOpenAIResponse(content)), &resp); err != nil {
		return nil, fmt.Errorf("[OpenAIScorer] failed to parse response: %w", err)
	}

	byID := make(map[string]float64, len(resp.Scores))
	for _, s := range resp.Scores {
		byID[s.ID] = s.Score
	}

	scores := make([]float64, n)
	for i := range scores {
		score, ok := byID[strconv.Itoa(i)]
		if !ok {
			return nil, fmt.Errorf("%w: model skipped id %d", ErrScoreCount, i)
		}
		scores[i] = score
	}

	slog.Debug("[OpenAIScorer] Parsed scores", slog.Int("count", n))
	return scores, nil
}

func cleanOpenAIResponse(response string) string {
	response = strings.TrimSpace(response)

	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")

	response = strings.ReplaceAll(response, "“", `"`) // Left curly quote
	response = strings.ReplaceAll(response, "”", `"`) // Right curly quote

	return strings.TrimSpace(response)
}
