package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/spacesedan/getsentiment/internal/clients"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOpenAIScores(t *testing.T) {
	content := "```json\n{\"scores\": [{\"id\": \"1\", \"score\": 0.2}, {\"id\": \"0\", \"score\": 0.9}]}\n```"

	scores, err := parseOpenAIScores(content, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.9, 0.2}, scores)

	_, err = parseOpenAIScores(content, 3)
	assert.ErrorIs(t, err, ErrScoreCount)

	_, err = parseOpenAIScores("not json", 1)
	assert.Error(t, err)
}

func TestOpenAIScorer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": `{"scores":[{"id":"0","score":0.8},{"id":"1","score":0.1}]}`,
				},
			}},
		})
	}))
	defer srv.Close()

	client := clients.NewOpenAIClient("test-key", "gpt-4o-mini",
		option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	scorer := NewOpenAIScorer(client, 10, 1)
	assert.Equal(t, "openai", scorer.Name())

	scores, err := scorer.Score(context.Background(), []string{"love it", "hate it"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.8, 0.1}, scores)
}
