package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ScoredText is one classified row, the unit handed to storage and
// transport sinks.
type ScoredText struct {
	ContentID string    `json:"content_id" dynamodbav:"content_id"`
	Text      string    `json:"text" dynamodbav:"text"`
	Score     float64   `json:"sentiment_score" dynamodbav:"sentiment_score"`
	Label     string    `json:"sentiment_label" dynamodbav:"sentiment_label"`
	Threshold float64   `json:"threshold" dynamodbav:"threshold"`
	Scorer    string    `json:"scorer" dynamodbav:"scorer"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at,unixtime"`
}

// ContentID derives a stable identifier from the text itself.
func ContentID(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:12])
}
