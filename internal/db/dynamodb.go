package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/getsentiment/internal/models"
)

const (
	SENTIMENT_RESULTS_TABLE_NAME = "SentimentResults"
	MAX_BATCH_WRITE_SIZE         = 25
	RESULT_TTL                   = 24 * time.Hour
)

type batchWriter interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

type ResultStore struct {
	client  batchWriter
	table   string
	backoff time.Duration
	now     func() time.Time
}

func NewResultStore(client *dynamodb.Client, table string) *ResultStore {
	return newResultStore(client, table)
}

func newResultStore(client batchWriter, table string) *ResultStore {
	if table == "" {
		table = SENTIMENT_RESULTS_TABLE_NAME
	}
	return &ResultStore{
		client:  client,
		table:   table,
		backoff: 500 * time.Millisecond,
		now:     time.Now,
	}
}

func (s *ResultStore) Name() string { return "dynamodb" }

// Store writes results in batches of 25. Unprocessed items are retried up
// to three times with a doubling backoff.
func (s *ResultStore) Store(ctx context.Context, results []models.ScoredText) error {
	for i := 0; i < len(results); i += MAX_BATCH_WRITE_SIZE {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:
		}

		end := min(i+MAX_BATCH_WRITE_SIZE, len(results))

		writeRequests := make([]types.WriteRequest, 0, end-i)
		for _, result := range results[i:end] {
			item, err := s.ResultToDynamoDBItem(result)
			if err != nil {
				return err
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if err := s.writeBatch(ctx, writeRequests); err != nil {
			return err
		}
	}

	slog.Info("[DynamoDB] Successfully stored sentiment results",
		slog.Int("count", len(results)))
	return nil
}

func (s *ResultStore) writeBatch(ctx context.Context, writeRequests []types.WriteRequest) error {
	out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			s.table: writeRequests,
		},
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to batch write sentiment results: %w", err)
	}

	retryCount := 0
	backoff := s.backoff
	for len(out.UnprocessedItems) > 0 && retryCount < 3 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2

		slog.Warn("[DynamoDB] Retrying unprocessed sentiment items...",
			slog.Int("attempt", retryCount+1),
			slog.Int("remaining", len(out.UnprocessedItems[s.table])))

		out, err = s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: out.UnprocessedItems,
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Retry error %w", err)
		}

		retryCount++
	}

	if remaining := len(out.UnprocessedItems[s.table]); remaining > 0 {
		slog.Error("[DynamoDB] Some sentiment items failed after retries",
			slog.Int("remaining", remaining))
		return fmt.Errorf("[DynamoDB] %d sentiment items were not written", remaining)
	}

	return nil
}

func (s *ResultStore) ResultToDynamoDBItem(result models.ScoredText) (map[string]types.AttributeValue, error) {
	if result.CreatedAt.IsZero() {
		result.CreatedAt = s.now()
	}

	item, err := attributevalue.MarshalMap(result)
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] failed to marshal result %s: %w", result.ContentID, err)
	}

	item["ttl"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", result.CreatedAt.Add(RESULT_TTL).Unix())}
	return item, nil
}
