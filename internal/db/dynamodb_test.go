package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/getsentiment/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBatchWriter struct {
	calls        []*dynamodb.BatchWriteItemInput
	unprocessed  int
	alwaysReject bool
	err          error
}

func (f *fakeBatchWriter) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	if f.alwaysReject || f.unprocessed > 0 {
		f.unprocessed--
		return &dynamodb.BatchWriteItemOutput{UnprocessedItems: params.RequestItems}, nil
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func makeResults(n int) []models.ScoredText {
	results := make([]models.ScoredText, n)
	for i := range results {
		results[i] = models.ScoredText{
			ContentID: fmt.Sprintf("id-%d", i),
			Text:      "text",
			Score:     0.7,
			Label:     "Positive",
		}
	}
	return results
}

func TestStoreChunksBatches(t *testing.T) {
	fw := &fakeBatchWriter{}
	store := newResultStore(fw, "Results")

	require.NoError(t, store.Store(context.Background(), makeResults(60)))
	require.Len(t, fw.calls, 3)
	assert.Len(t, fw.calls[0].RequestItems["Results"], 25)
	assert.Len(t, fw.calls[2].RequestItems["Results"], 10)
}

func TestStoreRetriesUnprocessed(t *testing.T) {
	fw := &fakeBatchWriter{unprocessed: 2}
	store := newResultStore(fw, "")
	store.backoff = time.Millisecond

	require.NoError(t, store.Store(context.Background(), makeResults(3)))
	assert.Len(t, fw.calls, 3)
	assert.Contains(t, fw.calls[0].RequestItems, SENTIMENT_RESULTS_TABLE_NAME)
}

func TestStoreGivesUpAfterRetries(t *testing.T) {
	fw := &fakeBatchWriter{alwaysReject: true}
	store := newResultStore(fw, "Results")
	store.backoff = time.Millisecond

	err := store.Store(context.Background(), makeResults(2))
	require.Error(t, err)
	assert.Len(t, fw.calls, 4)
}

func TestStoreWrapsClientError(t *testing.T) {
	clientErr := errors.New("throttled")
	store := newResultStore(&fakeBatchWriter{err: clientErr}, "Results")

	assert.ErrorIs(t, store.Store(context.Background(), makeResults(1)), clientErr)
}

func TestResultToDynamoDBItem(t *testing.T) {
	created := time.Unix(1700000000, 0)
	store := newResultStore(&fakeBatchWriter{}, "Results")

	item, err := store.ResultToDynamoDBItem(models.ScoredText{
		ContentID: "abc",
		Text:      "It was surprisingly quite good!",
		Score:     0.81,
		Label:     "AWESOMENESS",
		Threshold: 0.6,
		Scorer:    "vader",
		CreatedAt: created,
	})
	require.NoError(t, err)

	assert.Equal(t, &types.AttributeValueMemberS{Value: "abc"}, item["content_id"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "AWESOMENESS"}, item["sentiment_label"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "1700000000"}, item["created_at"])

	ttl, ok := item["ttl"].(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, strconv.FormatInt(created.Add(RESULT_TTL).Unix(), 10), ttl.Value)
}

func TestResultToDynamoDBItemStampsCreatedAt(t *testing.T) {
	store := newResultStore(&fakeBatchWriter{}, "Results")
	store.now = func() time.Time { return time.Unix(42, 0) }

	item, err := store.ResultToDynamoDBItem(models.ScoredText{ContentID: "x"})
	require.NoError(t, err)
	assert.Equal(t, &types.AttributeValueMemberN{Value: "42"}, item["created_at"])
}
