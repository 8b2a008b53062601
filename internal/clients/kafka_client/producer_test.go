package kafka_client

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/getsentiment/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	produced    []*kafka.Message
	failFirst   int
	deliveryErr error
	flushed     bool
	closed      bool
}

func (f *fakeProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	if f.failFirst > 0 {
		f.failFirst--
		return kafka.NewError(kafka.ErrQueueFull, "queue full", false)
	}
	f.produced = append(f.produced, msg)

	report := *msg
	report.TopicPartition.Error = f.deliveryErr
	deliveryChan <- &report
	return nil
}

func (f *fakeProducer) Flush(timeoutMs int) int {
	f.flushed = true
	return 0
}

func (f *fakeProducer) Close() { f.closed = true }

func results() []models.ScoredText {
	return []models.ScoredText{
		{ContentID: "a", Text: "good", Score: 0.9, Label: "Positive"},
		{ContentID: "b", Text: "bad", Score: 0.1, Label: "Negative"},
	}
}

func TestStorePublishesOneMessagePerResult(t *testing.T) {
	fp := &fakeProducer{}
	rp := newResultPublisher(fp, KAFKA_TOPIC_SENTIMENT_RESULTS)

	require.NoError(t, rp.Store(context.Background(), results()))
	require.Len(t, fp.produced, 2)

	msg := fp.produced[1]
	assert.Equal(t, "b", string(msg.Key))
	assert.Equal(t, KAFKA_TOPIC_SENTIMENT_RESULTS, *msg.TopicPartition.Topic)

	var decoded models.ScoredText
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "Negative", decoded.Label)
}

func TestStoreRetriesProduce(t *testing.T) {
	fp := &fakeProducer{failFirst: 1}
	rp := newResultPublisher(fp, "t")
	rp.retry = time.Millisecond

	require.NoError(t, rp.Store(context.Background(), results()[:1]))
	assert.Len(t, fp.produced, 1)
}

func TestStoreReportsDeliveryFailure(t *testing.T) {
	deliveryErr := errors.New("broker said no")
	fp := &fakeProducer{deliveryErr: deliveryErr}
	rp := newResultPublisher(fp, "t")

	err := rp.Store(context.Background(), results())
	assert.ErrorIs(t, err, deliveryErr)
}

func TestStoreEmpty(t *testing.T) {
	fp := &fakeProducer{}
	rp := newResultPublisher(fp, "t")

	require.NoError(t, rp.Store(context.Background(), nil))
	assert.Empty(t, fp.produced)
}

func TestClose(t *testing.T) {
	fp := &fakeProducer{}
	newResultPublisher(fp, "t").Close()

	assert.True(t, fp.flushed)
	assert.True(t, fp.closed)
}
