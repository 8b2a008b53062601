package kafka_client

import "time"

const (
	KAFKA_TOPIC_SENTIMENT_RESULTS = "sentiment-results" // classified texts
)

const (
	MAX_RETRIES       = 3
	RETRY_DELAY       = 2 * time.Second
	FLUSH_TIMEOUT_MS  = 5000
	DELIVERY_TIMEOUT  = 10 * time.Second
	PRODUCER_CLIENTID = "getsentiment-producer"
)
