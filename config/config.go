package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spacesedan/getsentiment/internal/classifier"
)

var ErrUnknownScorer = errors.New("unknown sentiment scorer")

const (
	ScorerVADER       = "vader"
	ScorerHuggingFace = "huggingface"
	ScorerHugot       = "hugot"
	ScorerOpenAI      = "openai"

	DEFAULT_HF_SENTIMENT_ENDPOINT = "https://spacesedan-sentiment-analyzer.hf.space/analyze_batch"
	DEFAULT_HUGOT_MODEL_NAME      = "KnightsAnalytics/distilbert-base-uncased-finetuned-sst-2-english"
)

type Config struct {
	Env      string
	LogLevel string

	Scorer    string
	Threshold float64
	// Labels is empty unless SENTIMENT_LABELS is set; callers then fall back
	// to the scheme of the table being scored.
	Labels    string
	BatchSize int
	Workers   int

	HFSentimentEndpoint string
	HugotModelPath      string
	HugotModelName      string
	OpenAIAPIKey        string
	OpenAIModel         string

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool
	ScoreCacheTTL  time.Duration
	Cache          bool

	AWSRegion    string
	AWSEndpoint  string
	ResultsTable string

	KafkaBroker       string
	KafkaResultsTopic string

	MetricsAddr string
}

// Load reads the configuration from the environment. Malformed numbers fall
// back to their defaults.
func Load() Config {
	return Config{
		Env:      getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Scorer:    getEnv("SENTIMENT_SCORER", ScorerVADER),
		Threshold: getFloat("SENTIMENT_THRESHOLD", classifier.DefaultThreshold),
		Labels:    os.Getenv("SENTIMENT_LABELS"),
		BatchSize: getInt("SENTIMENT_BATCH_SIZE", 16),
		Workers:   getInt("SENTIMENT_WORKERS", 4),

		HFSentimentEndpoint: getEnv("HF_SENTIMENT_ENDPOINT", DEFAULT_HF_SENTIMENT_ENDPOINT),
		HugotModelPath:      getEnv("HUGOT_MODEL_PATH", "./models"),
		HugotModelName:      getEnv("HUGOT_MODEL_NAME", DEFAULT_HUGOT_MODEL_NAME),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		ValkeyAddress:  getEnv("VALKEY_INIT_ADDRESS", "localhost:6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
		ValkeyTLS:      os.Getenv("VALKEY_TLS") == "true",
		ScoreCacheTTL:  time.Duration(getInt("SCORE_CACHE_TTL", 86400)) * time.Second,
		Cache:          os.Getenv("SCORE_CACHE") == "true",

		AWSRegion:    getEnv("AWS_REGION", "us-west-2"),
		AWSEndpoint:  os.Getenv("AWS_ENDPOINT"),
		ResultsTable: getEnv("DYNAMODB_RESULTS_TABLE", "SentimentResults"),

		KafkaBroker:       getEnv("KAFKA_BROKER", "localhost:29092"),
		KafkaResultsTopic: getEnv("KAFKA_RESULTS_TOPIC", "sentiment-results"),

		MetricsAddr: os.Getenv("METRICS_ADDR"),
	}
}

func (c Config) Validate() error {
	switch c.Scorer {
	case ScorerVADER, ScorerHuggingFace, ScorerHugot, ScorerOpenAI:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownScorer, c.Scorer)
	}

	if c.Labels != "" {
		if _, err := classifier.LookupScheme(c.Labels); err != nil {
			return err
		}
	}

	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("worker count must be positive, got %d", c.Workers)
	}
	// Valkey expiries are whole seconds; anything shorter becomes 0 and is
	// rejected on every write.
	if c.Cache && c.ScoreCacheTTL < time.Second {
		return fmt.Errorf("score cache TTL must be at least 1s, got %s", c.ScoreCacheTTL)
	}
	if c.Scorer == ScorerOpenAI && c.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY is required for the openai scorer")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("[Config] Invalid integer, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Int("default", defaultValue))
		return defaultValue
	}
	return v
}

func getFloat(key string, defaultValue float64) float64 {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		slog.Warn("[Config] Invalid float, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Float64("default", defaultValue))
		return defaultValue
	}
	return v
}
