package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spacesedan/getsentiment/config"
	"github.com/spacesedan/getsentiment/internal/classifier"
	"github.com/spacesedan/getsentiment/internal/clients"
	"github.com/spacesedan/getsentiment/internal/clients/kafka_client"
	"github.com/spacesedan/getsentiment/internal/dataset"
	"github.com/spacesedan/getsentiment/internal/db"
	"github.com/spacesedan/getsentiment/internal/pipeline"
	"github.com/spacesedan/getsentiment/internal/sentiment"
	"github.com/urfave/cli/v3"
)

const (
	flagScorer    = "scorer"
	flagThreshold = "threshold"
	flagLabels    = "labels"
	flagExample   = "example"
	flagStdin     = "stdin"
	flagCache     = "cache"
	flagStore     = "store"
	flagPublish   = "publish"
)

// scorerFactory is swapped in tests to avoid real backends.
var scorerFactory = sentiment.NewScorer

func newCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:      "getsentiment",
		Usage:     "Score texts for sentiment and label them with a threshold",
		ArgsUsage: "[text...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagScorer,
				Usage: "Sentiment scorer [vader, huggingface, hugot, openai]",
				Value: cfg.Scorer,
			},
			&cli.FloatFlag{
				Name:  flagThreshold,
				Usage: "Scores strictly above this value get the positive label",
				Value: cfg.Threshold,
			},
			&cli.StringFlag{
				Name:  flagLabels,
				Usage: "Label scheme [" + strings.Join(classifier.SchemeNames(), ", ") + "]",
			},
			&cli.StringFlag{
				Name:  flagExample,
				Usage: "Built-in table to score when no texts are given [" + strings.Join(dataset.ExampleNames(), ", ") + "]",
				Value: dataset.ExampleSupport,
			},
			&cli.BoolFlag{
				Name:  flagStdin,
				Usage: "Read one text per line from stdin",
			},
			&cli.BoolFlag{
				Name:  flagCache,
				Usage: "Cache scores in Valkey",
				Value: cfg.Cache,
			},
			&cli.BoolFlag{
				Name:  flagStore,
				Usage: "Store results in DynamoDB",
			},
			&cli.BoolFlag{
				Name:  flagPublish,
				Usage: "Publish results to Kafka",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cfg, cmd)
		},
	}
}

func run(ctx context.Context, cfg config.Config, cmd *cli.Command) error {
	cfg.Scorer = cmd.String(flagScorer)
	cfg.Threshold = cmd.Float(flagThreshold)
	cfg.Cache = cmd.Bool(flagCache)

	table, scheme, err := loadTable(cmd)
	if err != nil {
		return err
	}
	// --labels, then SENTIMENT_LABELS, then the scheme the table came with.
	if cmd.IsSet(flagLabels) {
		cfg.Labels = cmd.String(flagLabels)
	}
	if cfg.Labels == "" {
		cfg.Labels = scheme
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	labels, err := classifier.LookupScheme(cfg.Labels)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr)
	}

	scorer, cleanup, err := scorerFactory(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Scorer == config.ScorerHuggingFace {
		preflight(ctx, cfg)
	}

	if cfg.Cache {
		vc, err := clients.NewValkeyClient(ctx, clients.ValkeyOptions{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			TLS:      cfg.ValkeyTLS,
		})
		if err != nil {
			return err
		}
		defer vc.Close()
		scorer = sentiment.NewCachedScorer(scorer, vc, cfg.ScoreCacheTTL)
	}

	var sinks []pipeline.Sink
	if cmd.Bool(flagStore) {
		awsCfg, err := clients.LoadAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return err
		}
		sinks = append(sinks, db.NewResultStore(clients.NewDynamoDBClient(awsCfg, cfg.AWSEndpoint), cfg.ResultsTable))
	}
	if cmd.Bool(flagPublish) {
		publisher, err := kafka_client.NewResultPublisher(kafka_client.NewKafkaConfig(cfg.KafkaBroker, cfg.KafkaResultsTopic))
		if err != nil {
			return err
		}
		defer publisher.Close()
		sinks = append(sinks, publisher)
	}

	c := classifier.New(classifier.WithThreshold(cfg.Threshold), classifier.WithLabels(labels))
	runErr := pipeline.New(scorer, c, sinks...).Run(ctx, table)

	// Labeled rows are printed even when a sink failed.
	if table.Len() > 0 && table.Rows[0].Scored {
		if err := table.Print(cmd.Root().Writer); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

// loadTable picks the input: positional texts, then stdin, then a built-in
// example.
func loadTable(cmd *cli.Command) (*dataset.Table, string, error) {
	if args := cmd.Args().Slice(); len(args) > 0 {
		return dataset.NewTable("Text", "Sentiment", args), classifier.SchemePolarity, nil
	}

	if cmd.Bool(flagStdin) {
		texts, err := readLines(cmd.Root().Reader)
		if err != nil {
			return nil, "", err
		}
		if len(texts) == 0 {
			return nil, "", errors.New("no texts on stdin")
		}
		return dataset.NewTable("Text", "Sentiment", texts), classifier.SchemePolarity, nil
	}

	return dataset.Example(cmd.String(flagExample))
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return lines, nil
}

func preflight(ctx context.Context, cfg config.Config) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if !clients.NewHuggingFaceClient(cfg.HFSentimentEndpoint, cfg.Env).AnalyzerHealthCheck(ctx) {
		slog.Warn("[HealthCheck] Analyzer is unhealthy, scoring may fail",
			slog.String("endpoint", cfg.HFSentimentEndpoint))
	}
}

// serveMetrics blocks until ctx is done or the listener fails.
func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("[Metrics] Graceful shutdown failed", slog.String("error", err.Error()))
		}
	}()

	slog.Info("[Metrics] Serving metrics", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("[Metrics] Metrics server stopped",
			slog.String("error", err.Error()))
	}
}
