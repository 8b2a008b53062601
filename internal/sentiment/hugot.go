package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

type textClassifier interface {
	RunPipeline(inputs []string) (*pipelines.TextClassificationOutput, error)
}

// HugotScorer runs a local ONNX text-classification model. The score is the
// probability of the positive class.
type HugotScorer struct {
	session   *hugot.Session
	pipeline  textClassifier
	batchSize int
}

// NewHugotScorer loads modelName from modelDir, downloading it from the
// Hugging Face hub first when it is not on disk. The ONNX Runtime shared
// library must be installed where hugot looks for it.
func NewHugotScorer(modelDir, modelName string, batchSize int) (*HugotScorer, error) {
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("[HugotScorer] failed to create model directory: %w", err)
	}

	modelPath := filepath.Join(modelDir, strings.ReplaceAll(modelName, "/", "_"))
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		slog.Info("[HugotScorer] Model not found, downloading...",
			slog.String("model", modelName))
		modelPath, err = hugot.DownloadModel(modelName, modelDir, hugot.NewDownloadOptions())
		if err != nil {
			return nil, fmt.Errorf("[HugotScorer] failed to download model %s: %w", modelName, err)
		}
		slog.Info("[HugotScorer] Model downloaded successfully", slog.String("path", modelPath))
	} else {
		slog.Info("[HugotScorer] Using existing model", slog.String("path", modelPath))
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("[HugotScorer] failed to initialize session: %w", err)
	}

	pipeline, err := hugot.NewPipeline(session, hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "sentimentPipeline",
	})
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("[HugotScorer] failed to initialize pipeline: %w", err)
	}

	return &HugotScorer{session: session, pipeline: pipeline, batchSize: batchSize}, nil
}

func (h *HugotScorer) Name() string { return "hugot" }

// Score runs batches sequentially; the ONNX session is not shared across
// goroutines.
func (h *HugotScorer) Score(ctx context.Context, texts []string) ([]float64, error) {
	return ScoreBatches(ctx, texts, h.batchSize, 1, func(ctx context.Context, batch []string) ([]float64, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		output, err := h.pipeline.RunPipeline(batch)
		if err != nil {
			return nil, fmt.Errorf("[HugotScorer] pipeline failed: %w", err)
		}

		scores := make([]float64, len(output.ClassificationOutputs))
		for i, classes := range output.ClassificationOutputs {
			scores[i] = positiveProbability(classes)
		}
		return scores, nil
	})
}

func (h *HugotScorer) Close() error {
	if h.session == nil {
		return nil
	}
	return h.session.Destroy()
}

// positiveProbability reads P(positive) from a classification result. When
// only the negative class is reported its complement is used.
func positiveProbability(classes []pipelines.ClassificationOutput) float64 {
	for _, c := range classes {
		if isPositiveLabel(c.Label) {
			return float64(c.Score)
		}
	}
	for _, c := range classes {
		if isNegativeLabel(c.Label) {
			return 1 - float64(c.Score)
		}
	}
	return 0.5
}

func isPositiveLabel(label string) bool {
	switch strings.ToUpper(label) {
	case "POSITIVE", "POS", "LABEL_1":
		return true
	}
	return false
}

func isNegativeLabel(label string) bool {
	switch strings.ToUpper(label) {
	case "NEGATIVE", "NEG", "LABEL_0":
		return true
	}
	return false
}
