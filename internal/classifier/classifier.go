// Package classifier turns sentiment scores into one of two labels using a
// single cutoff.
package classifier

const DefaultThreshold = 0.6

type Classifier struct {
	threshold float64
	labels    LabelSet
}

type Option func(*Classifier)

func WithThreshold(threshold float64) Option {
	return func(c *Classifier) {
		c.threshold = threshold
	}
}

func WithLabels(labels LabelSet) Option {
	return func(c *Classifier) {
		c.labels = labels
	}
}

func New(opts ...Option) *Classifier {
	c := &Classifier{
		threshold: DefaultThreshold,
		labels:    Polarity,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Classifier) Threshold() float64 { return c.threshold }

func (c *Classifier) Labels() LabelSet { return c.labels }

// Classify returns the positive label only when score is strictly greater
// than the threshold. Scores outside [0, 1] are compared as-is. NaN never
// compares greater, so it always gets the negative label.
func (c *Classifier) Classify(score float64) string {
	if score > c.threshold {
		return c.labels.Positive
	}
	return c.labels.Negative
}

// ClassifyAll labels each score, keeping order and length.
func (c *Classifier) ClassifyAll(scores []float64) []string {
	labels := make([]string, len(scores))
	for i, score := range scores {
		labels[i] = c.Classify(score)
	}
	return labels
}
