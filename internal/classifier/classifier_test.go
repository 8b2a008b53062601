package classifier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		score  float64
		labels LabelSet
		want   string
	}{
		{"above threshold", 0.75, Polarity, "Positive"},
		{"above threshold awesomeness", 0.75, Awesomeness, "AWESOMENESS"},
		{"at threshold", 0.6, Polarity, "Negative"},
		{"at threshold awesomeness", 0.6, Awesomeness, "BLAH"},
		{"zero", 0.0, Polarity, "Negative"},
		{"zero awesomeness", 0.0, Awesomeness, "BLAH"},
		{"just above", 0.6000001, Polarity, "Positive"},
		{"one", 1.0, Polarity, "Positive"},
		{"above range", 1.7, Polarity, "Positive"},
		{"below range", -3.2, Polarity, "Negative"},
		{"positive infinity", math.Inf(1), Polarity, "Positive"},
		{"negative infinity", math.Inf(-1), Polarity, "Negative"},
		{"nan", math.NaN(), Polarity, "Negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(WithLabels(tt.labels))
			assert.Equal(t, tt.want, c.Classify(tt.score))
		})
	}
}

func TestClassifyThresholdProperty(t *testing.T) {
	c := New()
	for i := 0; i <= 1000; i++ {
		s := float64(i) / 1000
		if s > DefaultThreshold {
			assert.Equal(t, Polarity.Positive, c.Classify(s), "score %v", s)
		} else {
			assert.Equal(t, Polarity.Negative, c.Classify(s), "score %v", s)
		}
	}
}

func TestClassifyCustomThreshold(t *testing.T) {
	c := New(WithThreshold(0.2))

	assert.Equal(t, 0.2, c.Threshold())
	assert.Equal(t, "Positive", c.Classify(0.3))
	assert.Equal(t, "Negative", c.Classify(0.2))
}

func TestClassifyAll(t *testing.T) {
	c := New()

	got := c.ClassifyAll([]float64{0.9, 0.3, 0.61})
	assert.Equal(t, []string{"Positive", "Negative", "Positive"}, got)

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, c.ClassifyAll(nil))
		assert.NotNil(t, c.ClassifyAll(nil))
	})

	t.Run("matches single application", func(t *testing.T) {
		scores := []float64{0.1, 0.6, 0.61, 2, -1, 0.59}
		labels := c.ClassifyAll(scores)
		require.Len(t, labels, len(scores))
		for i, s := range scores {
			assert.Equal(t, c.Classify(s), labels[i])
		}
	})
}

func TestLookupScheme(t *testing.T) {
	labels, err := LookupScheme(SchemeAwesomeness)
	require.NoError(t, err)
	assert.Equal(t, Awesomeness, labels)

	_, err = LookupScheme("sarcasm")
	assert.ErrorIs(t, err, ErrUnknownScheme)

	assert.Equal(t, []string{SchemeAwesomeness, SchemePolarity}, SchemeNames())
}

func TestNewDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, DefaultThreshold, c.Threshold())
	assert.Equal(t, Polarity, c.Labels())
}
