package dataset

import (
	"fmt"
	"sort"

	"github.com/spacesedan/getsentiment/internal/classifier"
)

const (
	ExampleSupport = "support"
	ExampleReviews = "reviews"
)

type example struct {
	textColumn  string
	labelColumn string
	scheme      string
	texts       []string
}

var examples = map[string]example{
	ExampleSupport: {
		textColumn:  "Text",
		labelColumn: "Sentiment",
		scheme:      classifier.SchemePolarity,
		texts: []string{
			"How many times do I have try this?.",
			"Bottom line is that it works on ML but not on SQL.",
		},
	},
	ExampleReviews: {
		textColumn:  "review",
		labelColumn: "eval",
		scheme:      classifier.SchemeAwesomeness,
		texts: []string{
			"I really did not like the taste of it",
			"It was surprisingly quite good!",
			"I will never ever ever go to that place again!!",
		},
	},
}

// Example returns a fresh copy of a built-in table and the name of the
// label scheme it is printed with.
func Example(name string) (*Table, string, error) {
	ex, ok := examples[name]
	if !ok {
		return nil, "", fmt.Errorf("unknown example %q", name)
	}
	return NewTable(ex.textColumn, ex.labelColumn, ex.texts), ex.scheme, nil
}

func ExampleNames() []string {
	names := make([]string, 0, len(examples))
	for name := range examples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
