package classifier

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownScheme = errors.New("unknown label scheme")

type LabelSet struct {
	Positive string `json:"positive"`
	Negative string `json:"negative"`
}

const (
	SchemePolarity    = "polarity"
	SchemeAwesomeness = "awesomeness"
)

var (
	Polarity    = LabelSet{Positive: "Positive", Negative: "Negative"}
	Awesomeness = LabelSet{Positive: "AWESOMENESS", Negative: "BLAH"}
)

var schemes = map[string]LabelSet{
	SchemePolarity:    Polarity,
	SchemeAwesomeness: Awesomeness,
}

func LookupScheme(name string) (LabelSet, error) {
	labels, ok := schemes[name]
	if !ok {
		return LabelSet{}, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
	return labels, nil
}

func SchemeNames() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
