package sentiment

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]+>`)
)

func stripLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

func RemoveLinks(input string) string {
	return strings.Join(strings.Fields(stripLinks(input)), " ")
}

// ConvertMarkdownToText renders markdown and drops the resulting markup so
// only the readable words reach the analyzer.
func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(stripLinks(input)),
		blackfriday.WithNoExtensions(),
		blackfriday.WithRenderer(blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
			Flags: blackfriday.UseXHTML,
		})))
	plainText := html.UnescapeString(htmlTagPattern.ReplaceAllString(string(output), " "))

	return strings.Join(strings.Fields(plainText), " ")
}

// VADERScorer scores texts with the VADER lexicon. The compound polarity in
// [-1, 1] is rescaled to [0, 1] so 0.5 is neutral.
type VADERScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVADERScorer() *VADERScorer {
	return &VADERScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VADERScorer) Name() string { return "vader" }

func (v *VADERScorer) Score(ctx context.Context, texts []string) ([]float64, error) {
	scores := make([]float64, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scores[i] = v.ScoreText(text)
	}
	return scores, nil
}

func (v *VADERScorer) ScoreText(text string) float64 {
	compound := v.analyzer.PolarityScores(ConvertMarkdownToText(text)).Compound
	return (compound + 1) / 2
}
