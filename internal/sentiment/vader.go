package sentiment

import (
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/reddigest/internal/models"
)

const (
	POSITIVE_THRESHOLD = 0.20
	NEGATIVE_THRESHOLD = -0.20
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Analyze scores the plain-text form of a markdown snippet.
func (a *Analyzer) Analyze(text string) models.Mood {
	plainText := ConvertMarkdownToText(text)
	score := a.vader.PolarityScores(plainText).Compound
	return models.Mood{Label: Label(score), Score: score}
}

func Label(score float64) string {
	switch {
	case score >= POSITIVE_THRESHOLD:
		return models.MOOD_POSITIVE
	case score <= NEGATIVE_THRESHOLD:
		return models.MOOD_NEGATIVE
	default:
		return models.MOOD_NEUTRAL
	}
}

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders markdown, drops the markup and links and
// collapses whitespace.
func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := html.UnescapeString(tagPattern.ReplaceAllString(string(output), " "))
	return strings.Join(strings.Fields(RemoveLinks(plainText)), " ")
}
