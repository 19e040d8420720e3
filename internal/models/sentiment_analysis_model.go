package models

const (
	MOOD_POSITIVE = "positive"
	MOOD_NEUTRAL  = "neutral"
	MOOD_NEGATIVE = "negative"
)

type Mood struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
