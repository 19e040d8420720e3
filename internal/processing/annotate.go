package processing

import (
	"context"
	"log/slog"

	"github.com/spacesedan/reddigest/internal/metrics"
	"github.com/spacesedan/reddigest/internal/models"
)

type MoodAnalyzer interface {
	Analyze(text string) models.Mood
}

type Summarizer interface {
	Summarize(ctx context.Context, community string, posts []models.Post) (string, error)
}

// Annotate attaches a Mood to every post and comment of the digest.
func Annotate(digest *models.Digest, analyzer MoodAnalyzer) {
	for i := range digest.Communities {
		posts := digest.Communities[i].Posts
		for j := range posts {
			mood := analyzer.Analyze(posts[j].Title + "\n\n" + posts[j].Selftext)
			posts[j].Mood = &mood
			for k := range posts[j].Comments {
				commentMood := analyzer.Analyze(posts[j].Comments[k].Body)
				posts[j].Comments[k].Mood = &commentMood
			}
		}
	}
}

// Summarize fills in a per-community summary. Failures leave the summary empty.
func Summarize(ctx context.Context, digest *models.Digest, summarizer Summarizer, recorder metrics.Recorder) {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	for i := range digest.Communities {
		community := &digest.Communities[i]
		summary, err := summarizer.Summarize(ctx, community.Name, community.Posts)
		if err != nil {
			recorder.IncFetchFailure(metrics.StageSummary)
			slog.Warn("[Summarizer] Failed to summarize subreddit, skipping",
				slog.String("subreddit", community.Name),
				slog.String("error", err.Error()))
			continue
		}
		community.Summary = summary
	}
}
