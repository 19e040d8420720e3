package metrics

import "time"

// Stage names used for fetch failure counters.
const (
	StagePosts    = "posts"
	StageComments = "comments"
	StageSummary  = "summary"
)

// Recorder collects counters for one digest run. The NoopRecorder is used when
// no metrics output is configured.
type Recorder interface {
	AddPostsFetched(subreddit string, n int)
	AddCommentsFetched(n int)
	IncFetchFailure(stage string)
	IncWebhookPost(success bool)
	IncStreamMessage(success bool)
	ObserveRunDuration(d time.Duration)
	SetLastRun(t time.Time)
}

type NoopRecorder struct{}

func (NoopRecorder) AddPostsFetched(string, int) {}
func (NoopRecorder) AddCommentsFetched(int) {}
func (NoopRecorder) IncFetchFailure(string) {}
func (NoopRecorder) IncWebhookPost(bool) {}
func (NoopRecorder) IncStreamMessage(bool) {}
func (NoopRecorder) ObserveRunDuration(time.Duration) {}
func (NoopRecorder) SetLastRun(time.Time) {}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
