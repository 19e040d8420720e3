package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "reddit_digest"

// PrometheusRecorder implements Recorder on a private registry that is dumped
// to a node-exporter textfile at the end of a run.
type PrometheusRecorder struct {
	registry       *prom.Registry
	postsFetched   *prom.CounterVec
	commentsFetch  prom.Counter
	fetchFailures  *prom.CounterVec
	webhookPosts   *prom.CounterVec
	streamMessages *prom.CounterVec
	runDuration    prom.Gauge
	lastRun        prom.Gauge
}

func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		postsFetched: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "posts_fetched_total",
			Help:      "Posts fetched per subreddit",
		}, []string{"subreddit"}),
		commentsFetch: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "comments_fetched_total",
			Help:      "Comments fetched across all posts",
		}),
		fetchFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Skipped items by pipeline stage",
		}, []string{"stage"}),
		webhookPosts: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_posts_total",
			Help:      "Chat webhook posts by result",
		}, []string{"result"}),
		streamMessages: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stream_messages_total",
			Help:      "Kafka messages produced by result",
		}, []string{"result"}),
		runDuration: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last digest run",
		}),
		lastRun: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last digest run finished",
		}),
	}
	reg.MustRegister(pr.postsFetched, pr.commentsFetch, pr.fetchFailures, pr.webhookPosts,
		pr.streamMessages, pr.runDuration, pr.lastRun)
	return pr
}

func (pr *PrometheusRecorder) AddPostsFetched(subreddit string, n int) {
	pr.postsFetched.WithLabelValues(subreddit).Add(float64(n))
}

func (pr *PrometheusRecorder) AddCommentsFetched(n int) {
	pr.commentsFetch.Add(float64(n))
}

func (pr *PrometheusRecorder) IncFetchFailure(stage string) {
	pr.fetchFailures.WithLabelValues(stage).Inc()
}

func (pr *PrometheusRecorder) IncWebhookPost(success bool) {
	pr.webhookPosts.WithLabelValues(resultLabel(success)).Inc()
}

func (pr *PrometheusRecorder) IncStreamMessage(success bool) {
	pr.streamMessages.WithLabelValues(resultLabel(success)).Inc()
}

func (pr *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	pr.runDuration.Set(d.Seconds())
}

func (pr *PrometheusRecorder) SetLastRun(t time.Time) {
	pr.lastRun.Set(float64(t.Unix()))
}

// WriteTextfile writes every registered metric in the text exposition format.
func (pr *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, pr.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
