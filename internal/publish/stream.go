package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spacesedan/reddigest/internal/metrics"
	"github.com/spacesedan/reddigest/internal/models"
)

const (
	DEFAULT_STREAM_TOPIC = "reddit-digest"
	flushTimeoutMs       = 5000
)

type MessageProducer interface {
	Produce(topic string, key, value []byte) error
	Flush(timeoutMs int) int
}

// StreamPublisher emits every digest post as a JSON record keyed by post ID.
type StreamPublisher struct {
	Producer MessageProducer
	Topic    string
	Recorder metrics.Recorder
}

type streamRecord struct {
	GeneratedAt string      `json:"generated_at"`
	Summary     string      `json:"community_summary,omitempty"`
	Post        models.Post `json:"post"`
}

func (sp *StreamPublisher) Publish(ctx context.Context, digest models.Digest) error {
	recorder := sp.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	topic := sp.Topic
	if topic == "" {
		topic = DEFAULT_STREAM_TOPIC
	}

	produced := 0
	for _, community := range digest.Communities {
		for _, post := range community.Posts {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			value, err := json.Marshal(streamRecord{
				GeneratedAt: digest.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
				Summary:     community.Summary,
				Post:        post,
			})
			if err == nil {
				err = sp.Producer.Produce(topic, []byte(post.ID), value)
			}
			recorder.IncStreamMessage(err == nil)
			if err != nil {
				slog.Warn("[StreamPublisher] Failed to publish post",
					slog.String("post_id", post.ID),
					slog.String("subreddit", community.Name),
					slog.String("error", err.Error()))
				continue
			}
			produced++
		}
	}

	if remaining := sp.Producer.Flush(flushTimeoutMs); remaining > 0 {
		return fmt.Errorf("[StreamPublisher] %d messages were not delivered before timeout", remaining)
	}
	slog.Info("[StreamPublisher] Published digest posts",
		slog.String("topic", topic),
		slog.Int("messages", produced))
	return nil
}
