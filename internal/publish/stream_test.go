package publish

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/spacesedan/reddigest/internal/models"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	topics    []string
	keys      []string
	values    [][]byte
	failKey   string
	remaining int
}

func (f *fakeProducer) Produce(topic string, key, value []byte) error {
	if string(key) == f.failKey {
		return errors.New("queue full")
	}
	f.topics = append(f.topics, topic)
	f.keys = append(f.keys, string(key))
	f.values = append(f.values, value)
	return nil
}

func (f *fakeProducer) Flush(int) int { return f.remaining }

func streamDigest() models.Digest {
	return models.Digest{
		GeneratedAt: time.Date(2025, 2, 11, 8, 0, 0, 0, time.UTC),
		Communities: []models.CommunityDigest{
			{Name: "golang", Summary: "busy day", Posts: []models.Post{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}},
			{Name: "rust", Posts: []models.Post{{ID: "c", Title: "C"}}},
		},
	}
}

func TestStreamPublisher(t *testing.T) {
	fp := &fakeProducer{failKey: "b"}
	sp := &StreamPublisher{Producer: fp}

	require.NoError(t, sp.Publish(context.Background(), streamDigest()))
	require.Equal(t, []string{"a", "c"}, fp.keys)
	require.Equal(t, []string{DEFAULT_STREAM_TOPIC, DEFAULT_STREAM_TOPIC}, fp.topics)

	var rec struct {
		GeneratedAt string      `json:"generated_at"`
		Summary     string      `json:"community_summary"`
		Post        models.Post `json:"post"`
	}
	require.NoError(t, json.Unmarshal(fp.values[0], &rec))
	require.Equal(t, "2025-02-11T08:00:00Z", rec.GeneratedAt)
	require.Equal(t, "busy day", rec.Summary)
	require.Equal(t, "A", rec.Post.Title)
}

func TestStreamPublisherUndelivered(t *testing.T) {
	sp := &StreamPublisher{Producer: &fakeProducer{remaining: 2}, Topic: "digest"}
	require.Error(t, sp.Publish(context.Background(), streamDigest()))
}
