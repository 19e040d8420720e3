package publish

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/spacesedan/reddigest/internal/models"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	url     string
	field   string
	content string
}

type recordingPoster struct {
	sent    []sentMessage
	failURL string
}

func (r *recordingPoster) PostMessage(_ context.Context, webhookURL, field, content string) error {
	if webhookURL == r.failURL {
		return errors.New("webhook returned 500")
	}
	r.sent = append(r.sent, sentMessage{url: webhookURL, field: field, content: content})
	return nil
}

func chatDigest() models.Digest {
	return models.Digest{
		GeneratedAt: time.Date(2025, 2, 11, 8, 0, 0, 0, time.UTC),
		Communities: []models.CommunityDigest{
			{Name: "golang", Posts: []models.Post{
				{Title: "Go 1.24", Author: "gopher", Score: 10, UpvoteRatio: 0.955, NumComments: 3,
					URL: "https://www.reddit.com/r/golang/comments/a/", LinkURL: "https://go.dev", IsSelf: false,
					Comments: []models.Comment{{Author: "rob", Body: "nice", Score: 4}}},
			}},
			{Name: "rust", Posts: []models.Post{
				{Title: "Borrow", Author: "crab", Selftext: "text", IsSelf: true, URL: "https://www.reddit.com/r/rust/comments/b/"},
			}},
		},
	}
}

func TestChatPublisherRoutesPerSubreddit(t *testing.T) {
	poster := &recordingPoster{}
	cp := NewChatPublisher(poster, "https://hooks/default", map[string]string{"rust": "https://hooks/rust"})

	result := cp.Publish(context.Background(), chatDigest())
	require.Equal(t, ChatResult{Sent: 6}, result)
	require.Len(t, poster.sent, 6)

	for _, m := range poster.sent[:3] {
		require.Equal(t, "https://hooks/default", m.url)
		require.Equal(t, "content", m.field)
	}
	for _, m := range poster.sent[3:] {
		require.Equal(t, "https://hooks/rust", m.url)
	}
	require.Equal(t, "📰 **r/golang Daily Digest - February 11, 2025**\n"+strings.Repeat("=", 50), poster.sent[0].content)
	require.Contains(t, poster.sent[2].content, "End of r/golang digest")
}

func TestChatPublisherSkipsUnroutedSubreddits(t *testing.T) {
	poster := &recordingPoster{}
	cp := NewChatPublisher(poster, "", map[string]string{"rust": "https://hooks/rust"})

	result := cp.Publish(context.Background(), chatDigest())
	require.Equal(t, 3, result.Sent)
	for _, m := range poster.sent {
		require.Equal(t, "https://hooks/rust", m.url)
	}
}

func TestChatPublisherNotConfigured(t *testing.T) {
	poster := &recordingPoster{}
	result := NewChatPublisher(poster, "", nil).Publish(context.Background(), chatDigest())
	require.Zero(t, result.Sent)
	require.Empty(t, poster.sent)
}

func TestChatPublisherContinuesAfterFailure(t *testing.T) {
	poster := &recordingPoster{failURL: "https://hooks/default"}
	cp := NewChatPublisher(poster, "https://hooks/default", map[string]string{"rust": "https://hooks/rust"})

	result := cp.Publish(context.Background(), chatDigest())
	require.Equal(t, 3, result.Failed)
	require.Equal(t, 3, result.Sent)
}

func TestChatPublisherSplitsLongMessages(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("a line of self text\n", 120))
	digest := models.Digest{Communities: []models.CommunityDigest{{
		Name:  "golang",
		Posts: []models.Post{{Title: "Long", Author: "a", Selftext: long, IsSelf: true}},
	}}}
	poster := &recordingPoster{}
	cp := NewChatPublisher(poster, "https://hooks/default", nil)
	cp.MessageLimit = 300
	cp.PayloadField = "text"

	cp.Publish(context.Background(), digest)
	require.Greater(t, len(poster.sent), 3)
	for _, m := range poster.sent {
		require.LessOrEqual(t, utf8.RuneCountInString(m.content), 300)
		require.Equal(t, "text", m.field)
	}
}

func TestFormatPost(t *testing.T) {
	post := models.Post{
		Title: "Title", Author: "someone", Score: 99, UpvoteRatio: 0.5, NumComments: 2,
		Selftext: strings.Repeat("s", 2000), IsSelf: true, URL: "https://www.reddit.com/r/x/comments/1/",
		Mood: &models.Mood{Label: models.MOOD_POSITIVE, Score: 0.6},
		Comments: []models.Comment{
			{Author: "c1", Body: strings.Repeat("b", 500), Score: 7},
			{Author: "c2", Body: "short", Score: 1},
		},
	}

	msg := FormatPost(2, post)
	require.True(t, strings.HasPrefix(msg, "\n**2. Title**\n👤 u/someone | ⬆️ 99 (50%) | 💬 2 comments | 🙂 positive\n"))
	require.Contains(t, msg, strings.Repeat("s", 1497)+"...\n")
	require.NotContains(t, msg, strings.Repeat("s", 1498))
	require.Contains(t, msg, "**💬 Top 2 Comments:**")
	require.Contains(t, msg, "`1.` **u/c1** (⬆️ 7)\n"+strings.Repeat("b", 397)+"...\n")
	require.Contains(t, msg, "**Reddit URL:** https://www.reddit.com/r/x/comments/1/")
	require.NotContains(t, msg, "**Link:**")
}

func TestFormatPostLink(t *testing.T) {
	msg := FormatPost(1, models.Post{Title: "T", LinkURL: "https://example.com/a", URL: "https://www.reddit.com/r/x/1"})
	require.Contains(t, msg, "**Link:** https://example.com/a")
	require.NotContains(t, msg, "Top 0 Comments")
}
