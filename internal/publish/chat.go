package publish

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/reddigest/internal/metrics"
	"github.com/spacesedan/reddigest/internal/models"
)

const (
	DEFAULT_MESSAGE_LIMIT = 1900
	DEFAULT_PAYLOAD_FIELD = "content"
	SELFTEXT_LIMIT        = 1500
	COMMENT_LIMIT         = 400
	digestDateLayout      = "January 02, 2006"
)

var (
	headerRule = strings.Repeat("=", 50)
	postRule   = strings.Repeat("─", 40)
	moodEmoji  = map[string]string{
		models.MOOD_POSITIVE: "🙂",
		models.MOOD_NEUTRAL:  "😐",
		models.MOOD_NEGATIVE: "🙁",
	}
)

// MessagePoster delivers one chat message to a webhook.
type MessagePoster interface {
	PostMessage(ctx context.Context, webhookURL, field, content string) error
}

type ChatPublisher struct {
	Poster            MessagePoster
	DefaultWebhookURL string
	SubredditWebhooks map[string]string
	PayloadField      string
	MessageLimit      int
	// Delay is slept between messages, and twice as long between communities.
	Delay    time.Duration
	Recorder metrics.Recorder
}

type ChatResult struct {
	Sent   int
	Failed int
}

func NewChatPublisher(poster MessagePoster, defaultWebhookURL string, subredditWebhooks map[string]string) *ChatPublisher {
	return &ChatPublisher{
		Poster:            poster,
		DefaultWebhookURL: defaultWebhookURL,
		SubredditWebhooks: subredditWebhooks,
		PayloadField:      DEFAULT_PAYLOAD_FIELD,
		MessageLimit:      DEFAULT_MESSAGE_LIMIT,
		Recorder:          metrics.NoopRecorder{},
	}
}

// Publish sends a header, one message per post and a footer for every
// community to its webhook. Failed posts are logged and skipped.
func (cp *ChatPublisher) Publish(ctx context.Context, digest models.Digest) ChatResult {
	var result ChatResult
	if cp.DefaultWebhookURL == "" && len(cp.SubredditWebhooks) == 0 {
		slog.Info("[ChatPublisher] Webhook URL not configured, skipping chat messages")
		return result
	}

	date := digest.GeneratedAt.Format(digestDateLayout)
	for i, community := range digest.Communities {
		if ctx.Err() != nil {
			slog.Warn("[ChatPublisher] context canceled, stopping")
			break
		}

		webhookURL, dedicated := cp.webhookFor(community.Name)
		if webhookURL == "" {
			slog.Warn("[ChatPublisher] No webhook configured for subreddit, skipping",
				slog.String("subreddit", community.Name))
			continue
		}
		if i > 0 {
			sleep(ctx, 2*cp.Delay)
		}
		slog.Info("[ChatPublisher] Sending subreddit digest",
			slog.String("subreddit", community.Name),
			slog.Bool("dedicated_channel", dedicated))

		messages := []string{FormatHeader(community, date)}
		for j, post := range community.Posts {
			messages = append(messages, FormatPost(j+1, post))
		}
		messages = append(messages, FormatFooter(community.Name))

		for _, msg := range messages {
			cp.send(ctx, webhookURL, community.Name, msg, &result)
		}
	}

	slog.Info("[ChatPublisher] Chat digest sent",
		slog.Int("sent", result.Sent),
		slog.Int("failed", result.Failed))
	return result
}

func (cp *ChatPublisher) webhookFor(subreddit string) (string, bool) {
	if url, ok := cp.SubredditWebhooks[subreddit]; ok && url != "" {
		return url, true
	}
	return cp.DefaultWebhookURL, false
}

func (cp *ChatPublisher) send(ctx context.Context, webhookURL, subreddit, msg string, result *ChatResult) {
	field := cp.PayloadField
	if field == "" {
		field = DEFAULT_PAYLOAD_FIELD
	}
	for _, chunk := range SplitMessage(msg, cp.MessageLimit) {
		err := cp.Poster.PostMessage(ctx, webhookURL, field, chunk)
		cp.recorder().IncWebhookPost(err == nil)
		if err != nil {
			result.Failed++
			slog.Error("[ChatPublisher] Failed to send message",
				slog.String("subreddit", subreddit),
				slog.String("error", err.Error()))
		} else {
			result.Sent++
		}
		sleep(ctx, cp.Delay)
	}
}

func (cp *ChatPublisher) recorder() metrics.Recorder {
	if cp.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return cp.Recorder
}

func FormatHeader(community models.CommunityDigest, date string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📰 **r/%s Daily Digest - %s**\n", community.Name, date)
	if community.Summary != "" {
		fmt.Fprintf(&b, "_%s_\n", community.Summary)
	}
	b.WriteString(headerRule)
	return b.String()
}

func FormatFooter(subreddit string) string {
	return fmt.Sprintf("\n%s\n✅ **End of r/%s digest**", headerRule, subreddit)
}

// FormatPost renders a post with its content, link and top comments.
func FormatPost(index int, post models.Post) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n**%d. %s**\n", index, post.Title)
	fmt.Fprintf(&b, "👤 u/%s | ⬆️ %d (%d%%) | 💬 %d comments", post.Author, post.Score, post.UpvotePercent(), post.NumComments)
	if post.Mood != nil {
		fmt.Fprintf(&b, " | %s %s", moodEmoji[post.Mood.Label], post.Mood.Label)
	}
	b.WriteString("\n\n")

	switch {
	case post.Selftext != "":
		fmt.Fprintf(&b, "**Post Content:**\n%s\n\n", truncate(post.Selftext, SELFTEXT_LIMIT))
	case !post.IsSelf && post.LinkURL != "":
		fmt.Fprintf(&b, "**Link:** %s\n\n", post.LinkURL)
	}

	fmt.Fprintf(&b, "**Reddit URL:** %s\n\n", post.URL)

	if len(post.Comments) > 0 {
		fmt.Fprintf(&b, "**💬 Top %d Comments:**\n", len(post.Comments))
		for i, comment := range post.Comments {
			fmt.Fprintf(&b, "\n`%d.` **u/%s** (⬆️ %d)\n%s\n", i+1, comment.Author, comment.Score, truncate(comment.Body, COMMENT_LIMIT))
		}
	}

	b.WriteString("\n")
	b.WriteString(postRule)
	return b.String()
}

// LogPoster stands in for the webhook client on dry runs.
type LogPoster struct{}

func (LogPoster) PostMessage(_ context.Context, _ string, field, content string) error {
	slog.Info("[ChatPublisher] Dry run, message not sent",
		slog.String("field", field),
		slog.Int("length", len([]rune(content))),
		slog.String("preview", truncate(content, 80)))
	return nil
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
