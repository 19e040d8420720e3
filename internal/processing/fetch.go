package processing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/reddigest/internal/metrics"
	"github.com/spacesedan/reddigest/internal/models"
)

const (
	DEFAULT_MAX_POSTS     = 5
	DEFAULT_MAX_COMMENTS  = 5
	logTitlePreviewLength = 50
)

// RedditAPI is the subset of the Reddit client the fetcher needs.
type RedditAPI interface {
	TopPosts(ctx context.Context, subreddit string, limit int) ([]models.Post, error)
	TopComments(ctx context.Context, postID string, limit int) ([]models.Comment, error)
}

type Fetcher struct {
	API         RedditAPI
	MaxPosts    int
	MaxComments int
	// Delay is slept between comment fetches, and twice as long between
	// communities.
	Delay    time.Duration
	Recorder metrics.Recorder
	Now      func() time.Time
}

func NewFetcher(api RedditAPI) *Fetcher {
	return &Fetcher{
		API:         api,
		MaxPosts:    DEFAULT_MAX_POSTS,
		MaxComments: DEFAULT_MAX_COMMENTS,
		Recorder:    metrics.NoopRecorder{},
		Now:         time.Now,
	}
}

// FetchDigest collects the top posts and comments of every community, in the
// order given. A community whose fetch fails or returns nothing is left out; a
// post whose comments cannot be fetched keeps an empty comment list.
func (f *Fetcher) FetchDigest(ctx context.Context, subreddits []string) models.Digest {
	now := f.Now
	if now == nil {
		now = time.Now
	}
	digest := models.Digest{GeneratedAt: now()}

	for i, subreddit := range subreddits {
		subreddit = strings.TrimSpace(subreddit)
		if subreddit == "" {
			continue
		}
		if ctx.Err() != nil {
			slog.Warn("[Fetcher] context canceled, stopping fetch",
				slog.String("subreddit", subreddit))
			break
		}
		if i > 0 {
			f.sleep(ctx, 2*f.Delay)
		}

		slog.Info("[Fetcher] Fetching posts", slog.String("subreddit", subreddit))
		posts, err := f.API.TopPosts(ctx, subreddit, f.MaxPosts)
		if err != nil {
			f.recorder().IncFetchFailure(metrics.StagePosts)
			slog.Error("[Fetcher] Failed to fetch posts, skipping subreddit",
				slog.String("subreddit", subreddit),
				slog.String("error", err.Error()))
			continue
		}
		if len(posts) == 0 {
			slog.Warn("[Fetcher] No posts found, skipping subreddit",
				slog.String("subreddit", subreddit))
			continue
		}

		for j := range posts {
			if j > 0 {
				f.sleep(ctx, f.Delay)
			}
			posts[j].Comments = f.fetchComments(ctx, posts[j])
		}

		f.recorder().AddPostsFetched(subreddit, len(posts))
		digest.Communities = append(digest.Communities, models.CommunityDigest{
			Name:  subreddit,
			Posts: posts,
		})
		slog.Info("[Fetcher] Fetched subreddit",
			slog.String("subreddit", subreddit),
			slog.Int("posts", len(posts)))
	}

	return digest
}

func (f *Fetcher) fetchComments(ctx context.Context, post models.Post) []models.Comment {
	slog.Debug("[Fetcher] Fetching comments",
		slog.String("post_id", post.ID),
		slog.String("title", preview(post.Title, logTitlePreviewLength)))

	comments, err := f.API.TopComments(ctx, post.ID, f.MaxComments)
	if err != nil {
		f.recorder().IncFetchFailure(metrics.StageComments)
		slog.Warn("[Fetcher] Failed to fetch comments",
			slog.String("post_id", post.ID),
			slog.String("error", err.Error()))
		return []models.Comment{}
	}
	f.recorder().AddCommentsFetched(len(comments))
	return comments
}

func (f *Fetcher) recorder() metrics.Recorder {
	if f.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return f.Recorder
}

func (f *Fetcher) sleep(ctx context.Context, d time.Duration) {
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

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
