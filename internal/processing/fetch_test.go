package processing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/spacesedan/reddigest/internal/models"
	"github.com/stretchr/testify/require"
)

type fakeReddit struct {
	posts       map[string][]models.Post
	postErrs    map[string]error
	comments    map[string][]models.Comment
	commentErrs map[string]error
	calls       []string
}

func (f *fakeReddit) TopPosts(_ context.Context, subreddit string, limit int) ([]models.Post, error) {
	f.calls = append(f.calls, "posts:"+subreddit)
	if err := f.postErrs[subreddit]; err != nil {
		return nil, err
	}
	posts := append([]models.Post(nil), f.posts[subreddit]...)
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (f *fakeReddit) TopComments(_ context.Context, postID string, limit int) ([]models.Comment, error) {
	f.calls = append(f.calls, "comments:"+postID)
	if err := f.commentErrs[postID]; err != nil {
		return nil, err
	}
	comments := f.comments[postID]
	if len(comments) > limit {
		comments = comments[:limit]
	}
	return comments, nil
}

func newTestFetcher(api RedditAPI) *Fetcher {
	f := NewFetcher(api)
	f.Now = func() time.Time { return time.Date(2025, 2, 11, 8, 0, 0, 0, time.UTC) }
	return f
}

func TestFetchDigestKeepsOrderAndSkipsFailures(t *testing.T) {
	api := &fakeReddit{
		posts: map[string][]models.Post{
			"rust":   {{ID: "r1", Title: "Rust post"}},
			"golang": {{ID: "g1", Title: "Go post"}, {ID: "g2", Title: "Another"}},
			"empty":  {},
		},
		postErrs: map[string]error{"broken": errors.New("503 Service Unavailable")},
		comments: map[string][]models.Comment{
			"g1": {{Author: "a", Body: "first"}},
			"r1": {{Author: "b", Body: "second"}},
		},
		commentErrs: map[string]error{"g2": errors.New("timeout")},
	}

	digest := newTestFetcher(api).FetchDigest(context.Background(), []string{"rust", " ", "broken", "empty", " golang "})

	require.Len(t, digest.Communities, 2)
	require.Equal(t, "rust", digest.Communities[0].Name)
	require.Equal(t, "golang", digest.Communities[1].Name)
	require.Equal(t, 3, digest.PostCount())
	require.Equal(t, time.Date(2025, 2, 11, 8, 0, 0, 0, time.UTC), digest.GeneratedAt)

	golang := digest.Communities[1].Posts
	require.Len(t, golang[0].Comments, 1)
	require.NotNil(t, golang[1].Comments)
	require.Empty(t, golang[1].Comments)

	require.Equal(t, []string{
		"posts:rust", "comments:r1",
		"posts:broken",
		"posts:empty",
		"posts:golang", "comments:g1", "comments:g2",
	}, api.calls)
}

func TestFetchDigestLimits(t *testing.T) {
	api := &fakeReddit{posts: map[string][]models.Post{}, comments: map[string][]models.Comment{}}
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("p%d", i)
		api.posts["golang"] = append(api.posts["golang"], models.Post{ID: id})
		for j := 0; j < 10; j++ {
			api.comments[id] = append(api.comments[id], models.Comment{Body: fmt.Sprint(j)})
		}
	}

	f := newTestFetcher(api)
	f.MaxPosts = 3
	f.MaxComments = 2
	digest := f.FetchDigest(context.Background(), []string{"golang"})

	require.Len(t, digest.Communities[0].Posts, 3)
	for _, p := range digest.Communities[0].Posts {
		require.Len(t, p.Comments, 2)
	}
}

func TestFetchDigestCanceled(t *testing.T) {
	api := &fakeReddit{posts: map[string][]models.Post{"golang": {{ID: "g1"}}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	digest := newTestFetcher(api).FetchDigest(ctx, []string{"golang"})
	require.True(t, digest.Empty())
	require.Empty(t, api.calls)
}

func TestFetchDigestZeroValueFetcher(t *testing.T) {
	api := &fakeReddit{
		posts:       map[string][]models.Post{"golang": {{ID: "g1"}}, "rust": {{ID: "r1"}}},
		commentErrs: map[string]error{"r1": errors.New("boom")},
	}
	f := &Fetcher{API: api, MaxPosts: 1, MaxComments: 1}

	var digest models.Digest
	require.NotPanics(t, func() {
		digest = f.FetchDigest(context.Background(), []string{"golang", "rust", "missing"})
	})
	require.Len(t, digest.Communities, 2)
	require.False(t, digest.GeneratedAt.IsZero())
	require.Empty(t, digest.Communities[1].Posts[0].Comments)
}
