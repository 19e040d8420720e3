package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spacesedan/reddigest/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

type RedditOptions struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	// AuthURL and APIURL default to the public Reddit endpoints.
	AuthURL string
	APIURL  string
}

// RedditClient is a read-only application-only Reddit API client.
type RedditClient struct {
	Config    *clientcredentials.Config
	Client    *http.Client
	apiURL    string
	userAgent string
}

func NewRedditClient(opts RedditOptions) *RedditClient {
	if opts.AuthURL == "" {
		opts.AuthURL = REDDIT_AUTH_URL
	}
	if opts.APIURL == "" {
		opts.APIURL = REDDIT_API_URL
	}

	oauthConf := &clientcredentials.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		TokenURL:     opts.AuthURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	// The token endpoint rejects requests without a descriptive user agent.
	base := &http.Client{
		Timeout:   HTTP_CLIENT_TIMEOUT,
		Transport: &userAgentTransport{userAgent: opts.UserAgent, next: http.DefaultTransport},
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := oauthConf.Client(ctx)
	client.Timeout = HTTP_CLIENT_TIMEOUT

	return &RedditClient{
		Config:    oauthConf,
		Client:    client,
		apiURL:    strings.TrimRight(opts.APIURL, "/"),
		userAgent: opts.UserAgent,
	}
}

// TopPosts returns the top posts of the day for a subreddit.
func (rc *RedditClient) TopPosts(ctx context.Context, subreddit string, limit int) ([]models.Post, error) {
	if limit <= 0 {
		return []models.Post{}, nil
	}
	query := url.Values{}
	query.Set("t", REDDIT_TIME_FILTER)
	query.Set("limit", strconv.Itoa(limit))
	query.Set("raw_json", "1")

	var listing models.RedditListing
	endpoint := fmt.Sprintf("%s/r/%s/top?%s", rc.apiURL, url.PathEscape(subreddit), query.Encode())
	if err := rc.getJSON(ctx, endpoint, &listing); err != nil {
		return nil, fmt.Errorf("[RedditClient] fetch top posts for r/%s: %w", subreddit, err)
	}

	posts := make([]models.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		posts = append(posts, toPost(child.Data, subreddit))
		if len(posts) == limit {
			break
		}
	}
	return posts, nil
}

// TopComments returns the highest ranked top-level comments of a post.
// Collapsed "more" stubs are never expanded.
func (rc *RedditClient) TopComments(ctx context.Context, postID string, limit int) ([]models.Comment, error) {
	if limit <= 0 {
		return []models.Comment{}, nil
	}
	query := url.Values{}
	query.Set("sort", "top")
	query.Set("limit", strconv.Itoa(limit))
	query.Set("depth", "1")
	query.Set("raw_json", "1")

	// The comments endpoint answers with two listings: the post, then its replies.
	var listings []models.RedditListing
	endpoint := fmt.Sprintf("%s/comments/%s?%s", rc.apiURL, url.PathEscape(postID), query.Encode())
	if err := rc.getJSON(ctx, endpoint, &listings); err != nil {
		return nil, fmt.Errorf("[RedditClient] fetch comments for post %s: %w", postID, err)
	}
	if len(listings) < 2 {
		return nil, fmt.Errorf("[RedditClient] unexpected comments response for post %s: %d listings", postID, len(listings))
	}

	comments := make([]models.Comment, 0, limit)
	for _, child := range listings[1].Data.Children {
		if len(comments) == limit {
			break
		}
		if child.Kind != "t1" {
			continue
		}
		comments = append(comments, models.Comment{
			Author: authorOrDeleted(child.Data.Author),
			Body:   child.Data.Body,
			Score:  child.Data.Score,
		})
	}
	return comments, nil
}

func (rc *RedditClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", rc.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := rc.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	slog.Debug("[RedditClient] Request complete",
		slog.String("endpoint", req.URL.Path),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

func toPost(d models.RedditThingData, fallbackSubreddit string) models.Post {
	subreddit := d.Subreddit
	if subreddit == "" {
		subreddit = fallbackSubreddit
	}
	return models.Post{
		ID:          d.ID,
		Subreddit:   subreddit,
		Title:       d.Title,
		Author:      authorOrDeleted(d.Author),
		Score:       d.Score,
		URL:         REDDIT_PERMALINK + d.Permalink,
		Selftext:    d.Selftext,
		LinkURL:     d.URL,
		IsSelf:      d.IsSelf,
		CreatedAt:   time.Unix(int64(d.CreatedUTC), 0).UTC(),
		NumComments: d.NumComments,
		UpvoteRatio: d.UpvoteRatio,
	}
}

func authorOrDeleted(author string) string {
	if author == "" {
		return models.DELETED_AUTHOR
	}
	return author
}

type userAgentTransport struct {
	userAgent string
	next      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent == "" || req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(r)
}
