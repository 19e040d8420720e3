package publish

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spacesedan/reddigest/internal/models"
	"github.com/stretchr/testify/require"
)

func htmlDigest() models.Digest {
	return models.Digest{
		GeneratedAt: time.Date(2025, 2, 11, 8, 30, 0, 0, time.UTC),
		Communities: []models.CommunityDigest{
			{Name: "zeta", Summary: "Summary <b>bold</b>", Posts: []models.Post{{
				Title:    `<script>alert("x")</script>`,
				Author:   "mal&lory",
				Selftext: "body with <img src=x onerror=alert(1)>",
				IsSelf:   true,
				URL:      "https://www.reddit.com/r/zeta/comments/1/",
				Comments: []models.Comment{{Author: "<eve>", Body: "</div><h1>pwned</h1>", Score: 3}},
				Mood:     &models.Mood{Label: models.MOOD_NEGATIVE, Score: -0.4},
			}}},
			{Name: "alpha", Posts: []models.Post{{
				Title:   "Link post",
				Author:  "bob",
				LinkURL: `javascript:alert("x")`,
				URL:     "https://www.reddit.com/r/alpha/comments/2/",
			}, {
				Title:   "Second",
				Author:  "carol",
				LinkURL: "https://example.com/?a=1&b=2",
				URL:     "https://www.reddit.com/r/alpha/comments/3/",
			}}},
			{Name: "mid", Posts: []models.Post{{Title: "Third", Author: "dan", URL: "https://www.reddit.com/r/mid/comments/4/"}}},
		},
	}
}

func renderString(t *testing.T, d models.Digest) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, d))
	return buf.String()
}

func TestRenderSectionsInInputOrder(t *testing.T) {
	page := renderString(t, htmlDigest())

	require.Equal(t, 3, strings.Count(page, `<section class="subreddit"`))
	zeta := strings.Index(page, "<h2>r/zeta</h2>")
	alpha := strings.Index(page, "<h2>r/alpha</h2>")
	mid := strings.Index(page, "<h2>r/mid</h2>")
	require.True(t, zeta > 0 && zeta < alpha && alpha < mid)
	require.Contains(t, page, "<title>Reddit Daily Digest - February 11, 2025</title>")
	require.Contains(t, page, "Last updated: 2025-02-11 08:30:00 UTC")
	require.Contains(t, page, "1. Link post")
	require.Contains(t, page, "2. Second")
}

func TestRenderEscapesUserText(t *testing.T) {
	page := renderString(t, htmlDigest())

	require.NotContains(t, page, "<script>alert")
	require.NotContains(t, page, "<img src=x")
	require.NotContains(t, page, "<h1>pwned</h1>")
	require.NotContains(t, page, "<eve>")
	require.NotContains(t, page, "<b>bold</b>")
	require.NotContains(t, page, `href="javascript:`)

	require.Contains(t, page, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;")
	require.Contains(t, page, "u/mal&amp;lory")
	require.Contains(t, page, "&lt;/div&gt;&lt;h1&gt;pwned&lt;/h1&gt;")
	require.Contains(t, page, "Summary &lt;b&gt;bold&lt;/b&gt;")
	require.Contains(t, page, `href="https://example.com/?a=1&amp;b=2"`)
}

func TestRenderPostVariants(t *testing.T) {
	page := renderString(t, htmlDigest())

	require.Contains(t, page, `<div class="post-content">body with`)
	require.Contains(t, page, `class="mood-negative"`)
	require.Contains(t, page, `class="external-link"`)
	require.Equal(t, 1, strings.Count(page, `<div class="comments">`))
}

func TestWriteHTMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site", "index.html")
	require.NoError(t, WriteHTMLFile(path, htmlDigest()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "<h2>r/alpha</h2>")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
