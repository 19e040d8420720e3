package models

import "time"

const DELETED_AUTHOR = "[deleted]"

type Post struct {
	ID          string    `json:"id"`
	Subreddit   string    `json:"subreddit"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Score       int       `json:"score"`
	URL         string    `json:"url"`
	Selftext    string    `json:"selftext,omitempty"`
	LinkURL     string    `json:"link_url,omitempty"`
	IsSelf      bool      `json:"is_self"`
	CreatedAt   time.Time `json:"created_at"`
	NumComments int       `json:"num_comments"`
	UpvoteRatio float64   `json:"upvote_ratio"`
	Comments    []Comment `json:"comments"`
	Mood        *Mood     `json:"mood,omitempty"`
}

// UpvotePercent is the upvote ratio as a truncated whole percentage.
func (p Post) UpvotePercent() int {
	return int(p.UpvoteRatio * 100)
}

type Comment struct {
	Author string `json:"author"`
	Body   string `json:"body"`
	Score  int    `json:"score"`
	Mood   *Mood  `json:"mood,omitempty"`
}

// RedditListing is the envelope the Reddit API wraps every collection in.
type RedditListing struct {
	Kind string            `json:"kind"`
	Data RedditListingData `json:"data"`
}

type RedditListingData struct {
	After    string        `json:"after"`
	Children []RedditThing `json:"children"`
}

// RedditThing is a listing child. Kind is t3 for posts, t1 for comments and
// "more" for collapsed reply stubs.
type RedditThing struct {
	Kind string          `json:"kind"`
	Data RedditThingData `json:"data"`
}

type RedditThingData struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Subreddit   string  `json:"subreddit"`
	Author      string  `json:"author"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Body        string  `json:"body"`
	Score       int     `json:"score"`
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
	IsSelf      bool    `json:"is_self"`
	CreatedUTC  float64 `json:"created_utc"`
	NumComments int     `json:"num_comments"`
	UpvoteRatio float64 `json:"upvote_ratio"`
	Stickied    bool    `json:"stickied"`
}
