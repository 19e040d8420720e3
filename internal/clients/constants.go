package clients

import "time"

const (
	REDDIT_AUTH_URL     = "https://www.reddit.com/api/v1/access_token"
	REDDIT_API_URL      = "https://oauth.reddit.com"
	REDDIT_PERMALINK    = "https://www.reddit.com"
	REDDIT_TIME_FILTER  = "day"
	HTTP_CLIENT_TIMEOUT = 10 * time.Second
)
