package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DEFAULT_USER_AGENT    = "RedditDigestBot/1.0"
	DEFAULT_SUBREDDITS    = "python,technology,news"
	DEFAULT_MAX_POSTS     = 5
	DEFAULT_MAX_COMMENTS  = 5
	DEFAULT_PAYLOAD_FIELD = "content"
	DEFAULT_MESSAGE_LIMIT = 1900
	DEFAULT_REQUEST_DELAY = 500 * time.Millisecond
	DEFAULT_KAFKA_TOPIC   = "reddit-digest"
	DEFAULT_OPENAI_MODEL  = "gpt-4o-mini"
)

var (
	ErrMissingCredentials = errors.New("reddit API credentials (REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET) are required")
	ErrNoSubreddits       = errors.New("no subreddits configured, set SUBREDDITS")
	ErrInvalidLimit       = errors.New("invalid limit")
)

type Config struct {
	Reddit  RedditConfig
	Chat    ChatConfig
	HTML    HTMLConfig
	Kafka   KafkaConfig
	OpenAI  OpenAIConfig
	Metrics MetricsConfig

	Subreddits  []string
	MaxPosts    int
	MaxComments int
	Sentiment   bool
	// RequestDelay paces consecutive API and webhook calls.
	RequestDelay time.Duration
}

type RedditConfig struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	// AuthURL and APIURL are empty unless overridden, e.g. to point at a proxy.
	AuthURL string
	APIURL  string
}

type ChatConfig struct {
	DefaultWebhookURL string
	// SubredditWebhooks routes a community to its own channel.
	SubredditWebhooks map[string]string
	PayloadField      string
	MessageLimit      int
}

// Enabled reports whether any webhook is configured.
func (c ChatConfig) Enabled() bool {
	return c.DefaultWebhookURL != "" || len(c.SubredditWebhooks) > 0
}

type HTMLConfig struct {
	OutputPath     string
	GitPush        bool
	RepoPath       string
	GitToken       string
	GitAuthorName  string
	GitAuthorEmail string
}

type KafkaConfig struct {
	Broker string
	Topic  string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type MetricsConfig struct {
	TextfilePath string
}

// Load reads the configuration from the environment. Missing credentials or an
// empty community list are reported as errors before anything else is built.
func Load() (*Config, error) {
	cfg := &Config{
		Reddit: RedditConfig{
			ClientID:     os.Getenv("REDDIT_CLIENT_ID"),
			ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
			UserAgent:    getEnv("REDDIT_USER_AGENT", DEFAULT_USER_AGENT),
			AuthURL:      os.Getenv("REDDIT_AUTH_URL"),
			APIURL:       os.Getenv("REDDIT_API_URL"),
		},
		Chat: ChatConfig{
			DefaultWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
			SubredditWebhooks: parseWebhooks(os.Getenv("DISCORD_WEBHOOKS")),
			PayloadField:      getEnv("CHAT_PAYLOAD_FIELD", DEFAULT_PAYLOAD_FIELD),
			MessageLimit:      getEnvInt("CHAT_MESSAGE_LIMIT", DEFAULT_MESSAGE_LIMIT),
		},
		HTML: HTMLConfig{
			OutputPath:     os.Getenv("OUTPUT_HTML_PATH"),
			GitPush:        getEnvBool("GITHUB_PUSH", false),
			RepoPath:       os.Getenv("GITHUB_REPO_PATH"),
			GitToken:       os.Getenv("GITHUB_TOKEN"),
			GitAuthorName:  os.Getenv("GIT_AUTHOR_NAME"),
			GitAuthorEmail: os.Getenv("GIT_AUTHOR_EMAIL"),
		},
		Kafka: KafkaConfig{
			Broker: os.Getenv("KAFKA_BROKER"),
			Topic:  getEnv("KAFKA_DIGEST_TOPIC", DEFAULT_KAFKA_TOPIC),
		},
		OpenAI: OpenAIConfig{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  getEnv("OPENAI_MODEL", DEFAULT_OPENAI_MODEL),
		},
		Metrics: MetricsConfig{
			TextfilePath: os.Getenv("METRICS_TEXTFILE"),
		},
		Subreddits:   ParseSubreddits(getEnv("SUBREDDITS", DEFAULT_SUBREDDITS)),
		MaxPosts:     getEnvInt("MAX_POSTS_PER_SUB", DEFAULT_MAX_POSTS),
		MaxComments:  getEnvInt("MAX_COMMENTS_PER_POST", DEFAULT_MAX_COMMENTS),
		Sentiment:    getEnvBool("DIGEST_SENTIMENT", true),
		RequestDelay: getEnvDuration("REQUEST_DELAY", DEFAULT_REQUEST_DELAY),
	}

	if cfg.Reddit.ClientID == "" || cfg.Reddit.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}
	if len(cfg.Subreddits) == 0 {
		return nil, ErrNoSubreddits
	}
	if cfg.MaxPosts <= 0 {
		return nil, fmt.Errorf("%w: MAX_POSTS_PER_SUB must be positive, got %d", ErrInvalidLimit, cfg.MaxPosts)
	}
	if cfg.MaxComments < 0 {
		return nil, fmt.Errorf("%w: MAX_COMMENTS_PER_POST must not be negative, got %d", ErrInvalidLimit, cfg.MaxComments)
	}
	if cfg.Chat.MessageLimit <= 0 {
		return nil, fmt.Errorf("%w: CHAT_MESSAGE_LIMIT must be positive, got %d", ErrInvalidLimit, cfg.Chat.MessageLimit)
	}

	return cfg, nil
}

// ParseSubreddits splits a comma separated list, dropping blanks.
func ParseSubreddits(raw string) []string {
	var subs []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		subs = append(subs, s)
	}
	return subs
}

func parseWebhooks(raw string) map[string]string {
	if raw == "" {
		return map[string]string{}
	}
	hooks := make(map[string]string)
	if err := json.Unmarshal([]byte(raw), &hooks); err != nil {
		slog.Warn("[Config] Could not parse DISCORD_WEBHOOKS JSON, using default webhook",
			slog.String("error", err.Error()))
		return map[string]string{}
	}
	return hooks
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	return strings.EqualFold(raw, "true")
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
}
