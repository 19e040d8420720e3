package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/spacesedan/reddigest/config"
	"github.com/spacesedan/reddigest/internal/clients"
	"github.com/spacesedan/reddigest/internal/logging"
	"github.com/spacesedan/reddigest/internal/metrics"
	"github.com/spacesedan/reddigest/internal/models"
	"github.com/spacesedan/reddigest/internal/processing"
	"github.com/spacesedan/reddigest/internal/publish"
	"github.com/spacesedan/reddigest/internal/sentiment"
)

var version = "dev"

// logOutput receives the process logs.
var logOutput io.Writer = os.Stdout

type CLI struct {
	Env     string           `help:"Environment name, selects config/envs/.env.<env>" env:"APP_ENV" default:"dev"`
	Verbose bool             `short:"v" help:"Enable debug logging"`
	DryRun  bool             `name:"dry-run" help:"Fetch and render, but send no chat or stream messages and never push"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("reddigest"),
		kong.Description("Publish a daily digest of top Reddit posts to chat webhooks and a static page."),
		kong.Vars{"version": version},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cli)
	stop()
	os.Exit(code)
}

// run executes one digest pass and returns the process exit code.
func run(ctx context.Context, cli CLI) int {
	logging.InitLogger(logOutput, cli.Verbose)
	config.LoadEnv(cli.Env)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		if errors.Is(err, config.ErrMissingCredentials) {
			slog.Error("[Main] Create a 'script' app at https://www.reddit.com/prefs/apps and set REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET")
		}
		return 1
	}

	start := time.Now()
	slog.Info("[Main] Starting Reddit digest",
		slog.Any("subreddits", cfg.Subreddits),
		slog.Int("posts_per_subreddit", cfg.MaxPosts),
		slog.Int("comments_per_post", cfg.MaxComments),
		slog.Bool("dry_run", cli.DryRun))

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var promRecorder *metrics.PrometheusRecorder
	if cfg.Metrics.TextfilePath != "" {
		promRecorder = metrics.NewPrometheusRecorder(nil)
		recorder = promRecorder
	}
	defer func() {
		if promRecorder == nil {
			return
		}
		promRecorder.ObserveRunDuration(time.Since(start))
		promRecorder.SetLastRun(time.Now())
		if err := promRecorder.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			slog.Warn("[Main] Failed to write metrics", slog.String("error", err.Error()))
		}
	}()

	fetcher := processing.NewFetcher(clients.NewRedditClient(clients.RedditOptions{
		ClientID:     cfg.Reddit.ClientID,
		ClientSecret: cfg.Reddit.ClientSecret,
		UserAgent:    cfg.Reddit.UserAgent,
		AuthURL:      cfg.Reddit.AuthURL,
		APIURL:       cfg.Reddit.APIURL,
	}))
	fetcher.MaxPosts = cfg.MaxPosts
	fetcher.MaxComments = cfg.MaxComments
	fetcher.Delay = cfg.RequestDelay
	fetcher.Recorder = recorder

	digest := fetcher.FetchDigest(ctx, cfg.Subreddits)
	if digest.Empty() {
		slog.Error("[Main] No data fetched, exiting")
		return 1
	}
	slog.Info("[Main] Fetched digest",
		slog.Int("subreddits", len(digest.Communities)),
		slog.Int("posts", digest.PostCount()))

	if cfg.Sentiment {
		processing.Annotate(&digest, sentiment.NewAnalyzer())
	}
	if cfg.OpenAI.APIKey != "" {
		processing.Summarize(ctx, &digest, clients.NewAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model), recorder)
	}

	code := 0
	if err := publishHTML(ctx, cfg, digest, cli.DryRun); err != nil {
		slog.Error("[Main] HTML publishing failed", slog.String("error", err.Error()))
		code = 1
	}
	publishChat(ctx, cfg, digest, cli.DryRun, recorder)
	publishStream(ctx, cfg, digest, cli.DryRun, recorder)

	slog.Info("[Main] Reddit digest complete", slog.Duration("elapsed", time.Since(start)))
	return code
}

func publishHTML(ctx context.Context, cfg *config.Config, digest models.Digest, dryRun bool) error {
	if cfg.HTML.OutputPath == "" {
		slog.Info("[Main] Skipping HTML generation, OUTPUT_HTML_PATH not set")
		return nil
	}
	if err := publish.WriteHTMLFile(cfg.HTML.OutputPath, digest); err != nil {
		return err
	}

	if !cfg.HTML.GitPush {
		return nil
	}
	if cfg.HTML.RepoPath == "" {
		slog.Warn("[Main] GITHUB_PUSH is set but GITHUB_REPO_PATH is empty, not pushing")
		return nil
	}
	if dryRun {
		slog.Info("[Main] Dry run, not pushing page", slog.String("repo", cfg.HTML.RepoPath))
		return nil
	}

	gp := publish.NewGitPublisher(cfg.HTML.RepoPath, cfg.HTML.GitToken)
	if cfg.HTML.GitAuthorName != "" {
		gp.AuthorName = cfg.HTML.GitAuthorName
	}
	if cfg.HTML.GitAuthorEmail != "" {
		gp.AuthorEmail = cfg.HTML.GitAuthorEmail
	}
	if _, err := gp.Publish(ctx, cfg.HTML.OutputPath); err != nil {
		slog.Error("[Main] Failed to push page", slog.String("error", err.Error()))
	}
	return nil
}

func publishChat(ctx context.Context, cfg *config.Config, digest models.Digest, dryRun bool, recorder metrics.Recorder) {
	if !cfg.Chat.Enabled() {
		slog.Info("[Main] Skipping chat, no webhook URL configured")
		return
	}

	var poster publish.MessagePoster = clients.NewWebhookClient(cfg.Reddit.UserAgent)
	if dryRun {
		poster = publish.LogPoster{}
	}
	cp := publish.NewChatPublisher(poster, cfg.Chat.DefaultWebhookURL, cfg.Chat.SubredditWebhooks)
	cp.PayloadField = cfg.Chat.PayloadField
	cp.MessageLimit = cfg.Chat.MessageLimit
	cp.Delay = cfg.RequestDelay
	cp.Recorder = recorder
	cp.Publish(ctx, digest)
}

func publishStream(ctx context.Context, cfg *config.Config, digest models.Digest, dryRun bool, recorder metrics.Recorder) {
	if cfg.Kafka.Broker == "" {
		return
	}
	if dryRun {
		slog.Info("[Main] Dry run, not producing to Kafka", slog.String("topic", cfg.Kafka.Topic))
		return
	}

	producer, err := clients.NewKafkaProducer(cfg.Kafka.Broker)
	if err != nil {
		slog.Error("[Main] Kafka unavailable, skipping stream sink", slog.String("error", err.Error()))
		return
	}
	defer producer.Close()

	sp := &publish.StreamPublisher{Producer: producer, Topic: cfg.Kafka.Topic, Recorder: recorder}
	if err := sp.Publish(ctx, digest); err != nil {
		slog.Error("[Main] Stream publishing failed", slog.String("error", err.Error()))
	}
}
