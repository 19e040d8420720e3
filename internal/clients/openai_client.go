package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/spacesedan/reddigest/internal/models"
)

const (
	openAIRequestTimeout = 60 * time.Second
	summaryTitleLimit    = 200
)

const summaryPrompt = `You write the opening paragraph of a daily newsletter for one Reddit community.
Given the titles of today's top posts, write at most three plain sentences describing what the community talked about.
No markdown, no lists, no links, no preamble.`

type AIClient struct {
	Client *openai.Client
	Model  string
}

func NewAIClient(apiKey, model string) *AIClient {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: openAIRequestTimeout}),
	)
	slog.Info("[AIClient] OpenAI client initialized",
		slog.String("model", model),
		slog.Duration("timeout", openAIRequestTimeout))
	return &AIClient{Client: client, Model: model}
}

// Summarize asks the model for a short overview of a community's posts.
func (ac *AIClient) Summarize(ctx context.Context, community string, posts []models.Post) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Community: r/%s\n", community)
	for i, post := range posts {
		title := []rune(post.Title)
		if len(title) > summaryTitleLimit {
			title = title[:summaryTitleLimit]
		}
		fmt.Fprintf(&b, "%d. %s (%d points, %d comments)\n", i+1, string(title), post.Score, post.NumComments)
	}

	chatCompletion, err := ac.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summaryPrompt),
			openai.UserMessage(b.String()),
		}),
		Model:       openai.F(openai.ChatModel(ac.Model)),
		Temperature: openai.Float(0.3),
	})
	if err != nil {
		return "", fmt.Errorf("[AIClient] completion for r/%s failed: %w", community, err)
	}

	if len(chatCompletion.Choices) == 0 || strings.TrimSpace(chatCompletion.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("[AIClient] empty completion for r/%s", community)
	}
	return strings.TrimSpace(chatCompletion.Choices[0].Message.Content), nil
}
