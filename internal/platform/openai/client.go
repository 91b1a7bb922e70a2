package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatflowers/karma/pkg/config"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/fx"
)

var ErrDisabled = errors.New("openai: api key is not configured")

// Completion is a chat result with provider-reported usage.
type Completion struct {
	Model            string
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem = goopenai.ChatMessageRoleSystem
	RoleUser   = goopenai.ChatMessageRoleUser
)

// Completer is the chat-completion port consumed by the AI service.
type Completer interface {
	Enabled() bool
	Model() string
	Complete(ctx context.Context, messages []Message) (*Completion, error)
}

type Client struct {
	client    *goopenai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

func New(cfg *config.Config) *Client {
	c := &Client{model: cfg.OpenAI.Model, maxTokens: cfg.OpenAI.MaxTokens, timeout: cfg.OpenAI.Timeout}
	if cfg.OpenAI.APIKey != "" {
		c.client = goopenai.NewClient(cfg.OpenAI.APIKey)
	}
	return c
}

func (c *Client) Enabled() bool { return c.client != nil }

func (c *Client) Model() string { return c.model }

func (c *Client) Complete(ctx context.Context, messages []Message) (*Completion, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	req := goopenai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: 0.7,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, goopenai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: empty completion")
	}
	model := resp.Model
	if model == "" {
		model = c.model
	}
	return &Completion{
		Model:            model,
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

var Module = fx.Options(
	fx.Provide(New),
	fx.Provide(func(c *Client) Completer { return c }),
)
