package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/julienpequegnot/bannergen/internal/logging"
	"github.com/julienpequegnot/bannergen/internal/prompts"
)

var ErrEmptyResponse = errors.New("empty response from OpenAI")

type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

type Client struct {
	api       *openai.Client
	opts      Options
	templates *prompts.Set
	logger    *slog.Logger
}

func NewClient(opts Options, templates *prompts.Set, logger *slog.Logger) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Model == "" {
		opts.Model = openai.GPT4o
	}

	return &Client{
		api:       openai.NewClientWithConfig(cfg),
		opts:      opts,
		templates: templates,
		logger:    logger,
	}
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: float32(c.opts.Temperature),
		MaxTokens:   c.opts.MaxTokens,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// GenerateSimplePrompt asks for a single banner prompt.
func (c *Client) GenerateSimplePrompt(ctx context.Context, title, content string) (string, error) {
	c.logger.Info("generating simple prompt", logging.KeyPost, title, logging.KeyModel, c.opts.Model)

	user := prompts.Format(c.templates.Simple.User, prompts.Vars{Title: title, Content: content})
	raw, err := c.complete(ctx, c.templates.Simple.System, user)
	if err != nil {
		return "", err
	}

	prompt := strings.Trim(raw, `"'`)
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyResponse
	}
	c.logger.Debug("generated simple prompt", "prompt", prompt)
	return prompt, nil
}

// GeneratePrompts asks for count prompts in the given style, described by
// styleDescription.
func (c *Client) GeneratePrompts(ctx context.Context, title, content, styleName, styleDescription string, count int) ([]string, error) {
	c.logger.Info("generating prompts",
		logging.KeyPost, title,
		logging.KeyStyle, styleName,
		logging.KeyModel, c.opts.Model,
		"count", count)

	user := prompts.Format(c.templates.Base.User, prompts.Vars{
		Title:            title,
		Content:          content,
		Style:            styleName,
		StyleDescription: styleDescription,
		Count:            count,
	})
	raw, err := c.complete(ctx, c.templates.Base.System, user)
	if err != nil {
		return nil, err
	}

	list := ParseNumberedList(raw, count)
	if len(list) == 0 {
		return nil, fmt.Errorf("no prompts found in OpenAI response")
	}
	c.logger.Info("generated prompts", "count", len(list))
	return list, nil
}

var numberPrefix = regexp.MustCompile(`^\d+\s*(\.|\)|-)\s*`)

// ParseNumberedList turns a "1. foo\n2) bar" style answer into its items,
// dropping blank lines, numbering and surrounding quotes. At most max items
// are kept.
func ParseNumberedList(raw string, max int) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = numberPrefix.ReplaceAllString(line, "")
		line = strings.Trim(line, `" `)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == max {
			break
		}
	}
	return out
}
