// Package deepai talks to the DeepAI image generation API.
package deepai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/julienpequegnot/bannergen/internal/logging"
	"github.com/julienpequegnot/bannergen/internal/output"
	"github.com/julienpequegnot/bannergen/internal/style"
)

const (
	DefaultBaseURL = "https://api.deepai.org/api"

	defaultMinBackoff = 500 * time.Millisecond
	maxBackoff        = 10 * time.Second
)

// maxImageBytes caps a downloaded image.
var maxImageBytes = 50 << 20

type Options struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
	MinBackoff  time.Duration
	MinInterval time.Duration
}

type Request struct {
	Prompt  string
	Style   string
	Width   int
	Height  int
	Version string
	// Extra overrides style defaults and any other form field.
	Extra map[string]any
}

// ErrImageTooLarge is returned when a rendered image exceeds the download
// limit.
var ErrImageTooLarge = errors.New("image too large")

// APIError is a non-200 answer from DeepAI.
type APIError struct {
	Status    int
	Body      string
	Retryable bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("DeepAI API error %d: %s", e.Status, strings.TrimSpace(e.Body))
}

type Client struct {
	opts    Options
	http    *http.Client
	styles  *style.Registry
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewClient(opts Options, styles *style.Registry, logger *slog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.MinBackoff <= 0 {
		opts.MinBackoff = defaultMinBackoff
	}

	c := &Client{
		opts:   opts,
		http:   &http.Client{Timeout: opts.Timeout},
		styles: styles,
		logger: logger,
	}
	if opts.MinInterval > 0 {
		c.limiter = rate.NewLimiter(rate.Every(opts.MinInterval), 1)
	}
	return c
}

// buildForm resolves the endpoint for req.Style and assembles the form body.
func (c *Client) buildForm(req Request) (string, url.Values) {
	endpoint := style.Fallback
	var defaults map[string]any
	if s, ok := c.styles.Get(req.Style); ok {
		endpoint = s.Endpoint
		defaults = s.DefaultParams
	} else {
		c.logger.Warn("unknown style, falling back to text2img", logging.KeyStyle, req.Style)
	}

	form := url.Values{}
	form.Set("text", req.Prompt)
	form.Set("width", strconv.Itoa(req.Width))
	form.Set("height", strconv.Itoa(req.Height))

	for k, v := range defaults {
		if !form.Has(k) {
			form.Set(k, formValue(v))
		}
	}
	for k, v := range req.Extra {
		form.Set(k, formValue(v))
	}

	version := strings.ToLower(strings.TrimSpace(req.Version))
	if version != "" && version != "standard" {
		if endpoint == style.Fallback {
			// text2img wants "Hd" and "Genius", style endpoints want lowercase.
			form.Set("image_generator_version", strings.ToUpper(version[:1])+version[1:])
		} else {
			form.Set("image_generator_version", version)
			if version == "genius" {
				if !form.Has("turbo") {
					form.Set("turbo", "true")
				}
				if !form.Has("genius_preference") {
					form.Set("genius_preference", "classic")
				}
			}
		}
	}

	return endpoint, form
}

func formValue(v any) string {
	if b, ok := v.(bool); ok {
		return strconv.FormatBool(b)
	}
	return fmt.Sprint(v)
}

// GenerateImage submits a prompt and returns the URL of the rendered image.
func (c *Client) GenerateImage(ctx context.Context, req Request) (string, error) {
	endpoint, form := c.buildForm(req)
	apiURL := c.opts.BaseURL + "/" + endpoint

	c.logger.Info("generating image", logging.KeyStyle, req.Style, "endpoint", endpoint)
	c.logger.Debug("DeepAI request", logging.KeyURL, apiURL, "form", form.Encode())

	var imageURL string
	err := c.retry(ctx, "generate", func() error {
		u, err := c.post(ctx, apiURL, form)
		if err != nil {
			return err
		}
		imageURL = u
		return nil
	})
	if err != nil {
		return "", err
	}

	c.logger.Info("image generated", logging.KeyURL, imageURL)
	return imageURL, nil
}

func (c *Client) post(ctx context.Context, apiURL string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("api-key", c.opts.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &APIError{Status: resp.StatusCode, Body: string(body), Retryable: shouldRetry(resp.StatusCode)}
	}

	var result struct {
		OutputURL string `json:"output_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
	}
	if result.OutputURL == "" {
		return "", backoff.Permanent(errors.New("DeepAI response has no output_url"))
	}
	return result.OutputURL, nil
}

// Download fetches url into path. Nothing is written unless the whole body
// was received with a 200.
func (c *Client) Download(ctx context.Context, imageURL, path string) error {
	c.logger.Info("downloading image", logging.KeyURL, imageURL, logging.KeyOutput, path)

	var data []byte
	err := c.retry(ctx, "download", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("failed to download image: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return &APIError{Status: resp.StatusCode, Body: "image download failed", Retryable: shouldRetry(resp.StatusCode)}
		}

		data, err = io.ReadAll(io.LimitReader(resp.Body, int64(maxImageBytes)+1))
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		if len(data) > maxImageBytes {
			return backoff.Permanent(fmt.Errorf("%w: over %d bytes", ErrImageTooLarge, maxImageBytes))
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := output.EnsureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}

	c.logger.Info("image saved", logging.KeyOutput, path)
	return nil
}

// GenerateAndSave renders req and downloads the result to path.
func (c *Client) GenerateAndSave(ctx context.Context, req Request, path string) error {
	imageURL, err := c.GenerateImage(ctx, req)
	if err != nil {
		return err
	}
	return c.Download(ctx, imageURL, path)
}

// retry runs op with exponential backoff. Network errors and retryable
// statuses are retried; *APIError with Retryable unset and errors wrapped
// with backoff.Permanent stop immediately.
func (c *Client) retry(ctx context.Context, what string, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.opts.MinBackoff
	b.MaxInterval = maxBackoff
	b.MaxElapsedTime = 0

	attempt := 0
	wrapped := func() error {
		attempt++
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}

		err := op()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, d time.Duration) {
		c.logger.Warn("DeepAI request failed, retrying",
			"op", what,
			logging.KeyAttempt, attempt,
			logging.KeyBackoff, d,
			logging.KeyError, err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.opts.MaxRetries)), ctx)
	return backoff.RetryNotify(wrapped, policy, notify)
}

func shouldRetry(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		(status >= 500 && status <= 599)
}
