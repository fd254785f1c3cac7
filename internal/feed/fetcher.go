package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/julienpequegnot/bannergen/internal/logging"
	"github.com/julienpequegnot/bannergen/internal/post"
)

type Fetcher struct {
	parser *gofeed.Parser
	client *http.Client
	logger *slog.Logger
}

func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	client := &http.Client{Timeout: timeout}
	parser := gofeed.NewParser()
	parser.Client = client

	return &Fetcher{
		parser: parser,
		client: client,
		logger: logger,
	}
}

// Load returns the posts of feedURL. When the URL is a web page rather than
// a feed, the page's feed is discovered first.
func (f *Fetcher) Load(ctx context.Context, rawURL string) ([]*post.Post, error) {
	posts, err := f.FetchPosts(ctx, rawURL)
	if err == nil || !errors.Is(err, gofeed.ErrFeedTypeNotDetected) {
		return posts, err
	}

	f.logger.Info("not a feed, discovering", logging.KeyURL, rawURL)
	feedURL, err := DiscoverFeed(ctx, f.client, rawURL)
	if err != nil {
		return nil, err
	}
	return f.FetchPosts(ctx, feedURL)
}

// FetchPosts parses an RSS or Atom feed into posts, newest first as listed
// by the feed.
func (f *Fetcher) FetchPosts(ctx context.Context, feedURL string) ([]*post.Post, error) {
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	posts := make([]*post.Post, 0, len(feed.Items))
	for _, item := range feed.Items {
		posts = append(posts, toPost(feed, item))
	}

	f.logger.Info("fetched feed", logging.KeyURL, feedURL, "posts", len(posts))
	return posts, nil
}

func toPost(feed *gofeed.Feed, item *gofeed.Item) *post.Post {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = post.DefaultTitle
	}

	content := item.Content
	if content == "" {
		content = item.Description
	}

	fm := map[string]any{
		"title": title,
		"link":  item.Link,
	}
	if item.PublishedParsed != nil {
		fm["date"] = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		fm["date"] = *item.UpdatedParsed
	}
	if item.Author != nil {
		fm["author"] = item.Author.Name
	} else if len(feed.Authors) > 0 {
		fm["author"] = feed.Authors[0].Name
	}

	return &post.Post{
		Path:        item.Link,
		Slug:        post.Slugify(title),
		Title:       title,
		Tags:        item.Categories,
		FrontMatter: fm,
		Body:        HTMLToText(content),
	}
}

// HTMLToText strips markup, scripts and styles, keeping one line per
// non-empty text line.
func HTMLToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	doc.Find("script, style, noscript").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, pre, blockquote").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
