// internal/feed/discover.go
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var feedPatterns = []string{
	"/feed",
	"/feed.xml",
	"/atom.xml",
	"/rss.xml",
	"/rss",
	"/index.xml",
	"/feed/atom",
	"/feed/rss",
}

const feedLinkSelector = `link[type="application/rss+xml"], link[type="application/atom+xml"]`

// DiscoverFeed finds the feed of a website, first from its <link> tags and
// then by probing common feed paths.
func DiscoverFeed(ctx context.Context, client *http.Client, siteURL string) (string, error) {
	base, err := url.Parse(siteURL)
	if err != nil {
		return "", fmt.Errorf("invalid site URL %q: %w", siteURL, err)
	}

	if href, err := feedLink(ctx, client, siteURL); err == nil && href != "" {
		ref, err := url.Parse(href)
		if err == nil {
			return base.ResolveReference(ref).String(), nil
		}
	}

	root := strings.TrimSuffix(siteURL, "/")
	for _, pattern := range feedPatterns {
		feedURL := root + pattern
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, feedURL, nil)
		if err != nil {
			continue
		}
		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return feedURL, nil
		}
	}

	return "", fmt.Errorf("could not discover feed for %s", siteURL)
}

func feedLink(ctx context.Context, client *http.Client, siteURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	href, _ := doc.Find(feedLinkSelector).First().Attr("href")
	return strings.TrimSpace(href), nil
}
