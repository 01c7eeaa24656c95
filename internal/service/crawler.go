package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Crawler fetches a page and extracts its main readable content: scripts and
// styles are stripped with goquery, then go-readability pulls out the article
// text, with a plain-text fallback when no article is identified.
type Crawler struct {
	client *http.Client
	maxLen int
}

// NewCrawler returns a crawler that truncates extracted content to maxLen
// runes (0 means no truncation).
func NewCrawler(maxLen int) *Crawler {
	return &Crawler{
		client: http.DefaultClient,
		maxLen: maxLen,
	}
}

// WithHTTPClient overrides the HTTP client, used in tests.
func (c *Crawler) WithHTTPClient(client *http.Client) *Crawler {
	c.client = client
	return c
}

// Crawl fetches the URL and returns the extracted text content.
func (c *Crawler) Crawl(ctx context.Context, pageURL string) (string, error) {
	if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
		return "", fmt.Errorf("invalid URL: must start with http:// or https://")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; searchai/1.0)")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	content, err := c.extract(raw, pageURL)
	if err != nil {
		return "", err
	}
	return c.truncate(content), nil
}

func (c *Crawler) extract(rawHTML []byte, pageURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(rawHTML)))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	cleaned, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("render HTML: %w", err)
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}

	article, err := readability.FromReader(strings.NewReader(cleaned), parsed)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return strings.TrimSpace(article.TextContent), nil
	}

	// Readability found no article; fall back to the page's plain text.
	text := strings.TrimSpace(doc.Text())
	if text == "" {
		return "", fmt.Errorf("no content found at %s", pageURL)
	}
	return strings.Join(strings.Fields(text), " "), nil
}

func (c *Crawler) truncate(content string) string {
	if c.maxLen <= 0 {
		return content
	}
	runes := []rune(content)
	if len(runes) <= c.maxLen {
		return content
	}
	return string(runes[:c.maxLen])
}
