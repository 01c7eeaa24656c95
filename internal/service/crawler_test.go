package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/searchai/searchai/internal/service"
)

const articleFixture = `<!DOCTYPE html>
<html>
<head>
	<title>Test Article</title>
	<script>window.tracker = "should never appear";</script>
	<style>body { color: red; }</style>
</head>
<body>
	<article>
		<h1>Go Concurrency Patterns</h1>
		<p>Goroutines are lightweight threads managed by the Go runtime. They let a
		program run many tasks at once without the overhead of OS threads. Channels
		provide a way for goroutines to communicate and synchronize safely.</p>
		<p>The select statement lets a goroutine wait on multiple channel operations
		and react to whichever is ready first, which is the backbone of timeout and
		cancellation handling in Go programs.</p>
	</article>
</body>
</html>`

func TestCrawlExtractsReadableText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articleFixture))
	}))
	defer srv.Close()

	content, err := service.NewCrawler(0).Crawl(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	if !strings.Contains(content, "Goroutines are lightweight threads") {
		t.Errorf("expected article text in output, got %q", content)
	}
	if strings.Contains(content, "should never appear") {
		t.Error("script content leaked into extracted text")
	}
	if strings.Contains(content, "color: red") {
		t.Error("style content leaked into extracted text")
	}
}

func TestCrawlTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articleFixture))
	}))
	defer srv.Close()

	content, err := service.NewCrawler(50).Crawl(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	if got := len([]rune(content)); got > 50 {
		t.Errorf("expected at most 50 runes, got %d", got)
	}
}

func TestCrawlRejectsNonHTTPURL(t *testing.T) {
	if _, err := service.NewCrawler(0).Crawl(context.Background(), "ftp://example.com/file"); err == nil {
		t.Fatal("expected an error for a non-HTTP URL")
	}
}

func TestCrawlNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := service.NewCrawler(0).Crawl(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error for a 403 response")
	}
}
