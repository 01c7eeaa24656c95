package tools

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/searchai/searchai/internal/service"
)

// WebCrawlTool searches the web for a query, takes the top-ranked result,
// and returns the crawled page content as clean text.
func WebCrawlTool(cfg WebSearchConfig, crawler *service.Crawler) Tool {
	t := Tool{
		Name:        "web_crawl",
		Description: "Search the web for the query, crawl the top result, and return the extracted page content as text.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The query whose top search result should be crawled",
					"minLength":   1,
				},
			},
			"required": []string{"query"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			query, _ := input["query"].(string)

			resp, err := tavilySearch(cfg, query)
			if err != nil {
				return "", err
			}
			if len(resp.Results) == 0 {
				return "", fmt.Errorf("no search results for %q", query)
			}

			topURL := resp.Results[0].URL
			log.Debug().Str("url", topURL).Str("query", query).Msg("crawling top search result")

			content, err := crawler.Crawl(ctx, topURL)
			if err != nil {
				return "", fmt.Errorf("crawl %s: %w", topURL, err)
			}
			return content, nil
		},
	}
	if cfg.APIKey == "" {
		t.MissingCredential = "TAVILY_API_KEY"
	}
	return t
}
