package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	tavilygo "github.com/diverged/tavily-go"
	tavilyModels "github.com/diverged/tavily-go/models"
)

// WebSearchConfig carries the credential and optional overrides for the
// Tavily-backed search tools.
type WebSearchConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// WebSearchTool searches the web and returns ranked results.
func WebSearchTool(cfg WebSearchConfig) Tool {
	t := Tool{
		Name:        "web_search",
		Description: "Search the web for a query and return ranked results with titles, URLs, and content snippets, plus an aggregated answer when available.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The query to search the web for",
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

			out := map[string]interface{}{
				"answer":  resp.Answer,
				"results": formatSearchResults(resp.Results),
			}
			b, err := json.Marshal(out)
			if err != nil {
				return "", fmt.Errorf("marshal search results: %w", err)
			}
			return string(b), nil
		},
	}
	if cfg.APIKey == "" {
		t.MissingCredential = "TAVILY_API_KEY"
	}
	return t
}

func tavilySearch(cfg WebSearchConfig, query string) (*tavilyModels.SearchResponse, error) {
	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	client := tavilygo.NewClient(cfg.APIKey)
	if cfg.BaseURL != "" {
		client.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		client.HTTPClient = cfg.HTTPClient
	}

	resp, err := tavilygo.Search(client, tavilyModels.SearchRequest{
		Query:         query,
		SearchDepth:   "basic",
		IncludeAnswer: true,
	})
	if err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}
	return resp, nil
}

func formatSearchResults(results []tavilyModels.SearchResult) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		out = append(out, map[string]interface{}{
			"title":   r.Title,
			"url":     r.URL,
			"content": r.Content,
			"score":   r.Score,
		})
	}
	return out
}
