package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/searchai/searchai/internal/service"
)

// HybridSearchTool runs a combined semantic + keyword search over the
// document index and returns ranked (document, score) pairs.
func HybridSearchTool(searcher *service.HybridSearcher, embedderConfigured bool) Tool {
	t := Tool{
		Name:        "hybrid_search",
		Description: "Search indexed documents with combined semantic (vector) and keyword retrieval. Returns ranked documents with fused scores.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The query to search for",
					"minLength":   1,
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Number of results to return (default 10, max 50)",
				},
			},
			"required": []string{"query"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			query, _ := input["query"].(string)

			topK := 10
			if k, ok := input["top_k"].(float64); ok {
				topK = int(k)
			}
			if topK > 50 {
				topK = 50
			}

			result, err := searcher.Search(ctx, query, topK)
			if err != nil {
				return "", fmt.Errorf("hybrid search: %w", err)
			}

			b, err := json.Marshal(result)
			if err != nil {
				return "", fmt.Errorf("marshal search result: %w", err)
			}
			return string(b), nil
		},
	}
	if !embedderConfigured {
		t.MissingCredential = "OPENAI_API_KEY"
	}
	return t
}
