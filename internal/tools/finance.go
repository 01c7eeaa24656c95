package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/searchai/searchai/internal/service"
)

// FinanceQuoteTool fetches the latest market price for a ticker symbol.
func FinanceQuoteTool(fin *service.FinanceService) Tool {
	return Tool{
		Name:        "finance_quote",
		Description: "Fetch the latest market price for a ticker symbol (e.g. AAPL, NVDA) from Yahoo Finance.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"ticker": map[string]interface{}{
					"type":        "string",
					"description": "The ticker symbol to look up",
					"minLength":   1,
				},
			},
			"required": []string{"ticker"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			ticker, _ := input["ticker"].(string)

			quote, err := fin.LatestQuote(ctx, ticker)
			if err != nil {
				return "", fmt.Errorf("finance quote: %w", err)
			}

			b, err := json.Marshal(quote)
			if err != nil {
				return "", fmt.Errorf("marshal quote: %w", err)
			}
			return string(b), nil
		},
	}
}
