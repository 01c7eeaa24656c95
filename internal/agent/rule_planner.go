package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/searchai/searchai/internal/models"
)

// tickerStopWords are uppercase tokens that look like tickers but aren't.
var tickerStopWords = map[string]bool{
	"CEO": true, "CFO": true, "CTO": true, "USD": true,
	"A": true, "AN": true, "THE": true, "IS": true, "OF": true, "FOR": true,
}

// companyTickers maps well-known company names to their symbols.
var companyTickers = map[string]string{
	"nvidia":    "NVDA",
	"apple":     "AAPL",
	"microsoft": "MSFT",
}

// RulePlanner is a deterministic planning strategy that needs no LLM
// credential: a handful of prompt heuristics pick at most one tool per turn.
type RulePlanner struct{}

func NewRulePlanner() *RulePlanner {
	return &RulePlanner{}
}

func (p *RulePlanner) Plan(ctx context.Context, input string, catalog []models.ToolDescriptor, invoke InvokeFunc) (string, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return "(empty input)", nil
	}
	lower := strings.ToLower(text)
	available := toolSet(catalog)

	// Date questions need no arguments.
	if available["date"] && isDateQuestion(lower) {
		resp := invoke(ctx, "date", nil)
		if resp.Success() {
			return "Current date is: " + *resp.Result, nil
		}
		return explainFailure("look up the date", resp), nil
	}

	// Greetings go to the demo tool.
	if available["hello"] && (lower == "hello" || strings.HasPrefix(lower, "hello ")) {
		resp := invoke(ctx, "hello", nil)
		if resp.Success() {
			return *resp.Result, nil
		}
		return explainFailure("say hello", resp), nil
	}

	// Explicit "crawl: <query>" syntax.
	if idx := strings.Index(lower, "crawl:"); idx >= 0 && available["web_crawl"] {
		query := strings.TrimSpace(text[idx+len("crawl:"):])
		if query != "" {
			resp := invoke(ctx, "web_crawl", map[string]interface{}{"query": query})
			if resp.Success() {
				return *resp.Result, nil
			}
			return explainFailure("crawl the web for "+query, resp), nil
		}
	}

	// Something that looks like a ticker symbol.
	if ticker := TickerFromText(text); ticker != "" && available["finance_quote"] {
		resp := invoke(ctx, "finance_quote", map[string]interface{}{"ticker": ticker})
		if resp.Success() {
			return formatQuoteAnswer(ticker, *resp.Result), nil
		}
		return explainFailure("fetch the price for "+ticker, resp), nil
	}

	// General questions fall back to web search when it is available.
	if available["web_search"] {
		resp := invoke(ctx, "web_search", map[string]interface{}{"query": text})
		if resp.Success() {
			return formatSearchAnswer(text, *resp.Result), nil
		}
		return explainFailure("search the web for "+text, resp), nil
	}

	// Last resort: echo.
	return "You said: " + text, nil
}

func toolSet(catalog []models.ToolDescriptor) map[string]bool {
	out := make(map[string]bool, len(catalog))
	for _, d := range catalog {
		out[d.Name] = true
	}
	return out
}

func isDateQuestion(lower string) bool {
	return lower == "date" ||
		strings.HasPrefix(lower, "what is the date") ||
		strings.HasPrefix(lower, "what's the date") ||
		strings.HasPrefix(lower, "what day is it")
}

// TickerFromText grabs a plausible ticker symbol from free text: a known
// company name, or a short all-uppercase token that is not a stop word.
func TickerFromText(text string) string {
	lower := strings.ToLower(text)
	for company, symbol := range companyTickers {
		if strings.Contains(lower, company) {
			return symbol
		}
	}

	for _, tok := range strings.FieldsFunc(text, func(r rune) bool { return r == ' ' || r == ',' }) {
		tok = strings.Trim(tok, "?!.():;\"'")
		if len(tok) < 1 || len(tok) > 6 {
			continue
		}
		if tok != strings.ToUpper(tok) || tickerStopWords[tok] {
			continue
		}
		alpha := true
		for _, r := range tok {
			if r < 'A' || r > 'Z' {
				alpha = false
				break
			}
		}
		if alpha {
			return tok
		}
	}
	return ""
}

func formatQuoteAnswer(ticker, result string) string {
	var quote struct {
		Symbol   string  `json:"symbol"`
		Price    float64 `json:"price"`
		Currency string  `json:"currency"`
	}
	if err := json.Unmarshal([]byte(result), &quote); err != nil || quote.Price == 0 {
		return fmt.Sprintf("Latest quote for %s: %s", ticker, result)
	}
	if quote.Symbol == "" {
		quote.Symbol = ticker
	}
	if quote.Currency != "" {
		return fmt.Sprintf("The latest price for %s is %.2f %s.", quote.Symbol, quote.Price, quote.Currency)
	}
	return fmt.Sprintf("The latest price for %s is %.2f.", quote.Symbol, quote.Price)
}

func formatSearchAnswer(query, result string) string {
	var search struct {
		Answer  string `json:"answer"`
		Results []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(result), &search); err != nil {
		return result
	}
	if search.Answer != "" {
		return search.Answer
	}
	if len(search.Results) == 0 {
		return fmt.Sprintf("I couldn't find anything on the web about %q.", query)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Here's what I found about %q:\n", query)
	for i, r := range search.Results {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&b, "- %s (%s)\n", r.Title, r.URL)
	}
	return strings.TrimRight(b.String(), "\n")
}

// explainFailure turns a failure envelope into plain language so the user
// never sees a raw fault.
func explainFailure(action string, resp *models.InvokeResponse) string {
	if resp.Error == nil {
		return fmt.Sprintf("I tried to %s but something went wrong.", action)
	}
	switch resp.Error.Kind {
	case models.ErrMissingCredential:
		return fmt.Sprintf("I can't %s right now: that capability is not configured on the tool server (%s).", action, resp.Error.Message)
	case models.ErrDownstreamFailure:
		return fmt.Sprintf("I tried to %s but the upstream service failed: %s", action, resp.Error.Message)
	default:
		return fmt.Sprintf("I tried to %s but it didn't work: %s", action, resp.Error.Message)
	}
}
