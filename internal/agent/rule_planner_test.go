package agent_test

import (
	"context"
	"strings"
	"testing"

	"github.com/searchai/searchai/internal/agent"
	"github.com/searchai/searchai/internal/models"
)

func fullCatalog() []models.ToolDescriptor {
	names := []string{"web_search", "web_crawl", "finance_quote", "embed_text", "hybrid_search", "hello", "date"}
	out := make([]models.ToolDescriptor, 0, len(names))
	for _, n := range names {
		out = append(out, models.ToolDescriptor{Name: n})
	}
	return out
}

// recordingInvoke returns a canned response per tool and records each call.
func recordingInvoke(calls *[]string, responses map[string]*models.InvokeResponse) agent.InvokeFunc {
	return func(ctx context.Context, tool string, args map[string]interface{}) *models.InvokeResponse {
		*calls = append(*calls, tool)
		if resp, ok := responses[tool]; ok {
			return resp
		}
		return models.NewFailureResponse(tool, models.ErrUnknownTool, "no canned response", 0)
	}
}

func TestTickerFromText(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"What is TQQQ?", "TQQQ"},
		{"price of MSFT please", "MSFT"},
		{"how is nvidia doing", "NVDA"},
		{"who is the CEO of the company", ""},
		{"tell me about the weather", ""},
		{"AAPL", "AAPL"},
		{"is THE price OF gold up", ""},
	}
	for _, tc := range cases {
		if got := agent.TickerFromText(tc.input); got != tc.want {
			t.Errorf("TickerFromText(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestPlanQuoteQuestion(t *testing.T) {
	var calls []string
	invoke := recordingInvoke(&calls, map[string]*models.InvokeResponse{
		"finance_quote": models.NewSuccessResponse("finance_quote",
			`{"symbol":"TQQQ","price":62.15,"currency":"USD"}`, 12),
	})

	answer, err := agent.NewRulePlanner().Plan(context.Background(), "What is TQQQ?", fullCatalog(), invoke)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(calls) != 1 || calls[0] != "finance_quote" {
		t.Fatalf("expected exactly one finance_quote invocation, got %v", calls)
	}
	if !strings.Contains(answer, "62.15") {
		t.Errorf("answer should reference the price, got %q", answer)
	}
	if !strings.Contains(answer, "TQQQ") {
		t.Errorf("answer should reference the symbol, got %q", answer)
	}
}

func TestPlanQuoteFailureIsExplained(t *testing.T) {
	var calls []string
	invoke := recordingInvoke(&calls, map[string]*models.InvokeResponse{
		"finance_quote": models.NewFailureResponse("finance_quote",
			models.ErrDownstreamFailure, "finance API returned status 500", 40),
	})

	answer, err := agent.NewRulePlanner().Plan(context.Background(), "What is TQQQ?", fullCatalog(), invoke)
	if err != nil {
		t.Fatalf("Plan must not return an error for tool failures: %v", err)
	}
	if strings.Contains(answer, "downstream_failure") {
		t.Errorf("raw error kind leaked into the answer: %q", answer)
	}
	if !strings.Contains(answer, "TQQQ") {
		t.Errorf("answer should say what was attempted, got %q", answer)
	}
}

func TestPlanHello(t *testing.T) {
	var calls []string
	invoke := recordingInvoke(&calls, map[string]*models.InvokeResponse{
		"hello": models.NewSuccessResponse("hello", "hello from searchai", 1),
	})

	answer, err := agent.NewRulePlanner().Plan(context.Background(), "hello there", fullCatalog(), invoke)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(calls) != 1 || calls[0] != "hello" {
		t.Fatalf("expected one hello invocation, got %v", calls)
	}
	if answer != "hello from searchai" {
		t.Errorf("unexpected answer %q", answer)
	}
}

func TestPlanCrawlPrefix(t *testing.T) {
	var calls []string
	invoke := recordingInvoke(&calls, map[string]*models.InvokeResponse{
		"web_crawl": models.NewSuccessResponse("web_crawl", "page content here", 200),
	})

	answer, err := agent.NewRulePlanner().Plan(context.Background(), "crawl: golang generics", fullCatalog(), invoke)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(calls) != 1 || calls[0] != "web_crawl" {
		t.Fatalf("expected one web_crawl invocation, got %v", calls)
	}
	if answer != "page content here" {
		t.Errorf("unexpected answer %q", answer)
	}
}

func TestPlanDateQuestion(t *testing.T) {
	var calls []string
	invoke := recordingInvoke(&calls, map[string]*models.InvokeResponse{
		"date": models.NewSuccessResponse("date", "2025-03-09", 0),
	})

	answer, err := agent.NewRulePlanner().Plan(context.Background(), "what is the date today?", fullCatalog(), invoke)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(calls) != 1 || calls[0] != "date" {
		t.Fatalf("expected one date invocation, got %v", calls)
	}
	if !strings.Contains(answer, "2025-03-09") {
		t.Errorf("answer should contain the date, got %q", answer)
	}
}

func TestPlanWebSearchFallback(t *testing.T) {
	var calls []string
	invoke := recordingInvoke(&calls, map[string]*models.InvokeResponse{
		"web_search": models.NewSuccessResponse("web_search",
			`{"answer":"Go 1.24 was released in February 2025.","results":[]}`, 300),
	})

	answer, err := agent.NewRulePlanner().Plan(context.Background(), "when was go 1.24 released", fullCatalog(), invoke)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(calls) != 1 || calls[0] != "web_search" {
		t.Fatalf("expected one web_search invocation, got %v", calls)
	}
	if !strings.Contains(answer, "February 2025") {
		t.Errorf("answer should use the search answer, got %q", answer)
	}
}

func TestPlanEchoWithoutTools(t *testing.T) {
	invoke := func(ctx context.Context, tool string, args map[string]interface{}) *models.InvokeResponse {
		t.Fatalf("no tool should be invoked, got %s", tool)
		return nil
	}
	answer, err := agent.NewRulePlanner().Plan(context.Background(), "just talking", nil, invoke)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if answer != "You said: just talking" {
		t.Errorf("expected echo answer, got %q", answer)
	}
}

func TestPlanEmptyInput(t *testing.T) {
	invoke := func(ctx context.Context, tool string, args map[string]interface{}) *models.InvokeResponse {
		t.Fatalf("no tool should be invoked, got %s", tool)
		return nil
	}
	answer, err := agent.NewRulePlanner().Plan(context.Background(), "   ", fullCatalog(), invoke)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if answer != "(empty input)" {
		t.Errorf("unexpected answer %q", answer)
	}
}

func TestPlanMissingCredentialIsExplained(t *testing.T) {
	var calls []string
	invoke := recordingInvoke(&calls, map[string]*models.InvokeResponse{
		"web_search": models.NewFailureResponse("web_search",
			models.ErrMissingCredential, `tool "web_search" requires TAVILY_API_KEY, which is not configured`, 0),
	})

	answer, err := agent.NewRulePlanner().Plan(context.Background(), "anything interesting happening", fullCatalog(), invoke)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if !strings.Contains(answer, "not configured") {
		t.Errorf("answer should explain the missing capability, got %q", answer)
	}
	if strings.Contains(answer, "missing_credential") {
		t.Errorf("raw error kind leaked into the answer: %q", answer)
	}
}
