package agent_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/searchai/searchai/internal/agent"
	"github.com/searchai/searchai/internal/models"
)

type fakeInvoker struct {
	catalog     []models.ToolDescriptor
	catalogErr  error
	invokeErr   error
	invokeResp  *models.InvokeResponse
	invokeCalls int
}

func (f *fakeInvoker) Catalog(ctx context.Context) ([]models.ToolDescriptor, error) {
	return f.catalog, f.catalogErr
}

func (f *fakeInvoker) Invoke(ctx context.Context, tool string, args map[string]interface{}) (*models.InvokeResponse, error) {
	f.invokeCalls++
	if f.invokeErr != nil {
		return nil, f.invokeErr
	}
	return f.invokeResp, nil
}

type fakePlanner struct {
	answer string
	err    error
	tool   string
}

func (p *fakePlanner) Plan(ctx context.Context, input string, catalog []models.ToolDescriptor, invoke agent.InvokeFunc) (string, error) {
	if p.tool != "" {
		resp := invoke(ctx, p.tool, nil)
		if !resp.Success() {
			return "tool failed: " + resp.Error.Message, p.err
		}
	}
	return p.answer, p.err
}

func TestTurnRecordsHistory(t *testing.T) {
	invoker := &fakeInvoker{
		catalog:    []models.ToolDescriptor{{Name: "hello"}},
		invokeResp: models.NewSuccessResponse("hello", "hi", 1),
	}
	a := agent.New(invoker, &fakePlanner{answer: "done", tool: "hello"})

	answer := a.Turn(context.Background(), "hello")
	if answer != "done" {
		t.Errorf("unexpected answer %q", answer)
	}

	history := a.History()
	if len(history) != 1 {
		t.Fatalf("expected 1 turn record, got %d", len(history))
	}
	if history[0].Input != "hello" || history[0].Answer != "done" {
		t.Errorf("unexpected record %+v", history[0])
	}
	if len(history[0].Invocations) != 1 || history[0].Invocations[0].Tool != "hello" {
		t.Errorf("expected the hello invocation recorded, got %+v", history[0].Invocations)
	}
}

func TestTurnFoldsTransportErrors(t *testing.T) {
	invoker := &fakeInvoker{
		catalog:   []models.ToolDescriptor{{Name: "hello"}},
		invokeErr: errors.New("dial tcp: connection refused"),
	}
	a := agent.New(invoker, &fakePlanner{tool: "hello"})

	answer := a.Turn(context.Background(), "hello")
	if !strings.Contains(answer, "could not be reached") {
		t.Errorf("transport error should surface as a failure envelope, got %q", answer)
	}

	history := a.History()
	if len(history) != 1 || len(history[0].Invocations) != 1 {
		t.Fatalf("expected the failed invocation recorded, got %+v", history)
	}
	resp := history[0].Invocations[0].Response
	if resp.Success() || resp.Error.Kind != models.ErrDownstreamFailure {
		t.Errorf("expected a downstream_failure envelope, got %+v", resp)
	}
}

func TestTurnSurvivesPlannerError(t *testing.T) {
	a := agent.New(&fakeInvoker{}, &fakePlanner{err: errors.New("no strategy matched")})

	answer := a.Turn(context.Background(), "anything")
	if answer == "" {
		t.Fatal("turn must always produce an answer")
	}
	if !strings.Contains(answer, "Sorry") {
		t.Errorf("planner errors should be softened for the user, got %q", answer)
	}
}

func TestTurnFallsBackOnEmptyAnswer(t *testing.T) {
	a := agent.New(&fakeInvoker{}, &fakePlanner{answer: "   "})

	answer := a.Turn(context.Background(), "anything")
	if strings.TrimSpace(answer) == "" {
		t.Fatal("turn must never return a blank answer")
	}
}

func TestTurnSurvivesCatalogFailure(t *testing.T) {
	invoker := &fakeInvoker{catalogErr: errors.New("server down")}
	a := agent.New(invoker, &fakePlanner{answer: "still fine"})

	if answer := a.Turn(context.Background(), "anything"); answer != "still fine" {
		t.Errorf("catalog failure must not abort the turn, got %q", answer)
	}
}
