// Package agent implements the per-turn reasoning loop: given one user turn
// it plans zero or more sequential tool invocations against the tool server
// and produces a final natural-language answer. The planning strategy is
// pluggable; the failure-handling contract is not: no raw transport fault
// ever reaches the user.
package agent

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/searchai/searchai/internal/models"
)

// Invocation is one recorded request/response exchange within a turn.
type Invocation struct {
	Tool      string
	Arguments map[string]interface{}
	Response  *models.InvokeResponse
}

// TurnRecord is one entry of the reasoning context: the user input, the
// invocations made on its behalf, and the final answer.
type TurnRecord struct {
	Input       string
	Invocations []Invocation
	Answer      string
}

// Invoker is the transport to the tool server.
type Invoker interface {
	Catalog(ctx context.Context) ([]models.ToolDescriptor, error)
	Invoke(ctx context.Context, tool string, args map[string]interface{}) (*models.InvokeResponse, error)
}

// InvokeFunc is what planners call tools through. Transport faults are
// already folded into failure envelopes, so it never returns an error.
type InvokeFunc func(ctx context.Context, tool string, args map[string]interface{}) *models.InvokeResponse

// Planner decides which tools, if any, a turn needs. Implementations must
// fold failure responses into the answer rather than aborting the turn.
type Planner interface {
	Plan(ctx context.Context, input string, catalog []models.ToolDescriptor, invoke InvokeFunc) (string, error)
}

// Agent holds the reasoning context for one CLI session. Not safe for
// concurrent turns; the CLI issues one turn at a time.
type Agent struct {
	invoker Invoker
	planner Planner
	catalog []models.ToolDescriptor
	history []TurnRecord
}

func New(invoker Invoker, planner Planner) *Agent {
	return &Agent{invoker: invoker, planner: planner}
}

// Turn runs one user turn to completion and always returns an answer string:
// planner errors and transport faults are translated into plain language.
func (a *Agent) Turn(ctx context.Context, input string) string {
	if a.catalog == nil {
		catalog, err := a.invoker.Catalog(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("could not fetch tool catalog")
		} else {
			a.catalog = catalog
		}
	}

	record := TurnRecord{Input: input}

	invoke := func(ctx context.Context, tool string, args map[string]interface{}) *models.InvokeResponse {
		resp, err := a.invoker.Invoke(ctx, tool, args)
		if err != nil {
			log.Warn().Err(err).Str("tool", tool).Msg("tool server unreachable")
			resp = models.NewFailureResponse(tool, models.ErrDownstreamFailure,
				"the tool server could not be reached: "+err.Error(), 0)
		}
		record.Invocations = append(record.Invocations, Invocation{
			Tool:      tool,
			Arguments: args,
			Response:  resp,
		})
		return resp
	}

	answer, err := a.planner.Plan(ctx, input, a.catalog, invoke)
	if err != nil {
		log.Warn().Err(err).Msg("planner failed")
		answer = "Sorry, I couldn't work out an answer to that: " + err.Error()
	}
	if strings.TrimSpace(answer) == "" {
		answer = "Sorry, I don't have an answer for that."
	}

	record.Answer = answer
	a.history = append(a.history, record)
	return answer
}

// History returns the append-only reasoning context accumulated so far.
func (a *Agent) History() []TurnRecord {
	return a.history
}
