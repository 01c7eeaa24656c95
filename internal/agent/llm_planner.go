package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"

	"github.com/searchai/searchai/internal/models"
)

const plannerSystemPrompt = `You are a helpful assistant with access to tools on a remote tool server.
Use tools when they help answer the user's question, then reply with a concise final answer in plain language.
If a tool fails, either try a different tool or explain the problem in your answer; never show raw error dumps.`

// LLMPlanner plans tool use with an Anthropic model in a multi-turn
// tool-calling loop: the model calls tools until it stops asking for them.
type LLMPlanner struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// NewLLMPlanner creates a planner backed by Anthropic Claude or a compatible
// provider behind baseURL.
func NewLLMPlanner(apiKey, model, baseURL string) *LLMPlanner {
	if model == "" {
		model = "claude-sonnet-4-6"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(opts...)
	return &LLMPlanner{
		client:    client,
		model:     model,
		maxTokens: 4096,
	}
}

// Plan runs the tool-calling loop until the model produces a final answer.
func (p *LLMPlanner) Plan(ctx context.Context, input string, catalog []models.ToolDescriptor, invoke InvokeFunc) (string, error) {
	anthToolParams := make([]anthropic.ToolUnionUnionParam, len(catalog))
	for i, d := range catalog {
		var propsRaw interface{}
		if props, ok := d.InputSchema["properties"]; ok {
			propsRaw = props
		}

		schema := map[string]interface{}{
			"type":       "object",
			"properties": propsRaw,
		}
		if required, ok := d.InputSchema["required"]; ok {
			schema["required"] = required
		}
		anthToolParams[i] = anthropic.ToolParam{
			Name:        anthropic.String(d.Name),
			Description: anthropic.String(d.Description),
			InputSchema: anthropic.F[interface{}](schema),
		}
	}

	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(input)),
	}

	maxIter := 10

	for iter := 0; iter < maxIter; iter++ {
		params := anthropic.MessageNewParams{
			Model:     anthropic.F(anthropic.Model(p.model)),
			MaxTokens: anthropic.F(int64(p.maxTokens)),
			Messages:  anthropic.F(messages),
			Tools:     anthropic.F(anthToolParams),
			System: anthropic.F([]anthropic.TextBlockParam{
				anthropic.NewTextBlock(plannerSystemPrompt),
			}),
		}

		resp, err := p.client.Messages.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("LLM call failed: %w", err)
		}

		var textContent string
		var pendingCalls []toolCall

		for _, block := range resp.Content {
			switch b := block.AsUnion().(type) {
			case anthropic.TextBlock:
				textContent += b.Text
			case anthropic.ToolUseBlock:
				var args map[string]interface{}
				if err := json.Unmarshal(b.Input, &args); err != nil {
					log.Warn().Err(err).Str("tool", b.Name).Msg("failed to parse tool input")
					args = map[string]interface{}{}
				}
				pendingCalls = append(pendingCalls, toolCall{ID: b.ID, Name: b.Name, Args: args})
			}
		}

		log.Debug().
			Int("iter", iter).
			Str("stop_reason", string(resp.StopReason)).
			Int("tool_calls", len(pendingCalls)).
			Msg("planner iteration")

		isDone := resp.StopReason == "end_turn" ||
			resp.StopReason == "stop_sequence" ||
			resp.StopReason == "max_tokens" ||
			len(pendingCalls) == 0
		if isDone {
			return textContent, nil
		}

		// Force a final answer near the iteration cap to avoid runaway loops.
		if iter >= 7 {
			messages = append(messages, resp.ToParam())
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewTextBlock("You have enough data. Please provide your final answer now without calling any more tools."),
			))
			params := anthropic.MessageNewParams{
				Model:     anthropic.F(anthropic.Model(p.model)),
				MaxTokens: anthropic.F(int64(p.maxTokens)),
				Messages:  anthropic.F(messages),
				System: anthropic.F([]anthropic.TextBlockParam{
					anthropic.NewTextBlock(plannerSystemPrompt),
				}),
			}
			finalResp, err := p.client.Messages.New(ctx, params)
			if err != nil {
				return textContent, fmt.Errorf("final answer call failed: %w", err)
			}
			for _, block := range finalResp.Content {
				if b, ok := block.AsUnion().(anthropic.TextBlock); ok {
					textContent += b.Text
				}
			}
			return textContent, nil
		}

		messages = append(messages, resp.ToParam())

		// Execute tools sequentially and feed the envelopes back to the model.
		var toolResults []anthropic.ContentBlockParamUnion
		for _, tc := range pendingCalls {
			envelope := invoke(ctx, tc.Name, tc.Args)
			if envelope.Success() {
				toolResults = append(toolResults, anthropic.NewToolResultBlock(tc.ID, *envelope.Result, false))
			} else {
				msg := fmt.Sprintf("%s: %s", envelope.Error.Kind, envelope.Error.Message)
				toolResults = append(toolResults, anthropic.NewToolResultBlock(tc.ID, msg, true))
			}
		}
		messages = append(messages, anthropic.NewUserMessage(toolResults...))
	}

	return "", fmt.Errorf("planning loop exceeded max iterations (%d)", maxIter)
}

type toolCall struct {
	ID   string
	Name string
	Args map[string]interface{}
}
