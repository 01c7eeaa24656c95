package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/searchai/searchai/internal/models"
)

// Registry maps tool name -> (schema, callable). It is populated at startup
// by an explicit Register call per tool and is safe for concurrent Invoke.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	schemas map[string]*jsonschema.Schema
	order   []string
	timeout time.Duration
}

// NewRegistry returns an empty registry. timeout bounds each tool execution;
// zero means the default of 60s.
func NewRegistry(timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Registry{
		tools:   make(map[string]Tool),
		schemas: make(map[string]*jsonschema.Schema),
		timeout: timeout,
	}
}

// Register adds a tool. The name must be unique and the input schema must
// compile as a JSON Schema; the compiled schema is cached for validation.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if t.Execute == nil {
		return fmt.Errorf("tool %q has no execute function", t.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("tool %q is already registered", t.Name)
	}

	schema, err := compileSchema(t.InputSchema)
	if err != nil {
		return fmt.Errorf("tool %q schema: %w", t.Name, err)
	}

	r.tools[t.Name] = t
	r.schemas[t.Name] = schema
	r.order = append(r.order, t.Name)
	return nil
}

// Get returns the tool with the given name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Descriptors returns the catalog in registration order.
func (r *Registry) Descriptors() []models.ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		out = append(out, models.ToolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}
	return out
}

// Invoke executes the named tool with the given arguments and always returns
// an InvokeResponse, never an error or a panic. Unknown names, missing
// credentials, invalid arguments, and execution faults (including timeouts)
// all come back as failure envelopes so the server keeps serving.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]interface{}) *models.InvokeResponse {
	start := time.Now()
	ms := func() int64 { return time.Since(start).Milliseconds() }

	r.mu.RLock()
	t, ok := r.tools[name]
	schema := r.schemas[name]
	r.mu.RUnlock()

	if !ok {
		return models.NewFailureResponse(name, models.ErrUnknownTool,
			fmt.Sprintf("unknown tool: %q", name), ms())
	}

	if t.MissingCredential != "" {
		return models.NewFailureResponse(name, models.ErrMissingCredential,
			fmt.Sprintf("tool %q requires %s, which is not configured", name, t.MissingCredential), ms())
	}

	if args == nil {
		args = map[string]interface{}{}
	}
	if schema != nil {
		if err := validateArguments(schema, args); err != nil {
			return models.NewFailureResponse(name, models.ErrInvalidArguments, err.Error(), ms())
		}
	}

	result, err := r.execute(ctx, t, args)
	if err != nil {
		log.Warn().Err(err).Str("tool", name).Msg("tool execution failed")
		return models.NewFailureResponse(name, models.ErrDownstreamFailure, err.Error(), ms())
	}

	return models.NewSuccessResponse(name, result, ms())
}

// execute runs the tool under the registry timeout with panic recovery, so a
// hung or faulting tool can never take the server down or block it forever.
func (r *Registry) execute(ctx context.Context, t Tool, args map[string]interface{}) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type outcome struct {
		result string
		err    error
	}
	ch := make(chan outcome, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- outcome{err: fmt.Errorf("tool %q panicked: %v", t.Name, rec)}
			}
		}()
		result, err := t.Execute(ctx, args)
		ch <- outcome{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("tool %q did not return in time: %w", t.Name, ctx.Err())
	case out := <-ch:
		return out.result, out.err
	}
}

// compileSchema turns a map-declared input schema into a validator. A nil
// schema means the tool accepts any arguments.
func compileSchema(inputSchema map[string]interface{}) (*jsonschema.Schema, error) {
	if inputSchema == nil {
		return nil, nil
	}
	raw, err := json.Marshal(inputSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	schema, err := jsonschema.CompileString("", string(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func validateArguments(schema *jsonschema.Schema, args map[string]interface{}) error {
	// Round-trip through JSON so argument values use the types the
	// validator expects (e.g. ints become float64), matching what a
	// decoded HTTP body looks like.
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("invalid arguments: %v", err)
	}
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("invalid arguments: %v", err)
	}
	if err := schema.Validate(decoded); err != nil {
		return fmt.Errorf("invalid arguments: %v", err)
	}
	return nil
}
