// Package tools defines the Tool type and the Registry that exposes a fixed
// set of named tools behind one invoke operation. Both the HTTP server and
// tests talk to tools only through the registry.
package tools

import "context"

// Tool represents a callable function the agent can invoke by name.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]interface{}

	// MissingCredential names the credential a tool needs but does not
	// have. When non-empty the registry rejects invocations with a
	// missing_credential failure instead of executing the tool.
	MissingCredential string

	Execute func(ctx context.Context, input map[string]interface{}) (string, error)
}
