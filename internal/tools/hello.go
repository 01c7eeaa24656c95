package tools

import "context"

// HelloGreeting is the fixed reply of the hello tool.
const HelloGreeting = "hello from searchai"

// HelloTool is a no-op demo tool that always returns the same greeting.
func HelloTool() Tool {
	return Tool{
		Name:        "hello",
		Description: "Returns a fixed hello message from the tool server. Useful for checking connectivity.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Optional name to greet",
				},
			},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			return HelloGreeting, nil
		},
	}
}
