package tools

import (
	"context"
	"time"
)

// DateTool returns the current date in YYYY-MM-DD form.
func DateTool() Tool {
	return DateToolAt(time.Now)
}

// DateToolAt takes the clock as a parameter for tests.
func DateToolAt(now func() time.Time) Tool {
	return Tool{
		Name:        "date",
		Description: "Returns the current date in YYYY-MM-DD format.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			return now().Format("2006-01-02"), nil
		},
	}
}
