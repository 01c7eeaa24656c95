package models

// ErrorKind tags an invocation failure with its cause category.
type ErrorKind string

const (
	ErrUnknownTool       ErrorKind = "unknown_tool"
	ErrInvalidArguments  ErrorKind = "invalid_arguments"
	ErrMissingCredential ErrorKind = "missing_credential"
	ErrDownstreamFailure ErrorKind = "downstream_failure"
)

// ToolDescriptor describes one registered tool in the catalog.
// Immutable once registered; created at server startup.
type ToolDescriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// InvokeRequest is the body of POST /api/v1/invoke.
type InvokeRequest struct {
	Tool      string                 `json:"tool"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// InvokeError carries a failure kind and a human-readable message.
type InvokeError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// InvokeResponse is the uniform envelope returned for every invocation,
// success or failure. Result is set on success, Error on failure.
type InvokeResponse struct {
	Status     string       `json:"status"` // "success" | "failure"
	Tool       string       `json:"tool"`
	Result     *string      `json:"result,omitempty"`
	Error      *InvokeError `json:"error,omitempty"`
	DurationMs int64        `json:"duration_ms"`
}

// Success reports whether the invocation succeeded.
func (r *InvokeResponse) Success() bool {
	return r.Status == "success"
}

// NewSuccessResponse wraps a tool result into a success envelope.
func NewSuccessResponse(tool, result string, durationMs int64) *InvokeResponse {
	return &InvokeResponse{
		Status:     "success",
		Tool:       tool,
		Result:     &result,
		DurationMs: durationMs,
	}
}

// NewFailureResponse wraps an error kind and message into a failure envelope.
func NewFailureResponse(tool string, kind ErrorKind, message string, durationMs int64) *InvokeResponse {
	return &InvokeResponse{
		Status:     "failure",
		Tool:       tool,
		Error:      &InvokeError{Kind: kind, Message: message},
		DurationMs: durationMs,
	}
}

// CatalogResponse is returned by GET /api/v1/tools.
type CatalogResponse struct {
	Tools []ToolDescriptor `json:"tools"`
}
