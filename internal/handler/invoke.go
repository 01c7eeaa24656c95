package handler

import (
	"encoding/json"
	"net/http"

	"github.com/searchai/searchai/internal/middleware"
	"github.com/searchai/searchai/internal/models"
	"github.com/searchai/searchai/internal/security"
	"github.com/searchai/searchai/internal/tools"
)

// InvokeHandler handles POST /api/v1/invoke: the single logical endpoint of
// the tool server. Transport-level problems (unreadable body, missing tool
// name) are HTTP 400; every in-taxonomy failure (unknown tool, invalid
// arguments, missing credential, downstream failure) is reported in-band as
// an HTTP 200 failure envelope so the caller sees one uniform contract.
type InvokeHandler struct {
	registry *tools.Registry
	audit    *security.AuditLogger
}

func NewInvokeHandler(registry *tools.Registry, audit *security.AuditLogger) *InvokeHandler {
	return &InvokeHandler{registry: registry, audit: audit}
}

// Invoke handles POST /api/v1/invoke
func (h *InvokeHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	var req models.InvokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Tool == "" {
		models.WriteError(w, http.StatusBadRequest, "tool is required")
		return
	}

	resp := h.registry.Invoke(r.Context(), req.Tool, req.Arguments)

	errorKind := ""
	if resp.Error != nil {
		errorKind = string(resp.Error.Kind)
	}
	h.audit.LogInvocation(
		req.Tool,
		r.Header.Get("X-API-Key"),
		middleware.GetRequestID(r.Context()),
		resp.Success(),
		errorKind,
		resp.DurationMs,
	)

	models.WriteJSON(w, http.StatusOK, resp)
}
