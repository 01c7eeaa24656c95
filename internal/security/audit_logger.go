// Package security holds the audit trail of the invoke boundary.
package security

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/rs/zerolog/log"
)

// AuditLogger records every tool invocation with hashed identifiers, so the
// trail never contains raw API keys or full argument payloads.
type AuditLogger struct {
	enabled bool
}

func NewAuditLogger(enabled bool) *AuditLogger {
	return &AuditLogger{enabled: enabled}
}

// LogInvocation records one invoke exchange.
func (a *AuditLogger) LogInvocation(tool, apiKey, requestID string, success bool, errorKind string, durationMs int64) {
	if !a.enabled {
		return
	}

	keyHash := ""
	if apiKey != "" {
		keyHash = hashStr(apiKey)[:16]
	}

	evt := log.Info().
		Str("event", "invoke_audit").
		Str("tool", tool).
		Str("api_key_hash", keyHash).
		Str("request_id", requestID).
		Bool("success", success).
		Int64("duration_ms", durationMs)

	if errorKind != "" {
		evt = evt.Str("error_kind", errorKind)
	}
	evt.Msg("audit")
}

func hashStr(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
