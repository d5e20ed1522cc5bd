package domain

import (
	"time"

	"github.com/google/uuid"
)

// TraceKind tags one entry of the reasoning transcript.
type TraceKind string

const (
	TraceKindReasoning  TraceKind = "reasoning"
	TraceKindToolCall   TraceKind = "tool-call"
	TraceKindToolResult TraceKind = "tool-result"
	TraceKindFinal      TraceKind = "final"
)

// TraceEntry is one append-only record of the audit transcript. Entries
// are never mutated after append; ordering is significant.
type TraceEntry struct {
	ID        string         `json:"id"`
	Kind      TraceKind      `json:"kind"`
	Stage     string         `json:"stage"`
	Payload   string         `json:"payload"`
	Fields    map[string]any `json:"fields,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewTraceEntry builds a transcript entry stamped with the current time.
func NewTraceEntry(kind TraceKind, stage, payload string, fields map[string]any) TraceEntry {
	return TraceEntry{
		ID:        uuid.NewString(),
		Kind:      kind,
		Stage:     stage,
		Payload:   payload,
		Fields:    fields,
		CreatedAt: time.Now().UTC(),
	}
}
