package events

import (
	"time"

	"github.com/spec-kit/support-agent/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketReceived   EventType = "ticket_received"
	EventTicketProcessing EventType = "ticket_processing"
	EventTicketResolved   EventType = "ticket_resolved"
	EventTicketFailed     EventType = "ticket_failed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketReceivedPayload payload.
type TicketReceivedPayload struct {
	CustomerID string    `json:"customer_id"`
	ReceivedAt time.Time `json:"received_at"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketResolvedPayload payload.
type TicketResolvedPayload struct {
	Response      string   `json:"response"`
	PolicyID      string   `json:"policy_id,omitempty"`
	Problems      []string `json:"problems,omitempty"`
	LoopExhausted bool     `json:"loop_exhausted"`
}

// TicketFailedPayload payload.
type TicketFailedPayload struct {
	Stage string `json:"stage,omitempty"`
	Error string `json:"error"`
}
