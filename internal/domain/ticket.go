package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusReceived   TicketStatus = "received"
	TicketStatusProcessing TicketStatus = "processing"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusFailed     TicketStatus = "failed"
)

// Terminal reports whether the status is an end state.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusResolved || s == TicketStatusFailed
}

// CanTransitionTo enforces the monotonic lifecycle
// received -> processing -> {resolved | failed}.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	switch s {
	case TicketStatusReceived:
		return next == TicketStatusProcessing
	case TicketStatusProcessing:
		return next.Terminal()
	default:
		return false
	}
}

// Ticket is the persisted record for a customer support request.
// The ID is caller-supplied and unique; Response stays nil until the
// ticket resolves.
type Ticket struct {
	ID          string
	CustomerID  string
	Description string
	ReceivedAt  time.Time
	ProcessedAt *time.Time
	Status      TicketStatus
	Response    *string
	Trace       []TraceEntry
}
