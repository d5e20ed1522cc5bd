package dto

import (
	"time"

	"github.com/spec-kit/support-agent/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	TicketID     string    `json:"ticket_id"`
	CustomerID   string    `json:"customer_id"`
	Description  string    `json:"description"`
	ReceivedDate time.Time `json:"received_date"`
}

// TicketAccepted acknowledges an accepted ticket.
type TicketAccepted struct {
	TicketID string              `json:"ticket_id"`
	Status   domain.TicketStatus `json:"status"`
}

// TicketSummary response.
type TicketSummary struct {
	ID          string              `json:"id"`
	CustomerID  string              `json:"customer_id"`
	Description string              `json:"description"`
	Status      domain.TicketStatus `json:"status"`
	ReceivedAt  time.Time           `json:"received_at"`
	ProcessedAt *time.Time          `json:"processed_at"`
}

// TicketDetailResponse provides full ticket info including the trace.
type TicketDetailResponse struct {
	ID          string               `json:"id"`
	CustomerID  string               `json:"customer_id"`
	Description string               `json:"description"`
	Status      domain.TicketStatus  `json:"status"`
	ReceivedAt  time.Time            `json:"received_at"`
	ProcessedAt *time.Time           `json:"processed_at"`
	Response    *string              `json:"response"`
	Trace       []TraceEntryResponse `json:"trace"`
}

// TraceEntryResponse represents one transcript entry.
type TraceEntryResponse struct {
	ID        string                 `json:"id"`
	Kind      domain.TraceKind       `json:"kind"`
	Stage     string                 `json:"stage"`
	Payload   string                 `json:"payload"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewTicketSummary maps a ticket to its summary representation.
func NewTicketSummary(t domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:          t.ID,
		CustomerID:  t.CustomerID,
		Description: t.Description,
		Status:      t.Status,
		ReceivedAt:  t.ReceivedAt,
		ProcessedAt: t.ProcessedAt,
	}
}

// NewTicketDetail maps a ticket and its trace to the detail representation.
func NewTicketDetail(t *domain.Ticket) TicketDetailResponse {
	trace := make([]TraceEntryResponse, 0, len(t.Trace))
	for _, entry := range t.Trace {
		trace = append(trace, TraceEntryResponse{
			ID:        entry.ID,
			Kind:      entry.Kind,
			Stage:     entry.Stage,
			Payload:   entry.Payload,
			Fields:    entry.Fields,
			CreatedAt: entry.CreatedAt,
		})
	}
	return TicketDetailResponse{
		ID:          t.ID,
		CustomerID:  t.CustomerID,
		Description: t.Description,
		Status:      t.Status,
		ReceivedAt:  t.ReceivedAt,
		ProcessedAt: t.ProcessedAt,
		Response:    t.Response,
		Trace:       trace,
	}
}
