package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/support-agent/internal/domain"
	apperrors "github.com/spec-kit/support-agent/pkg/util"
)

// memoryTicketRepository is the in-process fallback store used when no
// Postgres DSN is configured, and the repository used in tests.
type memoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket
}

// NewMemoryTicketRepository creates an empty in-memory repository.
func NewMemoryTicketRepository() TicketRepository {
	return &memoryTicketRepository{tickets: make(map[string]*domain.Ticket)}
}

func (r *memoryTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tickets[ticket.ID]; exists {
		return apperrors.NewConflict(
			fmt.Sprintf("ticket %s already exists", ticket.ID),
			map[string]any{"ticket_id": ticket.ID})
	}
	r.tickets[ticket.ID] = copyTicket(ticket)
	return nil
}

func (r *memoryTicketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket, ok := r.tickets[id]
	if !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	ticket.Status = status
	return nil
}

func (r *memoryTicketRepository) ReplaceTrace(ctx context.Context, id string, trace []domain.TraceEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket, ok := r.tickets[id]
	if !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	ticket.Trace = append([]domain.TraceEntry(nil), trace...)
	return nil
}

func (r *memoryTicketRepository) Finalize(ctx context.Context, id string, status domain.TicketStatus, response *string, trace []domain.TraceEntry, processedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket, ok := r.tickets[id]
	if !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	ticket.Status = status
	ticket.Trace = append([]domain.TraceEntry(nil), trace...)
	ticket.ProcessedAt = &processedAt
	if response != nil {
		text := *response
		ticket.Response = &text
	} else {
		ticket.Response = nil
	}
	return nil
}

func (r *memoryTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ticket, ok := r.tickets[id]
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return copyTicket(ticket), nil
}

func (r *memoryTicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		result = append(result, *copyTicket(ticket))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ReceivedAt.After(result[j].ReceivedAt)
	})
	return result, nil
}

func copyTicket(ticket *domain.Ticket) *domain.Ticket {
	clone := *ticket
	clone.Trace = append([]domain.TraceEntry(nil), ticket.Trace...)
	if ticket.Response != nil {
		text := *ticket.Response
		clone.Response = &text
	}
	if ticket.ProcessedAt != nil {
		t := *ticket.ProcessedAt
		clone.ProcessedAt = &t
	}
	return &clone
}
