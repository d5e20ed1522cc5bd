package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/events"
	"github.com/spec-kit/support-agent/internal/repository"
	apperrors "github.com/spec-kit/support-agent/pkg/util"
)

// Enqueuer hands an accepted ticket to the background processor.
type Enqueuer interface {
	Enqueue(ticketID string)
}

// TicketService coordinates ticket intake and retrieval.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	enqueuer   Enqueuer
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Enqueuer   Enqueuer
	Cache      *redis.Client
	CacheTTL   time.Duration
	Logger     *zap.Logger
}

// TicketCreateInput describes ticket intake payload.
type TicketCreateInput struct {
	TicketID     string
	CustomerID   string
	Description  string
	ReceivedDate time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		enqueuer:   deps.Enqueuer,
		cache:      deps.Cache,
		cacheTTL:   deps.CacheTTL,
		logger:     deps.Logger,
	}
}

// CreateTicket validates and persists a new ticket, then queues it for
// background resolution. It returns as soon as the ticket is accepted;
// resolution progress is observable via GetTicket.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	input.TicketID = strings.TrimSpace(input.TicketID)
	input.CustomerID = strings.TrimSpace(input.CustomerID)
	input.Description = strings.TrimSpace(input.Description)

	if input.TicketID == "" {
		return nil, apperrors.NewValidationError("ticket_id is required", nil)
	}
	if input.CustomerID == "" {
		return nil, apperrors.NewValidationError("customer_id is required", nil)
	}
	if input.Description == "" {
		return nil, apperrors.NewValidationError("description is required", nil)
	}
	if input.ReceivedDate.IsZero() {
		return nil, apperrors.NewValidationError("received_date is required", nil)
	}

	ticket := &domain.Ticket{
		ID:          input.TicketID,
		CustomerID:  input.CustomerID,
		Description: input.Description,
		ReceivedAt:  input.ReceivedDate,
		Status:      domain.TicketStatusReceived,
		Trace:       []domain.TraceEntry{},
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketReceived,
		TicketID:  ticket.ID,
		Timestamp: time.Now().UTC(),
		Payload: events.TicketReceivedPayload{
			CustomerID: ticket.CustomerID,
			ReceivedAt: ticket.ReceivedAt,
		},
	})

	s.enqueuer.Enqueue(ticket.ID)

	return ticket, nil
}

// GetTicket returns a ticket by id. Terminal tickets are served from the
// cache when available; their records never change again once finalized.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.NewValidationError("ticket id is required", nil)
	}

	if cached := s.cacheGet(ctx, id); cached != nil {
		return cached, nil
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if ticket.Status.Terminal() {
		s.cacheSet(ctx, ticket)
	}
	return ticket, nil
}

// ListTickets returns all known tickets, newest first.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.List(ctx)
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

func (s *TicketService) cacheKey(id string) string {
	return "ticket:" + id
}

func (s *TicketService) cacheGet(ctx context.Context, id string) *domain.Ticket {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cacheKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("ticket cache read failed", zap.String("ticket_id", id), zap.Error(err))
		}
		return nil
	}
	var ticket domain.Ticket
	if err := json.Unmarshal(raw, &ticket); err != nil {
		s.logger.Warn("ticket cache entry corrupt", zap.String("ticket_id", id), zap.Error(err))
		return nil
	}
	return &ticket
}

func (s *TicketService) cacheSet(ctx context.Context, ticket *domain.Ticket) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(ticket)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(ticket.ID), raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("ticket cache write failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}
}
