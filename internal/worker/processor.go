package worker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/support-agent/internal/agent"
	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/events"
	"github.com/spec-kit/support-agent/internal/observability"
	"github.com/spec-kit/support-agent/internal/repository"
)

// Processor runs ticket resolution in the background. Each accepted ticket
// gets its own goroutine, bounded by a concurrency limit. In-flight tickets
// are never cancelled; Shutdown waits for them to finish.
type Processor struct {
	tickets    repository.TicketRepository
	workflow   *agent.Workflow
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger

	sem   chan struct{}
	group *errgroup.Group
}

// NewProcessor constructs a processor with the given concurrency bound.
func NewProcessor(tickets repository.TicketRepository, workflow *agent.Workflow, dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger, maxConcurrent int) *Processor {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Processor{
		tickets:    tickets,
		workflow:   workflow,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
		sem:        make(chan struct{}, maxConcurrent),
		group:      &errgroup.Group{},
	}
}

// Enqueue schedules a ticket for resolution and returns immediately.
func (p *Processor) Enqueue(ticketID string) {
	p.group.Go(func() error {
		p.sem <- struct{}{}
		defer func() { <-p.sem }()

		// Deliberately detached from the request context: an accepted
		// ticket is processed to a terminal state even if the submitting
		// client goes away.
		p.process(context.Background(), ticketID)
		return nil
	})
}

// Shutdown waits for all in-flight tickets to reach a terminal state.
func (p *Processor) Shutdown() {
	_ = p.group.Wait()
}

func (p *Processor) process(ctx context.Context, ticketID string) {
	logger := p.logger.With(zap.String("ticket_id", ticketID))

	ticket, err := p.tickets.GetByID(ctx, ticketID)
	if err != nil {
		logger.Error("ticket load failed", zap.Error(err))
		return
	}

	if err := p.tickets.UpdateStatus(ctx, ticketID, domain.TicketStatusProcessing); err != nil {
		logger.Error("status transition to processing failed", zap.Error(err))
		return
	}
	p.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketProcessing,
		TicketID:  ticketID,
		Timestamp: time.Now().UTC(),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: domain.TicketStatusReceived,
			NewStatus: domain.TicketStatusProcessing,
		},
	})

	state := domain.NewAgentState(ticket.Description, map[string]string{
		"ticket_id":   ticket.ID,
		"customer_id": ticket.CustomerID,
	})

	runErr := p.workflow.Run(ctx, state)
	processedAt := time.Now().UTC()

	if runErr != nil {
		var stageErr *agent.StageFailure
		stage := ""
		if errors.As(runErr, &stageErr) {
			stage = string(stageErr.Stage)
		}
		logger.Error("ticket resolution failed",
			zap.String("stage", stage),
			zap.Error(runErr))

		if err := p.tickets.Finalize(ctx, ticketID, domain.TicketStatusFailed, nil, state.Trace, processedAt); err != nil {
			logger.Error("ticket finalize failed", zap.Error(err))
			return
		}
		p.metrics.RecordTicket(string(domain.TicketStatusFailed))
		p.publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketFailed,
			TicketID:  ticketID,
			Timestamp: processedAt,
			Payload: events.TicketFailedPayload{
				Stage: stage,
				Error: runErr.Error(),
			},
		})
		return
	}

	response := state.Response
	if err := p.tickets.Finalize(ctx, ticketID, domain.TicketStatusResolved, &response, state.Trace, processedAt); err != nil {
		logger.Error("ticket finalize failed", zap.Error(err))
		return
	}
	p.metrics.RecordTicket(string(domain.TicketStatusResolved))

	payload := events.TicketResolvedPayload{
		Response:      response,
		LoopExhausted: state.LoopExhausted,
	}
	if state.Policy != nil {
		payload.PolicyID = state.Policy.PolicyID
	}
	for _, problem := range state.Problems {
		payload.Problems = append(payload.Problems, string(problem))
	}
	p.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketResolved,
		TicketID:  ticketID,
		Timestamp: processedAt,
		Payload:   payload,
	})
	logger.Info("ticket resolved",
		zap.Bool("loop_exhausted", state.LoopExhausted),
		zap.Int("trace_entries", len(state.Trace)))
}

func (p *Processor) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Warn("event publish failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}
