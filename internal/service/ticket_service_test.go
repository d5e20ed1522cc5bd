package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/events"
	"github.com/spec-kit/support-agent/internal/repository"
	apperrors "github.com/spec-kit/support-agent/pkg/util"
)

type recordingEnqueuer struct {
	ids []string
}

func (r *recordingEnqueuer) Enqueue(ticketID string) {
	r.ids = append(r.ids, ticketID)
}

func newTestService() (*TicketService, *recordingEnqueuer, repository.TicketRepository) {
	repo := repository.NewMemoryTicketRepository()
	enqueuer := &recordingEnqueuer{}
	svc := NewTicketService(TicketDependencies{
		TicketRepo: repo,
		Dispatcher: events.NewInMemoryDispatcher(),
		Enqueuer:   enqueuer,
		Logger:     zap.NewNop(),
	})
	return svc, enqueuer, repo
}

func validInput() TicketCreateInput {
	return TicketCreateInput{
		TicketID:     "TICKET-1",
		CustomerID:   "C1001",
		Description:  "my package arrived damaged",
		ReceivedDate: time.Now(),
	}
}

func TestCreateTicketAcceptsAndEnqueues(t *testing.T) {
	svc, enqueuer, repo := newTestService()

	ticket, err := svc.CreateTicket(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if ticket.Status != domain.TicketStatusReceived {
		t.Errorf("status = %q, want received", ticket.Status)
	}
	if len(enqueuer.ids) != 1 || enqueuer.ids[0] != "TICKET-1" {
		t.Errorf("enqueued = %v, want [TICKET-1]", enqueuer.ids)
	}

	stored, err := repo.GetByID(context.Background(), "TICKET-1")
	if err != nil {
		t.Fatalf("stored ticket missing: %v", err)
	}
	if stored.Response != nil {
		t.Error("new ticket must not carry a response")
	}
}

func TestCreateTicketValidation(t *testing.T) {
	svc, enqueuer, _ := newTestService()

	tests := []struct {
		name   string
		mutate func(*TicketCreateInput)
	}{
		{"missing ticket id", func(in *TicketCreateInput) { in.TicketID = " " }},
		{"missing customer id", func(in *TicketCreateInput) { in.CustomerID = "" }},
		{"missing description", func(in *TicketCreateInput) { in.Description = "" }},
		{"missing received date", func(in *TicketCreateInput) { in.ReceivedDate = time.Time{} }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)
			_, err := svc.CreateTicket(context.Background(), input)
			if !apperrors.HasCode(err, apperrors.CodeValidation) {
				t.Fatalf("expected VALIDATION_FAILED, got %v", err)
			}
		})
	}

	if len(enqueuer.ids) != 0 {
		t.Errorf("rejected tickets were enqueued: %v", enqueuer.ids)
	}
}

func TestCreateTicketDuplicateConflicts(t *testing.T) {
	svc, enqueuer, _ := newTestService()

	if _, err := svc.CreateTicket(context.Background(), validInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateTicket(context.Background(), validInput())
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
	if len(enqueuer.ids) != 1 {
		t.Errorf("enqueued = %v, duplicate must not be enqueued", enqueuer.ids)
	}
}

func TestGetTicketUnknown(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetTicket(context.Background(), "missing")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestListTickets(t *testing.T) {
	svc, _, _ := newTestService()

	first := validInput()
	second := validInput()
	second.TicketID = "TICKET-2"
	second.ReceivedDate = first.ReceivedDate.Add(time.Minute)

	for _, input := range []TicketCreateInput{first, second} {
		if _, err := svc.CreateTicket(context.Background(), input); err != nil {
			t.Fatalf("CreateTicket %s: %v", input.TicketID, err)
		}
	}

	tickets, err := svc.ListTickets(context.Background())
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("got %d tickets, want 2", len(tickets))
	}
	if tickets[0].ID != "TICKET-2" {
		t.Errorf("list[0] = %q, want newest first", tickets[0].ID)
	}
}
