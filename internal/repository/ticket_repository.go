package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-agent/internal/domain"
	apperrors "github.com/spec-kit/support-agent/pkg/util"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error
	ReplaceTrace(ctx context.Context, id string, trace []domain.TraceEntry) error
	Finalize(ctx context.Context, id string, status domain.TicketStatus, response *string, trace []domain.TraceEntry, processedAt time.Time) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the Postgres-backed repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, customer_id, description, received_at, status, trace)
        VALUES ($1,$2,$3,$4,$5,$6)`
	trace, err := marshalTrace(ticket.Trace)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.CustomerID,
		ticket.Description,
		ticket.ReceivedAt,
		ticket.Status,
		trace,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflict(
				fmt.Sprintf("ticket %s already exists", ticket.ID),
				map[string]any{"ticket_id": ticket.ID})
		}
		return err
	}
	return nil
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	const query = `UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return nil
}

func (r *ticketRepository) ReplaceTrace(ctx context.Context, id string, trace []domain.TraceEntry) error {
	const query = `UPDATE tickets SET trace=$1, updated_at=NOW() WHERE id=$2`
	payload, err := marshalTrace(trace)
	if err != nil {
		return err
	}
	cmd, err := r.pool.Exec(ctx, query, payload, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return nil
}

func (r *ticketRepository) Finalize(ctx context.Context, id string, status domain.TicketStatus, response *string, trace []domain.TraceEntry, processedAt time.Time) error {
	const query = `
        UPDATE tickets SET status=$1, response=$2, trace=$3, processed_at=$4, updated_at=NOW()
        WHERE id=$5`
	payload, err := marshalTrace(trace)
	if err != nil {
		return err
	}
	cmd, err := r.pool.Exec(ctx, query, status, response, payload, processedAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, customer_id, description, received_at, processed_at, status, response, trace
        FROM tickets WHERE id=$1`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT id, customer_id, description, received_at, processed_at, status, response, trace
        FROM tickets ORDER BY received_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var ticket domain.Ticket
	var trace []byte
	if err := row.Scan(
		&ticket.ID,
		&ticket.CustomerID,
		&ticket.Description,
		&ticket.ReceivedAt,
		&ticket.ProcessedAt,
		&ticket.Status,
		&ticket.Response,
		&trace,
	); err != nil {
		return nil, err
	}
	if len(trace) > 0 {
		if err := json.Unmarshal(trace, &ticket.Trace); err != nil {
			return nil, fmt.Errorf("decode trace for ticket %s: %w", ticket.ID, err)
		}
	}
	return &ticket, nil
}

func marshalTrace(trace []domain.TraceEntry) ([]byte, error) {
	if trace == nil {
		trace = []domain.TraceEntry{}
	}
	payload, err := json.Marshal(trace)
	if err != nil {
		return nil, fmt.Errorf("encode trace: %w", err)
	}
	return payload, nil
}
