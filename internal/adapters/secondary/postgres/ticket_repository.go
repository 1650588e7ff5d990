package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sunlib/helpdesk-backend/internal/core/domain"
	"github.com/sunlib/helpdesk-backend/internal/core/ports"
)

type TicketRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TicketRepository = (*TicketRepository)(nil)

func NewTicketRepository(pool *pgxpool.Pool) ports.TicketRepository {
	return &TicketRepository{pool: pool}
}

func (r *TicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
SELECT id, number, title, description, type, status, priority, origin, channel,
       created_at, updated_at, created_by, assignee_id
FROM tickets
ORDER BY created_at
`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		var (
			ticket     domain.Ticket
			ticketType string
			status     string
			priority   string
			origin     string
			channel    string
			createdAt  pgtype.Timestamptz
			updatedAt  pgtype.Timestamptz
			assigneeID pgtype.UUID
		)
		err := rows.Scan(
			&ticket.ID,
			&ticket.Number,
			&ticket.Title,
			&ticket.Description,
			&ticketType,
			&status,
			&priority,
			&origin,
			&channel,
			&createdAt,
			&updatedAt,
			&ticket.CreatedBy,
			&assigneeID,
		)
		if err != nil {
			return nil, err
		}

		ticket.Type = domain.TicketType(ticketType)
		ticket.Status = domain.TicketStatus(status)
		ticket.Priority = domain.TicketPriority(priority)
		ticket.Origin = domain.TicketOrigin(origin)
		ticket.Channel = domain.TicketChannel(channel)
		ticket.CreatedAt = createdAt.Time
		ticket.UpdatedAt = updatedAt.Time
		if assigneeID.Valid {
			value := uuid.UUID(assigneeID.Bytes)
			ticket.AssigneeID = &value
		}

		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}
