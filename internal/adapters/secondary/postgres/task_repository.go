package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sunlib/helpdesk-backend/internal/core/domain"
	"github.com/sunlib/helpdesk-backend/internal/core/ports"
)

type TaskRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(pool *pgxpool.Pool) ports.TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.PersonalTask, error) {
	const query = `
SELECT id, title, due_date, status, priority, created_by, ticket_id
FROM user_tasks
WHERE created_by = $1
ORDER BY due_date, title
`

	rows, err := r.pool.Query(ctx, query, pgtype.UUID{Bytes: ownerID, Valid: true})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.PersonalTask, 0)
	for rows.Next() {
		var (
			task     domain.PersonalTask
			dueDate  pgtype.Date
			status   string
			priority string
			ticketID pgtype.UUID
		)
		err := rows.Scan(
			&task.ID,
			&task.Title,
			&dueDate,
			&status,
			&priority,
			&task.CreatedBy,
			&ticketID,
		)
		if err != nil {
			return nil, err
		}

		task.DueDate = dueDate.Time
		task.Status = domain.TaskStatus(status)
		task.Priority = domain.TicketPriority(priority)
		if ticketID.Valid {
			value := uuid.UUID(ticketID.Bytes)
			task.TicketID = &value
		}

		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}
