package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sunlib/helpdesk-backend/internal/core/domain"
	"github.com/sunlib/helpdesk-backend/internal/core/ports"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

var _ ports.UserDirectory = (*UserRepository)(nil)

func NewUserRepository(pool *pgxpool.Pool) ports.UserDirectory {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `
SELECT id, full_name, email
FROM users
ORDER BY full_name, email
`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
