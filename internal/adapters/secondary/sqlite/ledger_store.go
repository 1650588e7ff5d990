package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/sunlib/helpdesk-backend/internal/core/domain"
	apperrors "github.com/sunlib/helpdesk-backend/internal/core/errors"
	"github.com/sunlib/helpdesk-backend/internal/core/ports"
)

// LedgerStore persists one NotificationLedger per user in a local
// SQLite database. Writes replace the stored ledger wholesale, so
// concurrent sessions for the same user resolve last-write-wins.
type LedgerStore struct {
	db *sqlx.DB
}

var _ ports.LedgerStore = (*LedgerStore)(nil)

// NewLedgerStore opens (or creates) the SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewLedgerStore(dbPath string) (*LedgerStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// WAL keeps readers unblocked during the replace-on-write cycle.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &LedgerStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *LedgerStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database file is still reachable.
func (s *LedgerStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type eventRow struct {
	ID           string         `db:"id"`
	Kind         string         `db:"kind"`
	TicketID     sql.NullString `db:"ticket_id"`
	TicketNumber int64          `db:"ticket_number"`
	Title        string         `db:"title"`
	Message      string         `db:"message"`
	IsRead       int            `db:"is_read"`
	CreatedAt    time.Time      `db:"created_at"`
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Get assembles the user's ledger from its event and dedup-set rows.
// Returns apperrors.ErrNotFound when no ledger was ever persisted for
// the user.
func (s *LedgerStore) Get(ctx context.Context, userID uuid.UUID) (*domain.NotificationLedger, error) {
	var exists int
	err := s.db.GetContext(ctx, &exists,
		"SELECT COUNT(*) FROM ledgers WHERE user_id = ?", userID.String())
	if err != nil {
		return nil, apperrors.LedgerReadError(err)
	}
	if exists == 0 {
		return nil, apperrors.ErrNotFound
	}

	var rows []eventRow
	err = s.db.SelectContext(ctx, &rows,
		"SELECT id, kind, ticket_id, ticket_number, title, message, is_read, created_at FROM notification_events WHERE user_id = ? ORDER BY position",
		userID.String())
	if err != nil {
		return nil, apperrors.LedgerReadError(err)
	}

	ledger := domain.NewNotificationLedger()
	for _, r := range rows {
		ev := domain.NotificationEvent{
			ID:           r.ID,
			Kind:         domain.NotificationKind(r.Kind),
			TicketNumber: r.TicketNumber,
			Title:        r.Title,
			Message:      r.Message,
			IsRead:       r.IsRead != 0,
			CreatedAt:    r.CreatedAt,
		}
		if r.TicketID.Valid {
			ticketID, err := uuid.Parse(r.TicketID.String)
			if err != nil {
				return nil, apperrors.LedgerReadError(fmt.Errorf("event %s: bad ticket id: %w", r.ID, err))
			}
			ev.TicketID = &ticketID
		}
		ledger.Events = append(ledger.Events, ev)
	}

	if err := s.loadSeenSet(ctx, "seen_tickets", "ticket_id", userID, ledger.MarkTicketSeen); err != nil {
		return nil, err
	}
	if err := s.loadSeenSet(ctx, "seen_tasks", "task_id", userID, ledger.MarkTaskSeen); err != nil {
		return nil, err
	}

	return ledger, nil
}

func (s *LedgerStore) loadSeenSet(ctx context.Context, table, column string, userID uuid.UUID, mark func(uuid.UUID)) error {
	var ids []string
	query := fmt.Sprintf("SELECT %s FROM %s WHERE user_id = ?", column, table)
	if err := s.db.SelectContext(ctx, &ids, query, userID.String()); err != nil {
		return apperrors.LedgerReadError(err)
	}
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.LedgerReadError(fmt.Errorf("%s: bad id %q: %w", table, raw, err))
		}
		mark(id)
	}
	return nil
}

// Put replaces the user's stored ledger in one transaction.
func (s *LedgerStore) Put(ctx context.Context, userID uuid.UUID, ledger *domain.NotificationLedger) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	uid := userID.String()
	for _, table := range []string{"notification_events", "seen_tickets", "seen_tasks"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE user_id = ?", table), uid); err != nil {
			return err
		}
	}

	for i, ev := range ledger.Events {
		var ticketID sql.NullString
		if ev.TicketID != nil {
			ticketID = sql.NullString{String: ev.TicketID.String(), Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO notification_events
			 (user_id, id, kind, ticket_id, ticket_number, title, message, is_read, created_at, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uid, ev.ID, string(ev.Kind), ticketID, ev.TicketNumber, ev.Title, ev.Message, boolToInt(ev.IsRead), ev.CreatedAt.UTC(), i)
		if err != nil {
			return err
		}
	}

	for id := range ledger.SeenTicketIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO seen_tickets (user_id, ticket_id) VALUES (?, ?)", uid, id.String()); err != nil {
			return err
		}
	}
	for id := range ledger.SeenTaskIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO seen_tasks (user_id, task_id) VALUES (?, ?)", uid, id.String()); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ledgers (user_id, updated_at) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET updated_at = excluded.updated_at`,
		uid, time.Now().UTC())
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes every trace of the user's ledger. Unused by the
// engine itself; kept for account-removal tooling.
func (s *LedgerStore) Delete(ctx context.Context, userID uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	uid := userID.String()
	for _, table := range []string{"notification_events", "seen_tickets", "seen_tasks", "ledgers"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE user_id = ?", table), uid); err != nil {
			return err
		}
	}
	return tx.Commit()
}
