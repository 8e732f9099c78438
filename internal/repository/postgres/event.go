package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/repository"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, owner_id, title, kind, team_size, description, event_date, status, created_on::text`

func scanEvent(row interface{ Scan(...any) error }, e *domain.Event) error {
	return row.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Kind, &e.TeamSize, &e.Description, &e.EventDate, &e.Status, &e.CreatedOn)
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `INSERT INTO events (owner_id, title, kind, team_size, description, event_date, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		e.OwnerID, e.Title, e.Kind, e.TeamSize, e.Description, e.EventDate, domain.EventStatusOpen, time.Now(),
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id int32) (*domain.Event, error) {
	e := &domain.Event{}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	err := scanEvent(r.db.QueryRowContext(ctx, query, id), e)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("event", id)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListOpen(ctx context.Context) ([]domain.Event, error) {
	// Dated events first, soonest first; undated ones trail by recency.
	query := `SELECT e.id, e.owner_id, e.title, e.kind, e.team_size, e.description, e.event_date,
	                 e.status, e.created_on::text, u.name
	          FROM events e
	          LEFT JOIN users u ON e.owner_id = u.id
	          WHERE e.status = $1
	          ORDER BY CASE WHEN e.event_date IS NULL THEN 1 ELSE 0 END, e.event_date ASC, e.created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, domain.EventStatusOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Kind, &e.TeamSize, &e.Description,
			&e.EventDate, &e.Status, &e.CreatedOn, &e.OwnerName); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE owner_id = $1 ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *eventRepository) ListAll(ctx context.Context, status *domain.EventStatus, limit, offset int32) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
	          WHERE ($1::text IS NULL OR status = $1)
	          ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Count(ctx context.Context, status *domain.EventStatus) (int32, error) {
	var n int32
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE ($1::text IS NULL OR status = $1)`, status).Scan(&n)
	return n, err
}

// Update applies only the recognized mutable fields of an event and only for
// its owner.
func (r *eventRepository) Update(ctx context.Context, id int32, ownerID int64, upd domain.EventUpdate) (bool, error) {
	if upd.Empty() {
		return false, nil
	}

	sets := make([]string, 0, 3)
	args := make([]any, 0, 5)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.ClearDate {
		sets = append(sets, "event_date = NULL")
	} else if upd.EventDate != nil {
		add("event_date", *upd.EventDate)
	}

	args = append(args, id, ownerID)
	query := fmt.Sprintf("UPDATE events SET %s WHERE id = $%d AND owner_id = $%d",
		joinSets(sets), len(args)-1, len(args))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func joinSets(sets []string) string {
	out := sets[0]
	for _, s := range sets[1:] {
		out += ", " + s
	}
	return out
}

func (r *eventRepository) Close(ctx context.Context, id int32, ownerID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET status = $1 WHERE id = $2 AND owner_id = $3`,
		domain.EventStatusClosed, id, ownerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *eventRepository) SetStatus(ctx context.Context, id int32, status domain.EventStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE events SET status = $1 WHERE id = $2`, status, id)
	return err
}

func (r *eventRepository) CloseExpired(ctx context.Context, today string) ([]domain.Event, error) {
	query := `UPDATE events SET status = $1
	          WHERE status = $2 AND event_date IS NOT NULL AND event_date < $3
	          RETURNING ` + eventColumns
	rows, err := r.db.QueryContext(ctx, query, domain.EventStatusClosed, domain.EventStatusOpen, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *eventRepository) Delete(ctx context.Context, id int32) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *eventRepository) Statistics(ctx context.Context, id int32) (*domain.EventStatistics, error) {
	stats := &domain.EventStatistics{}
	query := `SELECT
	            (SELECT COUNT(*) FROM slots WHERE event_id = $1 AND is_active),
	            (SELECT COUNT(*) FROM groups WHERE event_id = $1),
	            (SELECT COUNT(DISTINCT gm.user_id) FROM group_members gm
	               JOIN groups g ON gm.group_id = g.id WHERE g.event_id = $1),
	            (SELECT COUNT(*) FROM join_requests jr
	               JOIN slots s ON jr.slot_id = s.id
	               WHERE s.event_id = $1 AND jr.status = $2)`
	err := r.db.QueryRowContext(ctx, query, id, domain.JoinRequestStatusPending).
		Scan(&stats.ActiveSlots, &stats.TotalGroups, &stats.UsersInGroups, &stats.PendingRequests)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
