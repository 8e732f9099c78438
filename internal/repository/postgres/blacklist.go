package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/repository"
)

type blacklistRepository struct {
	db *sql.DB
}

func NewBlacklistRepository(db *sql.DB) repository.BlacklistRepository {
	return &blacklistRepository{db: db}
}

func (r *blacklistRepository) Add(ctx context.Context, entry *domain.BlacklistEntry) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO blacklist (user_id, banned_by, reason, banned_on)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO NOTHING`,
		entry.UserID, entry.BannedBy, entry.Reason, time.Now())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *blacklistRepository) Remove(ctx context.Context, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blacklist WHERE user_id = $1`, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *blacklistRepository) IsBanned(ctx context.Context, userID int64) (bool, error) {
	var banned bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM blacklist WHERE user_id = $1)`, userID).Scan(&banned)
	return banned, err
}

func (r *blacklistRepository) Get(ctx context.Context, userID int64) (*domain.BlacklistEntry, error) {
	e := &domain.BlacklistEntry{}
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, banned_by, reason, banned_on::text FROM blacklist WHERE user_id = $1`, userID).
		Scan(&e.UserID, &e.BannedBy, &e.Reason, &e.BannedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("blacklist entry", userID)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *blacklistRepository) List(ctx context.Context, limit, offset int32) ([]domain.BlacklistEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, banned_by, reason, banned_on::text FROM blacklist
		ORDER BY banned_on DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.BlacklistEntry
	for rows.Next() {
		var e domain.BlacklistEntry
		if err := rows.Scan(&e.UserID, &e.BannedBy, &e.Reason, &e.BannedOn); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *blacklistRepository) Count(ctx context.Context) (int32, error) {
	var n int32
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blacklist`).Scan(&n)
	return n, err
}
