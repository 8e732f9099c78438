package postgres

import (
	"context"
	"database/sql"

	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/repository"
)

type auditLogRepository struct {
	db *sql.DB
}

func NewAuditLogRepository(db *sql.DB) repository.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, eventType string, details *string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO logs (event_type, details) VALUES ($1, $2)`, eventType, details)
	return err
}

func (r *auditLogRepository) List(ctx context.Context, eventType *string, limit int32) ([]domain.AuditLog, error) {
	query := `SELECT id, event_type, details, ts::text FROM logs
	          WHERE ($1::text IS NULL OR event_type = $1)
	          ORDER BY ts DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, eventType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		if err := rows.Scan(&l.ID, &l.EventType, &l.Details, &l.Timestamp); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
