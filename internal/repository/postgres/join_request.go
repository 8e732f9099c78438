package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/repository"
)

type joinRequestRepository struct {
	db *sql.DB
}

func NewJoinRequestRepository(db *sql.DB) repository.JoinRequestRepository {
	return &joinRequestRepository{db: db}
}

func (r *joinRequestRepository) Create(ctx context.Context, req *domain.JoinRequest) error {
	if req.ExpiresAt.IsZero() {
		req.ExpiresAt = time.Now().Add(domain.DefaultRequestTTL)
	}
	req.Status = domain.JoinRequestStatusPending
	query := `INSERT INTO join_requests (slot_id, requester_id, status, created_on, expires_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_on`
	return r.db.QueryRowContext(ctx, query,
		req.SlotID, req.RequesterID, req.Status, time.Now(), req.ExpiresAt,
	).Scan(&req.ID, &req.CreatedOn)
}

const joinRequestJoin = `
	SELECT jr.id, jr.slot_id, jr.requester_id, jr.status, jr.created_on, jr.expires_at,
	       s.event_id, s.creator_id, ev.title, u.name, u.rating
	FROM join_requests jr
	JOIN slots s ON jr.slot_id = s.id
	JOIN events ev ON s.event_id = ev.id
	JOIN users u ON jr.requester_id = u.id`

func scanJoinRequest(row interface{ Scan(...any) error }, jr *domain.JoinRequest) error {
	return row.Scan(&jr.ID, &jr.SlotID, &jr.RequesterID, &jr.Status, &jr.CreatedOn, &jr.ExpiresAt,
		&jr.EventID, &jr.SlotCreatorID, &jr.EventTitle, &jr.RequesterName, &jr.RequesterScore)
}

func (r *joinRequestRepository) GetByID(ctx context.Context, id int32) (*domain.JoinRequest, error) {
	jr := &domain.JoinRequest{}
	err := scanJoinRequest(r.db.QueryRowContext(ctx, joinRequestJoin+` WHERE jr.id = $1`, id), jr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("join request", id)
	}
	if err != nil {
		return nil, err
	}
	return jr, nil
}

func (r *joinRequestRepository) HasPending(ctx context.Context, slotID int32, requesterID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
		  SELECT 1 FROM join_requests
		  WHERE slot_id = $1 AND requester_id = $2 AND status = $3
		)`, slotID, requesterID, domain.JoinRequestStatusPending).Scan(&exists)
	return exists, err
}

func (r *joinRequestRepository) ListPendingBySlot(ctx context.Context, slotID int32) ([]domain.JoinRequest, error) {
	query := joinRequestJoin + ` WHERE jr.slot_id = $1 AND jr.status = $2 ORDER BY jr.created_on ASC`
	return r.list(ctx, query, slotID, domain.JoinRequestStatusPending)
}

func (r *joinRequestRepository) ListPendingByRequester(ctx context.Context, requesterID int64) ([]domain.JoinRequest, error) {
	query := joinRequestJoin + ` WHERE jr.requester_id = $1 AND jr.status = $2 ORDER BY jr.created_on DESC`
	return r.list(ctx, query, requesterID, domain.JoinRequestStatusPending)
}

func (r *joinRequestRepository) ListIncoming(ctx context.Context, creatorID int64) ([]domain.JoinRequest, error) {
	query := joinRequestJoin + ` WHERE s.creator_id = $1 AND jr.status = $2 ORDER BY jr.created_on ASC`
	return r.list(ctx, query, creatorID, domain.JoinRequestStatusPending)
}

func (r *joinRequestRepository) list(ctx context.Context, query string, args ...any) ([]domain.JoinRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.JoinRequest
	for rows.Next() {
		var jr domain.JoinRequest
		if err := scanJoinRequest(rows, &jr); err != nil {
			return nil, err
		}
		reqs = append(reqs, jr)
	}
	return reqs, rows.Err()
}

// Accept performs the whole acceptance atomically. Capacity is re-checked
// after locking the slot row, so of two concurrent accepts on a slot with one
// spot left exactly one commits a member; the other gets its request rejected
// and a CapacityError. A requester who was meanwhile placed elsewhere in the
// event is rejected the same way with a ValidationError. When the added
// member fills the slot, group formation runs inside the same transaction.
func (r *joinRequestRepository) Accept(ctx context.Context, id int32, now time.Time) (*repository.AcceptOutcome, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	jr := &domain.JoinRequest{ID: id}
	err = tx.QueryRowContext(ctx, `
		SELECT slot_id, requester_id, status, created_on, expires_at
		FROM join_requests WHERE id = $1 FOR UPDATE`, id).
		Scan(&jr.SlotID, &jr.RequesterID, &jr.Status, &jr.CreatedOn, &jr.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("join request", id)
	}
	if err != nil {
		return nil, err
	}
	if jr.Status != domain.JoinRequestStatusPending {
		return nil, domain.Statef("request %d is %s, not pending", id, jr.Status)
	}
	if !jr.ExpiresAt.After(now) {
		// A stale request must never be acted on, sweep or no sweep.
		if err := setStatusTx(ctx, tx, id, domain.JoinRequestStatusExpired); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return nil, domain.Statef("request %d has expired", id)
	}

	// Locking the slot row serializes concurrent accepts.
	var active bool
	var eventID, targetSize int32
	err = tx.QueryRowContext(ctx,
		`SELECT event_id, target_size, is_active FROM slots WHERE id = $1 FOR UPDATE`, jr.SlotID).
		Scan(&eventID, &targetSize, &active)
	if err != nil {
		return nil, err
	}

	var memberCount int32
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM slot_members WHERE slot_id = $1`, jr.SlotID).Scan(&memberCount)
	if err != nil {
		return nil, err
	}

	if !active || memberCount >= targetSize {
		// Filled by a concurrent accept: this request loses.
		if err := setStatusTx(ctx, tx, id, domain.JoinRequestStatusRejected); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return nil, domain.Capacityf("slot %d filled before request %d could be accepted", jr.SlotID, id)
	}

	// The requester may have joined another slot or group of this event
	// since filing; a user holds at most one seat per event.
	busy, err := userBusyInEvent(ctx, tx, eventID, jr.RequesterID)
	if err != nil {
		return nil, err
	}
	if busy {
		if err := setStatusTx(ctx, tx, id, domain.JoinRequestStatusRejected); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return nil, domain.Validationf("requester %d is already placed in event %d", jr.RequesterID, eventID)
	}

	if err := setStatusTx(ctx, tx, id, domain.JoinRequestStatusAccepted); err != nil {
		return nil, err
	}
	jr.Status = domain.JoinRequestStatusAccepted

	_, err = tx.ExecContext(ctx, `
		INSERT INTO slot_members (slot_id, user_id, joined_on) VALUES ($1, $2, $3)
		ON CONFLICT (slot_id, user_id) DO NOTHING`, jr.SlotID, jr.RequesterID, now)
	if err != nil {
		return nil, err
	}

	outcome := &repository.AcceptOutcome{
		Request: jr,
		SlotID:  jr.SlotID,
		EventID: eventID,
	}
	if memberCount+1 == targetSize {
		groupID, rejected, err := formGroup(ctx, tx, jr.SlotID)
		if err != nil {
			return nil, err
		}
		outcome.GroupID = &groupID
		outcome.RejectedRequesters = rejected
	}
	outcome.MemberIDs, err = slotMemberIDs(ctx, tx, jr.SlotID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return outcome, nil
}

func setStatusTx(ctx context.Context, tx *sql.Tx, id int32, status domain.JoinRequestStatus) error {
	_, err := tx.ExecContext(ctx, `UPDATE join_requests SET status = $1 WHERE id = $2`, status, id)
	return err
}

func (r *joinRequestRepository) Reject(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE join_requests SET status = $1 WHERE id = $2`, domain.JoinRequestStatusRejected, id)
	return err
}

func (r *joinRequestRepository) Cancel(ctx context.Context, id int32, requesterID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE join_requests SET status = $1
		WHERE id = $2 AND requester_id = $3 AND status = $4`,
		domain.JoinRequestStatusRejected, id, requesterID, domain.JoinRequestStatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *joinRequestRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE join_requests SET status = $1
		WHERE status = $2 AND expires_at < $3`,
		domain.JoinRequestStatusExpired, domain.JoinRequestStatusPending, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
