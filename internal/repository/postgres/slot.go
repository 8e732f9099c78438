package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/repository"
)

type slotRepository struct {
	db *sql.DB
}

func NewSlotRepository(db *sql.DB) repository.SlotRepository {
	return &slotRepository{db: db}
}

// Create inserts the slot and its initial members in one transaction. The
// one-active-slot-per-event rule is re-checked here for every member so that
// two concurrent creations cannot both admit the same user. A member list
// that already fills the slot freezes it into a group before commit.
func (r *slotRepository) Create(ctx context.Context, slot *domain.Slot, memberIDs []int64) (*repository.SlotCreated, error) {
	if len(memberIDs) == 0 {
		return nil, domain.Validationf("a slot needs at least one member")
	}
	if int32(len(memberIDs)) > slot.TargetSize {
		return nil, domain.Validationf("%d members exceed the target size of %d", len(memberIDs), slot.TargetSize)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Lock the event row so an auto-close cannot slide between the status
	// check and the insert.
	var status domain.EventStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM events WHERE id = $1 FOR UPDATE`, slot.EventID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("event", slot.EventID)
	}
	if err != nil {
		return nil, err
	}
	if status != domain.EventStatusOpen {
		return nil, domain.Statef("event %d is closed", slot.EventID)
	}

	for _, userID := range memberIDs {
		busy, err := userBusyInEvent(ctx, tx, slot.EventID, userID)
		if err != nil {
			return nil, err
		}
		if busy {
			return nil, domain.Validationf("user %d already has an active slot or group in event %d", userID, slot.EventID)
		}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO slots (event_id, creator_id, target_size, description, is_active, created_on)
		VALUES ($1, $2, $3, $4, TRUE, $5) RETURNING id`,
		slot.EventID, slot.CreatorID, slot.TargetSize, slot.Description, time.Now()).Scan(&slot.ID)
	if err != nil {
		return nil, err
	}

	for _, userID := range memberIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO slot_members (slot_id, user_id, joined_on) VALUES ($1, $2, $3)
			ON CONFLICT (slot_id, user_id) DO NOTHING`,
			slot.ID, userID, time.Now())
		if err != nil {
			return nil, err
		}
	}

	created := &repository.SlotCreated{SlotID: slot.ID}
	if int32(len(memberIDs)) == slot.TargetSize {
		groupID, _, err := formGroup(ctx, tx, slot.ID)
		if err != nil {
			return nil, err
		}
		created.GroupID = &groupID
		slot.Active = false
	} else {
		slot.Active = true
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	slot.MemberCount = int32(len(memberIDs))
	return created, nil
}

// userBusyInEvent reports whether the user is in any active slot or any
// formed group of the event.
func userBusyInEvent(ctx context.Context, tx *sql.Tx, eventID int32, userID int64) (bool, error) {
	var busy bool
	err := tx.QueryRowContext(ctx, `
		SELECT EXISTS (
		  SELECT 1 FROM slots s
		  LEFT JOIN slot_members sm ON s.id = sm.slot_id
		  WHERE s.event_id = $1 AND s.is_active AND (s.creator_id = $2 OR sm.user_id = $2)
		) OR EXISTS (
		  SELECT 1 FROM groups g
		  JOIN group_members gm ON g.id = gm.group_id
		  WHERE g.event_id = $1 AND gm.user_id = $2
		)`, eventID, userID).Scan(&busy)
	return busy, err
}

const slotColumns = `s.id, s.event_id, s.creator_id, s.target_size, s.description, s.is_active, s.created_on::text,
	(SELECT COUNT(*) FROM slot_members sm WHERE sm.slot_id = s.id)`

func scanSlot(row interface{ Scan(...any) error }, s *domain.Slot) error {
	return row.Scan(&s.ID, &s.EventID, &s.CreatorID, &s.TargetSize, &s.Description, &s.Active, &s.CreatedOn, &s.MemberCount)
}

func (r *slotRepository) GetByID(ctx context.Context, id int32) (*domain.Slot, error) {
	s := &domain.Slot{}
	query := `SELECT ` + slotColumns + `, ev.title, u.name
	          FROM slots s
	          LEFT JOIN events ev ON s.event_id = ev.id
	          LEFT JOIN users u ON s.creator_id = u.id
	          WHERE s.id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.EventID, &s.CreatorID, &s.TargetSize, &s.Description, &s.Active, &s.CreatedOn,
		&s.MemberCount, &s.EventTitle, &s.CreatorName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("slot", id)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *slotRepository) ListOpenByEvent(ctx context.Context, eventID int32) ([]domain.Slot, error) {
	query := `SELECT ` + slotColumns + `, u.name
	          FROM slots s
	          LEFT JOIN users u ON s.creator_id = u.id
	          WHERE s.event_id = $1 AND s.is_active
	            AND s.target_size > (SELECT COUNT(*) FROM slot_members sm WHERE sm.slot_id = s.id)
	          ORDER BY s.created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []domain.Slot
	for rows.Next() {
		var s domain.Slot
		if err := rows.Scan(&s.ID, &s.EventID, &s.CreatorID, &s.TargetSize, &s.Description,
			&s.Active, &s.CreatedOn, &s.MemberCount, &s.CreatorName); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range slots {
		members, err := r.Members(ctx, slots[i].ID)
		if err != nil {
			return nil, err
		}
		slots[i].Members = members
	}
	return slots, nil
}

func (r *slotRepository) ListUserSlots(ctx context.Context, eventID int32, userID int64) ([]domain.Slot, error) {
	query := `SELECT ` + slotColumns + `,
	            (SELECT COUNT(*) FROM join_requests jr WHERE jr.slot_id = s.id AND jr.status = $3)
	          FROM slots s
	          WHERE s.event_id = $1 AND s.is_active
	            AND (s.creator_id = $2 OR EXISTS (
	                  SELECT 1 FROM slot_members sm WHERE sm.slot_id = s.id AND sm.user_id = $2))
	          ORDER BY s.created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, eventID, userID, domain.JoinRequestStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []domain.Slot
	for rows.Next() {
		var s domain.Slot
		if err := rows.Scan(&s.ID, &s.EventID, &s.CreatorID, &s.TargetSize, &s.Description,
			&s.Active, &s.CreatedOn, &s.MemberCount, &s.PendingRequests); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *slotRepository) ListAllUserActive(ctx context.Context, userID int64) ([]domain.Slot, error) {
	query := `SELECT ` + slotColumns + `, ev.title
	          FROM slots s
	          LEFT JOIN events ev ON s.event_id = ev.id
	          WHERE s.is_active
	            AND (s.creator_id = $1 OR EXISTS (
	                  SELECT 1 FROM slot_members sm WHERE sm.slot_id = s.id AND sm.user_id = $1))
	          ORDER BY s.created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []domain.Slot
	for rows.Next() {
		var s domain.Slot
		if err := rows.Scan(&s.ID, &s.EventID, &s.CreatorID, &s.TargetSize, &s.Description,
			&s.Active, &s.CreatedOn, &s.MemberCount, &s.EventTitle); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *slotRepository) Members(ctx context.Context, slotID int32) ([]domain.SlotMember, error) {
	query := `SELECT u.id, u.name, u.rating, u.gender, sm.joined_on::text
	          FROM slot_members sm
	          JOIN users u ON sm.user_id = u.id
	          WHERE sm.slot_id = $1
	          ORDER BY sm.joined_on ASC, u.id ASC`
	rows, err := r.db.QueryContext(ctx, query, slotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.SlotMember
	for rows.Next() {
		var m domain.SlotMember
		if err := rows.Scan(&m.UserID, &m.Name, &m.Rating, &m.Gender, &m.JoinedOn); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// AddMember is idempotent and re-checks capacity inside a transaction that
// locks the slot row.
func (r *slotRepository) AddMember(ctx context.Context, slotID int32, userID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var active bool
	var targetSize, memberCount int32
	err = tx.QueryRowContext(ctx, `
		SELECT s.is_active, s.target_size,
		       (SELECT COUNT(*) FROM slot_members sm WHERE sm.slot_id = s.id)
		FROM slots s WHERE s.id = $1 FOR UPDATE`, slotID).
		Scan(&active, &targetSize, &memberCount)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("slot", slotID)
	}
	if err != nil {
		return err
	}
	if !active {
		return domain.Capacityf("slot %d is no longer active", slotID)
	}

	// Re-inserting an existing member must stay a no-op even when full.
	var already bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM slot_members WHERE slot_id = $1 AND user_id = $2)`,
		slotID, userID).Scan(&already)
	if err != nil {
		return err
	}
	if already {
		return tx.Commit()
	}
	if memberCount >= targetSize {
		return domain.Capacityf("slot %d is full", slotID)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO slot_members (slot_id, user_id, joined_on) VALUES ($1, $2, $3)`,
		slotID, userID, time.Now())
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *slotRepository) RemoveMember(ctx context.Context, slotID int32, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM slot_members WHERE slot_id = $1 AND user_id = $2`, slotID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *slotRepository) HasActiveSlot(ctx context.Context, eventID int32, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
		  SELECT 1 FROM slots s
		  LEFT JOIN slot_members sm ON s.id = sm.slot_id
		  WHERE s.event_id = $1 AND s.is_active AND (s.creator_id = $2 OR sm.user_id = $2)
		)`, eventID, userID).Scan(&exists)
	return exists, err
}

func (r *slotRepository) SpotsLeft(ctx context.Context, slotID int32) (int32, error) {
	var spots int32
	err := r.db.QueryRowContext(ctx, `
		SELECT s.target_size - (SELECT COUNT(*) FROM slot_members sm WHERE sm.slot_id = s.id)
		FROM slots s WHERE s.id = $1`, slotID).Scan(&spots)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NotFound("slot", slotID)
	}
	return spots, err
}

// Delete removes the slot when the requester is its creator; membership rows
// and requests go with it via FK cascade.
func (r *slotRepository) Delete(ctx context.Context, slotID int32, creatorID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM slots WHERE id = $1 AND creator_id = $2`, slotID, creatorID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
