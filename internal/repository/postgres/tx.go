package postgres

import (
	"context"
	"database/sql"

	"matchbot-backend/internal/domain"
)

// formGroup freezes a full slot into a group inside the caller's transaction:
// a group row with the members' average rating, the member list copied over,
// the slot deactivated, every remaining pending request rejected. The caller
// has the slot row locked and has verified it is exactly full.
func formGroup(ctx context.Context, tx *sql.Tx, slotID int32) (groupID int32, rejected []int64, err error) {
	// Unrated members are excluded from the average; all-unrated means 0.
	err = tx.QueryRowContext(ctx, `
		INSERT INTO groups (event_id, rating_avg)
		SELECT s.event_id, COALESCE(AVG(u.rating), 0)
		FROM slots s
		LEFT JOIN slot_members sm ON sm.slot_id = s.id
		LEFT JOIN users u ON u.id = sm.user_id
		WHERE s.id = $1
		GROUP BY s.event_id
		RETURNING id`, slotID).Scan(&groupID)
	if err != nil {
		return 0, nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO group_members (group_id, user_id, joined_on)
		SELECT $1, user_id, joined_on FROM slot_members WHERE slot_id = $2`, groupID, slotID)
	if err != nil {
		return 0, nil, err
	}

	if _, err = tx.ExecContext(ctx, `UPDATE slots SET is_active = FALSE WHERE id = $1`, slotID); err != nil {
		return 0, nil, err
	}

	rows, err := tx.QueryContext(ctx, `
		UPDATE join_requests SET status = $1
		WHERE slot_id = $2 AND status = $3
		RETURNING requester_id`,
		domain.JoinRequestStatusRejected, slotID, domain.JoinRequestStatusPending)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, nil, err
		}
		rejected = append(rejected, id)
	}
	return groupID, rejected, rows.Err()
}

// slotMemberIDs reads the member list in join order inside a transaction.
func slotMemberIDs(ctx context.Context, tx *sql.Tx, slotID int32) ([]int64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT user_id FROM slot_members WHERE slot_id = $1 ORDER BY joined_on ASC, user_id ASC`, slotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
