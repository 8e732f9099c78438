package postgres

import (
	"context"
	"database/sql"
	"errors"

	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/repository"
)

type groupRepository struct {
	db *sql.DB
}

func NewGroupRepository(db *sql.DB) repository.GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) GetByID(ctx context.Context, id int32) (*domain.Group, error) {
	g := &domain.Group{}
	query := `SELECT g.id, g.event_id, g.rating_avg, g.created_on::text, ev.title, ev.kind,
	                 (SELECT COUNT(*) FROM group_members gm WHERE gm.group_id = g.id)
	          FROM groups g
	          JOIN events ev ON g.event_id = ev.id
	          WHERE g.id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&g.ID, &g.EventID, &g.RatingAvg, &g.CreatedOn, &g.EventTitle, &g.EventKind, &g.MemberCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("group", id)
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *groupRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Group, error) {
	query := `SELECT g.id, g.event_id, g.rating_avg, g.created_on::text, ev.title, ev.kind,
	                 (SELECT COUNT(*) FROM group_members gm2 WHERE gm2.group_id = g.id)
	          FROM groups g
	          JOIN group_members gm ON g.id = gm.group_id
	          JOIN events ev ON g.event_id = ev.id
	          WHERE gm.user_id = $1
	          ORDER BY g.created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.EventID, &g.RatingAvg, &g.CreatedOn, &g.EventTitle, &g.EventKind, &g.MemberCount); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *groupRepository) ListByEvent(ctx context.Context, eventID int32) ([]domain.Group, error) {
	query := `SELECT g.id, g.event_id, g.rating_avg, g.created_on::text,
	                 (SELECT COUNT(*) FROM group_members gm WHERE gm.group_id = g.id)
	          FROM groups g
	          WHERE g.event_id = $1
	          ORDER BY g.created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.EventID, &g.RatingAvg, &g.CreatedOn, &g.MemberCount); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range groups {
		members, err := r.MembersWithContacts(ctx, groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].Members = members
	}
	return groups, nil
}

func (r *groupRepository) MembersWithContacts(ctx context.Context, groupID int32) ([]domain.SlotMember, error) {
	query := `SELECT u.id, u.name, u.rating, u.gender, u.contact_handle, gm.joined_on::text
	          FROM group_members gm
	          JOIN users u ON gm.user_id = u.id
	          WHERE gm.group_id = $1
	          ORDER BY gm.joined_on ASC, u.id ASC`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.SlotMember
	for rows.Next() {
		var m domain.SlotMember
		if err := rows.Scan(&m.UserID, &m.Name, &m.Rating, &m.Gender, &m.ContactHandle, &m.JoinedOn); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *groupRepository) UserInGroup(ctx context.Context, eventID int32, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
		  SELECT 1 FROM groups g
		  JOIN group_members gm ON g.id = gm.group_id
		  WHERE g.event_id = $1 AND gm.user_id = $2
		)`, eventID, userID).Scan(&exists)
	return exists, err
}
