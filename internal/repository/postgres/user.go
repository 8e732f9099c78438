package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) EnsureExists(ctx context.Context, id int64, contactHandle *string) error {
	query := `INSERT INTO users (id, contact_handle) VALUES ($1, $2)
	          ON CONFLICT (id) DO UPDATE SET contact_handle = EXCLUDED.contact_handle`
	_, err := r.db.ExecContext(ctx, query, id, contactHandle)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, rating, gender, contact_handle, created_on::text FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Rating, &u.Gender, &u.ContactHandle, &u.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("user", id)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByContactHandles(ctx context.Context, handles []string) ([]domain.User, error) {
	query := `SELECT id, name, rating, gender, contact_handle, created_on::text FROM users
	          WHERE contact_handle = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(handles))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Rating, &u.Gender, &u.ContactHandle, &u.CreatedOn); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) UpdateName(ctx context.Context, id int64, name string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET name = $1 WHERE id = $2`, name, id)
	return err
}

func (r *userRepository) UpdateRating(ctx context.Context, id int64, rating float64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET rating = $1 WHERE id = $2`, rating, id)
	return err
}

func (r *userRepository) UpdateGender(ctx context.Context, id int64, gender domain.Gender) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET gender = $1 WHERE id = $2`, gender, id)
	return err
}

func (r *userRepository) UpdateContactHandle(ctx context.Context, id int64, handle *string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET contact_handle = $1 WHERE id = $2`, handle, id)
	return err
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	// FK cascades clean up owned events, slot memberships, requests and
	// group memberships.
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
