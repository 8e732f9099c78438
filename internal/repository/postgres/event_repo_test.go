package postgres_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/repository/postgres"
)

var eventRows = []string{"id", "owner_id", "title", "kind", "team_size", "description", "event_date", "status", "created_on"}

func TestEventRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()
	repo := postgres.NewEventRepository(db)
	ctx := context.Background()

	date := "2026-10-01"
	mock.ExpectQuery("INSERT INTO events").
		WithArgs(int64(10), "Padel Night", "PAIR", int32(2), nil, &date, "OPEN", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	event := &domain.Event{
		OwnerID: 10, Title: "Padel Night", Kind: domain.EventKindPair,
		TeamSize: 2, EventDate: &date,
	}
	assert.NoError(t, repo.Create(ctx, event))
	assert.Equal(t, int32(1), event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()
	repo := postgres.NewEventRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM events WHERE id =").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows(eventRows).
				AddRow(1, 10, "Padel Night", "PAIR", 2, nil, "2026-10-01", "OPEN", "2026-09-01 10:00:00"))

		event, err := repo.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, "Padel Night", event.Title)
		assert.Equal(t, domain.EventStatusOpen, event.Status)
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM events WHERE id =").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows(eventRows))

		_, err := repo.GetByID(ctx, 99)
		var nfErr *domain.NotFoundError
		assert.ErrorAs(t, err, &nfErr)
	})
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("TitleAndClearDate", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewEventRepository(db)

		mock.ExpectExec("UPDATE events SET title = \\$1, event_date = NULL").
			WithArgs("New Title", int32(1), int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.Update(ctx, 1, 10, domain.EventUpdate{
			Title: strPtr("New Title"), ClearDate: true,
		})
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("WrongOwner", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewEventRepository(db)

		mock.ExpectExec("UPDATE events SET title = \\$1").
			WithArgs("X", int32(1), int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Update(ctx, 1, 99, domain.EventUpdate{Title: strPtr("X")})
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("EmptyUpdate", func(t *testing.T) {
		db, _, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewEventRepository(db)

		ok, err := repo.Update(ctx, 1, 10, domain.EventUpdate{})
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestEventRepository_CloseExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()
	repo := postgres.NewEventRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("UPDATE events SET status").
		WithArgs("CLOSED", "OPEN", "2026-09-01").
		WillReturnRows(sqlmock.NewRows(eventRows).
			AddRow(1, 10, "Old Event", "TEAM", 4, nil, "2026-08-30", "CLOSED", "2026-08-01 10:00:00").
			AddRow(2, 11, "Older Event", "PAIR", 2, nil, "2026-08-15", "CLOSED", "2026-08-01 11:00:00"))

	closed, err := repo.CloseExpired(ctx, "2026-09-01")
	assert.NoError(t, err)
	assert.Len(t, closed, 2)
	assert.Equal(t, "Old Event", closed[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Statistics(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()
	repo := postgres.NewEventRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT").
		WithArgs(int32(1), "PENDING").
		WillReturnRows(sqlmock.NewRows([]string{"active_slots", "total_groups", "users_in_groups", "pending_requests"}).
			AddRow(3, 2, 8, 5))

	stats, err := repo.Statistics(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int32(3), stats.ActiveSlots)
	assert.Equal(t, int32(8), stats.UsersInGroups)
}

func strPtr(s string) *string { return &s }
