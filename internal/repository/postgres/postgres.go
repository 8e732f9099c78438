package postgres

import (
	"database/sql"

	"matchbot-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.EventRepository
	repository.SlotRepository
	repository.JoinRequestRepository
	repository.GroupRepository
	repository.BlacklistRepository
	repository.AuditLogRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		UserRepository:        NewUserRepository(db),
		EventRepository:       NewEventRepository(db),
		SlotRepository:        NewSlotRepository(db),
		JoinRequestRepository: NewJoinRequestRepository(db),
		GroupRepository:       NewGroupRepository(db),
		BlacklistRepository:   NewBlacklistRepository(db),
		AuditLogRepository:    NewAuditLogRepository(db),
	}
}
