package repository

import (
	"context"
	"time"

	"matchbot-backend/internal/domain"
)

type UserRepository interface {
	// EnsureExists creates the user on first contact and refreshes the
	// contact handle on every later one.
	EnsureExists(ctx context.Context, id int64, contactHandle *string) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByContactHandles(ctx context.Context, handles []string) ([]domain.User, error)
	UpdateName(ctx context.Context, id int64, name string) error
	UpdateRating(ctx context.Context, id int64, rating float64) error
	UpdateGender(ctx context.Context, id int64, gender domain.Gender) error
	UpdateContactHandle(ctx context.Context, id int64, handle *string) error
	// Delete cascades through everything the user created or joined.
	Delete(ctx context.Context, id int64) error
}

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id int32) (*domain.Event, error)
	ListOpen(ctx context.Context) ([]domain.Event, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Event, error)
	ListAll(ctx context.Context, status *domain.EventStatus, limit, offset int32) ([]domain.Event, error)
	Count(ctx context.Context, status *domain.EventStatus) (int32, error)
	Update(ctx context.Context, id int32, ownerID int64, upd domain.EventUpdate) (bool, error)
	Close(ctx context.Context, id int32, ownerID int64) (bool, error)
	SetStatus(ctx context.Context, id int32, status domain.EventStatus) error
	// CloseExpired force-closes open events scheduled strictly before today
	// and returns them for logging.
	CloseExpired(ctx context.Context, today string) ([]domain.Event, error)
	Delete(ctx context.Context, id int32) (bool, error)
	Statistics(ctx context.Context, id int32) (*domain.EventStatistics, error)
}

// SlotCreated is what SlotRepository.Create reports back: when the initial
// member list already fills the slot, the group is formed inside the same
// transaction and GroupID is set.
type SlotCreated struct {
	SlotID  int32
	GroupID *int32
}

type SlotRepository interface {
	// Create inserts the slot with its initial members atomically. The
	// one-active-slot-per-user-per-event rule is re-checked inside the
	// transaction for every initial member.
	Create(ctx context.Context, slot *domain.Slot, memberIDs []int64) (*SlotCreated, error)
	GetByID(ctx context.Context, id int32) (*domain.Slot, error)
	ListOpenByEvent(ctx context.Context, eventID int32) ([]domain.Slot, error)
	ListUserSlots(ctx context.Context, eventID int32, userID int64) ([]domain.Slot, error)
	ListAllUserActive(ctx context.Context, userID int64) ([]domain.Slot, error)
	Members(ctx context.Context, slotID int32) ([]domain.SlotMember, error)
	AddMember(ctx context.Context, slotID int32, userID int64) error
	RemoveMember(ctx context.Context, slotID int32, userID int64) (bool, error)
	HasActiveSlot(ctx context.Context, eventID int32, userID int64) (bool, error)
	SpotsLeft(ctx context.Context, slotID int32) (int32, error)
	Delete(ctx context.Context, slotID int32, creatorID int64) (bool, error)
}

// AcceptOutcome describes what an accept transaction committed.
type AcceptOutcome struct {
	Request   *domain.JoinRequest
	SlotID    int32
	EventID   int32
	MemberIDs []int64
	// Set when this acceptance filled the slot.
	GroupID *int32
	// Requesters whose pending requests were auto-rejected by the fill.
	RejectedRequesters []int64
}

type JoinRequestRepository interface {
	Create(ctx context.Context, req *domain.JoinRequest) error
	GetByID(ctx context.Context, id int32) (*domain.JoinRequest, error)
	HasPending(ctx context.Context, slotID int32, requesterID int64) (bool, error)
	ListPendingBySlot(ctx context.Context, slotID int32) ([]domain.JoinRequest, error)
	ListPendingByRequester(ctx context.Context, requesterID int64) ([]domain.JoinRequest, error)
	ListIncoming(ctx context.Context, creatorID int64) ([]domain.JoinRequest, error)
	// Accept runs the whole acceptance as one transaction: lock request and
	// slot, re-check capacity, add the member, and when the slot fills form
	// the group, deactivate the slot and reject remaining pending requests.
	// A concurrently filled slot surfaces as domain.CapacityError with the
	// request moved to REJECTED.
	Accept(ctx context.Context, id int32, now time.Time) (*AcceptOutcome, error)
	Reject(ctx context.Context, id int32) error
	Cancel(ctx context.Context, id int32, requesterID int64) (bool, error)
	// ExpireStale moves pending requests past their expiry to EXPIRED.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

type GroupRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Group, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Group, error)
	ListByEvent(ctx context.Context, eventID int32) ([]domain.Group, error)
	MembersWithContacts(ctx context.Context, groupID int32) ([]domain.SlotMember, error)
	UserInGroup(ctx context.Context, eventID int32, userID int64) (bool, error)
}

type BlacklistRepository interface {
	Add(ctx context.Context, entry *domain.BlacklistEntry) (bool, error)
	Remove(ctx context.Context, userID int64) (bool, error)
	IsBanned(ctx context.Context, userID int64) (bool, error)
	Get(ctx context.Context, userID int64) (*domain.BlacklistEntry, error)
	List(ctx context.Context, limit, offset int32) ([]domain.BlacklistEntry, error)
	Count(ctx context.Context) (int32, error)
}

type AuditLogRepository interface {
	Create(ctx context.Context, eventType string, details *string) error
	List(ctx context.Context, eventType *string, limit int32) ([]domain.AuditLog, error)
}
