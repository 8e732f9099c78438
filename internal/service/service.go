package service

import (
	"context"

	"matchbot-backend/internal/domain"
)

type UserService interface {
	// Touch registers the user on first contact and refreshes the contact
	// handle the transport supplied.
	Touch(ctx context.Context, id int64, contactHandle *string) error
	GetProfile(ctx context.Context, id int64) (*domain.User, error)
	SetName(ctx context.Context, id int64, name string) error
	SetRating(ctx context.Context, id int64, rating float64) error
	SetGender(ctx context.Context, id int64, gender domain.Gender) error
	ProfileComplete(ctx context.Context, id int64) (bool, error)
	// DeleteAccount removes the user and cascades through everything they
	// created or joined.
	DeleteAccount(ctx context.Context, id int64) error
}

type EventService interface {
	CreateEvent(ctx context.Context, ownerID int64, title string, kind domain.EventKind, teamSize int32, description, eventDate *string) (*domain.Event, error)
	GetEvent(ctx context.Context, id int32) (*domain.Event, error)
	ListOpenEvents(ctx context.Context) ([]domain.Event, error)
	MyEvents(ctx context.Context, ownerID int64) ([]domain.Event, error)
	UpdateEvent(ctx context.Context, id int32, ownerID int64, upd domain.EventUpdate) error
	CloseEvent(ctx context.Context, id int32, ownerID int64) error
	Statistics(ctx context.Context, id int32) (*domain.EventStatistics, error)
}

type SlotService interface {
	// CreateSlot assembles the creator plus any teammates referenced by
	// contact handle into a new slot, all-or-nothing. When the initial
	// members already fill the slot the returned group is non-nil.
	CreateSlot(ctx context.Context, eventID int32, creatorID int64, teammateHandles []string, description *string) (*domain.Slot, *domain.Group, error)
	GetSlot(ctx context.Context, id int32) (*domain.Slot, error)
	SpotsLeft(ctx context.Context, slotID int32) (int32, error)
	ListOpenSlots(ctx context.Context, eventID int32) ([]domain.Slot, error)
	MySlots(ctx context.Context, eventID int32, userID int64) ([]domain.Slot, error)
	MyActiveSlots(ctx context.Context, userID int64) ([]domain.Slot, error)
	RemoveMember(ctx context.Context, slotID int32, actorID, memberID int64) error
	DeleteSlot(ctx context.Context, slotID int32, actorID int64) error
}

type JoinRequestService interface {
	CreateRequest(ctx context.Context, slotID int32, requesterID int64) (*domain.JoinRequest, error)
	Accept(ctx context.Context, requestID int32, actorID int64) (*domain.JoinRequest, *domain.Group, error)
	Reject(ctx context.Context, requestID int32, actorID int64) error
	Cancel(ctx context.Context, requestID int32, requesterID int64) error
	MyRequests(ctx context.Context, requesterID int64) ([]domain.JoinRequest, error)
	IncomingRequests(ctx context.Context, creatorID int64) ([]domain.JoinRequest, error)
	SlotRequests(ctx context.Context, slotID int32, actorID int64) ([]domain.JoinRequest, error)
}

type GroupService interface {
	GetGroup(ctx context.Context, id int32) (*domain.Group, error)
	GroupMembers(ctx context.Context, groupID int32) ([]domain.SlotMember, error)
	MyGroups(ctx context.Context, userID int64) ([]domain.Group, error)
	EventGroups(ctx context.Context, eventID int32) ([]domain.Group, error)
}

type AdminService interface {
	BanUser(ctx context.Context, actorID, userID int64, reason *string) error
	UnbanUser(ctx context.Context, actorID, userID int64) error
	BanInfo(ctx context.Context, actorID, userID int64) (*domain.BlacklistEntry, error)
	Blacklist(ctx context.Context, actorID int64, limit, offset int32) ([]domain.BlacklistEntry, int32, error)
	DeleteEvent(ctx context.Context, actorID int64, eventID int32) error
	ReopenEvent(ctx context.Context, actorID int64, eventID int32) error
	CloseEvent(ctx context.Context, actorID int64, eventID int32) error
	ListEvents(ctx context.Context, actorID int64, status *domain.EventStatus, limit, offset int32) ([]domain.Event, int32, error)
	EventFullInfo(ctx context.Context, actorID int64, eventID int32) (*domain.Event, *domain.User, *domain.EventStatistics, error)
	AuditLogs(ctx context.Context, actorID int64, eventType *string, limit int32) ([]domain.AuditLog, error)
}

// Notifier is the outbound message sink. Every call happens strictly after
// the state change it reports has committed; delivery failures are logged by
// implementations and never bubble into business flow.
type Notifier interface {
	JoinRequestReceived(ctx context.Context, creatorID int64, req *domain.JoinRequest) error
	RequestAccepted(ctx context.Context, requesterID int64, eventTitle string) error
	RequestRejected(ctx context.Context, requesterID int64, eventTitle string) error
	SlotDeleted(ctx context.Context, requesterID int64, eventTitle string) error
	// GroupFormed is sent to each member and carries everyone's contact
	// handle so the group can self-organize.
	GroupFormed(ctx context.Context, memberID int64, group *domain.Group, members []domain.SlotMember) error
}
