package domain

import "time"

type JoinRequestStatus string

const (
	JoinRequestStatusPending  JoinRequestStatus = "PENDING"
	JoinRequestStatusAccepted JoinRequestStatus = "ACCEPTED"
	JoinRequestStatusRejected JoinRequestStatus = "REJECTED"
	JoinRequestStatusExpired  JoinRequestStatus = "EXPIRED"
)

// DefaultRequestTTL is applied when a request is created without an explicit
// expiry.
const DefaultRequestTTL = 24 * time.Hour

// JoinRequest is a pending bid by a user to join a specific slot. At most one
// PENDING request may exist per (slot, requester) pair; every non-pending
// status is terminal.
type JoinRequest struct {
	ID          int32             `json:"id"`
	SlotID      int32             `json:"slot_id"`
	RequesterID int64             `json:"requester_id"`
	Status      JoinRequestStatus `json:"status"`
	CreatedOn   time.Time         `json:"created_on"`
	ExpiresAt   time.Time         `json:"expires_at"`

	// Populated by joined queries.
	EventID        int32    `json:"event_id,omitempty"`
	EventTitle     *string  `json:"event_title,omitempty"`
	SlotCreatorID  int64    `json:"slot_creator_id,omitempty"`
	RequesterName  *string  `json:"requester_name,omitempty"`
	RequesterScore *float64 `json:"requester_rating,omitempty"`
}

func (r *JoinRequest) Terminal() bool {
	return r.Status != JoinRequestStatusPending
}
