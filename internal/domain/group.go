package domain

// Group is a finalized membership: created exactly once when a slot fills,
// never mutated, deleted only when its event is deleted.
type Group struct {
	ID        int32   `json:"id"`
	EventID   int32   `json:"event_id"`
	RatingAvg float64 `json:"rating_avg"`
	CreatedOn string  `json:"created_on"`

	Members     []SlotMember `json:"members,omitempty"`
	MemberCount int32        `json:"member_count"`
	EventTitle  *string      `json:"event_title,omitempty"`
	EventKind   *EventKind   `json:"event_kind,omitempty"`
}
