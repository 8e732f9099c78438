package domain

type EventKind string

const (
	EventKindPair EventKind = "PAIR"
	EventKindTeam EventKind = "TEAM"
)

type EventStatus string

const (
	EventStatusOpen   EventStatus = "OPEN"
	EventStatusClosed EventStatus = "CLOSED"
)

// DefaultMaxTeamSize caps TEAM event sizes when no limit is configured.
const DefaultMaxTeamSize int32 = 16

// Event is a scheduled activity requiring fixed-size groups. TeamSize is the
// capacity shape copied into every Slot at creation: always 2 for PAIR events.
type Event struct {
	ID          int32       `json:"id"`
	OwnerID     int64       `json:"owner_id"`
	Title       string      `json:"title"`
	Kind        EventKind   `json:"kind"`
	TeamSize    int32       `json:"team_size"`
	Description *string     `json:"description"`
	EventDate   *string     `json:"event_date"` // YYYY-MM-DD, nil means unscheduled
	Status      EventStatus `json:"status"`
	CreatedOn   string      `json:"created_on"`

	OwnerName *string `json:"owner_name,omitempty"` // populated by listing queries
}

// EventUpdate enumerates the mutable fields of an event. Nil means leave
// unchanged; ClearDate removes the scheduled date.
type EventUpdate struct {
	Title       *string
	Description *string
	EventDate   *string
	ClearDate   bool
}

func (u *EventUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.EventDate == nil && !u.ClearDate
}

// EventStatistics summarizes matchmaking progress inside one event.
type EventStatistics struct {
	ActiveSlots     int32 `json:"active_slots"`
	TotalGroups     int32 `json:"total_groups"`
	UsersInGroups   int32 `json:"users_in_groups"`
	PendingRequests int32 `json:"pending_requests"`
}
