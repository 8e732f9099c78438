package domain

// Slot is a partially filled candidate group awaiting members. It is the
// matching unit: active while 0 < members <= target_size, frozen the moment
// it fills. TargetSize is copied from the owning event at creation and never
// changes afterwards.
type Slot struct {
	ID          int32   `json:"id"`
	EventID     int32   `json:"event_id"`
	CreatorID   int64   `json:"creator_id"`
	TargetSize  int32   `json:"target_size"`
	Description *string `json:"description"`
	Active      bool    `json:"active"`
	CreatedOn   string  `json:"created_on"`

	Members []SlotMember `json:"members,omitempty"` // insertion order = join order
	// Populated by listing queries.
	MemberCount     int32   `json:"member_count"`
	PendingRequests int32   `json:"pending_requests"`
	EventTitle      *string `json:"event_title,omitempty"`
	CreatorName     *string `json:"creator_name,omitempty"`
}

func (s *Slot) SpotsLeft() int32 {
	return s.TargetSize - s.MemberCount
}

func (s *Slot) Full() bool {
	return s.MemberCount >= s.TargetSize
}

// SlotMember is a user inside a slot, joined with the profile fields the
// listings display.
type SlotMember struct {
	UserID        int64    `json:"user_id"`
	Name          *string  `json:"name"`
	Rating        *float64 `json:"rating"`
	Gender        *Gender  `json:"gender"`
	ContactHandle *string  `json:"contact_handle,omitempty"`
	JoinedOn      string   `json:"joined_on"`
}

// AverageRating is the arithmetic mean over members that have a rating.
// Members without one are excluded; if nobody is rated the average is 0.
func AverageRating(members []SlotMember) float64 {
	var sum float64
	var n int
	for _, m := range members {
		if m.Rating != nil {
			sum += *m.Rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
