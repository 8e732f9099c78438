package domain

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// User is keyed by the stable chat-platform identifier supplied by the
// transport on every interaction; the record is created on first contact
// with an empty profile.
type User struct {
	ID            int64    `json:"id"`
	Name          *string  `json:"name"`
	Rating        *float64 `json:"rating"`
	Gender        *Gender  `json:"gender"`
	ContactHandle *string  `json:"contact_handle"`
	CreatedOn     string   `json:"created_on"`
}

// ProfileComplete reports whether the user may take part in matchmaking.
// Name, rating and gender must all be set.
func (u *User) ProfileComplete() bool {
	return u.Name != nil && u.Rating != nil && u.Gender != nil
}

func (u *User) DisplayName() string {
	if u.Name != nil {
		return *u.Name
	}
	return ""
}

// BlacklistEntry marks a user banned from all matchmaking operations.
type BlacklistEntry struct {
	UserID   int64   `json:"user_id"`
	BannedBy int64   `json:"banned_by"`
	Reason   *string `json:"reason"`
	BannedOn string  `json:"banned_on"`
}
