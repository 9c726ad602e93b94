package models

// User represents a single account record.
// Password is stored verbatim and compared byte-for-byte during
// authentication; it is never included in any API response.
type User struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
	Comment  string `json:"comment"`
}

// NewUser creates a user with the signup defaults applied:
// nickname starts as the user id and the comment starts empty.
func NewUser(userID, password string) *User {
	return &User{
		UserID:   userID,
		Password: password,
		Nickname: userID,
		Comment:  "",
	}
}

// DisplayNickname returns the nickname, falling back to the user id
// when the nickname is empty.
func (u *User) DisplayNickname() string {
	if u.Nickname == "" {
		return u.UserID
	}
	return u.Nickname
}

// UserPatch describes a partial update to a user record.
// Nil fields are left untouched by the store.
type UserPatch struct {
	Nickname *string
	Comment  *string
}

// SignupRequest is the POST /signup payload
type SignupRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

// UserIdentity is the user object returned by signup
type UserIdentity struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
}

// UserProfile is the user object returned by GET /users/{user_id}.
// Comment is omitted entirely when empty.
type UserProfile struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Comment  string `json:"comment,omitempty"`
}

// UserDetail is the user object returned by PATCH /users/{user_id};
// unlike UserProfile it always carries the comment field.
type UserDetail struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Comment  string `json:"comment"`
}

// Storage is the root structure persisted by snapshot backends
type Storage struct {
	Users map[string]*User `json:"users"`
}

// NewStorage creates an empty storage structure
func NewStorage() *Storage {
	return &Storage{
		Users: make(map[string]*User),
	}
}
