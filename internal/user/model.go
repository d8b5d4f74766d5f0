package user

import "time"

// User mirrors the users table. Password is the bcrypt hash and is never
// serialized into a response.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfilePatch is a set of optional fields for a partial update. A nil
// field leaves the column untouched; the repository applies the patch with
// field-enumerated parameterized statements, never string-built SQL.
type ProfilePatch struct {
	Username *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

func (p ProfilePatch) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.Phone == nil && p.Address == nil
}
