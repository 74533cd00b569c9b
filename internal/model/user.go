package model

import "time"

// User represents an application user record as stored in the
// `user` table. Passwords are only ever stored as bcrypt hashes;
// the plaintext never touches this struct. The admin and manager
// flags are independent: admin gates role administration, and
// either flag gates explanation review.
//
// Fields:
//  ID        – primary key identifier of the user.
//  Username  – unique login/display name (3–80 chars).
//  Email     – unique email address.
//  Password  – bcrypt hash of the password.
//  Admin     – whether the user may administer roles.
//  Manager   – whether the user may review explanations.
//  CreatedAt – timestamp of registration.
//  UpdatedAt – timestamp of last update.
type User struct {
	ID        uint64    // user.id
	Username  string    // user.username
	Email     string    // user.email
	Password  string    // user.password (bcrypt hash)
	Admin     bool      // user.admin
	Manager   bool      // user.manager
	CreatedAt time.Time // user.created_at
	UpdatedAt time.Time // user.updated_at
}

// Reviewer reports whether the user may review pending explanations.
// It is nil-safe so handlers can call it on an anonymous request.
func (u *User) Reviewer() bool { return u != nil && (u.Manager || u.Admin) }
