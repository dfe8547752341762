package domain

import "time"

type ID string

type User struct {
	ID           ID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// View is the identity data safe to hand past the service boundary.
// It never carries the password hash.
type View struct {
	ID        ID
	Username  string
	CreatedAt time.Time
}

func (u User) View() View {
	return View{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}
