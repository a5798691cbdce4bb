package domain

import "time"

// User is an account that can sign in with the password grant and receive
// transactional mail.
type User struct {
	ID           string
	Login        string
	Email        string // may be empty
	FirstName    string
	LastName     string
	LangKey      string
	PasswordHash string
	Authorities  []string
	Activated    bool
	ResetKeyHash string
	ResetDate    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) PrincipalName() string { return u.Login }
func (u *User) PrincipalID() string   { return u.ID }

// NewUser is the input for creating an account.
type NewUser struct {
	Login       string
	Email       string
	FirstName   string
	LastName    string
	LangKey     string
	Authorities []string
}
