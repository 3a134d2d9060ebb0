package models

import (
	"strings"
	"time"

	"github.com/baharkarakas/recipe-api/internal/validate"
)

type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	IsStaff      bool       `json:"is_staff"`
	IsSuperuser  bool       `json:"is_superuser"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Role is the token role derived from the staff flag.
func (u User) Role() string {
	if u.IsStaff {
		return "staff"
	}
	return "user"
}

func (u *User) Validate() error {
	var errs validate.Errs
	errs.Add(validate.Required("email", u.Email))
	if len(u.Email) > 255 {
		errs = append(errs, validate.ErrField{Field: "email", Msg: "ensure this field has no more than 255 characters"})
	}
	if len(u.Name) > 255 {
		errs = append(errs, validate.ErrField{Field: "name", Msg: "ensure this field has no more than 255 characters"})
	}
	return errs.Err()
}

// NormalizeEmail lower-cases the domain part of an address and leaves the
// local part untouched.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
