package models

import (
	"time"
)

// User is a row of the users table.
type User struct {
	PID      int64      `json:"pid" db:"pid"`
	UUID     string     `json:"uuid" db:"uuid"`
	Username *string    `json:"username" db:"username"`
	Name     *string    `json:"name" db:"name"`
	Email    *string    `json:"email" db:"email"`
	SMS      *string    `json:"sms" db:"sms"`
	Created  time.Time  `json:"created" db:"created"`
	LastSeen *time.Time `json:"lastseen" db:"lastseen"` // never written by the API
}

// UserArgs holds the caller-supplied fields of a create or update request.
// A nil field means the caller did not supply it.
type UserArgs struct {
	Email    *string `json:"email,omitempty"`
	SMS      *string `json:"sms,omitempty"`
	Name     *string `json:"name,omitempty"`
	Username *string `json:"username,omitempty"`
}

// IsEmpty reports whether no field was supplied.
func (a UserArgs) IsEmpty() bool {
	return a.Email == nil && a.SMS == nil && a.Name == nil && a.Username == nil
}

// Compact returns a copy of a with blank fields treated as not supplied, so
// empty strings never reach the UNIQUE columns.
func (a UserArgs) Compact() UserArgs {
	return UserArgs{
		Email:    nonBlank(a.Email),
		SMS:      nonBlank(a.SMS),
		Name:     nonBlank(a.Name),
		Username: nonBlank(a.Username),
	}
}

func nonBlank(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// MergeUser returns a copy of u with every supplied field of args laid over it.
// UUID, PID, Created and LastSeen are carried through unchanged.
func MergeUser(u *User, args UserArgs) *User {
	merged := *u
	if args.Username != nil {
		merged.Username = args.Username
	}
	if args.Name != nil {
		merged.Name = args.Name
	}
	if args.Email != nil {
		merged.Email = args.Email
	}
	if args.SMS != nil {
		merged.SMS = args.SMS
	}
	return &merged
}
