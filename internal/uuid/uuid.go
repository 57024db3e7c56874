// Package uuid wraps google/uuid so that IDs can be bound from URI and
// query parameters by gin.
package uuid

import (
	google_uuid "github.com/google/uuid"
)

type UUID struct {
	google_uuid.UUID
}

var Nil UUID

func New() UUID {
	return UUID{google_uuid.New()}
}

func NewString() string {
	return google_uuid.NewString()
}

// IsNil reports if the UUID is the zero value.
func (u UUID) IsNil() bool {
	return u.UUID == google_uuid.Nil
}

// Ptr returns a pointer to the wrapped UUID, or nil for the zero value.
//
// This is used for optional references like the beneficiary of a contribution.
func (u UUID) Ptr() *google_uuid.UUID {
	if u.IsNil() {
		return nil
	}

	id := u.UUID
	return &id
}

// UnmarshalParam implements the uuid.Parse method
// from https://pkg.go.dev/github.com/google/uuid#Parse
// for UUID
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, e := google_uuid.Parse(p)
	if e != nil {
		return e
	}

	*u = UUID{parsed}
	return nil
}
