package types

import (
	"fmt"
	"strings"
)

// Status is the approval status of an intervention contribution.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Statuses lists all statuses in lifecycle order.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

// ParseStatus parses a status name in any casing.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	}

	return "", fmt.Errorf("%w: '%s'", ErrUnknownStatus, s)
}

// Terminal reports if no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ReservesBudget reports if a record in this status counts against the family's cap.
func (s Status) ReservesBudget() bool {
	return s != StatusRejected
}

// UnmarshalParam implements gin's BindUnmarshaler for query parameters.
func (s *Status) UnmarshalParam(p string) error {
	if p == "" {
		*s = ""
		return nil
	}

	parsed, err := ParseStatus(p)
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}
