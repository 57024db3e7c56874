package schedule

import "errors"

var (
	ErrInvalidSchedule = errors.New("invalid poverty schedule")
	ErrNoMembers       = errors.New("the family must have at least one member")
)
