package types

import "errors"

var (
	ErrUnknownArea         = errors.New("unknown area")
	ErrUnknownCategory     = errors.New("unknown category")
	ErrUnknownPovertyLevel = errors.New("unknown poverty level")
	ErrUnknownStatus       = errors.New("unknown status")
)
