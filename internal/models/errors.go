package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
	ErrReference        = errors.New("the referenced resource does not exist")

	ErrFormNumberEmpty     = errors.New("the form number must not be empty")
	ErrFormNumberNotUnique = errors.New("a family with this form number already exists")
	ErrIncomeNegative      = errors.New("the household income must not be negative")
	ErrMemberNameEmpty     = errors.New("the member name must not be empty")
	ErrFamilyIDMissing     = errors.New("no family ID specified")
)
