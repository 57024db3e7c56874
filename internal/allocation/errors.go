package allocation

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/pe-program/backend/internal/models"
	"github.com/pe-program/backend/internal/schedule"
	"github.com/pe-program/backend/internal/types"
	"github.com/shopspring/decimal"
)

var (
	ErrTransientStore       = errors.New("the allocation store is temporarily unavailable, re-fetch the allocation snapshot before retrying")
	ErrConcurrentAllocation = errors.New("the allocation of the family was changed by another request")
)

// Kinds classify errors for API clients.
const (
	KindValidation     = "validation"
	KindBudgetExceeded = "budget_exceeded"
	KindNotFound       = "not_found"
	KindConflict       = "conflict"
	KindTransientStore = "transient_store"
	KindInternal       = "internal"
)

// ValidationError is returned for malformed input and illegal state transitions.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}

	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// BudgetExceededError is returned when a contribution would take a family
// above its support cap.
type BudgetExceededError struct {
	Cap       decimal.Decimal
	Used      decimal.Decimal
	Candidate decimal.Decimal
	Currency  string
}

// Available is the support that is still available to the family.
func (e *BudgetExceededError) Available() decimal.Decimal {
	return decimal.Max(decimal.Zero, e.Cap.Sub(e.Used))
}

// Excess is the amount by which the candidate exceeds the available support.
func (e *BudgetExceededError) Excess() decimal.Decimal {
	return e.Candidate.Add(e.Used).Sub(e.Cap)
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("the contribution of %[1]s %[2]s is above the available support of %[1]s %[3]s (cap %[1]s %[4]s, already used %[1]s %[5]s): exceeds by %[1]s %[6]s",
		e.Currency, e.Candidate, e.Available(), e.Cap, e.Used, e.Excess())
}

// Kind returns the error kind for an error returned by this package.
func Kind(err error) string {
	var validation *ValidationError
	var exceeded *BudgetExceededError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &validation):
		return KindValidation
	case errors.As(err, &exceeded):
		return KindBudgetExceeded
	case errors.Is(err, models.ErrResourceNotFound):
		return KindNotFound
	case errors.Is(err, ErrConcurrentAllocation):
		return KindConflict
	case errors.Is(err, ErrTransientStore), transient(err):
		return KindTransientStore
	}

	return KindInternal
}

// transient reports if err is a store failure that may succeed when retried.
func transient(err error) bool {
	return errors.Is(err, models.ErrGeneral) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) ||
		// hard-coded in database/sql, returned when beginning a transaction on a closed database
		strings.Contains(err.Error(), "sql: database is closed")
}

// classify translates store and domain errors into the error taxonomy
// of this package.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if transient(err) && !errors.Is(err, ErrTransientStore) {
		return fmt.Errorf("%w: %w", ErrTransientStore, err)
	}

	if Kind(err) != KindInternal {
		return err
	}

	switch {
	case errors.Is(err, schedule.ErrNoMembers):
		return invalid("memberCount", "the family has no members, its poverty level cannot be determined")
	case errors.Is(err, types.ErrUnknownCategory), errors.Is(err, types.ErrUnknownStatus):
		return &ValidationError{Reason: err.Error()}
	case errors.Is(err, models.ErrFamilyIDMissing), errors.Is(err, models.ErrReference):
		return &ValidationError{Field: "familyId", Reason: err.Error()}
	}

	return err
}
