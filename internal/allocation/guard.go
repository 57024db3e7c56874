package allocation

import (
	"github.com/shopspring/decimal"
)

// Guard checks a candidate contribution against a family's cap.
//
// It rejects exactly when candidate + used > cap. A contribution that
// uses up the cap completely is accepted.
func Guard(cap, used, candidate decimal.Decimal, currency string) error {
	if candidate.Add(used).GreaterThan(cap) {
		return &BudgetExceededError{
			Cap:       cap,
			Used:      used,
			Candidate: candidate,
			Currency:  currency,
		}
	}

	return nil
}
