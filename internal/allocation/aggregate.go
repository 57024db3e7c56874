package allocation

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pe-program/backend/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// reserving lists the statuses that count against a family's cap.
var reserving = slices.DeleteFunc(slices.Clone(types.Statuses), func(s types.Status) bool {
	return !s.ReservesBudget()
})

// Ref identifies a contribution across all category tables.
type Ref struct {
	Category types.Category
	ID       uuid.UUID
}

// Aggregate returns the support already committed to a family, summed over
// all categories. Only contributions in a status that reserves budget
// count. If exclude is set, the referenced contribution is left out, which
// is used when a contribution is edited.
func Aggregate(db *gorm.DB, familyID uuid.UUID, exclude *Ref) (decimal.Decimal, error) {
	used := decimal.Zero

	for _, category := range types.Categories {
		query := db.Table(category.Table()).
			Where("family_id = ? AND status IN ?", familyID, reserving)

		if exclude != nil && exclude.Category == category {
			query = query.Where("id <> ?", exclude.ID)
		}

		// Summing in Go keeps the result exact, SQLite sums decimals as floats
		var amounts []decimal.Decimal
		err := query.Pluck("pe_contribution", &amounts).Error
		if err != nil {
			return decimal.Zero, fmt.Errorf("aggregating %s contributions: %w", category, err)
		}

		for _, a := range amounts {
			used = used.Add(a)
		}
	}

	return used, nil
}
