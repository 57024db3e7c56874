package allocation

import (
	"github.com/pe-program/backend/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// MaxDurationMonths is the longest duration a contribution can run for.
const MaxDurationMonths = 1200

// LineInput is a cost line as entered by the caseworker. Amounts are
// monthly for recurring lines.
type LineInput struct {
	Name               string          `json:"name" example:"tuition"`
	Total              decimal.Decimal `json:"total" example:"3000" swaggertype:"string"`
	FamilyContribution decimal.Decimal `json:"familyContribution" example:"500" swaggertype:"string"`
}

// Calculation is the result of a contribution calculation.
type Calculation struct {
	Lines          []models.CostLine `json:"lines"`
	DurationMonths uint              `json:"durationMonths" example:"12"`
	PEContribution decimal.Decimal   `json:"peContribution" example:"30000" swaggertype:"string"` // Program share over the whole duration
}

// Calculate computes the program share of a contribution.
//
// Negative amounts are treated as zero and a family share larger than the
// total yields no program share. Recurring lines are multiplied by the
// duration, one-time lines are not.
func (d Descriptor) Calculate(lines []LineInput, durationMonths uint) Calculation {
	if !d.DurationApplies {
		durationMonths = 0
	}

	result := Calculation{
		Lines:          make([]models.CostLine, 0, len(lines)),
		DurationMonths: durationMonths,
		PEContribution: decimal.Zero,
	}

	for _, in := range lines {
		total := decimal.Max(decimal.Zero, in.Total)
		family := decimal.Max(decimal.Zero, in.FamilyContribution)
		pe := decimal.Max(decimal.Zero, total.Sub(family))

		if spec, ok := d.Line(in.Name); ok && spec.Recurring {
			pe = pe.Mul(decimal.NewFromUint64(uint64(durationMonths)))
		}

		result.Lines = append(result.Lines, models.CostLine{
			Name:               in.Name,
			Total:              total,
			FamilyContribution: family,
			PEContribution:     pe,
		})
		result.PEContribution = result.PEContribution.Add(pe)
	}

	return result
}

// Validate checks contribution input against the descriptor.
func (d Descriptor) Validate(lines []LineInput, durationMonths uint, detail string) error {
	if len(lines) == 0 {
		return invalid("lines", "at least one cost line is required")
	}

	seen := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := d.Line(l.Name); !ok {
			return invalid("lines", "'%s' is not a cost line of %s contributions", l.Name, d.Category)
		}

		if slices.Contains(seen, l.Name) {
			return invalid("lines", "cost line '%s' is specified more than once", l.Name)
		}
		seen = append(seen, l.Name)

		if l.Total.IsNegative() {
			return invalid("lines", "total of '%s' must not be negative", l.Name)
		}

		if l.FamilyContribution.IsNegative() {
			return invalid("lines", "family contribution of '%s' must not be negative", l.Name)
		}
	}

	if !d.DurationApplies && durationMonths > 0 {
		return invalid("durationMonths", "%s contributions do not have a duration", d.Category)
	}

	if durationMonths > MaxDurationMonths {
		return invalid("durationMonths", "the duration must not be longer than %d months", MaxDurationMonths)
	}

	if len(d.Details) == 0 {
		if detail != "" {
			return invalid("detail", "%s contributions do not have a detail", d.Category)
		}
		return nil
	}

	if detail != "" && !slices.Contains(d.Details, detail) {
		return invalid("detail", "'%s' is not a valid %s, use one of %v", detail, d.DetailName, d.Details)
	}

	return nil
}
