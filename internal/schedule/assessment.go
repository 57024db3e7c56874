package schedule

import (
	"github.com/pe-program/backend/internal/types"
	"github.com/shopspring/decimal"
)

// Assessment is the poverty assessment of a family.
type Assessment struct {
	PerCapitaIncome      decimal.Decimal    `json:"perCapitaIncome" example:"2333.33"`     // Monthly income per family member
	SelfSufficiencyRatio decimal.Decimal    `json:"selfSufficiencyRatio" example:"0.2593"` // Per-capita income relative to the area's self-sufficiency threshold
	Level                types.PovertyLevel `json:"level" example:"Level -4"`              // Poverty level
	Cap                  decimal.Decimal    `json:"cap" example:"468000"`                  // Maximum lifetime social support
	Version              string             `json:"scheduleVersion" example:"2024-01"`     // Version of the schedule used for the assessment
}

// Assess classifies a family from its monthly household income, member count and area.
func (s *Schedule) Assess(income decimal.Decimal, members uint, area types.Area) (Assessment, error) {
	if members == 0 {
		return Assessment{}, ErrNoMembers
	}

	if income.IsNegative() {
		income = decimal.Zero
	}

	// The unrounded value is used for classification so that rounding
	// never lifts a family across a threshold
	perCapita := income.Div(decimal.NewFromInt(int64(members)))
	level := s.Classify(perCapita, area)

	ratio := decimal.Zero
	if threshold := s.SelfSufficiency(area); threshold.IsPositive() {
		ratio = perCapita.Div(threshold).Round(4)
	}

	return Assessment{
		PerCapitaIncome:      perCapita.Round(2),
		SelfSufficiencyRatio: ratio,
		Level:                level,
		Cap:                  s.Cap(level),
		Version:              s.Version,
	}, nil
}
