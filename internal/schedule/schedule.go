// Package schedule holds the poverty schedule: the per-area income thresholds
// that classify a family into a poverty level and the lifetime support cap
// of each level.
package schedule

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/pe-program/backend/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultSchedule []byte

// Schedule is a versioned poverty schedule.
type Schedule struct {
	Version  string                                 `yaml:"version" json:"version" example:"2024-01"`
	Currency string                                 `yaml:"currency" json:"currency" example:"PKR"`
	Areas    map[types.Area]AreaSchedule            `yaml:"areas" json:"areas"`
	Caps     map[types.PovertyLevel]decimal.Decimal `yaml:"caps" json:"caps"`
}

// AreaSchedule contains the thresholds for one area.
type AreaSchedule struct {
	Thresholds map[types.PovertyLevel]decimal.Decimal `yaml:"thresholds" json:"thresholds"`

	// SelfSufficiency is the per-capita income at which a family is
	// self-sufficient. Defaults to the "Level 0" threshold.
	SelfSufficiency decimal.Decimal `yaml:"selfSufficiency,omitempty" json:"selfSufficiency"`
}

// Default returns the embedded schedule.
func Default() *Schedule {
	s, err := Parse(defaultSchedule)
	if err != nil {
		panic(fmt.Sprintf("embedded poverty schedule is invalid: %s", err))
	}

	return s
}

// Parse parses and validates a YAML schedule.
func Parse(data []byte) (*Schedule, error) {
	var s Schedule
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse poverty schedule: %w", err)
	}

	// Area keys are normalized so that "Peri Urban" works in files
	areas := make(map[types.Area]AreaSchedule, len(s.Areas))
	for name, area := range s.Areas {
		parsed, err := types.ParseArea(string(name))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
		}

		if area.SelfSufficiency.IsZero() {
			area.SelfSufficiency = area.Thresholds[types.Level0]
		}
		areas[parsed] = area
	}
	s.Areas = areas

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// LoadFile reads a schedule from a YAML file.
func LoadFile(path string) (*Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read poverty schedule: %w", err)
	}

	return Parse(data)
}

// Validate checks that the schedule is complete and consistent.
func (s *Schedule) Validate() error {
	if s.Version == "" {
		return fmt.Errorf("%w: version is required", ErrInvalidSchedule)
	}

	if _, err := currency.ParseISO(s.Currency); err != nil {
		return fmt.Errorf("%w: currency '%s' is not an ISO 4217 code", ErrInvalidSchedule, s.Currency)
	}

	for _, area := range types.Areas {
		a, ok := s.Areas[area]
		if !ok {
			return fmt.Errorf("%w: no thresholds for area %s", ErrInvalidSchedule, area)
		}

		if len(a.Thresholds) != len(types.Levels) {
			return fmt.Errorf("%w: area %s must define exactly %d thresholds", ErrInvalidSchedule, area, len(types.Levels))
		}

		previous := decimal.NewFromInt(-1)
		for _, level := range types.Levels {
			t, ok := a.Thresholds[level]
			if !ok {
				return fmt.Errorf("%w: area %s has no threshold for %s", ErrInvalidSchedule, area, level)
			}

			if t.IsNegative() {
				return fmt.Errorf("%w: threshold for %s in area %s is negative", ErrInvalidSchedule, level, area)
			}

			if t.LessThanOrEqual(previous) {
				return fmt.Errorf("%w: thresholds in area %s must increase with the level", ErrInvalidSchedule, area)
			}
			previous = t
		}

		if !a.SelfSufficiency.IsPositive() {
			return fmt.Errorf("%w: self-sufficiency threshold for area %s must be positive", ErrInvalidSchedule, area)
		}
	}

	for level, amount := range s.Caps {
		if _, err := types.ParsePovertyLevel(string(level)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
		}

		if !level.BelowSelfSufficiency() && !amount.IsZero() {
			return fmt.Errorf("%w: %s is at or above self-sufficiency and cannot have a support cap", ErrInvalidSchedule, level)
		}
	}

	for _, level := range types.Levels {
		if level.BelowSelfSufficiency() && !s.Caps[level].IsPositive() {
			return fmt.Errorf("%w: support cap for %s must be positive", ErrInvalidSchedule, level)
		}
	}

	return nil
}

// Unit returns the currency unit of the schedule.
func (s *Schedule) Unit() currency.Unit {
	// Validate ensures that this parses
	unit, _ := currency.ParseISO(s.Currency)
	return unit
}

// Classify returns the poverty level for a monthly per-capita income in an area.
//
// Unknown areas are classified as rural and negative incomes as zero. The
// result is the level of the highest threshold that is at or below the income,
// or the lowest level if there is none.
func (s *Schedule) Classify(perCapita decimal.Decimal, area types.Area) types.PovertyLevel {
	if perCapita.IsNegative() {
		perCapita = decimal.Zero
	}

	thresholds := s.Areas[area.OrRural()].Thresholds

	levels := make([]types.PovertyLevel, 0, len(thresholds))
	for level := range thresholds {
		levels = append(levels, level)
	}

	sort.Slice(levels, func(i, j int) bool {
		return thresholds[levels[i]].GreaterThan(thresholds[levels[j]])
	})

	for _, level := range levels {
		if thresholds[level].LessThanOrEqual(perCapita) {
			return level
		}
	}

	return types.Levels[0]
}

// Cap returns the maximum lifetime social support for a poverty level.
//
// Levels at or above self-sufficiency and unknown levels have no support.
func (s *Schedule) Cap(level types.PovertyLevel) decimal.Decimal {
	if !level.BelowSelfSufficiency() {
		return decimal.Zero
	}

	return s.Caps[level]
}

// SelfSufficiency returns the self-sufficiency threshold for an area.
func (s *Schedule) SelfSufficiency(area types.Area) decimal.Decimal {
	return s.Areas[area.OrRural()].SelfSufficiency
}

// Marshal returns the YAML representation of the schedule.
func (s *Schedule) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
