package types

import (
	"fmt"
	"strings"
)

// Category is an intervention category. All categories share the
// family's support cap.
type Category string

const (
	CategoryEducation Category = "education"
	CategoryHealth    Category = "health"
	CategoryHousing   Category = "housing"
	CategoryFood      Category = "food"
	CategoryEconomic  Category = "economic"
)

// Categories lists all categories.
var Categories = []Category{CategoryEducation, CategoryHealth, CategoryHousing, CategoryFood, CategoryEconomic}

// ParseCategory parses a category name in any casing.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, category := range Categories {
		if c == category {
			return c, nil
		}
	}

	return "", fmt.Errorf("%w: '%s'", ErrUnknownCategory, s)
}

// Table returns the name of the database table storing the category's records.
func (c Category) Table() string {
	return string(c) + "_contributions"
}

// UnmarshalParam implements gin's BindUnmarshaler.
func (c *Category) UnmarshalParam(p string) error {
	if p == "" {
		*c = ""
		return nil
	}

	parsed, err := ParseCategory(p)
	if err != nil {
		return err
	}

	*c = parsed
	return nil
}
