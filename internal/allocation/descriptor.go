// Package allocation implements the social support allocation engine.
//
// It computes the program share of intervention contributions and
// guarantees that the sum of a family's contributions across all
// categories never exceeds its support cap.
package allocation

import (
	"fmt"

	"github.com/pe-program/backend/internal/types"
	"golang.org/x/exp/slices"
)

// LineSpec describes a cost line of a category.
type LineSpec struct {
	Name      string `json:"name" example:"tuition"`
	Recurring bool   `json:"recurring" example:"true"` // Recurring lines are multiplied by the duration in months
}

// Descriptor describes the shape of contributions for one category.
type Descriptor struct {
	Category        types.Category `json:"category" example:"education"`
	Lines           []LineSpec     `json:"lines"`
	DurationApplies bool           `json:"durationApplies" example:"true"`            // Whether contributions run for a number of months
	DetailName      string         `json:"detailName,omitempty" example:"schoolType"` // Name of the category specific detail
	Details         []string       `json:"details,omitempty" example:"government,private"`
}

var descriptors = []Descriptor{
	{
		Category: types.CategoryEducation,
		Lines: []LineSpec{
			{Name: "admission"},
			{Name: "tuition", Recurring: true},
			{Name: "hostel", Recurring: true},
			{Name: "transport", Recurring: true},
		},
		DurationApplies: true,
		DetailName:      "schoolType",
		Details:         []string{"government", "private", "madrasa", "other"},
	},
	{
		Category: types.CategoryHealth,
		Lines: []LineSpec{
			{Name: "treatment", Recurring: true},
			{Name: "medicine", Recurring: true},
		},
		DurationApplies: true,
		DetailName:      "facility",
		Details:         []string{"government", "private"},
	},
	{
		Category: types.CategoryHousing,
		Lines: []LineSpec{
			{Name: "rent", Recurring: true},
			{Name: "repair"},
		},
		DurationApplies: true,
		DetailName:      "tenure",
		Details:         []string{"rented", "owned", "shelter"},
	},
	{
		Category: types.CategoryFood,
		Lines: []LineSpec{
			{Name: "ration"},
		},
	},
	{
		Category: types.CategoryEconomic,
		Lines: []LineSpec{
			{Name: "investment"},
			{Name: "training"},
		},
		DetailName: "venture",
		Details:    []string{"livestock", "shop", "agriculture", "skills", "other"},
	},
}

// Descriptors returns the descriptors of all categories.
func Descriptors() []Descriptor {
	return slices.Clone(descriptors)
}

// DescriptorFor returns the descriptor for a category.
func DescriptorFor(category types.Category) (Descriptor, error) {
	i := slices.IndexFunc(descriptors, func(d Descriptor) bool {
		return d.Category == category
	})

	if i == -1 {
		return Descriptor{}, fmt.Errorf("%w: '%s'", types.ErrUnknownCategory, category)
	}

	return descriptors[i], nil
}

// Line returns the definition of the cost line with the given name.
func (d Descriptor) Line(name string) (LineSpec, bool) {
	i := slices.IndexFunc(d.Lines, func(l LineSpec) bool {
		return l.Name == name
	})

	if i == -1 {
		return LineSpec{}, false
	}

	return d.Lines[i], true
}
