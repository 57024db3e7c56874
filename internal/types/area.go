// Package types implements special types for the social support backend.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Area is the settlement classification of a family's residence.
type Area string

const (
	AreaRural     Area = "rural"
	AreaUrban     Area = "urban"
	AreaPeriUrban Area = "peri-urban"
)

// Areas lists all known areas in schedule order.
var Areas = []Area{AreaRural, AreaUrban, AreaPeriUrban}

// ParseArea parses an area name. It accepts any casing and
// spaces or underscores in place of the hyphen.
func ParseArea(s string) (Area, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer(" ", "-", "_", "-").Replace(n)

	switch n {
	case "rural":
		return AreaRural, nil
	case "urban":
		return AreaUrban, nil
	case "peri-urban", "periurban":
		return AreaPeriUrban, nil
	}

	return "", fmt.Errorf("%w: '%s'", ErrUnknownArea, s)
}

// OrRural returns the area if it is known and AreaRural otherwise.
func (a Area) OrRural() Area {
	parsed, err := ParseArea(string(a))
	if err != nil {
		return AreaRural
	}

	return parsed
}

// UnmarshalJSON implements the json.Unmarshaler interface.
//
// Unknown values are kept verbatim so that validation can report them.
func (a *Area) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParseArea(s)
	if err != nil {
		*a = Area(s)
		return nil
	}

	*a = parsed
	return nil
}

// UnmarshalParam implements gin's BindUnmarshaler for query parameters.
func (a *Area) UnmarshalParam(p string) error {
	if p == "" {
		*a = ""
		return nil
	}

	parsed, err := ParseArea(p)
	if err != nil {
		return err
	}

	*a = parsed
	return nil
}
