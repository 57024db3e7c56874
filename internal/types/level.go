package types

import (
	"fmt"
	"strings"
)

// PovertyLevel is one of the six ordered poverty bands.
type PovertyLevel string

const (
	LevelMinus4 PovertyLevel = "Level -4"
	LevelMinus3 PovertyLevel = "Level -3"
	LevelMinus2 PovertyLevel = "Level -2"
	LevelMinus1 PovertyLevel = "Level -1"
	Level0      PovertyLevel = "Level 0"
	LevelPlus1  PovertyLevel = "Level +1"
)

// Levels lists all poverty levels from the lowest to the highest band.
var Levels = []PovertyLevel{LevelMinus4, LevelMinus3, LevelMinus2, LevelMinus1, Level0, LevelPlus1}

// ParsePovertyLevel parses a label like "Level -4". The Unicode minus sign
// is accepted as well as "-4" or "+1" without the prefix.
func ParsePovertyLevel(s string) (PovertyLevel, error) {
	n := strings.TrimSpace(strings.ReplaceAll(s, "−", "-"))
	n = strings.TrimSpace(strings.TrimPrefix(strings.ToLower(n), "level"))

	switch n {
	case "-4":
		return LevelMinus4, nil
	case "-3":
		return LevelMinus3, nil
	case "-2":
		return LevelMinus2, nil
	case "-1":
		return LevelMinus1, nil
	case "0", "+0", "-0":
		return Level0, nil
	case "+1", "1":
		return LevelPlus1, nil
	}

	return "", fmt.Errorf("%w: '%s'", ErrUnknownPovertyLevel, s)
}

// Rank returns the numeric band of the level, -4 to 1.
// Unknown levels rank above every known one.
func (l PovertyLevel) Rank() int {
	for i, level := range Levels {
		if level == l {
			return i - 4
		}
	}

	return len(Levels)
}

// BelowSelfSufficiency reports if the level is one of the four negative bands.
func (l PovertyLevel) BelowSelfSufficiency() bool {
	return l.Rank() < 0
}
