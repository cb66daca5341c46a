package recipe

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tier is a coarse preparation-effort class derived from instruction length.
type Tier int

const (
	Unknown Tier = iota
	Quick
	Moderate
	WeekendTreat
)

const (
	quickWordLimit    = 80
	moderateWordLimit = 150
)

// Classify maps instructional text to a tier by whitespace-delimited word count.
func Classify(instructions string) Tier {
	words := len(strings.Fields(instructions))
	switch {
	case words == 0:
		return Unknown
	case words < quickWordLimit:
		return Quick
	case words < moderateWordLimit:
		return Moderate
	default:
		return WeekendTreat
	}
}

// String returns the human label used in plans and narratives.
func (t Tier) String() string {
	switch t {
	case Quick:
		return "Quick"
	case Moderate:
		return "Moderate"
	case WeekendTreat:
		return "Weekend Treat"
	default:
		return "Unknown"
	}
}

// MarshalJSON encodes the tier as its label.
func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a tier label.
func (t *Tier) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	switch label {
	case "Quick":
		*t = Quick
	case "Moderate":
		*t = Moderate
	case "Weekend Treat":
		*t = WeekendTreat
	case "Unknown", "":
		*t = Unknown
	default:
		return fmt.Errorf("unknown tier %q", label)
	}
	return nil
}
