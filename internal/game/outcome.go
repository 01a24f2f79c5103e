package game

import "fmt"

// Outcome is a single resolved round of the double wheel.
type Outcome int

const (
	Red Outcome = iota
	Black
	White
)

func (o Outcome) String() string {
	switch o {
	case Red:
		return "red"
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "unknown"
	}
}

// Opposite returns the other playable color. White has no opposite and
// is returned unchanged.
func (o Outcome) Opposite() Outcome {
	switch o {
	case Red:
		return Black
	case Black:
		return Red
	default:
		return o
	}
}

// IsColor reports whether the outcome is a playable color (not white).
func (o Outcome) IsColor() bool {
	return o == Red || o == Black
}

// ParseOutcome converts a wire/config string into an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "red":
		return Red, nil
	case "black":
		return Black, nil
	case "white":
		return White, nil
	default:
		return Red, fmt.Errorf("unknown outcome %q", s)
	}
}

// OutcomeFromRoll maps a wheel roll (0-14) to its color: 0 is white,
// 1-7 red, 8-14 black.
func OutcomeFromRoll(roll int) (Outcome, error) {
	switch {
	case roll == 0:
		return White, nil
	case roll >= 1 && roll <= 7:
		return Red, nil
	case roll >= 8 && roll <= 14:
		return Black, nil
	default:
		return Red, fmt.Errorf("roll %d outside wheel range 0-14", roll)
	}
}

// MarshalText implements encoding.TextMarshaler so outcomes serialize
// as their color names in JSON and YAML.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	parsed, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
