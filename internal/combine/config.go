// Package combine turns the independent heuristic opinions into one
// actionable decision via weighted voting, consensus thresholds and
// override rules. All variant behavior lives in one parameterized
// Config; the named variants differ only in constants.
package combine

import (
	"errors"
	"fmt"

	"github.com/vfarias/doubledown/internal/gate"
)

// ErrUnknownVariant marks a variant name with no registered preset.
var ErrUnknownVariant = errors.New("unknown combiner variant")

// VetoMode selects what happens when the filter gate fires.
type VetoMode string

const (
	// VetoSkip refuses to enter, full stop.
	VetoSkip VetoMode = "skip"
	// VetoFallback reroutes to the conservative fallback heuristic at
	// reduced confidence instead of standing aside.
	VetoFallback VetoMode = "fallback"
)

// ConfMode selects how consensus confidence is derived.
type ConfMode string

const (
	// ConfLinear scales confidence with the vote ratio's distance from
	// an even split.
	ConfLinear ConfMode = "linear"
	// ConfMean averages the winning side's contributing confidences and
	// adds a fixed bonus.
	ConfMean ConfMode = "mean"
)

// Config holds every tunable of the voting pipeline.
type Config struct {
	Name   string      `yaml:"name"`
	OnVeto VetoMode    `yaml:"on_veto"`
	Gate   gate.Config `yaml:"gate"`

	// Voting.
	Weights     map[string]float64 `yaml:"weights"`
	VoteMinConf float64            `yaml:"vote_min_conf"`

	// Consensus.
	ConsensusRatio float64  `yaml:"consensus_ratio"`
	ConfModeName   ConfMode `yaml:"conf_mode"`
	LinearBase     float64  `yaml:"linear_base"`
	LinearSlope    float64  `yaml:"linear_slope"`
	ConfBonus      float64  `yaml:"conf_bonus"`
	ConfCap        float64  `yaml:"conf_cap"`
	BonusOverlay   bool     `yaml:"bonus_overlay"`

	// The strictest variants demand either two heuristics behind the
	// majority color or one exceptionally confident voice.
	RequireTwoAgree bool    `yaml:"require_two_agree"`
	TwoAgreeOrBest  float64 `yaml:"two_agree_or_best"`

	// Single-best override when consensus falls short; 0 disables.
	BestOverrideConf float64 `yaml:"best_override_conf"`

	// Entry confidence floor applied to any would-be entry; 0 disables.
	EntryConfFloor float64 `yaml:"entry_conf_floor"`

	// The lenient variant forces a low-confidence majority entry
	// instead of skipping on weak consensus.
	ForcedEntry     bool    `yaml:"forced_entry"`
	ForcedEntryConf float64 `yaml:"forced_entry_conf"`

	// Confidence assigned to fallback entries under VetoFallback.
	FallbackConf float64 `yaml:"fallback_conf"`
}

// Validate rejects configurations that cannot produce sane decisions.
// Like the generator's distribution check, this runs before any
// simulation starts.
func (c Config) Validate() error {
	if c.Name == "" {
		return errors.New("combiner config: name is required")
	}
	switch c.OnVeto {
	case VetoSkip, VetoFallback:
	default:
		return fmt.Errorf("combiner config %q: on_veto must be %q or %q", c.Name, VetoSkip, VetoFallback)
	}
	switch c.ConfModeName {
	case ConfLinear, ConfMean:
	default:
		return fmt.Errorf("combiner config %q: conf_mode must be %q or %q", c.Name, ConfLinear, ConfMean)
	}
	if c.ConsensusRatio <= 0.5 || c.ConsensusRatio > 1.0 {
		return fmt.Errorf("combiner config %q: consensus_ratio %.2f outside (0.5, 1.0]", c.Name, c.ConsensusRatio)
	}
	if c.ConfCap <= 0 || c.ConfCap > 100 {
		return fmt.Errorf("combiner config %q: conf_cap %.1f outside (0, 100]", c.Name, c.ConfCap)
	}
	if c.VoteMinConf < 0 || c.VoteMinConf > 100 {
		return fmt.Errorf("combiner config %q: vote_min_conf %.1f outside [0, 100]", c.Name, c.VoteMinConf)
	}
	for name, w := range c.Weights {
		if w <= 0 {
			return fmt.Errorf("combiner config %q: weight for %q must be positive, got %.2f", c.Name, name, w)
		}
	}
	return nil
}

// weight returns the vote weight for a heuristic, defaulting to 1.
func (c Config) weight(name string) float64 {
	if w, ok := c.Weights[name]; ok {
		return w
	}
	return 1.0
}
