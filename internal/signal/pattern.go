package signal

import "github.com/vfarias/doubledown/internal/game"

// PatternConfig parameterizes the fixed-block pattern matcher over the
// white-filtered tail: alternating pairs (AABB...) and alternating
// triples (AAABBB...). Triples score higher than pairs because three
// full blocks are rarer noise.
type PatternConfig struct {
	Window      int     `yaml:"window"`       // raw rounds inspected
	MinFiltered int     `yaml:"min_filtered"` // colors required after white removal
	PairConf    float64 `yaml:"pair_conf"`    // three alternating pairs
	QuadConf    float64 `yaml:"quad_conf"`    // four alternating pairs; 0 disables
	TripleConf  float64 `yaml:"triple_conf"`  // three alternating triples
	MinRounds   int     `yaml:"min_rounds"`
}

// DefaultPatternConfig mirrors the standard block matcher.
func DefaultPatternConfig() PatternConfig {
	return PatternConfig{
		Window:      12,
		MinFiltered: 8,
		PairConf:    78,
		TripleConf:  80,
		MinRounds:   12,
	}
}

// Pattern proposes the color that continues a block alternation.
type Pattern struct {
	cfg PatternConfig
}

func NewPattern(cfg PatternConfig) *Pattern {
	return &Pattern{cfg: cfg}
}

func (p *Pattern) Name() string    { return "pattern" }
func (p *Pattern) MinHistory() int { return p.cfg.MinRounds }

func (p *Pattern) Evaluate(h *game.History) Signal {
	if h.Len() < p.cfg.MinRounds {
		return None(p.Name())
	}
	colors := h.TailNonWhite(p.cfg.Window)
	if len(colors) < p.cfg.MinFiltered {
		return None(p.Name())
	}

	// Check the richer shapes first so AABBCCDD does not resolve as a
	// plain three-pair match at lower confidence.
	if p.cfg.QuadConf > 0 && matchBlocks(colors, 2, 4) {
		return Pick(colors[len(colors)-1].Opposite(), p.cfg.QuadConf, p.Name())
	}
	if matchBlocks(colors, 3, 3) {
		return Pick(colors[len(colors)-1].Opposite(), p.cfg.TripleConf, p.Name())
	}
	if p.cfg.PairConf > 0 && matchBlocks(colors, 2, 3) {
		return Pick(colors[len(colors)-1].Opposite(), p.cfg.PairConf, p.Name())
	}
	return None(p.Name())
}

// matchBlocks reports whether the tail of colors is count consecutive
// same-color blocks of the given size with alternating block colors.
func matchBlocks(colors []game.Outcome, size, count int) bool {
	need := size * count
	if len(colors) < need {
		return false
	}
	tail := colors[len(colors)-need:]
	for b := 0; b < count; b++ {
		block := tail[b*size : (b+1)*size]
		for _, c := range block[1:] {
			if c != block[0] {
				return false
			}
		}
		if b > 0 && tail[b*size] == tail[(b-1)*size] {
			return false
		}
	}
	return true
}
