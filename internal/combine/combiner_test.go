package combine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfarias/doubledown/internal/game"
	"github.com/vfarias/doubledown/internal/gate"
	"github.com/vfarias/doubledown/internal/signal"
)

// stub is a fixed-signal heuristic for combiner tests.
type stub struct {
	name string
	sig  signal.Signal
}

func (s stub) Name() string                       { return s.name }
func (s stub) MinHistory() int                    { return 0 }
func (s stub) Evaluate(_ *game.History) signal.Signal { return s.sig }

func vote(name string, color game.Outcome, conf float64) stub {
	return stub{name: name, sig: signal.Pick(color, conf, name)}
}

func silent(name string) stub {
	return stub{name: name, sig: signal.None(name)}
}

func repeat(o game.Outcome, n int) []game.Outcome {
	out := make([]game.Outcome, n)
	for i := range out {
		out[i] = o
	}
	return out
}

func historyOf(seqs ...[]game.Outcome) *game.History {
	h := game.NewHistory(0)
	for _, seq := range seqs {
		for _, o := range seq {
			h.Append(o)
		}
	}
	return h
}

func testConfig() Config {
	return Config{
		Name:           "test",
		OnVeto:         VetoSkip,
		Weights:        map[string]float64{"a": 1, "b": 1, "c": 1},
		ConsensusRatio: 0.70,
		ConfModeName:   ConfMean,
		ConfBonus:      5,
		ConfCap:        92,
	}
}

func TestDecideConsensusEntry(t *testing.T) {
	c := New(testConfig(), []signal.Heuristic{
		vote("a", game.Red, 70),
		vote("b", game.Red, 80),
		silent("c"),
	})
	d := c.Decide(historyOf(repeat(game.Red, 5)))
	require.True(t, d.Enter)
	assert.Equal(t, game.Red, d.Color)
	assert.Equal(t, ReasonConsensus, d.Reason)
	assert.InDelta(t, 80.0, d.Confidence, 1e-9, "mean of 70 and 80 plus bonus 5")
	assert.Equal(t, "b", d.Strategy, "attributed to the strongest contributing signal")
}

func TestDecideNoSignal(t *testing.T) {
	c := New(testConfig(), []signal.Heuristic{silent("a"), silent("b")})
	d := c.Decide(historyOf(repeat(game.Red, 5)))
	assert.False(t, d.Enter)
	assert.Equal(t, ReasonNoSignal, d.Reason)
}

func TestDecideLowConsensus(t *testing.T) {
	c := New(testConfig(), []signal.Heuristic{
		vote("a", game.Red, 70),
		vote("b", game.Black, 70),
	})
	d := c.Decide(historyOf(repeat(game.Red, 5)))
	assert.False(t, d.Enter)
	assert.Equal(t, ReasonLowConsensus, d.Reason)
}

func TestDecideBestOverride(t *testing.T) {
	cfg := testConfig()
	cfg.BestOverrideConf = 75
	c := New(cfg, []signal.Heuristic{
		vote("a", game.Red, 85),
		vote("b", game.Black, 70),
	})
	d := c.Decide(historyOf(repeat(game.Red, 5)))
	require.True(t, d.Enter)
	assert.Equal(t, game.Red, d.Color)
	assert.Equal(t, ReasonBestOverride, d.Reason)
	assert.Equal(t, 85.0, d.Confidence)
}

func TestDecideForcedEntry(t *testing.T) {
	cfg := testConfig()
	cfg.ForcedEntry = true
	cfg.ForcedEntryConf = 55
	c := New(cfg, []signal.Heuristic{
		vote("a", game.Red, 62),
		vote("b", game.Black, 60),
	})
	d := c.Decide(historyOf(repeat(game.Red, 5)))
	require.True(t, d.Enter)
	assert.Equal(t, game.Red, d.Color)
	assert.Equal(t, ReasonForcedEntry, d.Reason)
	assert.Equal(t, 55.0, d.Confidence)
	assert.Equal(t, "low_confidence", d.Strategy)
}

func TestDecideEntryConfFloor(t *testing.T) {
	cfg := testConfig()
	cfg.EntryConfFloor = 90
	c := New(cfg, []signal.Heuristic{
		vote("a", game.Red, 70),
		vote("b", game.Red, 72),
	})
	d := c.Decide(historyOf(repeat(game.Red, 5)))
	assert.False(t, d.Enter)
	assert.Equal(t, ReasonLowConfidence, d.Reason)
}

func TestDecideVoteMinConfFiltersWeakSignals(t *testing.T) {
	cfg := testConfig()
	cfg.VoteMinConf = 60
	c := New(cfg, []signal.Heuristic{
		vote("a", game.Red, 55),
		vote("b", game.Red, 58),
	})
	d := c.Decide(historyOf(repeat(game.Red, 5)))
	assert.False(t, d.Enter)
	assert.Equal(t, ReasonNoSignal, d.Reason, "signals below the vote floor never reach the tally")
}

func TestDecideWeightsShiftTheMajority(t *testing.T) {
	cfg := testConfig()
	cfg.Weights = map[string]float64{"a": 1.0, "b": 3.0}
	c := New(cfg, []signal.Heuristic{
		vote("a", game.Red, 80),
		vote("b", game.Black, 80),
	})
	d := c.Decide(historyOf(repeat(game.Red, 5)))
	require.True(t, d.Enter)
	assert.Equal(t, game.Black, d.Color, "the heavier voter carries the majority")
}

func TestDecideIsIdempotent(t *testing.T) {
	c := New(testConfig(), []signal.Heuristic{
		vote("a", game.Red, 70),
		vote("b", game.Red, 80),
	})
	h := historyOf(repeat(game.Red, 5))
	first := c.Decide(h)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Decide(h))
	}
}

func TestVoteMonotonicity(t *testing.T) {
	// Adding a red voter can only help red: an entered red decision
	// stays entered with at least the same consensus.
	base := []signal.Heuristic{
		vote("a", game.Red, 75),
		vote("b", game.Red, 78),
	}
	cfg := testConfig()
	c := New(cfg, base)
	h := historyOf(repeat(game.Red, 5))
	before := c.Decide(h)
	require.True(t, before.Enter)

	cfg.Weights["d"] = 1
	more := append(append([]signal.Heuristic{}, base...), vote("d", game.Red, 80))
	after := New(cfg, more).Decide(h)
	require.True(t, after.Enter)
	assert.Equal(t, game.Red, after.Color)
	assert.GreaterOrEqual(t, after.Confidence, before.Confidence)
}

func TestGateVetoSkips(t *testing.T) {
	cfg := testConfig()
	cfg.Gate = gate.Config{MinHistory: 20}
	c := New(cfg, []signal.Heuristic{vote("a", game.Red, 90)})
	d := c.Decide(historyOf(repeat(game.Red, 5)))
	assert.False(t, d.Enter)
	assert.Equal(t, gate.ReasonInsufficientHistory, d.Reason)
	assert.True(t, d.Gate.Skip)
}

func TestGateVetoFallback(t *testing.T) {
	cfg := testConfig()
	cfg.Gate = gate.Config{MinHistory: 20}
	cfg.OnVeto = VetoFallback
	cfg.FallbackConf = 55
	c := New(cfg, []signal.Heuristic{vote("a", game.Red, 90)})
	c.WithFallback(vote("cautious", game.Black, 60))

	d := c.Decide(historyOf(repeat(game.Red, 5)))
	require.True(t, d.Enter)
	assert.Equal(t, game.Black, d.Color)
	assert.Equal(t, 55.0, d.Confidence)
	assert.Equal(t, ReasonFallback, d.Reason)
	assert.Equal(t, "conservative_cautious", d.Strategy)
}

func TestSoftVetoReroutes(t *testing.T) {
	cfg := testConfig()
	cfg.OnVeto = VetoFallback
	cfg.FallbackConf = 55
	c := New(cfg, []signal.Heuristic{vote("a", game.Red, 90)})
	c.WithSoftVeto(silent("dq"))
	c.WithFallback(vote("cautious", game.Black, 60))

	d := c.Decide(historyOf(repeat(game.Red, 5)))
	require.True(t, d.Enter)
	assert.Equal(t, ReasonFallback, d.Reason)
	assert.Equal(t, ReasonDisqualified, d.Gate.Reason)
}

func TestRequireTwoAgree(t *testing.T) {
	cfg := testConfig()
	cfg.RequireTwoAgree = true
	cfg.TwoAgreeOrBest = 85

	single := New(cfg, []signal.Heuristic{vote("a", game.Red, 80)})
	d := single.Decide(historyOf(repeat(game.Red, 5)))
	assert.False(t, d.Enter, "one voter below the standout bar is not enough")

	standout := New(cfg, []signal.Heuristic{vote("a", game.Red, 86)})
	d = standout.Decide(historyOf(repeat(game.Red, 5)))
	assert.True(t, d.Enter, "a standout signal passes alone")

	pair := New(cfg, []signal.Heuristic{vote("a", game.Red, 75), vote("b", game.Red, 76)})
	d = pair.Decide(historyOf(repeat(game.Red, 5)))
	assert.True(t, d.Enter, "two agreeing voters pass")
}

func TestConfidenceCappedAtConfCap(t *testing.T) {
	cfg := testConfig()
	cfg.ConfBonus = 50
	c := New(cfg, []signal.Heuristic{vote("a", game.Red, 85), vote("b", game.Red, 88)})
	d := c.Decide(historyOf(repeat(game.Red, 5)))
	require.True(t, d.Enter)
	assert.Equal(t, cfg.ConfCap, d.Confidence)
}
