package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfarias/doubledown/internal/game"
)

var _ = []Heuristic{
	&Trend{}, &Reversal{}, &Pattern{}, &Statistical{}, &Equilibrium{},
	&Momentum{}, &Alternation{}, &Fibonacci{}, &Disqualify{}, &Premium{},
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

func TestAllHeuristicsNeutralBelowMinHistory(t *testing.T) {
	heuristics := []Heuristic{
		NewTrend(DefaultTrendConfig()),
		NewReversal(DefaultReversalConfig()),
		NewPattern(DefaultPatternConfig()),
		NewStatistical(DefaultStatisticalConfig()),
		NewEquilibrium(DefaultEquilibriumConfig()),
		DefaultMomentum(),
		DefaultAlternation(),
		DefaultFibonacci(),
		DefaultDisqualify(),
		NewPremium(DefaultPremiumConfig()),
	}
	for _, heur := range heuristics {
		short := historyOf(repeat(game.Red, heur.MinHistory()-1))
		sig := heur.Evaluate(short)
		assert.True(t, sig.Skip, "%s should stay neutral below %d rounds", heur.Name(), heur.MinHistory())
	}
}

func TestTrendFollowsDominantColor(t *testing.T) {
	trend := NewTrend(DefaultTrendConfig())

	dominant := historyOf(repeat(game.Black, 10), repeat(game.Red, 30))
	sig := trend.Evaluate(dominant)
	require.False(t, sig.Skip)
	assert.Equal(t, game.Red, sig.Color)
	assert.Equal(t, 90.0, sig.Confidence, "confidence should hit the cap")

	var balanced []game.Outcome
	for i := 0; i < 10; i++ {
		balanced = append(balanced, game.Red, game.Red, game.Black, game.Black)
	}
	sig = trend.Evaluate(historyOf(balanced))
	assert.True(t, sig.Skip, "a balanced tape gives no trend signal")
}

func TestTrendAgreementVetoesMixedWindows(t *testing.T) {
	cfg := TrendConfig{
		Windows:    []int{5},
		Weights:    []float64{1},
		EnterAbove: 0.62,
		EnterBelow: 0.38,
		ConfBase:   60,
		ConfSlope:  150,
		ConfCap:    90,
		MinRounds:  5,
		Agreement:  []float64{0.9},
	}
	h := historyOf([]game.Outcome{game.Black, game.Red, game.Red, game.Red, game.Red})

	sig := NewTrend(cfg).Evaluate(h)
	assert.True(t, sig.Skip, "0.8 red ratio fails the 0.9 agreement bar")

	cfg.Agreement = nil
	sig = NewTrend(cfg).Evaluate(h)
	require.False(t, sig.Skip)
	assert.Equal(t, game.Red, sig.Color)
}

func TestReversalOwedPath(t *testing.T) {
	rev := NewReversal(DefaultReversalConfig())

	// Red is heavily under-represented and black just ran four straight.
	var seq []game.Outcome
	for i := 0; i < 7; i++ {
		seq = append(seq, game.Red, game.Black, game.Black)
	}
	seq = append(seq, game.Black, game.Black)
	sig := rev.Evaluate(historyOf(seq))
	require.False(t, sig.Skip)
	assert.Equal(t, game.Red, sig.Color)
	assert.GreaterOrEqual(t, sig.Confidence, 65.0)
	assert.LessOrEqual(t, sig.Confidence, 88.0)
}

func TestReversalFallbackPath(t *testing.T) {
	rev := NewReversal(DefaultReversalConfig())

	// Balanced tape, then a four-streak: the opposite is not owed, so
	// the weaker fallback confidence applies.
	var seq []game.Outcome
	for i := 0; i < 8; i++ {
		seq = append(seq, game.Red, game.Black)
	}
	seq = append(seq, game.Black, game.Black, game.Black)
	sig := rev.Evaluate(historyOf(seq))
	require.False(t, sig.Skip)
	assert.Equal(t, game.Red, sig.Color)
	assert.Equal(t, 60.0, sig.Confidence)
}

func TestReversalRespectsStreakBand(t *testing.T) {
	cfg := DefaultReversalConfig()
	cfg.MaxStreak = 5
	cfg.RequireOwed = false
	rev := NewReversal(cfg)

	tooLong := historyOf(repeat(game.Red, 10), repeat(game.Black, 6))
	assert.True(t, rev.Evaluate(tooLong).Skip, "streak above the band gives no signal")

	tooShort := historyOf(repeat(game.Red, 14), repeat(game.Black, 2))
	assert.True(t, rev.Evaluate(tooShort).Skip, "streak below the band gives no signal")
}

func TestPatternPairBlocks(t *testing.T) {
	cfg := PatternConfig{Window: 9, MinFiltered: 6, PairConf: 72, TripleConf: 75, MinRounds: 6}
	pattern := NewPattern(cfg)

	h := historyOf([]game.Outcome{
		game.Red, game.Red, game.Black, game.Black,
		game.Red, game.Red, game.Black, game.Black,
	})
	sig := pattern.Evaluate(h)
	require.False(t, sig.Skip)
	assert.Equal(t, game.Red, sig.Color, "AABB alternation proposes the color that continues it")
	assert.GreaterOrEqual(t, sig.Confidence, 72.0)
}

func TestPatternTripleBlocks(t *testing.T) {
	cfg := DefaultPatternConfig()
	pattern := NewPattern(cfg)

	h := historyOf(repeat(game.Black, 3), []game.Outcome{
		game.Red, game.Red, game.Red,
		game.Black, game.Black, game.Black,
		game.Red, game.Red, game.Red,
	})
	sig := pattern.Evaluate(h)
	require.False(t, sig.Skip)
	assert.Equal(t, game.Black, sig.Color)
	assert.Equal(t, cfg.TripleConf, sig.Confidence)
}

func TestPatternQuadBeatsPair(t *testing.T) {
	cfg := PatternConfig{Window: 10, MinFiltered: 8, PairConf: 72, QuadConf: 85, TripleConf: 88, MinRounds: 8}
	pattern := NewPattern(cfg)

	h := historyOf([]game.Outcome{
		game.Red, game.Red, game.Black, game.Black,
		game.Red, game.Red, game.Black, game.Black,
	})
	sig := pattern.Evaluate(h)
	require.False(t, sig.Skip)
	assert.Equal(t, 85.0, sig.Confidence, "four pairs resolve at quad confidence, not pair")
}

func TestPatternIgnoresNoise(t *testing.T) {
	pattern := NewPattern(DefaultPatternConfig())
	h := historyOf([]game.Outcome{
		game.Red, game.Black, game.Red, game.Red, game.Black,
		game.Red, game.Black, game.Black, game.Red, game.Black,
		game.Red, game.Red,
	})
	assert.True(t, pattern.Evaluate(h).Skip)
}

func TestStatisticalDeviationBetsCorrection(t *testing.T) {
	stat := NewStatistical(DefaultStatisticalConfig())

	skewed := historyOf(repeat(game.Red, 60), repeat(game.Black, 20))
	sig := stat.Evaluate(skewed)
	require.False(t, sig.Skip)
	assert.Equal(t, game.Black, sig.Color, "red is over-represented overall")
}

func TestStatisticalRecentDivergence(t *testing.T) {
	stat := NewStatistical(DefaultStatisticalConfig())

	// Overall dead even, but the last thirty rounds run hot on red.
	var seq []game.Outcome
	seq = append(seq, repeat(game.Red, 4)...)
	seq = append(seq, repeat(game.Black, 16)...)
	for i := 0; i < 9; i++ {
		seq = append(seq, game.Red, game.Black)
	}
	seq = append(seq, game.Red, game.Red)
	seq = append(seq, repeat(game.Red, 10)...)
	h := historyOf(seq)
	require.Equal(t, 50, h.Len())

	sig := stat.Evaluate(h)
	require.False(t, sig.Skip)
	assert.Equal(t, game.Black, sig.Color, "recent red surge implies a drift back")
}

func TestEquilibriumBetsAgainstLeader(t *testing.T) {
	eq := NewEquilibrium(DefaultEquilibriumConfig())

	redLead := historyOf(repeat(game.Red, 21), repeat(game.Black, 9))
	sig := eq.Evaluate(redLead)
	require.False(t, sig.Skip)
	assert.Equal(t, game.Black, sig.Color)
	assert.InDelta(t, 67.0, sig.Confidence, 1e-9)

	balanced := historyOf(repeat(game.Red, 15), repeat(game.Black, 15))
	assert.True(t, eq.Evaluate(balanced).Skip)
}

func TestMomentumRidesAndFlips(t *testing.T) {
	m := DefaultMomentum()

	riding := historyOf(repeat(game.Black, 5), repeat(game.Red, 3))
	sig := m.Evaluate(riding)
	require.False(t, sig.Skip)
	assert.Equal(t, game.Red, sig.Color)
	assert.Equal(t, 68.0, sig.Confidence)

	flipping := historyOf(repeat(game.Black, 5), []game.Outcome{game.Red, game.Black, game.Red})
	sig = m.Evaluate(flipping)
	require.False(t, sig.Skip)
	assert.Equal(t, game.Black, sig.Color)
	assert.Equal(t, 65.0, sig.Confidence)
}

func TestAlternationPlaysNextFlip(t *testing.T) {
	alt := DefaultAlternation()

	perfect := game.NewHistory(0)
	for i := 0; i < 8; i++ {
		if i%2 == 0 {
			perfect.Append(game.Red)
		} else {
			perfect.Append(game.Black)
		}
	}
	sig := alt.Evaluate(perfect)
	require.False(t, sig.Skip)
	assert.Equal(t, game.Red, sig.Color, "last was black, next flip is red")
	assert.Equal(t, 75.0, sig.Confidence)

	steady := historyOf(repeat(game.Red, 8))
	assert.True(t, alt.Evaluate(steady).Skip)
}

func TestFibonacciFollowsSampleMajority(t *testing.T) {
	fib := DefaultFibonacci()

	allRed := historyOf(repeat(game.Red, 21))
	sig := fib.Evaluate(allRed)
	require.False(t, sig.Skip)
	assert.Equal(t, game.Red, sig.Color)
	assert.Equal(t, 80.0, sig.Confidence, "lead of seven caps out")
}

func TestDisqualifySoftVeto(t *testing.T) {
	dq := DefaultDisqualify()

	whites := historyOf(repeat(game.Red, 6), []game.Outcome{game.White, game.Black, game.White, game.Black})
	assert.True(t, dq.Evaluate(whites).Skip, "two whites in ten disqualify")

	even := historyOf(repeat(game.Red, 5), repeat(game.Black, 5))
	assert.True(t, dq.Evaluate(even).Skip, "a dead-even split disqualifies")

	playable := historyOf(repeat(game.Red, 8), repeat(game.Black, 2))
	sig := dq.Evaluate(playable)
	assert.False(t, sig.Skip)
	assert.Equal(t, 100.0, sig.Confidence)
}

func TestPremiumStrongReversal(t *testing.T) {
	p := NewPremium(DefaultPremiumConfig())

	var seq []game.Outcome
	for i := 0; i < 10; i++ {
		seq = append(seq, game.Red, game.Black, game.Black)
	}
	seq = append(seq, game.Black, game.Black)
	sig := p.Evaluate(historyOf(seq))
	require.False(t, sig.Skip)
	assert.Equal(t, game.Red, sig.Color)
	assert.Equal(t, "reversal_strong", sig.Label)
	assert.GreaterOrEqual(t, sig.Confidence, 78.0)
}

func TestPremiumDominance(t *testing.T) {
	p := NewPremium(DefaultPremiumConfig())

	sig := p.Evaluate(historyOf(repeat(game.Red, 30)))
	require.False(t, sig.Skip)
	assert.Equal(t, game.Red, sig.Color)
	assert.Equal(t, "dominance_red", sig.Label)
	assert.Equal(t, 85.0, sig.Confidence)
}

func TestPremiumStaysQuietOnNoise(t *testing.T) {
	p := NewPremium(DefaultPremiumConfig())

	var seq []game.Outcome
	for i := 0; i < 10; i++ {
		seq = append(seq, game.Red, game.Black, game.Black, game.Red, game.Red, game.Black)
	}
	sig := p.Evaluate(historyOf(seq))
	assert.True(t, sig.Skip)
}
