// Package feed abstracts where outcomes come from: a seeded generator for
// simulations, a recorded slice for replays, or a paced wrapper that mimics
// live round cadence.
package feed

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/vfarias/doubledown/internal/game"
)

// ErrExhausted is returned once a finite stream has no outcomes left.
var ErrExhausted = errors.New("outcome stream exhausted")

// Stream yields outcomes one round at a time.
type Stream interface {
	Next(ctx context.Context) (game.Outcome, error)
}

// GeneratorStream draws from a seeded generator and never runs out.
type GeneratorStream struct {
	gen *game.Generator
}

// NewGeneratorStream wraps a generator.
func NewGeneratorStream(gen *game.Generator) *GeneratorStream {
	return &GeneratorStream{gen: gen}
}

func (s *GeneratorStream) Next(ctx context.Context) (game.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.gen.Next(), nil
}

// SliceStream replays a recorded sequence of outcomes.
type SliceStream struct {
	outcomes []game.Outcome
	pos      int
}

// NewSliceStream replays outcomes in order.
func NewSliceStream(outcomes []game.Outcome) *SliceStream {
	return &SliceStream{outcomes: outcomes}
}

func (s *SliceStream) Next(ctx context.Context) (game.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.pos >= len(s.outcomes) {
		return 0, ErrExhausted
	}
	o := s.outcomes[s.pos]
	s.pos++
	return o, nil
}

// Remaining returns how many outcomes the replay still holds.
func (s *SliceStream) Remaining() int {
	return len(s.outcomes) - s.pos
}

// PacedStream throttles an inner stream to a fixed round interval. Useful
// for demo runs that should tick like a live table.
type PacedStream struct {
	inner   Stream
	limiter *rate.Limiter
}

// NewPacedStream paces inner to one outcome per interval.
func NewPacedStream(inner Stream, interval time.Duration) *PacedStream {
	return &PacedStream{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (s *PacedStream) Next(ctx context.Context) (game.Outcome, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	return s.inner.Next(ctx)
}
