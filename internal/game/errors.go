package game

import "errors"

// ErrInvalidProbabilities marks a wheel distribution that cannot be
// played: negative weights or a sum away from 1. Fatal before any run.
var ErrInvalidProbabilities = errors.New("invalid outcome probabilities")
