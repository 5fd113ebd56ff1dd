// Package rating implements a two-player TrueSkill model: Bayesian updates of
// Gaussian skill beliefs from a single observed match outcome.
//
// The functions in this package are pure. They never mutate their inputs and
// never perform I/O.
package rating

import (
	"fmt"
	"math"
)

// Default model parameters. They mirror the values published with TrueSkill:
// a prior of N(25, (25/3)^2), performance noise of half the prior spread and a
// dynamics factor of one percent of the prior spread.
const (
	DefaultMu              = 25.0
	DefaultSigma           = DefaultMu / 3
	DefaultBeta            = DefaultSigma / 2
	DefaultTau             = DefaultSigma / 100
	DefaultDrawProbability = 0.1
	DefaultRankMultiplier  = 3.0
)

// Rating is a competitor's skill belief summarized as a Gaussian.
type Rating struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// Valid reports whether r is a usable belief state: finite mean and a finite,
// strictly positive spread.
func (r Rating) Valid() bool {
	return !math.IsNaN(r.Mu) && !math.IsInf(r.Mu, 0) &&
		!math.IsNaN(r.Sigma) && !math.IsInf(r.Sigma, 0) && r.Sigma > 0
}

// Outcome is the observed result of a match from the first competitor's
// point of view.
type Outcome int

// Match outcomes.
const (
	FirstWins Outcome = iota + 1
	SecondWins
	Draw
)

// Valid reports whether o is one of the known outcomes.
func (o Outcome) Valid() bool {
	return o == FirstWins || o == SecondWins || o == Draw
}

func (o Outcome) String() string {
	switch o {
	case FirstWins:
		return "first_wins"
	case SecondWins:
		return "second_wins"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Config bundles the model parameters.
type Config struct {
	// Mu and Sigma describe the prior belief assigned to new competitors.
	Mu    float64
	Sigma float64
	// Beta is the standard deviation of a single performance around skill.
	Beta float64
	// Tau is added to every spread before a match to model skill drift.
	Tau float64
	// DrawProbability is the prior chance that two equal competitors draw.
	DrawProbability float64
	// RankMultiplier is k in the conservative rank score mu - k*sigma.
	RankMultiplier float64
}

// DefaultConfig returns the standard TrueSkill parameters.
func DefaultConfig() Config {
	return Config{
		Mu:              DefaultMu,
		Sigma:           DefaultSigma,
		Beta:            DefaultBeta,
		Tau:             DefaultTau,
		DrawProbability: DefaultDrawProbability,
		RankMultiplier:  DefaultRankMultiplier,
	}
}

// Prior returns the belief state assigned to a competitor with no history.
func (c Config) Prior() Rating {
	return Rating{Mu: c.Mu, Sigma: c.Sigma}
}

// Validate checks that c describes a well-formed model.
func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"mu":               c.Mu,
		"sigma":            c.Sigma,
		"beta":             c.Beta,
		"tau":              c.Tau,
		"draw_probability": c.DrawProbability,
		"rank_multiplier":  c.RankMultiplier,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidConfig, name)
		}
	}
	switch {
	case c.Sigma <= 0:
		return fmt.Errorf("%w: sigma must be positive, got %g", ErrInvalidConfig, c.Sigma)
	case c.Beta <= 0:
		return fmt.Errorf("%w: beta must be positive, got %g", ErrInvalidConfig, c.Beta)
	case c.Tau < 0:
		return fmt.Errorf("%w: tau must not be negative, got %g", ErrInvalidConfig, c.Tau)
	case c.DrawProbability < 0 || c.DrawProbability >= 1:
		return fmt.Errorf("%w: draw_probability must be in [0, 1), got %g", ErrInvalidConfig, c.DrawProbability)
	case c.RankMultiplier < 0:
		return fmt.Errorf("%w: rank_multiplier must not be negative, got %g", ErrInvalidConfig, c.RankMultiplier)
	}
	return nil
}

// RankScore is the conservative skill estimate mu - k*sigma used to order the
// leaderboard. Higher is better.
func RankScore(r Rating, cfg Config) float64 {
	return r.Mu - cfg.RankMultiplier*r.Sigma
}

// ExpectedOutcome returns the probability that a performs at least as well as
// b in a single match.
func ExpectedOutcome(a, b Rating, cfg Config) float64 {
	denom := math.Sqrt(2*cfg.Beta*cfg.Beta + a.Sigma*a.Sigma + b.Sigma*b.Sigma)
	return cdf((a.Mu - b.Mu) / denom)
}

// MatchQuality returns the relative likelihood of a draw between a and b, in
// (0, 1]. Values near 1 indicate an even pairing.
func MatchQuality(a, b Rating, cfg Config) float64 {
	beta2 := 2 * cfg.Beta * cfg.Beta
	c2 := beta2 + a.Sigma*a.Sigma + b.Sigma*b.Sigma
	delta := a.Mu - b.Mu
	return math.Sqrt(beta2/c2) * math.Exp(-delta*delta/(2*c2))
}

// DrawMargin converts the configured draw probability into the performance
// difference below which a match counts as drawn.
func DrawMargin(cfg Config) float64 {
	return ppf((cfg.DrawProbability+1)/2) * math.Sqrt2 * cfg.Beta
}
