package rating

import "math"

// Update applies one match to the two belief states and returns the
// posteriors in the same order as the inputs.
//
// Both spreads are first widened by Tau. The performance gap is then
// conditioned on the observed ordering (or on falling inside the draw margin)
// and the resulting truncated Gaussian is matched back to a Gaussian per
// competitor:
//
//	c^2     = 2*beta^2 + s_w^2 + s_l^2
//	mu_w'   = mu_w + (s_w^2 / c) * v(t, eps)
//	mu_l'   = mu_l - (s_l^2 / c) * v(t, eps)
//	sigma'  = sqrt(s^2 * (1 - w(t, eps) * s^2 / c^2))
//
// with t = (mu_w - mu_l) / c and eps = DrawMargin / c. For draws the first
// competitor takes the w role. An unknown outcome leaves both ratings as they
// are.
func Update(first, second Rating, outcome Outcome, cfg Config) (Rating, Rating) {
	if !outcome.Valid() {
		return first, second
	}

	winner, loser := first, second
	if outcome == SecondWins {
		winner, loser = second, first
	}

	tau2 := cfg.Tau * cfg.Tau
	varW := winner.Sigma*winner.Sigma + tau2
	varL := loser.Sigma*loser.Sigma + tau2
	c2 := 2*cfg.Beta*cfg.Beta + varW + varL
	c := math.Sqrt(c2)

	t := (winner.Mu - loser.Mu) / c
	eps := DrawMargin(cfg) / c

	var v, w float64
	if outcome == Draw {
		v, w = vDraw(t, eps), wDraw(t, eps)
	} else {
		v, w = vWin(t, eps), wWin(t, eps)
	}

	newW := Rating{
		Mu:    winner.Mu + varW/c*v,
		Sigma: math.Sqrt(varW * (1 - w*varW/c2)),
	}
	newL := Rating{
		Mu:    loser.Mu - varL/c*v,
		Sigma: math.Sqrt(varL * (1 - w*varL/c2)),
	}

	if outcome == SecondWins {
		return newL, newW
	}
	return newW, newL
}
