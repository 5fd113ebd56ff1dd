package rating

import "math"

// Below this the truncated-Gaussian denominators underflow; the v and w
// corrections switch to their asymptotic forms.
const minDenominator = 2.222758749e-162

var invSqrt2Pi = 1 / math.Sqrt(2*math.Pi)

// pdf is the standard normal density.
func pdf(x float64) float64 {
	return invSqrt2Pi * math.Exp(-x*x/2)
}

// cdf is the standard normal cumulative distribution.
func cdf(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// ppf is the inverse of cdf.
func ppf(p float64) float64 {
	return -math.Sqrt2 * math.Erfcinv(2*p)
}

// vWin is the mean correction for a decisive result with normalized
// performance gap t and normalized draw margin eps.
func vWin(t, eps float64) float64 {
	denom := cdf(t - eps)
	if denom < minDenominator {
		return -t + eps
	}
	return pdf(t-eps) / denom
}

// wWin is the variance correction for a decisive result.
func wWin(t, eps float64) float64 {
	denom := cdf(t - eps)
	if denom < minDenominator {
		if t < 0 {
			return 1
		}
		return 0
	}
	v := vWin(t, eps)
	return v * (v + t - eps)
}

// vDraw is the mean correction for a drawn result.
func vDraw(t, eps float64) float64 {
	tAbs := math.Abs(t)
	denom := cdf(eps-tAbs) - cdf(-eps-tAbs)
	if denom < minDenominator {
		if t < 0 {
			return -t - eps
		}
		return -t + eps
	}
	v := (pdf(-eps-tAbs) - pdf(eps-tAbs)) / denom
	if t < 0 {
		return -v
	}
	return v
}

// wDraw is the variance correction for a drawn result.
func wDraw(t, eps float64) float64 {
	tAbs := math.Abs(t)
	denom := cdf(eps-tAbs) - cdf(-eps-tAbs)
	if denom < minDenominator {
		return 1
	}
	v := vDraw(tAbs, eps)
	return v*v + ((eps-tAbs)*pdf(eps-tAbs)-(-eps-tAbs)*pdf(-eps-tAbs))/denom
}
