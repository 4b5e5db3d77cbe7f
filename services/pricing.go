package services

import (
	"math"

	"options-trader/models"
)

// Default pricing inputs used when the caller does not supply overrides.
const (
	DefaultVolatility = 0.4
	RiskFreeRate      = 0.05
)

// BlackScholesService prices European options with the closed-form
// Black-Scholes model. Pure and stateless, safe for concurrent use.
type BlackScholesService struct{}

// NewBlackScholesService creates a new pricing service
func NewBlackScholesService() *BlackScholesService {
	return &BlackScholesService{}
}

// Price values an option. s is the spot price, k the strike, t the time to
// expiry in years, v the volatility, r the risk-free rate. The result is
// rounded to 2 decimal places, half up.
//
// t = 0 is valued at intrinsic: max(s-k, 0) for calls, max(k-s, 0) for puts.
func (bs *BlackScholesService) Price(s, k, t, v, r float64, optionType models.OptionType) (float64, error) {
	if s <= 0 {
		return 0, &models.InvalidInputError{Field: "spot", Value: s}
	}
	if k <= 0 {
		return 0, &models.InvalidInputError{Field: "strike", Value: k}
	}
	if t < 0 {
		return 0, &models.InvalidInputError{Field: "timeToExpiry", Value: t}
	}
	if v <= 0 {
		return 0, &models.InvalidInputError{Field: "volatility", Value: v}
	}

	// At expiry the d1/d2 formula divides by zero; the contract is worth
	// its intrinsic value.
	if t == 0 {
		if optionType == models.OptionPut {
			return roundCents(math.Max(k-s, 0)), nil
		}
		return roundCents(math.Max(s-k, 0)), nil
	}

	d1 := (math.Log(s/k) + (r+0.5*v*v)*t) / (v * math.Sqrt(t))
	d2 := d1 - v*math.Sqrt(t)

	var price float64
	if optionType == models.OptionPut {
		// K * e^(-rt) * N(-d2) - S * N(-d1)
		price = k*math.Exp(-r*t)*cumulativeDistribution(-d2) - s*cumulativeDistribution(-d1)
	} else {
		// S * N(d1) - K * e^(-rt) * N(d2)
		price = s*cumulativeDistribution(d1) - k*math.Exp(-r*t)*cumulativeDistribution(d2)
	}

	return roundCents(price), nil
}

// roundCents rounds to 2 decimal places, half up
func roundCents(x float64) float64 {
	return math.Round(x*100) / 100
}

// cumulativeDistribution is the standard normal CDF
func cumulativeDistribution(x float64) float64 {
	return 0.5 * (1.0 + erf(x/math.Sqrt2))
}

// erf approximates the error function with a bounded rational expansion
// (Abramowitz-Stegun 7.1.26 family, Horner form), accurate to ~1e-7.
// Avoids pulling in a statistics library for a single function.
func erf(z float64) float64 {
	t := 1.0 / (1.0 + 0.5*math.Abs(z))

	ans := 1 - t*math.Exp(-z*z-1.26551223+
		t*(1.00002368+
			t*(0.37409196+
				t*(0.09678418+
					t*(-0.18628806+
						t*(0.27886807+
							t*(-1.13520398+
								t*(1.48851587+
									t*(-0.82215223+
										t*0.17087277)))))))))
	if z >= 0 {
		return ans
	}
	return -ans
}
