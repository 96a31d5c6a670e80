package currency

import (
	"github.com/shopspring/decimal"
)

// RateSource resolves the live rate for a currency as units per 1 EUR.
type RateSource interface {
	Rate(c Code) (float64, bool)
}

// Converter converts minor-unit amounts using a RateSource.
type Converter struct {
	src RateSource
}

// NewConverter returns a Converter backed by src. A nil src uses Fallback.
func NewConverter(src RateSource) *Converter {
	if src == nil {
		src = Fallback
	}
	return &Converter{src: src}
}

// ToBase converts amount in from into EUR minor units. A positive fixedRate
// (units of from per 1 EUR) takes precedence over the live rate.
func (c *Converter) ToBase(amount int64, from Code, fixedRate *float64) int64 {
	if amount <= 0 {
		return 0
	}
	if from == Base {
		return amount
	}
	rate := 0.0
	if fixedRate != nil && *fixedRate > 0 {
		rate = *fixedRate
	} else {
		rate = c.liveRate(from)
	}
	if rate <= 0 {
		return amount
	}
	return decimal.NewFromInt(amount).Div(decimal.NewFromFloat(rate)).Round(0).IntPart()
}

// FromBase converts EUR minor units into to.
func (c *Converter) FromBase(amount int64, to Code) int64 {
	if amount <= 0 {
		return 0
	}
	if to == Base {
		return amount
	}
	rate := c.liveRate(to)
	if rate <= 0 {
		return amount
	}
	return decimal.NewFromInt(amount).Mul(decimal.NewFromFloat(rate)).Round(0).IntPart()
}

// Convert routes amount from -> EUR -> to.
func (c *Converter) Convert(amount int64, from, to Code, fixedRate *float64) int64 {
	if from == to && fixedRate == nil {
		if amount < 0 {
			return 0
		}
		return amount
	}
	return c.FromBase(c.ToBase(amount, from, fixedRate), to)
}

func (c *Converter) liveRate(code Code) float64 {
	r, ok := c.src.Rate(code)
	if !ok {
		return 0
	}
	return r
}
