package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestConvertIdentity(t *testing.T) {
	conv := NewConverter(Fallback)
	for _, c := range Supported() {
		for _, a := range []int64{0, 1, 99, 1000, 123456789} {
			assert.Equal(t, a, conv.Convert(a, c, c, nil), "convert(%d, %s, %s)", a, c, c)
		}
	}
}

func roundTripDrift(conv *Converter, from, via Code) int64 {
	var worst int64
	for a := int64(0); a < 5000; a += 7 {
		back := conv.Convert(conv.Convert(a, from, via, nil), via, from, nil)
		diff := back - a
		if diff < 0 {
			diff = -diff
		}
		if diff > worst {
			worst = diff
		}
	}
	return worst
}

func TestConvertRoundTripThroughBase(t *testing.T) {
	conv := NewConverter(Fallback)
	for _, c := range Supported() {
		assert.LessOrEqual(t, roundTripDrift(conv, EUR, c), int64(1), "EUR->%s->EUR", c)
	}
}

// Every conversion rounds to whole minor units in EUR, so a cross round trip
// loses up to half a EUR unit scaled by the source rate. Pairs whose source
// rate is above ~2 (JPY) or whose pivot leg shrinks (USD via GBP) drift past 1.
func TestConvertCrossRoundTrip(t *testing.T) {
	conv := NewConverter(Fallback)
	tests := []struct {
		from, via Code
		within    bool
	}{
		{USD, EUR, true},
		{USD, JPY, true},
		{GBP, EUR, true},
		{GBP, USD, true},
		{GBP, JPY, true},
		{USD, GBP, false},
		{JPY, EUR, false},
		{JPY, USD, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"-"+string(tt.via), func(t *testing.T) {
			drift := roundTripDrift(conv, tt.from, tt.via)
			if tt.within {
				assert.LessOrEqual(t, drift, int64(1))
			} else {
				assert.Greater(t, drift, int64(1))
			}
		})
	}
}

func TestToBase(t *testing.T) {
	conv := NewConverter(Table{EUR: 1, USD: 1.25})

	tests := []struct {
		name   string
		amount int64
		from   Code
		fixed  *float64
		want   int64
	}{
		{"base unchanged", 1234, EUR, nil, 1234},
		{"fixed rate wins", 1000, USD, ptr(1.10), 909},
		{"live rate", 1000, USD, nil, 800},
		{"non-positive fixed falls back to live", 1000, USD, ptr(0), 800},
		{"unknown currency is 1:1", 1000, Code("CHF"), nil, 1000},
		{"zero", 0, USD, nil, 0},
		{"negative clamps to zero", -50, USD, nil, 0},
		{"rounds to nearest", 3, USD, nil, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, conv.ToBase(tt.amount, tt.from, tt.fixed))
		})
	}
}

func TestFromBase(t *testing.T) {
	conv := NewConverter(Table{EUR: 1, JPY: 169, GBP: 0.84})
	assert.Equal(t, int64(169000), conv.FromBase(1000, JPY))
	assert.Equal(t, int64(840), conv.FromBase(1000, GBP))
	assert.Equal(t, int64(1000), conv.FromBase(1000, EUR))
	assert.Equal(t, int64(1000), conv.FromBase(1000, USD), "missing rate is 1:1")
}

func TestNilSourceUsesFallback(t *testing.T) {
	conv := NewConverter(nil)
	assert.Equal(t, int64(1090), conv.FromBase(1000, USD))
}

func TestParseCode(t *testing.T) {
	code, ok := ParseCode(" usd ")
	require.True(t, ok)
	assert.Equal(t, USD, code)

	_, ok = ParseCode("CHF")
	assert.False(t, ok, "CHF is valid ISO but not supported")

	_, ok = ParseCode("XYZW")
	assert.False(t, ok)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "€11.50", Format(1150, EUR))
	assert.Equal(t, "$0.05", Format(5, USD))
	assert.Equal(t, "-£2.00", Format(-200, GBP))
	assert.Equal(t, "CHF 1.00", Format(100, Code("CHF")))
}
