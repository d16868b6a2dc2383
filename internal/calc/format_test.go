package calc

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDisplay(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"zero", 0, "0"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"small integer", 5, "5"},
		{"negative integer", -42, "-42"},
		{"eight digits", 12345678, "12345678"},
		{"max integer", 99999999, "99999999"},
		{"nine digits", 123456789, ErrorDisplay},
		{"at 1e8", 1e8, ErrorDisplay},
		{"negative overflow", -1e8, ErrorDisplay},
		{"nan", math.NaN(), ErrorDisplay},
		{"positive infinity", math.Inf(1), ErrorDisplay},
		{"negative infinity", math.Inf(-1), ErrorDisplay},
		{"plain fraction", 0.05, "0.05"},
		{"repeating fraction", 2.0 / 3.0, "0.6666667"},
		{"third", 1.0 / 3.0, "0.3333333"},
		{"two-digit integer part", 100.0 / 3.0, "33.333333"},
		{"trailing zeros stripped", 0.1 + 0.2, "0.3"},
		{"seven int digits one decimal", 1234567.89, "1234567.9"},
		{"eight int digits with fraction", 12345678.9, ErrorDisplay},
		{"tiny fraction rounds into budget", 0.000000123, "0.0000001"},
		{"sign does not count", -9999999.5, "-9999999.5"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatDisplay(tc.in))
		})
	}
}

func TestFormatDisplayNeverExceedsEightDigits(t *testing.T) {
	samples := []float64{
		0, 1, -1, 0.1, 12345678, 99999999.0, 1.0 / 7.0, math.Pi, math.Sqrt2,
		-1234.5678, 0.00000001, 7654321.5,
	}
	for _, v := range samples {
		s := FormatDisplay(v)
		require.NotEqual(t, ErrorDisplay, s, "sample %g should fit", v)
		assert.LessOrEqual(t, countDigits(s), maxDigits, "formatted %q", s)
	}
}

func TestFormatDisplayIdempotent(t *testing.T) {
	// Once a value has been squeezed into the display, formatting the parsed
	// display again must be a fixed point.
	samples := []float64{
		0, 5, -5, 0.05, 2.0 / 3.0, 100.0 / 3.0, math.Pi, 1234567.89,
		0.1 + 0.2, 99999999,
	}
	for _, v := range samples {
		once := FormatDisplay(v)
		require.NotEqual(t, ErrorDisplay, once)

		parsed, err := strconv.ParseFloat(once, 64)
		require.NoError(t, err)
		assert.Equal(t, once, FormatDisplay(parsed), "value %g", v)
	}
}
