package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// press replays keys against the power-on state.
func press(keys ...Key) State {
	s := NewState()
	for _, k := range keys {
		s = PressKey(s, k)
	}
	return s
}

func TestDigitEntry(t *testing.T) {
	t.Run("digits append", func(t *testing.T) {
		s := press(KeyDigit1, KeyDigit2, KeyDigit3)
		assert.Equal(t, "123", s.Display)
	})

	t.Run("leading zero is replaced", func(t *testing.T) {
		s := press(KeyDigit0, KeyDigit0, KeyDigit7)
		assert.Equal(t, "7", s.Display)
	})

	t.Run("ninth digit is silently rejected", func(t *testing.T) {
		s := press(KeyDigit1, KeyDigit2, KeyDigit3, KeyDigit4, KeyDigit5, KeyDigit6, KeyDigit7, KeyDigit8)
		require.Equal(t, "12345678", s.Display)

		next := PressKey(s, KeyDigit9)
		assert.Equal(t, s, next, "state must be unchanged")
		assert.True(t, RejectsEntry(s, KeyDigit9))
	})

	t.Run("decimal point does not count against the budget", func(t *testing.T) {
		s := press(KeyDigit1, KeyDecimal, KeyDigit2, KeyDigit3, KeyDigit4, KeyDigit5, KeyDigit6, KeyDigit7, KeyDigit8)
		assert.Equal(t, "1.2345678", s.Display)
	})

	t.Run("second decimal point is rejected", func(t *testing.T) {
		s := press(KeyDigit1, KeyDecimal, KeyDigit5)
		next := PressKey(s, KeyDecimal)
		assert.Equal(t, "1.5", next.Display)
		assert.True(t, RejectsEntry(s, KeyDecimal))
	})

	t.Run("decimal on fresh display yields 0.", func(t *testing.T) {
		s := press(KeyDecimal)
		assert.Equal(t, "0.", s.Display)

		s = press(KeyDigit5, KeyAdd, KeyDecimal)
		assert.Equal(t, "0.", s.Display)
	})
}

func TestArithmetic(t *testing.T) {
	t.Run("simple addition", func(t *testing.T) {
		s := press(KeyAllClear, KeyDigit2, KeyAdd, KeyDigit3, KeyEquals)
		assert.Equal(t, "5", s.Display)
	})

	t.Run("chaining is strictly left to right", func(t *testing.T) {
		// (2+3)*4, not 2+(3*4).
		s := press(KeyDigit2, KeyAdd, KeyDigit3, KeyMul, KeyDigit4, KeyEquals)
		assert.Equal(t, "20", s.Display)
	})

	t.Run("operator pressed twice keeps latest", func(t *testing.T) {
		s := press(KeyDigit6, KeyAdd, KeyMul, KeyDigit7, KeyEquals)
		assert.Equal(t, "42", s.Display)
	})

	t.Run("equals with no pending operator is a no-op", func(t *testing.T) {
		s := press(KeyDigit9)
		assert.Equal(t, s, PressKey(s, KeyEquals))
	})

	t.Run("subtraction below zero", func(t *testing.T) {
		s := press(KeyDigit3, KeySub, KeyDigit8, KeyEquals)
		assert.Equal(t, "-5", s.Display)
	})

	t.Run("division result is truncated to the display", func(t *testing.T) {
		s := press(KeyDigit2, KeyDiv, KeyDigit3, KeyEquals)
		assert.Equal(t, "0.6666667", s.Display)
	})

	t.Run("overflow latches the error state", func(t *testing.T) {
		s := press(
			KeyDigit9, KeyDigit9, KeyDigit9, KeyDigit9, KeyDigit9, KeyDigit9, KeyDigit9, KeyDigit9,
			KeyMul,
			KeyDigit9, KeyDigit9,
			KeyEquals,
		)
		assert.True(t, s.IsError)
		assert.Equal(t, ErrorDisplay, s.Display)
	})
}

func TestDivisionByZero(t *testing.T) {
	s := press(KeyAllClear, KeyDigit5, KeyDiv, KeyDigit0, KeyEquals)

	require.True(t, s.IsError)
	require.Equal(t, ErrorDisplay, s.Display)
	assert.Equal(t, OpNone, s.Op)

	t.Run("all keys except ac are no-ops while latched", func(t *testing.T) {
		for _, k := range []Key{KeyDigit7, KeyDecimal, KeyAdd, KeyEquals, KeyPercent, KeySqrt, KeyPlusMinus, KeyClear, KeyMemAdd, KeyMemRecall} {
			assert.Equal(t, s, PressKey(s, k), "key %s", k)
		}
	})

	t.Run("ac clears the latch", func(t *testing.T) {
		cleared := PressKey(s, KeyAllClear)
		assert.False(t, cleared.IsError)
		assert.Equal(t, "0", cleared.Display)
	})
}

func TestClearKeys(t *testing.T) {
	t.Run("ac resets arithmetic state but not memory", func(t *testing.T) {
		s := press(KeyDigit5, KeyMemAdd, KeyDigit7, KeyAdd, KeyDigit2)
		s = PressKey(s, KeyAllClear)

		want := NewState()
		want.Memory = 5
		want.HasMemory = true
		assert.Equal(t, want, s)
	})

	t.Run("c resets display only", func(t *testing.T) {
		s := press(KeyDigit7, KeyAdd, KeyDigit2, KeyClear)
		assert.Equal(t, "0", s.Display)
		assert.Equal(t, OpAdd, s.Op)
		assert.Equal(t, 7.0, s.Operand)
	})
}

func TestPercent(t *testing.T) {
	t.Run("without pending operator", func(t *testing.T) {
		s := press(KeyAllClear, KeyDigit5, KeyPercent)
		assert.Equal(t, "0.05", s.Display)
	})

	t.Run("with pending add uses the operand as base", func(t *testing.T) {
		s := press(KeyDigit2, KeyDigit0, KeyDigit0, KeyAdd, KeyDigit1, KeyDigit0, KeyPercent)
		require.Equal(t, "20", s.Display)
		assert.Equal(t, OpAdd, s.Op, "pending operator survives")

		s = PressKey(s, KeyEquals)
		assert.Equal(t, "220", s.Display)
	})

	t.Run("with pending mul uses the plain fraction", func(t *testing.T) {
		s := press(KeyDigit2, KeyDigit0, KeyDigit0, KeyMul, KeyDigit1, KeyDigit0, KeyPercent)
		require.Equal(t, "0.1", s.Display)

		s = PressKey(s, KeyEquals)
		assert.Equal(t, "20", s.Display)
	})
}

func TestSqrt(t *testing.T) {
	t.Run("of sixteen", func(t *testing.T) {
		s := press(KeyAllClear, KeyDigit1, KeyDigit6, KeySqrt)
		assert.Equal(t, "4", s.Display)
	})

	t.Run("of a negative value latches the error", func(t *testing.T) {
		s := press(KeyDigit5, KeyPlusMinus, KeySqrt)
		assert.True(t, s.IsError)
		assert.Equal(t, ErrorDisplay, s.Display)
	})

	t.Run("starts a new number", func(t *testing.T) {
		s := press(KeyDigit1, KeyDigit6, KeySqrt, KeyDigit7)
		assert.Equal(t, "7", s.Display)
	})
}

func TestPlusMinus(t *testing.T) {
	s := press(KeyDigit5)
	s = PressKey(s, KeyPlusMinus)
	assert.Equal(t, "-5", s.Display)

	s = PressKey(s, KeyPlusMinus)
	assert.Equal(t, "5", s.Display)

	t.Run("zero stays zero", func(t *testing.T) {
		assert.Equal(t, "0", press(KeyPlusMinus).Display)
	})

	t.Run("keeps the pending operator", func(t *testing.T) {
		s := press(KeyDigit9, KeyAdd, KeyDigit4, KeyPlusMinus)
		assert.Equal(t, OpAdd, s.Op)

		s = PressKey(s, KeyEquals)
		assert.Equal(t, "5", s.Display)
	})
}

func TestMemory(t *testing.T) {
	t.Run("m_plus accumulates and mr recalls", func(t *testing.T) {
		s := press(KeyDigit5, KeyMemAdd, KeyDigit3, KeyMemAdd, KeyMemRecall)
		assert.Equal(t, "8", s.Display)
		assert.True(t, s.HasMemory)
	})

	t.Run("m_minus subtracts", func(t *testing.T) {
		s := press(KeyDigit9, KeyMemAdd, KeyDigit4, KeyMemSub, KeyMemRecall)
		assert.Equal(t, "5", s.Display)
	})

	t.Run("mc clears memory only", func(t *testing.T) {
		s := press(KeyDigit5, KeyMemAdd, KeyDigit7, KeyMemClear)
		assert.Equal(t, 0.0, s.Memory)
		assert.False(t, s.HasMemory)
		assert.Equal(t, "7", s.Display)
	})

	t.Run("memory holds full precision", func(t *testing.T) {
		// 2/3 truncates on the display; memory keeps the raw display value,
		// not a re-truncation of it.
		s := press(KeyDigit2, KeyDiv, KeyDigit3, KeyEquals, KeyMemAdd, KeyMemAdd, KeyMemRecall)
		assert.Equal(t, "1.3333334", s.Display)
	})

	t.Run("mr starts a new number", func(t *testing.T) {
		s := press(KeyDigit5, KeyMemAdd, KeyDigit1, KeyMemRecall, KeyDigit2)
		assert.Equal(t, "2", s.Display)
	})
}

func TestCurrencyKeys(t *testing.T) {
	t.Run("local multiplies by the rate", func(t *testing.T) {
		s := press(KeyDigit2, KeyRate, KeyDigit1, KeyDigit0, KeyLocal)
		assert.Equal(t, "20", s.Display)
		assert.True(t, s.LocalMode)
		assert.False(t, s.EuroMode)
	})

	t.Run("euro divides by the rate", func(t *testing.T) {
		s := press(KeyDigit2, KeyRate, KeyDigit1, KeyDigit0, KeyEuro)
		assert.Equal(t, "5", s.Display)
		assert.True(t, s.EuroMode)
	})

	t.Run("no-op without a stored rate", func(t *testing.T) {
		s := press(KeyDigit7)
		assert.Equal(t, s, PressKey(s, KeyEuro))
		assert.Equal(t, s, PressKey(s, KeyLocal))
	})

	t.Run("zero rate never divides", func(t *testing.T) {
		s := press(KeyDigit0, KeyRate, KeyDigit9)
		assert.Equal(t, s, PressKey(s, KeyEuro))
	})

	t.Run("rate survives ac", func(t *testing.T) {
		s := press(KeyDigit2, KeyRate, KeyAllClear, KeyDigit6, KeyLocal)
		assert.Equal(t, "12", s.Display)
	})
}

func TestUnknownKeyIsNoOp(t *testing.T) {
	s := press(KeyDigit4, KeyAdd, KeyDigit2)
	assert.Equal(t, s, PressKey(s, Key("backspace")))
	assert.Equal(t, s, PressKey(s, Key("")))
	assert.False(t, Key("backspace").Known())
}

func TestConstantCapturedOnEquals(t *testing.T) {
	// The constant slot is written on equals and read by nothing; repeated
	// equals is a no-op because the operator is already cleared.
	s := press(KeyDigit2, KeyAdd, KeyDigit3, KeyEquals)
	require.True(t, s.HasConst)
	assert.Equal(t, Constant{Op: OpAdd, Value: 3}, s.Constant)

	assert.Equal(t, s, PressKey(s, KeyEquals))
}

func TestProject(t *testing.T) {
	t.Run("initial", func(t *testing.T) {
		snap := Project(NewState())
		assert.Equal(t, "0", snap.Display)
		assert.Equal(t, Indicators{}, snap.Indicators)
	})

	t.Run("pending operator symbol", func(t *testing.T) {
		snap := Project(press(KeyDigit5, KeyDiv))
		assert.Equal(t, "/", snap.Indicators.PendingOperator)
	})

	t.Run("error and memory lamps", func(t *testing.T) {
		s := press(KeyDigit5, KeyMemAdd, KeyDigit1, KeyDiv, KeyDigit0, KeyEquals)
		snap := Project(s)
		assert.Equal(t, ErrorDisplay, snap.Display)
		assert.True(t, snap.Indicators.Error)
		assert.True(t, snap.Indicators.Memory)
	})
}
