package calc

import (
	"math"
	"strings"
)

// Constant captures the operator and right-hand operand of the most recent
// equals press. No transition reads it back; it is kept so the indicator row
// can show "K" and so a future repeat-equals feature has the data it needs.
type Constant struct {
	Op    Operator `json:"op"`
	Value float64  `json:"value"`
}

// State is one immutable calculator state. Transitions never mutate a State
// in place; PressKey copies it and returns the successor.
type State struct {
	Display    string   `json:"display"`
	Memory     float64  `json:"memory"`
	HasMemory  bool     `json:"has_memory"`
	Op         Operator `json:"op"`
	Operand    float64  `json:"operand"`
	HasOperand bool     `json:"has_operand"`
	Constant   Constant `json:"constant"`
	HasConst   bool     `json:"has_constant"`
	IsError    bool     `json:"is_error"`
	StartNew   bool     `json:"start_new"`

	// Currency extension.
	EuroRate  float64 `json:"euro_rate"`
	HasRate   bool    `json:"has_rate"`
	EuroMode  bool    `json:"euro_mode"`
	LocalMode bool    `json:"local_mode"`
}

// NewState returns the power-on state.
func NewState() State {
	return State{Display: "0"}
}

// value is the numeric reading of the current display.
func (s State) value() float64 {
	return parseDisplay(s.Display)
}

// PressKey applies one key to s and returns the next state. Arithmetic
// failure is data, never an error value: overflow, division by zero and
// negative square roots latch IsError, and from then on every key except ac
// is a no-op. Unknown keys are no-ops as well.
func PressKey(s State, k Key) State {
	if s.IsError && k != KeyAllClear {
		return s
	}

	if d, ok := k.digit(); ok {
		return pressDigit(s, d)
	}

	switch k {
	case KeyDecimal:
		return pressDecimal(s)
	case KeyAllClear:
		return pressAllClear(s)
	case KeyClear:
		s.Display = "0"
		s.IsError = false
		return s
	case KeyAdd, KeySub, KeyMul, KeyDiv:
		return pressOperator(s, operatorFor(k))
	case KeyEquals:
		return pressEquals(s)
	case KeyPercent:
		return pressPercent(s)
	case KeySqrt:
		return pressSqrt(s)
	case KeyPlusMinus:
		return setDisplay(s, -s.value())
	case KeyMemClear:
		s.Memory = 0
		s.HasMemory = false
		return s
	case KeyMemRecall:
		s = setDisplay(s, s.Memory)
		s.StartNew = true
		return s
	case KeyMemAdd:
		s.Memory += s.value()
		s.HasMemory = true
		s.StartNew = true
		return s
	case KeyMemSub:
		s.Memory -= s.value()
		s.HasMemory = true
		s.StartNew = true
		return s
	case KeyRate:
		s.EuroRate = s.value()
		s.HasRate = true
		s.StartNew = true
		return s
	case KeyEuro:
		if !s.HasRate || s.EuroRate == 0 {
			return s
		}
		s = setDisplay(s, s.value()/s.EuroRate)
		s.EuroMode = true
		s.LocalMode = false
		s.StartNew = true
		return s
	case KeyLocal:
		if !s.HasRate {
			return s
		}
		s = setDisplay(s, s.value()*s.EuroRate)
		s.LocalMode = true
		s.EuroMode = false
		s.StartNew = true
		return s
	}

	return s
}

func pressDigit(s State, d byte) State {
	if s.StartNew || s.Display == "0" {
		s.Display = string(d)
		s.StartNew = false
		return s
	}
	if countDigits(s.Display) >= maxDigits {
		// Display full; the press is rejected and callers may flash.
		return s
	}
	s.Display += string(d)
	return s
}

func pressDecimal(s State) State {
	if s.StartNew {
		s.Display = "0."
		s.StartNew = false
		return s
	}
	if !strings.Contains(s.Display, ".") {
		s.Display += "."
	}
	return s
}

// pressAllClear resets everything except memory and the stored currency rate.
func pressAllClear(s State) State {
	return State{
		Display:   "0",
		Memory:    s.Memory,
		HasMemory: s.HasMemory,
		EuroRate:  s.EuroRate,
		HasRate:   s.HasRate,
	}
}

func pressOperator(s State, op Operator) State {
	cur := s.value()

	// A completed operand is waiting: chain left-to-right, no precedence.
	if s.Op != OpNone && !s.StartNew {
		result := s.Op.apply(s.Operand, cur)
		disp := FormatDisplay(result)
		if disp == ErrorDisplay {
			return latchError(s)
		}
		s.Display = disp
		s.Op = op
		s.Operand = result
		s.HasOperand = true
		s.StartNew = true
		return s
	}

	s.Op = op
	s.Operand = cur
	s.HasOperand = true
	s.StartNew = true
	return s
}

func pressEquals(s State) State {
	if s.Op == OpNone {
		return s
	}

	cur := s.value()
	lhs := cur
	if s.HasOperand {
		lhs = s.Operand
	}

	result := s.Op.apply(lhs, cur)
	disp := FormatDisplay(result)
	if disp == ErrorDisplay {
		return latchError(s)
	}

	s.Constant = Constant{Op: s.Op, Value: cur}
	s.HasConst = true
	s.Display = disp
	s.Op = OpNone
	s.Operand = result
	s.HasOperand = true
	s.StartNew = true
	return s
}

// pressPercent divides the display by 100. With a pending add or sub the
// stored operand is the percentage base; mul and div use the plain fraction.
// The pending operator survives and a new number is not forced.
func pressPercent(s State) State {
	pct := s.value() / 100
	if s.Op == OpAdd || s.Op == OpSub {
		pct = s.Operand * pct
	}
	return setDisplay(s, pct)
}

func pressSqrt(s State) State {
	cur := s.value()
	if cur < 0 {
		return latchError(s)
	}
	s = setDisplay(s, math.Sqrt(cur))
	s.StartNew = true
	return s
}

// setDisplay formats v into the display, latching the error state when v does
// not fit. All other fields ride along unchanged.
func setDisplay(s State, v float64) State {
	disp := FormatDisplay(v)
	if disp == ErrorDisplay {
		return latchError(s)
	}
	s.Display = disp
	return s
}

// RejectsEntry reports whether pressing k on s would be silently rejected:
// a ninth digit on a full display, or a second decimal point. Callers use
// this to drive the UI flash; the transition itself is a plain no-op.
func RejectsEntry(s State, k Key) bool {
	if s.IsError || s.StartNew {
		return false
	}
	if k.IsDigit() {
		return s.Display != "0" && countDigits(s.Display) >= maxDigits
	}
	if k == KeyDecimal {
		return strings.Contains(s.Display, ".")
	}
	return false
}

func latchError(s State) State {
	s.IsError = true
	s.Display = ErrorDisplay
	s.Op = OpNone
	s.Operand = 0
	s.HasOperand = false
	return s
}

// Indicators is the flat lamp row the UI renders next to the display.
type Indicators struct {
	Error           bool   `json:"error"`
	Memory          bool   `json:"memory"`
	ConstantArmed   bool   `json:"constant_armed"`
	PendingOperator string `json:"pending_operator,omitempty"`
	EuroMode        bool   `json:"euro_mode,omitempty"`
	LocalMode       bool   `json:"local_mode,omitempty"`
}

// Snapshot is the read-only projection of a State for rendering. It carries
// no numeric fields on purpose: readers must not re-derive engine state.
type Snapshot struct {
	Display    string     `json:"display"`
	Indicators Indicators `json:"indicators"`
}

// Project returns the display projection of s.
func Project(s State) Snapshot {
	display := s.Display
	if s.IsError {
		display = ErrorDisplay
	}
	return Snapshot{
		Display: display,
		Indicators: Indicators{
			Error:           s.IsError,
			Memory:          s.HasMemory,
			ConstantArmed:   s.HasConst,
			PendingOperator: s.Op.Symbol(),
			EuroMode:        s.EuroMode,
			LocalMode:       s.LocalMode,
		},
	}
}
