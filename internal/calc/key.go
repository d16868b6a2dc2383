package calc

import "strings"

// Key identifies a single calculator button. The string values are the wire
// vocabulary shared with the UI and the chat layer; keys outside this set are
// applied as no-ops rather than rejected, because sequences may come from an
// imperfect external producer.
type Key string

const (
	KeyDigit0 Key = "digit_0"
	KeyDigit1 Key = "digit_1"
	KeyDigit2 Key = "digit_2"
	KeyDigit3 Key = "digit_3"
	KeyDigit4 Key = "digit_4"
	KeyDigit5 Key = "digit_5"
	KeyDigit6 Key = "digit_6"
	KeyDigit7 Key = "digit_7"
	KeyDigit8 Key = "digit_8"
	KeyDigit9 Key = "digit_9"

	KeyDecimal   Key = "decimal"
	KeyAdd       Key = "add"
	KeySub       Key = "sub"
	KeyMul       Key = "mul"
	KeyDiv       Key = "div"
	KeyPercent   Key = "percent"
	KeySqrt      Key = "sqrt"
	KeyPlusMinus Key = "plus_minus"
	KeyEquals    Key = "equals"
	KeyAllClear  Key = "ac"
	KeyClear     Key = "c"

	KeyMemClear  Key = "mc"
	KeyMemRecall Key = "mr"
	KeyMemAdd    Key = "m_plus"
	KeyMemSub    Key = "m_minus"

	// Currency extension keys.
	KeyRate  Key = "rate"
	KeyEuro  Key = "euro"
	KeyLocal Key = "local"
)

var knownKeys = map[Key]struct{}{
	KeyDigit0: {}, KeyDigit1: {}, KeyDigit2: {}, KeyDigit3: {}, KeyDigit4: {},
	KeyDigit5: {}, KeyDigit6: {}, KeyDigit7: {}, KeyDigit8: {}, KeyDigit9: {},
	KeyDecimal: {}, KeyAdd: {}, KeySub: {}, KeyMul: {}, KeyDiv: {},
	KeyPercent: {}, KeySqrt: {}, KeyPlusMinus: {}, KeyEquals: {},
	KeyAllClear: {}, KeyClear: {},
	KeyMemClear: {}, KeyMemRecall: {}, KeyMemAdd: {}, KeyMemSub: {},
	KeyRate: {}, KeyEuro: {}, KeyLocal: {},
}

// Known reports whether k is part of the wire vocabulary.
func (k Key) Known() bool {
	_, ok := knownKeys[k]
	return ok
}

// IsDigit reports whether k is one of digit_0..digit_9.
func (k Key) IsDigit() bool {
	_, ok := k.digit()
	return ok
}

// digit returns the digit character for digit keys.
func (k Key) digit() (byte, bool) {
	s := string(k)
	if !strings.HasPrefix(s, "digit_") || len(s) != len("digit_")+1 {
		return 0, false
	}
	d := s[len("digit_")]
	if d < '0' || d > '9' {
		return 0, false
	}
	return d, true
}

// Operator is a pending binary operator.
type Operator string

const (
	OpNone Operator = ""
	OpAdd  Operator = "add"
	OpSub  Operator = "sub"
	OpMul  Operator = "mul"
	OpDiv  Operator = "div"
)

// operatorFor maps an operator key to its Operator, OpNone otherwise.
func operatorFor(k Key) Operator {
	switch k {
	case KeyAdd:
		return OpAdd
	case KeySub:
		return OpSub
	case KeyMul:
		return OpMul
	case KeyDiv:
		return OpDiv
	}
	return OpNone
}

// apply evaluates a OP b. Division by zero is not special-cased: the
// resulting Inf/NaN is turned into the error latch by the formatter.
func (o Operator) apply(a, b float64) float64 {
	switch o {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	}
	return b
}

// Symbol returns the indicator glyph for the pending-operator lamp.
func (o Operator) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	}
	return ""
}
