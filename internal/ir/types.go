package ir

import "fmt"

// Symbol is a single tape cell value.
// The alphabet is fixed to {0, 1, blank}.
type Symbol byte

const (
	// Zero is the binary digit 0.
	Zero Symbol = '0'

	// One is the binary digit 1.
	One Symbol = '1'

	// Blank marks an empty cell. Every tape ends with exactly one blank sentinel.
	Blank Symbol = '_'
)

// Valid reports whether s belongs to the tape alphabet.
func (s Symbol) Valid() bool {
	return s == Zero || s == One || s == Blank
}

// String returns the single-character form used in definitions and traces.
func (s Symbol) String() string {
	return string(rune(s))
}

// ParseSymbol converts the textual form of a symbol ("0", "1", "_").
func ParseSymbol(s string) (Symbol, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("invalid symbol %q: must be one of 0, 1, _", s)
	}
	sym := Symbol(s[0])
	if !sym.Valid() {
		return 0, fmt.Errorf("invalid symbol %q: must be one of 0, 1, _", s)
	}
	return sym, nil
}

// State is a symbolic machine state label such as "q0" or "q_accept".
type State string

// Move is the head movement applied after writing.
type Move byte

const (
	// Left moves the head one cell towards index 0.
	Left Move = 'L'

	// Right moves the head one cell away from index 0.
	Right Move = 'R'
)

// Delta returns the head offset for the move: -1 or +1.
func (m Move) Delta() int {
	if m == Left {
		return -1
	}
	return 1
}

// String returns "L" or "R".
func (m Move) String() string {
	return string(rune(m))
}

// ParseMove converts "L" or "R" into a Move.
func ParseMove(s string) (Move, error) {
	switch s {
	case "L":
		return Left, nil
	case "R":
		return Right, nil
	default:
		return 0, fmt.Errorf("invalid move %q: must be L or R", s)
	}
}

// Key identifies a transition: the current state and the symbol under the head.
type Key struct {
	State  State
	Symbol Symbol
}

// Transition is the action taken for a Key.
type Transition struct {
	Next  State  `json:"next"`
	Write Symbol `json:"write"`
	Move  Move   `json:"move"`
}

// Rule is one row of a transition table, as declared in a definition.
type Rule struct {
	From  State
	Read  Symbol
	To    State
	Write Symbol
	Move  Move
}

// Key returns the lookup key of the rule.
func (r Rule) Key() Key {
	return Key{State: r.From, Symbol: r.Read}
}

// Transition returns the action part of the rule.
func (r Rule) Transition() Transition {
	return Transition{Next: r.To, Write: r.Write, Move: r.Move}
}

// String renders the rule as "(q0, 1) -> (q1, _, R)".
func (r Rule) String() string {
	return fmt.Sprintf("(%s, %s) -> (%s, %s, %s)", r.From, r.Read, r.To, r.Write, r.Move)
}
