package ir

import "fmt"

// InputError reports a character outside {0, 1} in a machine input.
// Malformed input is rejected before any machine is constructed and is never
// reported as a rejection.
type InputError struct {
	Input    string
	Position int  // byte offset of the offending character
	Char     rune // the offending character
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %q: character %q at position %d is not a binary digit",
		e.Input, e.Char, e.Position)
}

// ValidateInput checks that input contains only '0' and '1'.
// The empty string is valid (it encodes the number zero and the empty palindrome).
func ValidateInput(input string) error {
	for i, c := range input {
		if c != '0' && c != '1' {
			return &InputError{Input: input, Position: i, Char: c}
		}
	}
	return nil
}
