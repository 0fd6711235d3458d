// Package machines holds the built-in machine definitions.
//
// Definitions are CUE documents embedded in the binary and compiled once on
// first use. Every accessor returns the same immutable ir.Definition, so
// callers may share them across goroutines and engine instances.
package machines

import (
	"embed"
	"fmt"
	"slices"
	"sync"

	"github.com/roach88/turing/internal/compiler"
	"github.com/roach88/turing/internal/ir"
)

// Registry names of the built-in machines.
const (
	PalindromeName = "palindrome"
	Div3Name       = "div3"
)

//go:embed *.cue
var sources embed.FS

// UnknownMachineError is returned by ByName for a name that is not registered.
type UnknownMachineError struct {
	Name string
}

func (e *UnknownMachineError) Error() string {
	return fmt.Sprintf("unknown machine %q (known: %v)", e.Name, Names())
}

var registry = sync.OnceValues(func() (map[string]ir.Definition, error) {
	entries, err := sources.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("read embedded definitions: %w", err)
	}

	defs := make(map[string]ir.Definition)
	for _, entry := range entries {
		src, err := sources.ReadFile(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		compiled, err := compiler.LoadSource(entry.Name(), src)
		if err != nil {
			return nil, err
		}
		for _, def := range compiled {
			if _, dup := defs[def.Name]; dup {
				return nil, fmt.Errorf("machine %s defined twice", def.Name)
			}
			defs[def.Name] = def
		}
	}
	return defs, nil
})

// mustLookup panics if the embedded definitions fail to compile, which
// only happens if the .cue files in this package are broken.
func mustLookup(name string) ir.Definition {
	defs, err := registry()
	if err != nil {
		panic(fmt.Sprintf("machines: embedded definitions: %v", err))
	}
	def, ok := defs[name]
	if !ok {
		panic(fmt.Sprintf("machines: %s is not embedded", name))
	}
	return def
}

// Palindrome returns the binary palindrome recognizer.
func Palindrome() ir.Definition {
	return mustLookup(PalindromeName)
}

// DivisibleBy3 returns the recognizer for binary numbers divisible by three.
// The empty string is read as zero and accepted.
func DivisibleBy3() ir.Definition {
	return mustLookup(Div3Name)
}

// ByName looks up a built-in definition.
// Returns *UnknownMachineError if no machine has that name.
func ByName(name string) (ir.Definition, error) {
	defs, err := registry()
	if err != nil {
		return ir.Definition{}, err
	}
	def, ok := defs[name]
	if !ok {
		return ir.Definition{}, &UnknownMachineError{Name: name}
	}
	return def, nil
}

// All returns the composite's machines in evaluation order: palindrome, then div3.
func All() []ir.Definition {
	return []ir.Definition{Palindrome(), DivisibleBy3()}
}

// Names returns the sorted registry names.
func Names() []string {
	defs, err := registry()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
