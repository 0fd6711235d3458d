package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/turing/internal/compiler"
	"github.com/roach88/turing/internal/engine"
	"github.com/roach88/turing/internal/ir"
	"github.com/roach88/turing/internal/machines"
)

// LoadError represents a failure to resolve a machine definition.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadDefinition resolves a machine by name.
//
// With an empty file the name is looked up among the built-in machines.
// Otherwise the CUE file is compiled and the named machine selected from it;
// an empty name is allowed when the file declares exactly one machine.
func LoadDefinition(name, file string) (ir.Definition, error) {
	if file == "" {
		def, err := machines.ByName(name)
		if err != nil {
			return ir.Definition{}, &LoadError{Code: ErrCodeNotFound, Message: err.Error(), Err: err}
		}
		return def, nil
	}

	defs, err := LoadFile(file)
	if err != nil {
		return ir.Definition{}, err
	}
	if name == "" {
		if len(defs) != 1 {
			return ir.Definition{}, &LoadError{
				Code:    ErrCodeNotFound,
				Message: fmt.Sprintf("%s declares %d machines; name one of them", file, len(defs)),
			}
		}
		return defs[0], nil
	}
	for _, def := range defs {
		if def.Name == name {
			return def, nil
		}
	}
	return ir.Definition{}, &LoadError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("machine %q not declared in %s", name, file),
	}
}

// LoadFile compiles every machine in a CUE file.
func LoadFile(file string) ([]ir.Definition, error) {
	if _, err := os.Stat(file); err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("machine file not found: %s", file), Err: err}
	}
	defs, err := compiler.LoadFile(file)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeCompile, Message: err.Error(), Err: err}
	}
	return defs, nil
}

// loadErrorCode returns the envelope code for a load failure.
func loadErrorCode(err error) string {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	return ErrCodeGeneric
}

// loadErrorMessage returns the message without the code prefix a LoadError
// carries in its Error string.
func loadErrorMessage(err error) string {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Message
	}
	return err.Error()
}

// decisionErrorCode maps a run or decision error onto an envelope code.
// Input and runtime failures share the engine's codes.
func decisionErrorCode(err error) string {
	if code := engine.ErrorCode(err); code != engine.ErrCodeUnknown {
		return string(code)
	}
	return ErrCodeGeneric
}
