package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/turing/internal/ir"
)

// CompileMachine parses a CUE value into a machine Definition.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the machine struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`machine: div3: { ... }`)
//	def, err := CompileMachine(v.LookupPath(cue.ParsePath("machine.div3")))
//
// The machine name is taken from the struct label. Transitions are compiled in
// declaration order; a repeated (from, read) pair is rejected because the
// resulting machine would not be deterministic.
func CompileMachine(v cue.Value) (ir.Definition, error) {
	if err := v.Err(); err != nil {
		return ir.Definition{}, formatCUEError(err)
	}

	var name string
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		name = labels[len(labels)-1].String()
	}
	if name == "" {
		return ir.Definition{}, &CompileError{Field: "machine", Message: "machine must be a labelled struct", Pos: v.Pos()}
	}

	description, err := optionalString(v, "description")
	if err != nil {
		return ir.Definition{}, err
	}

	start, err := requiredString(v, name, "start")
	if err != nil {
		return ir.Definition{}, err
	}
	accept, err := requiredString(v, name, "accept")
	if err != nil {
		return ir.Definition{}, err
	}

	rules, err := parseTransitions(v, name)
	if err != nil {
		return ir.Definition{}, err
	}

	def, err := ir.NewDefinition(name, description, ir.State(start), ir.State(accept), rules)
	if err != nil {
		return ir.Definition{}, &CompileError{Machine: name, Field: "machine", Message: err.Error(), Pos: v.Pos()}
	}
	return def, nil
}

// parseTransitions extracts the transition list in declaration order.
func parseTransitions(v cue.Value, machine string) ([]ir.Rule, error) {
	listVal := v.LookupPath(cue.ParsePath("transitions"))
	if !listVal.Exists() {
		return nil, &CompileError{Machine: machine, Field: "transitions", Message: "transitions are required", Pos: v.Pos()}
	}

	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var rules []ir.Rule
	seen := make(map[ir.Key]int)
	for i := 0; iter.Next(); i++ {
		elem := iter.Value()
		field := fmt.Sprintf("transitions[%d]", i)

		rule, err := parseTransition(elem, machine, field)
		if err != nil {
			return nil, err
		}

		if prev, dup := seen[rule.Key()]; dup {
			return nil, &CompileError{
				Machine: machine,
				Field:   field,
				Message: fmt.Sprintf("duplicate transition for (%s, %s): already defined by transitions[%d]", rule.From, rule.Read, prev),
				Pos:     elem.Pos(),
			}
		}
		seen[rule.Key()] = i
		rules = append(rules, rule)
	}

	return rules, nil
}

func parseTransition(v cue.Value, machine, field string) (ir.Rule, error) {
	from, err := requiredString(v, machine, field+".from")
	if err != nil {
		return ir.Rule{}, err
	}
	to, err := requiredString(v, machine, field+".to")
	if err != nil {
		return ir.Rule{}, err
	}

	readStr, err := requiredString(v, machine, field+".read")
	if err != nil {
		return ir.Rule{}, err
	}
	read, err := ir.ParseSymbol(readStr)
	if err != nil {
		return ir.Rule{}, &CompileError{Machine: machine, Field: field + ".read", Message: err.Error(), Pos: v.Pos()}
	}

	writeStr, err := requiredString(v, machine, field+".write")
	if err != nil {
		return ir.Rule{}, err
	}
	write, err := ir.ParseSymbol(writeStr)
	if err != nil {
		return ir.Rule{}, &CompileError{Machine: machine, Field: field + ".write", Message: err.Error(), Pos: v.Pos()}
	}

	moveStr, err := requiredString(v, machine, field+".move")
	if err != nil {
		return ir.Rule{}, err
	}
	move, err := ir.ParseMove(moveStr)
	if err != nil {
		return ir.Rule{}, &CompileError{Machine: machine, Field: field + ".move", Message: err.Error(), Pos: v.Pos()}
	}

	return ir.Rule{From: ir.State(from), Read: read, To: ir.State(to), Write: write, Move: move}, nil
}

// requiredString looks up the last path element of field relative to v.
// field is only used for error messages; the lookup uses its final segment.
func requiredString(v cue.Value, machine, field string) (string, error) {
	key := lastSegment(field)
	fv := v.LookupPath(cue.ParsePath(key))
	if !fv.Exists() {
		return "", &CompileError{Machine: machine, Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	if s == "" {
		return "", &CompileError{Machine: machine, Field: field, Message: field + " must be non-empty", Pos: fv.Pos()}
	}
	return s, nil
}

func optionalString(v cue.Value, key string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(key))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func lastSegment(field string) string {
	for i := len(field) - 1; i >= 0; i-- {
		if field[i] == '.' {
			return field[i+1:]
		}
	}
	return field
}

// LoadSource compiles every machine declared under `machine:` in a CUE
// document, in declaration order. The document is first unified with the
// definition schema, so unknown fields and invalid symbols are reported with
// their source position.
func LoadSource(filename string, src []byte) ([]ir.Definition, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	value := ctx.CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	value = schema.Unify(value)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	machinesVal := value.LookupPath(cue.ParsePath("machine"))
	if !machinesVal.Exists() {
		return nil, &CompileError{Field: "machine", Message: fmt.Sprintf("no machines declared in %s", filename)}
	}

	iter, err := machinesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var defs []ir.Definition
	for iter.Next() {
		def, err := CompileMachine(iter.Value())
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	if len(defs) == 0 {
		return nil, &CompileError{Field: "machine", Message: fmt.Sprintf("no machines declared in %s", filename)}
	}
	return defs, nil
}

// LoadFile reads and compiles a CUE machine definition file.
func LoadFile(path string) ([]ir.Definition, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read machine file: %w", err)
	}
	return LoadSource(path, src)
}
