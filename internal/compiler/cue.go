package compiler

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"cuelang.org/go/cue"

	"github.com/roach88/bindgen/internal/ir"
)

// CompileBindings parses a whole CUE description into Bindings.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the package root, e.g.:
//
//	types: { string: "string", User: "User" }
//	command: greet: {
//		docs: "Says hello"
//		args: { name: "string" }
//		result: { ok: "string", err: "string" }
//	}
//	event: user_logged_in: { payload: "User" }
//	static: { VERSION: "1.0.0" }
//	declarations: "export type User = { name: string };"
//
// Field order inside command, event, static and args is preserved.
func CompileBindings(v cue.Value) (*ir.Bindings, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	b := &ir.Bindings{Types: map[ir.TypeRef]string{}}

	if typesVal := v.LookupPath(cue.ParsePath("types")); typesVal.Exists() {
		iter, err := typesVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			text, err := stringField(iter.Value(), "types."+iter.Label())
			if err != nil {
				return nil, err
			}
			b.Types[ir.TypeRef(iter.Label())] = text
		}
	}

	if cmdVal := v.LookupPath(cue.ParsePath("command")); cmdVal.Exists() {
		iter, err := cmdVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			cmd, err := CompileCommand(iter.Label(), iter.Value())
			if err != nil {
				return nil, err
			}
			b.Commands = append(b.Commands, *cmd)
		}
	}

	if evVal := v.LookupPath(cue.ParsePath("event")); evVal.Exists() {
		iter, err := evVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			ev, err := CompileEvent(iter.Label(), iter.Value())
			if err != nil {
				return nil, err
			}
			b.Events = append(b.Events, *ev)
		}
	}

	if staticVal := v.LookupPath(cue.ParsePath("static")); staticVal.Exists() {
		iter, err := staticVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			st, err := CompileStatic(iter.Label(), iter.Value())
			if err != nil {
				return nil, err
			}
			b.Statics = append(b.Statics, *st)
		}
	}

	var err error
	if b.Declarations, err = textBlock(v, "declarations"); err != nil {
		return nil, err
	}
	if b.Globals, err = textBlock(v, "globals"); err != nil {
		return nil, err
	}

	return b, nil
}

// CompileCommand parses one command definition. name is the struct label.
func CompileCommand(name string, v cue.Value) (*ir.Command, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	cmd := &ir.Command{Name: name, Result: ir.NoResult()}
	prefix := "command." + name

	if err := checkLabels(v, prefix, "unknown command field", "docs", "deprecated", "args", "result"); err != nil {
		return nil, err
	}

	var err error
	if cmd.Docs, err = optionalString(v, "docs"); err != nil {
		return nil, err
	}
	if cmd.Deprecated, err = parseDeprecated(v, prefix+".deprecated"); err != nil {
		return nil, err
	}

	// Parse args (optional, declaration order is the parameter order)
	if argsVal := v.LookupPath(cue.ParsePath("args")); argsVal.Exists() {
		iter, err := argsVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			typ, err := stringField(iter.Value(), fmt.Sprintf("command.%s.args.%s", name, iter.Label()))
			if err != nil {
				return nil, err
			}
			cmd.Args = append(cmd.Args, ir.Arg{Name: iter.Label(), Type: ir.TypeRef(typ)})
		}
	}

	// Parse result (optional): { value: T } or { ok: T, err: E }
	resultVal := v.LookupPath(cue.ParsePath("result"))
	if resultVal.Exists() {
		field := prefix + ".result"
		if err := checkLabels(resultVal, field, "unknown result field", "value", "ok", "err"); err != nil {
			return nil, err
		}
		value, err := optionalString(resultVal, "value")
		if err != nil {
			return nil, err
		}
		ok, err := optionalString(resultVal, "ok")
		if err != nil {
			return nil, err
		}
		errType, err := optionalString(resultVal, "err")
		if err != nil {
			return nil, err
		}

		switch {
		case value != "" && ok == "" && errType == "":
			cmd.Result = ir.ValueResult(ir.TypeRef(value))
		case value == "" && ok != "" && errType != "":
			cmd.Result = ir.FallibleResult(ir.TypeRef(ok), ir.TypeRef(errType))
		default:
			return nil, &CompileError{
				Field:   field,
				Message: "result must be either { value } or { ok, err }",
				Pos:     resultVal.Pos(),
			}
		}
	}

	return cmd, nil
}

// CompileEvent parses one event definition. name is the struct label.
func CompileEvent(name string, v cue.Value) (*ir.Event, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	if err := checkLabels(v, "event."+name, "unknown event field", "docs", "payload"); err != nil {
		return nil, err
	}

	payloadVal := v.LookupPath(cue.ParsePath("payload"))
	if !payloadVal.Exists() {
		return nil, &CompileError{
			Field:   fmt.Sprintf("event.%s.payload", name),
			Message: "event payload is required",
			Pos:     v.Pos(),
		}
	}
	payload, err := stringField(payloadVal, fmt.Sprintf("event.%s.payload", name))
	if err != nil {
		return nil, err
	}

	docs, err := optionalString(v, "docs")
	if err != nil {
		return nil, err
	}

	return &ir.Event{Name: name, Docs: docs, Payload: ir.TypeRef(payload)}, nil
}

// CompileStatic parses one exported constant. name is the struct label.
func CompileStatic(name string, v cue.Value) (*ir.Static, error) {
	val, err := CompileValue(v)
	if err != nil {
		var ce *CompileError
		if errors.As(err, &ce) && ce.Field == "static" {
			ce.Field = "static." + name
		}
		return nil, err
	}
	return &ir.Static{Name: name, Value: val}, nil
}

// CompileValue converts a concrete CUE value into a static Value.
// Number literals keep their JSON text.
func CompileValue(v cue.Value) (ir.Value, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	switch v.Kind() {
	case cue.NullKind:
		return ir.Null{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.Bool(b), nil
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
		data, err := v.MarshalJSON()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.Number(data), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.String(s), nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		arr := ir.Array{}
		for iter.Next() {
			elem, err := CompileValue(iter.Value())
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		return arr, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		var pairs []ir.Pair
		for iter.Next() {
			elem, err := CompileValue(iter.Value())
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, ir.O(iter.Label(), elem))
		}
		return ir.NewObject(pairs...), nil
	default:
		return nil, &CompileError{
			Field:   "static",
			Message: fmt.Sprintf("static values must be concrete, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

// parseDeprecated accepts `deprecated: true` or `deprecated: "reason"`.
func parseDeprecated(v cue.Value, field string) (*string, error) {
	depVal := v.LookupPath(cue.ParsePath("deprecated"))
	if !depVal.Exists() {
		return nil, nil
	}
	if b, err := depVal.Bool(); err == nil {
		if !b {
			return nil, nil
		}
		reason := ""
		return &reason, nil
	}
	reason, err := depVal.String()
	if err != nil {
		return nil, &CompileError{
			Field:   field,
			Message: "must be a bool or a string",
			Pos:     depVal.Pos(),
		}
	}
	return &reason, nil
}

// checkLabels rejects regular fields of v outside allowed, so a misspelt
// key fails instead of being dropped.
func checkLabels(v cue.Value, prefix, msg string, allowed ...string) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		if !slices.Contains(allowed, iter.Label()) {
			return &CompileError{
				Field:   prefix + "." + iter.Label(),
				Message: msg,
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}

// stringField reads a concrete string, reporting field on failure.
func stringField(v cue.Value, field string) (string, error) {
	s, err := v.String()
	if err != nil {
		return "", &CompileError{
			Field:   field,
			Message: fmt.Sprintf("must be a string, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
	return s, nil
}

// optionalString reads a string child of v, returning "" when absent.
func optionalString(v cue.Value, path string) (string, error) {
	child := v.LookupPath(cue.ParsePath(path))
	if !child.Exists() {
		return "", nil
	}
	return stringField(child, path)
}

// textBlock reads a string or a list of strings joined by blank lines.
func textBlock(v cue.Value, path string) (string, error) {
	child := v.LookupPath(cue.ParsePath(path))
	if !child.Exists() {
		return "", nil
	}
	if s, err := child.String(); err == nil {
		return s, nil
	}

	iter, err := child.List()
	if err != nil {
		return "", &CompileError{
			Field:   path,
			Message: "must be a string or a list of strings",
			Pos:     child.Pos(),
		}
	}
	var parts []string
	for iter.Next() {
		s, err := stringField(iter.Value(), path)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n\n"), nil
}
