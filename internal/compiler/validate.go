package compiler

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/naming"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrNilBindings = "E100" // nothing to validate

	// Naming errors (E101-E109)
	ErrEmptyName         = "E101" // command/event/static/arg name is empty
	ErrDuplicateName     = "E102" // duplicate declared name
	ErrCallNameCollision = "E103" // two names camel-case to the same binding
	ErrInvalidStaticName = "E104" // static name is not a valid identifier

	// Type errors (E110-E119)
	ErrUnknownTypeRef  = "E110" // type ref missing from the type map
	ErrInvalidResult   = "E111" // result shape inconsistent with its kind
	ErrInvalidStatic   = "E112" // static value cannot be serialized
	ErrEmptyTypeRender = "E113" // type map entry renders to empty text
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks caller invariants the generator itself does not enforce.
// Returns all errors found (does not fail-fast).
func Validate(b *ir.Bindings) []ValidationError {
	if b == nil {
		return []ValidationError{{
			Field:   "bindings",
			Message: "no bindings to validate",
			Code:    ErrNilBindings,
		}}
	}

	var errs []ValidationError
	errs = append(errs, validateCommands(b)...)
	errs = append(errs, validateEvents(b)...)
	errs = append(errs, validateStatics(b)...)

	for _, ref := range slices.Sorted(maps.Keys(b.Types)) {
		text := b.Types[ref]
		// E113: rendered type text must be non-empty
		if strings.TrimSpace(text) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("types.%s", ref),
				Message: "type renders to empty text",
				Code:    ErrEmptyTypeRender,
			})
		}
	}

	return errs
}

func validateCommands(b *ir.Bindings) []ValidationError {
	var errs []ValidationError
	names := make(map[string]bool)
	callNames := make(map[string]string)

	for i, cmd := range b.Commands {
		field := fmt.Sprintf("command[%d]", i)

		// E101: name is required
		if strings.TrimSpace(cmd.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: "command name is required",
				Code:    ErrEmptyName,
			})
			continue
		}
		field = "command." + cmd.Name

		// E102: duplicate name
		if names[cmd.Name] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate command name: %q", cmd.Name),
				Code:    ErrDuplicateName,
			})
		}
		names[cmd.Name] = true

		// E103: call name collision
		call := naming.ToCallName(cmd.Name)
		if prev, ok := callNames[call]; ok && prev != cmd.Name {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("commands %q and %q both bind to %q", prev, cmd.Name, call),
				Code:    ErrCallNameCollision,
			})
		} else if !ok {
			callNames[call] = cmd.Name
		}

		argNames := make(map[string]bool)
		for j, arg := range cmd.Args {
			argField := fmt.Sprintf("%s.args[%d]", field, j)
			if strings.TrimSpace(arg.Name) == "" {
				errs = append(errs, ValidationError{
					Field:   argField,
					Message: "argument name is required",
					Code:    ErrEmptyName,
				})
				continue
			}
			argCall := naming.ToCallName(arg.Name)
			if argNames[argCall] {
				errs = append(errs, ValidationError{
					Field:   argField,
					Message: fmt.Sprintf("duplicate argument %q", arg.Name),
					Code:    ErrDuplicateName,
				})
			}
			argNames[argCall] = true
			errs = append(errs, checkRef(b, arg.Type, argField+".type")...)
		}

		errs = append(errs, validateResult(b, cmd.Result, field+".result")...)
	}
	return errs
}

func validateResult(b *ir.Bindings, r ir.ResultShape, field string) []ValidationError {
	kind := r.Kind
	if kind == "" {
		kind = ir.ResultNone
	}
	if !ir.ValidResultKinds[kind] {
		return []ValidationError{{
			Field:   field + ".kind",
			Message: fmt.Sprintf("invalid result kind %q", r.Kind),
			Code:    ErrInvalidResult,
		}}
	}

	// E111: shape must match kind
	var bad string
	switch kind {
	case ir.ResultNone:
		if r.Ok != "" || r.Err != "" {
			bad = "none result must not carry types"
		}
	case ir.ResultValue:
		if r.Ok == "" || r.Err != "" {
			bad = "value result requires exactly one type"
		}
	case ir.ResultFallible:
		if r.Ok == "" || r.Err == "" {
			bad = "fallible result requires ok and err types"
		}
	}
	if bad != "" {
		return []ValidationError{{Field: field, Message: bad, Code: ErrInvalidResult}}
	}

	var errs []ValidationError
	if r.Ok != "" {
		errs = append(errs, checkRef(b, r.Ok, field+".ok")...)
	}
	if r.Err != "" {
		errs = append(errs, checkRef(b, r.Err, field+".err")...)
	}
	return errs
}

func validateEvents(b *ir.Bindings) []ValidationError {
	var errs []ValidationError
	names := make(map[string]bool)
	callNames := make(map[string]string)

	for i, ev := range b.Events {
		if strings.TrimSpace(ev.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("event[%d].name", i),
				Message: "event name is required",
				Code:    ErrEmptyName,
			})
			continue
		}
		field := "event." + ev.Name

		if names[ev.Name] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate event name: %q", ev.Name),
				Code:    ErrDuplicateName,
			})
		}
		names[ev.Name] = true

		call := naming.ToCallName(ev.Name)
		if prev, ok := callNames[call]; ok && prev != ev.Name {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("events %q and %q both bind to %q", prev, ev.Name, call),
				Code:    ErrCallNameCollision,
			})
		} else if !ok {
			callNames[call] = ev.Name
		}

		errs = append(errs, checkRef(b, ev.Payload, field+".payload")...)
	}
	return errs
}

func validateStatics(b *ir.Bindings) []ValidationError {
	var errs []ValidationError
	names := make(map[string]bool)

	for i, st := range b.Statics {
		if st.Name == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("static[%d].name", i),
				Message: "static name is required",
				Code:    ErrEmptyName,
			})
			continue
		}
		field := "static." + st.Name

		if names[st.Name] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate static name: %q", st.Name),
				Code:    ErrDuplicateName,
			})
		}
		names[st.Name] = true

		// E104: emitted verbatim as a const binding
		if !identifierRe.MatchString(st.Name) {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%q is not a valid identifier", st.Name),
				Code:    ErrInvalidStaticName,
			})
		}

		if _, err := ir.MarshalValue(st.Value); err != nil {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: err.Error(),
				Code:    ErrInvalidStatic,
			})
		}
	}
	return errs
}

// checkRef reports refs that are empty or missing from the type map.
func checkRef(b *ir.Bindings, ref ir.TypeRef, field string) []ValidationError {
	if ref == "" {
		return []ValidationError{{
			Field:   field,
			Message: "type reference is required",
			Code:    ErrUnknownTypeRef,
		}}
	}
	if _, ok := b.Types[ref]; !ok {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("type %q is not in the type map", ref),
			Code:    ErrUnknownTypeRef,
		}}
	}
	return nil
}
