package codegen

import (
	"strings"

	"github.com/roach88/bindgen/internal/ir"
)

// constQualifier marks a literal as a compile-time constant.
const constQualifier = " as const"

// RenderStatic renders `export const <name> = <literal>[ as const];`.
// Null is the only kind emitted without the qualifier.
func RenderStatic(s ir.Static) (string, error) {
	literal, err := ir.MarshalValue(s.Value)
	if err != nil {
		return "", &RenderError{Kind: ItemStatic, Item: s.Name, Err: err}
	}

	qualifier := constQualifier
	if s.Value.Kind() == ir.KindNull {
		qualifier = ""
	}
	return "export const " + s.Name + " = " + string(literal) + qualifier + ";", nil
}

// RenderStatics renders every static in declared order, one per line.
func RenderStatics(statics []ir.Static) (string, error) {
	lines := make([]string, 0, len(statics))
	for _, s := range statics {
		line, err := RenderStatic(s)
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}
