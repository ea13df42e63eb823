package codegen

import (
	"errors"
	"fmt"

	"github.com/roach88/bindgen/internal/ir"
)

// ErrUnknownType is returned by MapRenderer for references missing from
// its type map.
var ErrUnknownType = errors.New("unknown type reference")

// TypeRenderer turns an opaque type reference into a TypeScript type literal.
// It is owned by the type-resolution stage. Generate calls it from several
// goroutines, so implementations must be safe for concurrent use.
type TypeRenderer interface {
	Render(ref ir.TypeRef) (string, error)
}

// RenderFunc adapts a plain function to TypeRenderer.
type RenderFunc func(ref ir.TypeRef) (string, error)

// Render implements TypeRenderer.
func (f RenderFunc) Render(ref ir.TypeRef) (string, error) {
	return f(ref)
}

// MapRenderer looks references up in a table of pre-rendered literals.
type MapRenderer map[ir.TypeRef]string

// Render implements TypeRenderer.
func (m MapRenderer) Render(ref ir.TypeRef) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", ErrUnknownType)
	}
	text, ok := m[ref]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, string(ref))
	}
	return text, nil
}
