package codegen

import (
	"errors"
	"fmt"

	"github.com/roach88/bindgen/internal/ir"
)

// ItemKind names the kind of item whose rendering failed.
type ItemKind string

const (
	ItemCommand ItemKind = "command"
	ItemEvent   ItemKind = "event"
	ItemStatic  ItemKind = "static"
)

// RenderError reports a generation-time failure for one item.
// Err is the underlying renderer or serialization error.
type RenderError struct {
	Kind ItemKind
	Item string

	// Type is the reference that failed to render, if any.
	Type ir.TypeRef

	Err error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("render %s %q: type %q: %v", e.Kind, e.Item, string(e.Type), e.Err)
	}
	return fmt.Sprintf("render %s %q: %v", e.Kind, e.Item, e.Err)
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// IsUnknownType reports whether err was caused by an unresolvable type reference.
// Uses errors.Is to see through RenderError wrapping.
func IsUnknownType(err error) bool {
	return errors.Is(err, ErrUnknownType)
}

func renderType(r TypeRenderer, kind ItemKind, item string, ref ir.TypeRef) (string, error) {
	text, err := r.Render(ref)
	if err != nil {
		return "", &RenderError{Kind: kind, Item: item, Type: ref, Err: err}
	}
	return text, nil
}
