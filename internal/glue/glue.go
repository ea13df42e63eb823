// Package glue supplies the runtime support block appended to every
// generated document. Generated functions call into it.
package glue

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/roach88/bindgen/internal/codegen"
)

//go:embed globals.ts
var defaultGlobals string

// Default returns the embedded globals block without its trailing newline.
func Default() string {
	return strings.TrimRight(defaultGlobals, "\n")
}

// Resolve picks the globals block for a run. An inline block from the
// description wins, then a file from configuration, then the default.
func Resolve(inline, path string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading globals file: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// Missing lists the identifiers generated code depends on that globals
// does not mention.
func Missing(globals string) []string {
	var missing []string
	for _, ident := range []string{codegen.InvokeFunc, codegen.EventsFactory, "Result"} {
		if !strings.Contains(globals, ident) {
			missing = append(missing, ident)
		}
	}
	return missing
}
