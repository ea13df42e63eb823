package codegen

import (
	"errors"

	"github.com/roach88/bindgen/internal/ir"
)

var errBoom = errors.New("boom")

func testTypes() MapRenderer {
	return MapRenderer{
		"string":    "string",
		"u32":       "number",
		"null":      "null",
		"User":      "User",
		"AppError":  "AppError",
		"UserList":  "User[]",
		"Session":   "Session",
		"AuthError": "AuthError",
	}
}

func greetCommand() ir.Command {
	return ir.Command{
		Name:   "greet",
		Args:   []ir.Arg{{Name: "name", Type: "string"}},
		Result: ir.FallibleResult("string", "string"),
	}
}
