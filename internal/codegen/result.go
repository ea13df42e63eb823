package codegen

import (
	"fmt"
	"strings"

	"github.com/roach88/bindgen/internal/ir"
)

// InvokeFunc is the runtime invocation primitive the generated code calls.
// Signature on the TypeScript side: (wireKey: string, args?: object) => Promise<unknown>.
const InvokeFunc = "TAURI_INVOKE"

// Wrapping is how an invocation expression is turned into a function body.
type Wrapping int

const (
	// WrapStatement emits the call for its side effect only.
	WrapStatement Wrapping = iota

	// WrapReturn returns the call's value.
	WrapReturn

	// WrapResult converts the outcome into a discriminated Result value.
	WrapResult
)

// String returns a stable name for logs and test output.
func (w Wrapping) String() string {
	switch w {
	case WrapStatement:
		return "statement"
	case WrapReturn:
		return "return"
	case WrapResult:
		return "result"
	default:
		return fmt.Sprintf("Wrapping(%d)", int(w))
	}
}

// ClassifyResult decides the wrapping for a declared result shape.
// The zero-value kind is treated as ResultNone.
func ClassifyResult(shape ir.ResultShape) (Wrapping, error) {
	switch shape.Kind {
	case ir.ResultNone, "":
		return WrapStatement, nil
	case ir.ResultValue:
		return WrapReturn, nil
	case ir.ResultFallible:
		return WrapResult, nil
	default:
		return 0, fmt.Errorf("unknown result kind %q", string(shape.Kind))
	}
}

// ArgBundle builds the object literal passed as the invocation's second
// argument. Names are used as both keys and values. Returns "" for no args.
func ArgBundle(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return "{ " + strings.Join(names, ", ") + " }"
}

// InvokeExpr renders `await TAURI_INVOKE("<wire>", <bundle>)`. An empty
// bundle is omitted from the call entirely.
func InvokeExpr(wireName, bundle string) string {
	var b strings.Builder
	b.WriteString("await ")
	b.WriteString(InvokeFunc)
	b.WriteByte('(')
	b.WriteString(ir.QuoteString(wireName))
	if bundle != "" {
		b.WriteString(", ")
		b.WriteString(bundle)
	}
	b.WriteByte(')')
	return b.String()
}

// WrapBody turns an invocation expression into a function body.
//
// For WrapResult, values that are native Error instances are transport or
// protocol faults and are re-thrown unchanged; anything else is a declared
// business error and becomes { status: "error", error }. errorsAsAny
// annotates the caught value as `any` for call sites where the error type
// cannot be inferred.
func WrapBody(expr string, w Wrapping, errorsAsAny bool) string {
	switch w {
	case WrapReturn:
		return "return " + expr + ";"
	case WrapResult:
		errExpr := "e"
		if errorsAsAny {
			errExpr = "e as any"
		}
		return strings.Join([]string{
			"try {",
			`    return { status: "ok", data: ` + expr + " };",
			"} catch (e) {",
			"    if (e instanceof Error) throw e;",
			`    else return { status: "error", error: ` + errExpr + " };",
			"}",
		}, "\n")
	default:
		return expr + ";"
	}
}
