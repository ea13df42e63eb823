package codegen

import (
	"log/slog"
	"strings"

	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/naming"
)

// DefaultHeader is prepended to every document unless overridden.
const DefaultHeader = "/* eslint-disable */\n"

// Options configures a generation run.
type Options struct {
	// Header is written verbatim before the do-not-edit banner.
	Header string

	// Naming is applied to every command and event wire key.
	Naming naming.Policy

	// ErrorsAsAny annotates caught error values as `any`.
	ErrorsAsAny bool
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{Header: DefaultHeader}
}

// ReturnAnnotation renders the type wrapped by Promise<...> in a command's
// signature: `void`, the value type, or `Result<Ok, Err>`.
func ReturnAnnotation(cmd ir.Command, r TypeRenderer) (string, error) {
	switch cmd.Result.Kind {
	case ir.ResultNone, "":
		return "void", nil
	case ir.ResultValue:
		return renderType(r, ItemCommand, cmd.Name, cmd.Result.Ok)
	case ir.ResultFallible:
		ok, err := renderType(r, ItemCommand, cmd.Name, cmd.Result.Ok)
		if err != nil {
			return "", err
		}
		errType, err := renderType(r, ItemCommand, cmd.Name, cmd.Result.Err)
		if err != nil {
			return "", err
		}
		return "Result<" + ok + ", " + errType + ">", nil
	default:
		_, err := ClassifyResult(cmd.Result)
		return "", &RenderError{Kind: ItemCommand, Item: cmd.Name, Err: err}
	}
}

// RenderCommand renders one command as an async method. Nothing is returned
// for the command if any of its types fail to render.
func RenderCommand(cmd ir.Command, r TypeRenderer, opts Options) (string, error) {
	wrapping, err := ClassifyResult(cmd.Result)
	if err != nil {
		return "", &RenderError{Kind: ItemCommand, Item: cmd.Name, Err: err}
	}

	names := make([]string, len(cmd.Args))
	params := make([]string, len(cmd.Args))
	for i, arg := range cmd.Args {
		typ, err := renderType(r, ItemCommand, cmd.Name, arg.Type)
		if err != nil {
			return "", err
		}
		names[i] = naming.ToCallName(arg.Name)
		params[i] = names[i] + ": " + typ
	}

	returnType, err := ReturnAnnotation(cmd, r)
	if err != nil {
		return "", err
	}

	wire := naming.ToWireName(cmd.Name, naming.KindCommand, opts.Naming)
	body := WrapBody(InvokeExpr(wire, ArgBundle(names)), wrapping, opts.ErrorsAsAny)

	return RenderFunction(
		JSDoc(cmd.Docs, cmd.Deprecated),
		naming.ToCallName(cmd.Name),
		params,
		returnType,
		body,
	), nil
}

// RenderCommands renders every command, in declared order, as members of
// the exported `commands` object.
func RenderCommands(cmds []ir.Command, r TypeRenderer, opts Options) (string, error) {
	if len(cmds) == 0 {
		return "export const commands = {};", nil
	}

	fns := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		fn, err := RenderCommand(cmd, r, opts)
		if err != nil {
			return "", err
		}
		slog.Debug("command rendered", "command", cmd.Name, "args", len(cmd.Args), "result", string(cmd.Result.Kind))
		fns = append(fns, fn)
	}

	return "export const commands = {\n" + indent(strings.Join(fns, ",\n"), indentUnit) + "\n};", nil
}
