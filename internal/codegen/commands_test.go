package codegen

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/naming"
)

func TestRenderCommandGreetRoundTrip(t *testing.T) {
	got, err := RenderCommand(greetCommand(), testTypes(), DefaultOptions())
	require.NoError(t, err)

	want := strings.Join([]string{
		"async greet(name: string): Promise<Result<string, string>> {",
		"    try {",
		`        return { status: "ok", data: await TAURI_INVOKE("greet", { name }) };`,
		"    } catch (e) {",
		"        if (e instanceof Error) throw e;",
		`        else return { status: "error", error: e };`,
		"    }",
		"}",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRenderCommandNoArgsOmitsBundle(t *testing.T) {
	cmds := []ir.Command{
		{Name: "ping", Result: ir.NoResult()},
		{Name: "whoami", Result: ir.ValueResult("User")},
		{Name: "logout", Result: ir.FallibleResult("null", "AuthError")},
	}
	for _, cmd := range cmds {
		t.Run(cmd.Name, func(t *testing.T) {
			got, err := RenderCommand(cmd, testTypes(), DefaultOptions())
			require.NoError(t, err)
			assert.Contains(t, got, `TAURI_INVOKE("`+cmd.Name+`")`)
			assert.NotContains(t, got, "{ }")
			assert.Contains(t, got, "async "+cmd.Name+"()")
		})
	}
}

func TestRenderCommandBundleKeysAreCamelCasedInOrder(t *testing.T) {
	cmd := ir.Command{
		Name: "create_user",
		Args: []ir.Arg{
			{Name: "display_name", Type: "string"},
			{Name: "age", Type: "u32"},
			{Name: "InviteCode", Type: "string"},
		},
		Result: ir.ValueResult("User"),
	}

	got, err := RenderCommand(cmd, testTypes(), DefaultOptions())
	require.NoError(t, err)

	assert.Contains(t, got, "async createUser(displayName: string, age: number, inviteCode: string): Promise<User> {")
	assert.Contains(t, got, `return await TAURI_INVOKE("create_user", { displayName, age, inviteCode });`)
}

func TestRenderCommandDigitLeadingWords(t *testing.T) {
	cmd := ir.Command{
		Name:   "verify_2fa",
		Args:   []ir.Arg{{Name: "code_2fa", Type: "string"}},
		Result: ir.NoResult(),
	}

	got, err := RenderCommand(cmd, testTypes(), DefaultOptions())
	require.NoError(t, err)

	assert.Contains(t, got, "async verify2fa(code2fa: string): Promise<void> {")
	assert.Contains(t, got, `await TAURI_INVOKE("verify_2fa", { code2fa });`)
}

func TestRenderCommandValueIsSingleReturn(t *testing.T) {
	cmd := ir.Command{Name: "list_users", Result: ir.ValueResult("UserList")}

	got, err := RenderCommand(cmd, testTypes(), DefaultOptions())
	require.NoError(t, err)

	want := "async listUsers(): Promise<User[]> {\n" +
		"    return await TAURI_INVOKE(\"list_users\");\n" +
		"}"
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "status")
}

func TestRenderCommandNoneIsBareStatement(t *testing.T) {
	cmd := ir.Command{Name: "ping", Result: ir.NoResult()}

	got, err := RenderCommand(cmd, testTypes(), DefaultOptions())
	require.NoError(t, err)

	want := "async ping(): Promise<void> {\n" +
		"    await TAURI_INVOKE(\"ping\");\n" +
		"}"
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "return")
}

func TestRenderCommandNamespaced(t *testing.T) {
	cmd := ir.Command{
		Name:   "login",
		Args:   []ir.Arg{{Name: "user", Type: "string"}},
		Result: ir.FallibleResult("Session", "AuthError"),
	}
	opts := DefaultOptions()
	opts.Naming = naming.Policy{Namespace: "auth"}

	got, err := RenderCommand(cmd, testTypes(), opts)
	require.NoError(t, err)

	assert.Contains(t, got, "async login(user: string): Promise<Result<Session, AuthError>> {")
	assert.Contains(t, got, `await TAURI_INVOKE("plugin:auth|login", { user })`)
	assert.NotContains(t, got, "async plugin")
}

func TestRenderCommandErrorsAsAny(t *testing.T) {
	opts := DefaultOptions()
	opts.ErrorsAsAny = true

	got, err := RenderCommand(greetCommand(), testTypes(), opts)
	require.NoError(t, err)
	assert.Contains(t, got, `error: e as any }`)
}

func TestRenderCommandDocs(t *testing.T) {
	cmd := greetCommand()
	cmd.Docs = "Says hello"
	reason := "use greet_all"
	cmd.Deprecated = &reason

	got, err := RenderCommand(cmd, testTypes(), DefaultOptions())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "/**\n * Says hello\n * @deprecated use greet_all\n */\nasync greet("))
}

func TestRenderCommandTypeErrorAborts(t *testing.T) {
	tests := []struct {
		name string
		cmd  ir.Command
		ref  ir.TypeRef
	}{
		{"arg", ir.Command{Name: "a", Args: []ir.Arg{{Name: "x", Type: "Missing"}}, Result: ir.NoResult()}, "Missing"},
		{"value", ir.Command{Name: "b", Result: ir.ValueResult("Missing")}, "Missing"},
		{"ok", ir.Command{Name: "c", Result: ir.FallibleResult("Missing", "string")}, "Missing"},
		{"err", ir.Command{Name: "d", Result: ir.FallibleResult("string", "Nope")}, "Nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderCommand(tt.cmd, testTypes(), DefaultOptions())
			require.Error(t, err)
			assert.Empty(t, got)
			assert.True(t, IsUnknownType(err))

			var re *RenderError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, ItemCommand, re.Kind)
			assert.Equal(t, tt.cmd.Name, re.Item)
			assert.Equal(t, tt.ref, re.Type)
		})
	}
}

func TestRenderCommandPropagatesRendererError(t *testing.T) {
	r := RenderFunc(func(ir.TypeRef) (string, error) { return "", errBoom })

	_, err := RenderCommand(greetCommand(), r, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), `render command "greet": type "string": boom`)
}

func TestRenderCommandUnknownResultKind(t *testing.T) {
	cmd := ir.Command{Name: "odd", Result: ir.ResultShape{Kind: "maybe"}}

	_, err := RenderCommand(cmd, testTypes(), DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `render command "odd"`)
}

func TestReturnAnnotation(t *testing.T) {
	tests := []struct {
		shape ir.ResultShape
		want  string
	}{
		{ir.NoResult(), "void"},
		{ir.ValueResult("User"), "User"},
		{ir.FallibleResult("User", "AppError"), "Result<User, AppError>"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := ReturnAnnotation(ir.Command{Name: "x", Result: tt.shape}, testTypes())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderCommandsWrapsInObject(t *testing.T) {
	cmds := []ir.Command{
		{Name: "ping", Result: ir.NoResult()},
		{Name: "whoami", Result: ir.ValueResult("User")},
	}

	got, err := RenderCommands(cmds, testTypes(), DefaultOptions())
	require.NoError(t, err)

	want := strings.Join([]string{
		"export const commands = {",
		"    async ping(): Promise<void> {",
		`        await TAURI_INVOKE("ping");`,
		"    },",
		"    async whoami(): Promise<User> {",
		`        return await TAURI_INVOKE("whoami");`,
		"    }",
		"};",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRenderCommandsEmpty(t *testing.T) {
	got, err := RenderCommands(nil, testTypes(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "export const commands = {};", got)
}

func TestRenderCommandsAbortsOnFirstFailure(t *testing.T) {
	cmds := []ir.Command{
		{Name: "ok", Result: ir.NoResult()},
		{Name: "bad", Result: ir.ValueResult("Missing")},
	}

	got, err := RenderCommands(cmds, testTypes(), DefaultOptions())
	require.Error(t, err)
	assert.Empty(t, got)
}
