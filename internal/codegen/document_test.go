package codegen

import (
	"context"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/naming"
)

// To regenerate golden files, run:
//
//	go test ./internal/codegen -update
func newGolden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func basicBindings() *ir.Bindings {
	greet := greetCommand()
	greet.Docs = "Says hello to someone."

	return &ir.Bindings{
		Commands: []ir.Command{
			greet,
			{Name: "ping", Result: ir.NoResult()},
			{Name: "whoami", Result: ir.ValueResult("User")},
		},
		Events: []ir.Event{{Name: "user_logged_in", Payload: "User"}},
		Statics: []ir.Static{
			{Name: "VERSION", Value: ir.String("1.0.0")},
			{Name: "MAX_RETRIES", Value: ir.Int(3)},
			{Name: "NOTHING", Value: ir.Null{}},
		},
		Declarations: "export type User = { name: string };",
		Globals:      "// globals",
	}
}

func TestGenerateGoldenBasic(t *testing.T) {
	doc, err := Generate(context.Background(), basicBindings(), testTypes(), DefaultOptions())
	require.NoError(t, err)

	newGolden(t).Assert(t, "basic", []byte(doc))
}

func TestGenerateGoldenNamespaced(t *testing.T) {
	b := &ir.Bindings{
		Commands: []ir.Command{{
			Name: "login",
			Args: []ir.Arg{
				{Name: "user_name", Type: "string"},
				{Name: "password", Type: "string"},
			},
			Result: ir.FallibleResult("Session", "AuthError"),
		}},
		Events: []ir.Event{{Name: "session_expired", Payload: "null"}},
	}
	opts := Options{
		Header:      "// custom header\n",
		Naming:      naming.Policy{Namespace: "auth"},
		ErrorsAsAny: true,
	}

	doc, err := Generate(context.Background(), b, testTypes(), opts)
	require.NoError(t, err)

	newGolden(t).Assert(t, "namespaced", []byte(doc))
}

func TestGenerateDeterministic(t *testing.T) {
	first, err := Generate(context.Background(), basicBindings(), testTypes(), DefaultOptions())
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		again, err := Generate(context.Background(), basicBindings(), testTypes(), DefaultOptions())
		require.NoError(t, err)
		require.Equal(t, first, again, "run %d differs", i)
	}
}

func TestGenerateSectionOrder(t *testing.T) {
	doc, err := Generate(context.Background(), basicBindings(), testTypes(), DefaultOptions())
	require.NoError(t, err)

	markers := []string{
		DefaultHeader,
		DoNotEdit,
		BannerCommands,
		"export const commands",
		BannerEvents,
		"export const events",
		BannerStatics,
		"export const VERSION",
		BannerTypes,
		"export type User",
		BannerGlobals,
		"// globals",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(doc, m)
		require.GreaterOrEqual(t, idx, 0, "missing %q", m)
		assert.Greater(t, idx, last, "%q out of order", m)
		last = idx
	}
}

func TestGenerateFailsWithoutPartialOutput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *ir.Bindings)
		kind   ItemKind
	}{
		{"command", func(b *ir.Bindings) { b.Commands[2].Result = ir.ValueResult("Missing") }, ItemCommand},
		{"event", func(b *ir.Bindings) { b.Events[0].Payload = "Missing" }, ItemEvent},
		{"static", func(b *ir.Bindings) { b.Statics[1].Value = ir.Number("x") }, ItemStatic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := basicBindings()
			tt.mutate(b)

			doc, err := Generate(context.Background(), b, testTypes(), DefaultOptions())
			require.Error(t, err)
			assert.Empty(t, doc)

			var re *RenderError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.kind, re.Kind)
		})
	}
}

func TestGenerateRejectsInvalidPolicy(t *testing.T) {
	opts := DefaultOptions()
	opts.Naming = naming.Policy{Namespace: "auth", CommandRule: "static-key"}

	_, err := Generate(context.Background(), basicBindings(), testTypes(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "{name}")
}

func TestGenerateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, basicBindings(), testTypes(), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssembleDocumentIsConcatenation(t *testing.T) {
	got := AssembleDocument(Document{
		Header:       "H\n",
		Commands:     "C",
		Events:       "E",
		Statics:      "S",
		Declarations: "T",
		Globals:      "G",
	})

	want := "H\n" + DoNotEdit + "\n" +
		"\n" + BannerCommands + "\n\nC\n" +
		"\n" + BannerEvents + "\n\nE\n" +
		"\n" + BannerStatics + "\n\nS\n" +
		"\n" + BannerTypes + "\n\nT\n" +
		"\n" + BannerGlobals + "\n\nG\n"
	assert.Equal(t, want, got)
}
