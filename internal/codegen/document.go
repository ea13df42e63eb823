package codegen

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/bindgen/internal/ir"
)

// DoNotEdit is the disclaimer written at the top of every document.
const DoNotEdit = "// This file was generated by bindgen. Do not edit this file manually."

// Section banners, in document order.
const (
	BannerCommands = "/** user-defined commands **/"
	BannerEvents   = "/** user-defined events **/"
	BannerStatics  = "/** user-defined statics **/"
	BannerTypes    = "/** user-defined types **/"
	BannerGlobals  = "/** bindgen globals **/"
)

// Document holds the pre-rendered sections of an output file.
// Declarations and Globals are opaque to this package.
type Document struct {
	Header       string
	Commands     string
	Events       string
	Statics      string
	Declarations string
	Globals      string
}

// AssembleDocument concatenates the sections under their banners.
// It performs no rendering of its own.
func AssembleDocument(d Document) string {
	var b strings.Builder
	b.WriteString(d.Header)
	b.WriteString(DoNotEdit)
	b.WriteString("\n")

	for _, sec := range []struct{ banner, body string }{
		{BannerCommands, d.Commands},
		{BannerEvents, d.Events},
		{BannerStatics, d.Statics},
		{BannerTypes, d.Declarations},
		{BannerGlobals, d.Globals},
	} {
		b.WriteString("\n")
		b.WriteString(sec.banner)
		b.WriteString("\n\n")
		b.WriteString(sec.body)
		b.WriteString("\n")
	}
	return b.String()
}

// Generate renders the whole document for b.
//
// Commands, events and statics are rendered concurrently; each keeps its own
// declared order, so the output is byte-identical across runs. The first
// error cancels the run and no document is returned.
func Generate(ctx context.Context, b *ir.Bindings, r TypeRenderer, opts Options) (string, error) {
	if err := opts.Naming.Validate(); err != nil {
		return "", err
	}

	doc := Document{
		Header:       opts.Header,
		Declarations: b.Declarations,
		Globals:      b.Globals,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := RenderCommands(b.Commands, r, opts)
		doc.Commands = out
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := RenderEvents(b.Events, r, opts)
		doc.Events = out
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := RenderStatics(b.Statics)
		doc.Statics = out
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	slog.Debug("document assembled",
		"commands", len(b.Commands),
		"events", len(b.Events),
		"statics", len(b.Statics))

	return AssembleDocument(doc), nil
}
