package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/bindgen/internal/codegen"
	"github.com/roach88/bindgen/internal/compiler"
	"github.com/roach88/bindgen/internal/config"
	"github.com/roach88/bindgen/internal/glue"
	"github.com/roach88/bindgen/internal/ir"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Check bool // fail instead of writing when the output is stale
}

// GenerateResult summarizes one generation run.
type GenerateResult struct {
	Output       string `json:"output,omitempty"`
	IRVersion    string `json:"ir_version"`
	Fingerprint  string `json:"fingerprint"`
	DocumentHash string `json:"document_hash"`
	Commands     int    `json:"commands"`
	Events       int    `json:"events"`
	Statics      int    `json:"statics"`
	Written      bool   `json:"written"`
	Document     string `json:"document,omitempty"` // set when no output file is configured
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <spec>",
		Short: "Generate TypeScript bindings from a description",
		Long: `Generate a TypeScript bindings module from a CUE directory, a .cue file,
or a YAML/JSON description.

Settings come from bindgen.yaml (or --config), BINDGEN_* environment
variables, and flags, in increasing order of precedence. The output file
is left untouched when its content would not change.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringP("output", "o", "", "output file path (default: stdout)")
	cmd.Flags().String("namespace", "", "plugin namespace applied to command and event wire names")
	cmd.Flags().String("header", codegen.DefaultHeader, "text written before the generated-file notice")
	cmd.Flags().String("command-rule", "", "wire name template for commands, e.g. plugin:{namespace}|{name}")
	cmd.Flags().String("event-rule", "", "wire name template for events, e.g. plugin:{namespace}:{name}")
	cmd.Flags().Bool("errors-as-any", false, "annotate caught command errors with `as any`")
	cmd.Flags().String("globals-file", "", "file replacing the built-in runtime glue")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "exit non-zero if the output file is out of date instead of writing it")

	return cmd
}

func runGenerate(opts *GenerateOptions, specPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting output
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(config.LoadOptions{File: opts.ConfigFile, Flags: cmd.Flags()})
	if err != nil {
		return outputWrappedError(formatter, ErrCodeConfig, "loading config", err)
	}

	loadResult, err := LoadSpec(specPath)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	b := loadResult.Bindings

	formatter.VerboseLog("Loaded %s spec from %s (%d file(s))", loadResult.Source, specPath, loadResult.FileCount)

	if validationErrs := compiler.Validate(b); len(validationErrs) > 0 {
		return outputValidationErrors(formatter, validationErrs)
	}

	globals, err := glue.Resolve(b.Globals, cfg.GlobalsFile)
	if err != nil {
		return outputWrappedError(formatter, ErrCodeConfig, "resolving globals", err)
	}
	if missing := glue.Missing(globals); len(missing) > 0 {
		slog.Warn("globals block does not declare identifiers used by generated code", "missing", missing)
	}

	fingerprint, err := b.Fingerprint()
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}
	slog.Debug("bindings loaded",
		"fingerprint", fingerprint,
		"commands", len(b.Commands),
		"events", len(b.Events),
		"statics", len(b.Statics),
		"types", len(b.TypeRefs()))

	run := *b
	run.Globals = globals

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	doc, err := codegen.Generate(ctx, &run, codegen.MapRenderer(b.Types), cfg.Options())
	if err != nil {
		if codegen.IsUnknownType(err) {
			return outputCommandError(formatter, ErrCodeInvalidTypes, err.Error())
		}
		return outputCommandError(formatter, ErrCodeRenderFailed, err.Error())
	}

	result := &GenerateResult{
		Output:       cfg.Output,
		IRVersion:    ir.IRVersion,
		Fingerprint:  fingerprint,
		DocumentHash: ir.DocumentHash(doc),
		Commands:     len(b.Commands),
		Events:       len(b.Events),
		Statics:      len(b.Statics),
	}

	// No output file: the document is the output
	if cfg.Output == "" {
		if formatter.Format == "json" {
			result.Document = doc
			return formatter.Success(result)
		}
		_, err := fmt.Fprint(formatter.Writer, doc)
		return err
	}

	current, err := existingHash(cfg.Output)
	if err != nil {
		return outputWrappedError(formatter, ErrCodeWriteFailed, "reading output file", err)
	}

	if current != result.DocumentHash {
		if opts.Check {
			_ = formatter.Error(ErrCodeStale, fmt.Sprintf("%s is out of date", cfg.Output), nil)
			return NewExitError(ExitFailure, fmt.Sprintf("%s is out of date", cfg.Output))
		}
		if err := writeDocument(cfg.Output, doc); err != nil {
			return outputWrappedError(formatter, ErrCodeWriteFailed, "writing output file", err)
		}
		result.Written = true
		slog.Debug("bindings written", "path", cfg.Output, "document_hash", result.DocumentHash)
	} else {
		slog.Debug("bindings unchanged", "path", cfg.Output)
	}

	return outputGenerateSuccess(formatter, result)
}

// existingHash returns the document hash of path, or "" if it does not exist.
func existingHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return ir.DocumentHash(string(data)), nil
}

func writeDocument(path, doc string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

// String renders the text summary of a run that targeted a file.
func (r *GenerateResult) String() string {
	status := r.Output + " is up to date"
	if r.Written {
		status = "Wrote bindings to " + r.Output
	}
	return fmt.Sprintf("✓ Generated %d command(s), %d event(s), %d static(s)\n%s",
		r.Commands, r.Events, r.Statics, status)
}

// outputGenerateSuccess outputs a summary of a run that targeted a file.
func outputGenerateSuccess(formatter *OutputFormatter, result *GenerateResult) error {
	return formatter.Success(result)
}

// outputLoadError reports a LoadSpec failure.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		msg := loadErr.Message
		switch {
		case loadErr.Pos.IsValid():
			msg = fmt.Sprintf("%s:%d:%d: %s", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column(), msg)
		case loadErr.Line > 0:
			msg = fmt.Sprintf("line %d: %s", loadErr.Line, msg)
		}
		return outputCommandError(formatter, loadErr.Code, msg)
	}
	return outputCommandError(formatter, ErrCodeGeneric, err.Error())
}

// outputWrappedError is outputCommandError for failures with an underlying
// cause; the cause stays reachable through errors.Is and errors.As.
func outputWrappedError(formatter *OutputFormatter, code, message string, err error) error {
	_ = formatter.Error(code, fmt.Sprintf("%s: %v", message, err), nil)
	return WrapExitError(ExitCommandError, code+": "+message, err)
}

// outputCommandError outputs a single command-level error.
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Load, config and render failures are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
