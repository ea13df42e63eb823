package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bindgen/internal/compiler"
	"github.com/roach88/bindgen/internal/naming"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Commands int                        `json:"commands"`
	Events   int                        `json:"events"`
	Statics  int                        `json:"statics"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <spec>",
		Short: "Validate a description without generating code",
		Long: `Validate a CUE or YAML binding description without generating code.

Checks that every name is present and unique, that no two names collapse to
the same binding after camel-casing, that every referenced type is in the
type map, and that every result shape is consistent.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, specPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loadResult, err := LoadSpec(specPath)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	b := loadResult.Bindings

	formatter.VerboseLog("Loaded %s spec from %s (%d file(s))", loadResult.Source, specPath, loadResult.FileCount)
	for _, c := range b.Commands {
		formatter.VerboseLog("Validating command: %s -> %s", c.Name, naming.ToCallName(c.Name))
	}
	for _, ev := range b.Events {
		formatter.VerboseLog("Validating event: %s -> %s", ev.Name, naming.ToCallName(ev.Name))
	}
	formatter.VerboseLog("Referenced types: %v", b.TypeRefs())

	if validationErrs := compiler.Validate(b); len(validationErrs) > 0 {
		return outputValidationErrors(formatter, validationErrs)
	}

	result := ValidationResult{
		Valid:    true,
		Commands: len(b.Commands),
		Events:   len(b.Events),
		Statics:  len(b.Statics),
	}
	return outputValidateSuccess(formatter, result)
}

// String renders the text summary of a successful validation.
func (r ValidationResult) String() string {
	return fmt.Sprintf("✓ Spec valid: %d command(s), %d event(s), %d static(s)",
		r.Commands, r.Events, r.Statics)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	return formatter.Success(result)
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		result := ValidationResult{
			Valid:  false,
			Errors: errs,
		}

		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
