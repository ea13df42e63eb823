package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/bindgen/internal/compiler"
	"github.com/roach88/bindgen/internal/ir"
)

// Source formats accepted by LoadSpec.
const (
	SourceCUE  = "cue"
	SourceYAML = "yaml"
)

// LoadResult contains a loaded description.
type LoadResult struct {
	Bindings  *ir.Bindings
	Source    string // SourceCUE or SourceYAML
	FileCount int    // Number of files read
}

// LoadError represents an error that occurred during spec loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
	Line    int       // YAML line if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSpec loads a binding description from path.
//
// A directory or .cue file is loaded as a CUE instance; .yaml, .yml and
// .json files go through the YAML compiler.
func LoadSpec(path string) (*LoadResult, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("spec not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing spec: %v", err)}
	}

	if info.IsDir() {
		cueFiles, err := FindCUEFiles(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
		}
		if len(cueFiles) == 0 {
			return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", path)}
		}
		return loadCUE(path, ".", len(cueFiles))
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return loadCUE(filepath.Dir(path), filepath.Base(path), 1)
	case ".yaml", ".yml", ".json":
		return loadYAML(path)
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported spec format %q (want a directory, .cue, .yaml, .yml or .json)", filepath.Ext(path)),
		}
	}
}

func loadCUE(dir, arg string, fileCount int) (*LoadResult, error) {
	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{arg}, cfg)
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	// Check for load errors
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	// Build value from instance
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	b, err := compiler.CompileBindings(value)
	if err != nil {
		return nil, convertCompileError(err, "spec")
	}

	return &LoadResult{Bindings: b, Source: SourceCUE, FileCount: fileCount}, nil
}

func loadYAML(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading spec: %v", err)}
	}

	b, err := compiler.CompileYAML(data)
	if err != nil {
		return nil, convertCompileError(err, path)
	}

	return &LoadResult{Bindings: b, Source: SourceYAML, FileCount: 1}, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		msg := compileErr.Message
		if compileErr.Field != "" && compileErr.Field != "cue" {
			msg = compileErr.Field + ": " + msg
		}
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: msg,
			Pos:     compileErr.Pos,
			Line:    compileErr.Line,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeScanError    = "E002" // Directory scan error
	ErrCodeNoFiles      = "E003" // No CUE files found
	ErrCodeLoadFailed   = "E004" // CUE or YAML load failed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeBuildFailed  = "E006" // CUE build failed
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeUnsupported  = "E008" // Unsupported spec format
	ErrCodeConfig       = "E009" // Configuration error
	ErrCodeRenderFailed = "E010" // Code generation failed
	ErrCodeStale        = "E011" // Output out of date (--check)

	// Descriptor compile errors
	ErrCodeInvalidCommand = "E120" // Malformed command
	ErrCodeInvalidEvent   = "E121" // Malformed event
	ErrCodeInvalidStatic  = "E122" // Malformed static
	ErrCodeInvalidTypes   = "E123" // Malformed type map
	ErrCodeInvalidText    = "E124" // Malformed declarations/globals
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	root, _, _ := strings.Cut(field, ".")
	switch root {
	case "command":
		return ErrCodeInvalidCommand
	case "event":
		return ErrCodeInvalidEvent
	case "static":
		return ErrCodeInvalidStatic
	case "types":
		return ErrCodeInvalidTypes
	case "declarations", "globals":
		return ErrCodeInvalidText
	case "yaml", "cue":
		return ErrCodeLoadFailed
	default:
		return ErrCodeGeneric
	}
}
