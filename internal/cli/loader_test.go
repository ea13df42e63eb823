package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSpecSources(t *testing.T) {
	tests := []struct {
		path      string
		source    string
		fileCount int
	}{
		{filepath.Join("testdata", "basic"), SourceCUE, 1},
		{filepath.Join("testdata", "basic", "bindings.cue"), SourceCUE, 1},
		{filepath.Join("testdata", "basic.yaml"), SourceYAML, 1},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res, err := LoadSpec(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.source, res.Source)
			assert.Equal(t, tt.fileCount, res.FileCount)
			assert.Len(t, res.Bindings.Commands, 3)
		})
	}
}

func TestLoadSpecCUECompileErrorHasPosition(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bindings.cue"), []byte(`package bindings

command: bad: {
	result: {value: "a", err: "b"}
}
`), 0644))

	_, err := LoadSpec(dir)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeInvalidCommand, loadErr.Code)
	assert.True(t, loadErr.Pos.IsValid())
	assert.Equal(t, 4, loadErr.Pos.Line())
}

func TestLoadSpecCUESyntaxError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bindings.cue"), []byte("package bindings\n\ncommand: {\n"), 0644))

	_, err := LoadSpec(dir)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeLoadFailed, loadErr.Code)
}

func TestMapFieldToErrorCode(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"command.greet.result", ErrCodeInvalidCommand},
		{"event.ready.payload", ErrCodeInvalidEvent},
		{"static.MAX", ErrCodeInvalidStatic},
		{"types.User", ErrCodeInvalidTypes},
		{"declarations", ErrCodeInvalidText},
		{"yaml", ErrCodeLoadFailed},
		{"deprecated", ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, MapFieldToErrorCode(tt.field))
		})
	}
}
