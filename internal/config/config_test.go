package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bindgen/internal/codegen"
	"github.com/roach88/bindgen/internal/naming"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(LoadOptions{SearchDir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, codegen.DefaultHeader, c.Header)
	assert.Empty(t, c.Namespace)
	assert.Equal(t, string(naming.DefaultCommandRule), c.CommandRule)
	assert.Equal(t, string(naming.DefaultEventRule), c.EventRule)
	assert.False(t, c.ErrorsAsAny)
}

func TestLoadSearchDirYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bindgen.yaml"), []byte(`
namespace: store
errors_as_any: true
output: bindings.ts
`), 0644))

	c, err := Load(LoadOptions{SearchDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "store", c.Namespace)
	assert.True(t, c.ErrorsAsAny)
	assert.Equal(t, "bindings.ts", c.Output)

	p := c.Policy()
	assert.Equal(t, "plugin:store|greet", naming.ToWireName("greet", naming.KindCommand, p))
}

func TestLoadExplicitTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
header = "// custom header\n"
event_rule = "{namespace}/{name}"
namespace = "x"
`), 0644))

	c, err := Load(LoadOptions{File: path})
	require.NoError(t, err)
	assert.Equal(t, "// custom header\n", c.Header)
	assert.Equal(t, "x/ready", naming.ToWireName("ready", naming.KindEvent, c.Policy()))
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(LoadOptions{File: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bindgen.yaml"), []byte("namespace: file\n"), 0644))
	t.Setenv("BINDGEN_NAMESPACE", "env")

	c, err := Load(LoadOptions{SearchDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "env", c.Namespace)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("BINDGEN_NAMESPACE", "env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("namespace", "", "")
	flags.Bool("errors-as-any", false, "")
	require.NoError(t, flags.Parse([]string{"--namespace", "flag"}))

	c, err := Load(LoadOptions{SearchDir: t.TempDir(), Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, "flag", c.Namespace)
	// Unchanged flags do not shadow defaults
	assert.False(t, c.ErrorsAsAny)
	assert.Equal(t, codegen.DefaultHeader, c.Header)
}

func TestConfigOptions(t *testing.T) {
	c := Config{Header: "// h\n", Namespace: "ns", ErrorsAsAny: true}
	opts := c.Options()
	assert.Equal(t, "// h\n", opts.Header)
	assert.True(t, opts.ErrorsAsAny)
	assert.Equal(t, "ns", opts.Naming.Namespace)
	// Empty rules fall back to the defaults
	assert.Equal(t, naming.DefaultCommandRule, opts.Naming.RuleFor(naming.KindCommand))
}
