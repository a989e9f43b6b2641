package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/modulegrid/internal/testutil"
	"github.com/specialistvlad/modulegrid/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	err := Execute(context.Background(), out, args)
	return out.String(), err
}

func requireExitCode(t *testing.T, err error, code int) *ExitError {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %T: %v", err, err)
	assert.Equal(t, code, exitErr.Code)
	return exitErr
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version.Current().String()+"\n", out)
}

func TestCheckVersionCommand(t *testing.T) {
	release := version.Current()

	t.Run("compatible", func(t *testing.T) {
		out, err := execute(t, "check-version", release.String())
		require.NoError(t, err)
		assert.Contains(t, out, "is compatible with release "+release.String())
	})

	t.Run("incompatible", func(t *testing.T) {
		next := version.New(release.Major, release.Minor+1, 0)
		_, err := execute(t, "check-version", next.String())
		exitErr := requireExitCode(t, err, 1)
		assert.Contains(t, exitErr.Message, "is not compatible")
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := execute(t, "check-version", "22.11")
		requireExitCode(t, err, 2)
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := execute(t, "check-version")
		requireExitCode(t, err, 2)
	})
}

func TestModulesCommand(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		out, err := execute(t, "modules")
		require.NoError(t, err)
		assert.Contains(t, out, "NAMESPACE")
		assert.Regexp(t, `unittest\s+SimpleModule\s+`+version.Current().String(), out)
		assert.Regexp(t, `default\s+-\s+-`, out)
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "modules", "--output", "json")
		require.NoError(t, err)

		var inv []namespaceInfo
		require.NoError(t, json.Unmarshal([]byte(out), &inv))
		require.Len(t, inv, 2)
		assert.Equal(t, "default", inv[0].Namespace)
		assert.Empty(t, inv[0].Modules)
		assert.Equal(t, "unittest", inv[1].Namespace)
		assert.Len(t, inv[1].Modules, 3)
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := execute(t, "modules", "-o", "yaml")
		require.NoError(t, err)

		var inv []namespaceInfo
		require.NoError(t, yaml.Unmarshal([]byte(out), &inv))
		require.Len(t, inv, 2)
		assert.Equal(t, moduleInfo{Name: "SimpleModule", Version: version.Current().String()}, inv[1].Modules[0])
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := execute(t, "modules", "-o", "xml")
		requireExitCode(t, err, 2)
	})
}

func TestRunCommand(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"main.hcl": `
module "pass" {
  type      = "SimpleModule"
  namespace = "unittest"
}
`,
	})

	t.Run("positional path", func(t *testing.T) {
		out, err := execute(t, "run", "--log-level", "error", dir)
		require.NoError(t, err)
		assert.Regexp(t, `(?m)^pass\t`, out)
	})

	t.Run("flag path", func(t *testing.T) {
		out, err := execute(t, "run", "--log-level", "error", "-m", filepath.Join(dir, "main.hcl"))
		require.NoError(t, err)
		assert.Regexp(t, `(?m)^pass\t`, out)
	})

	t.Run("env path", func(t *testing.T) {
		t.Setenv("MODULEGRID_MANIFEST", dir)
		t.Setenv("MODULEGRID_LOG_LEVEL", "error")
		out, err := execute(t, "run")
		require.NoError(t, err)
		assert.Regexp(t, `(?m)^pass\t`, out)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := execute(t, "run")
		requireExitCode(t, err, 2)
	})

	t.Run("build failure is not a usage error", func(t *testing.T) {
		bad := testutil.WriteFiles(t, map[string]string{
			"main.hcl": `
module "ghost" {
  type = "Ghost"
}
`,
		})
		_, err := execute(t, "run", bad)
		require.Error(t, err)
		var exitErr *ExitError
		assert.False(t, errors.As(err, &exitErr))
		assert.Contains(t, err.Error(), "pipeline validation failed")
	})
}

func TestConfigSources(t *testing.T) {
	t.Run("invalid flag value", func(t *testing.T) {
		_, err := execute(t, "version", "--log-level", "loud")
		// version does not read the app config.
		require.NoError(t, err)

		_, err = execute(t, "modules", "--log-level", "loud")
		requireExitCode(t, err, 2)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := execute(t, "modules", "--this-is-not-a-valid-flag")
		exitErr := requireExitCode(t, err, 2)
		assert.Contains(t, exitErr.Message, "unknown flag")
	})

	t.Run("unknown command", func(t *testing.T) {
		_, err := execute(t, "frobnicate")
		requireExitCode(t, err, 2)
	})

	t.Run("unknown command message", func(t *testing.T) {
		_, err := execute(t, "frobnicate")
		exitErr := requireExitCode(t, err, 2)
		assert.Contains(t, exitErr.Message, "frobnicate")
	})

	t.Run("no command prints help", func(t *testing.T) {
		out, err := execute(t)
		require.NoError(t, err)
		assert.Contains(t, out, "Available Commands")
	})

	t.Run("too many arguments", func(t *testing.T) {
		for _, args := range [][]string{
			{"run", "a.hcl", "b.hcl"},
			{"modules", "extra"},
			{"check-version", "1.0.0", "2.0.0"},
			{"version", "extra"},
		} {
			_, err := execute(t, args...)
			requireExitCode(t, err, 2)
		}
	})

	t.Run("config file", func(t *testing.T) {
		dir := testutil.WriteFiles(t, map[string]string{"modulegrid.yaml": "log_format: xml\n"})
		_, err := execute(t, "modules", "--config", filepath.Join(dir, "modulegrid.yaml"))
		exitErr := requireExitCode(t, err, 2)
		assert.Contains(t, exitErr.Message, "log format")
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := execute(t, "modules", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
		requireExitCode(t, err, 2)
	})
}
