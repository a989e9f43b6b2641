package integration_tests

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/specialistvlad/modulegrid/internal/app"
	"github.com/specialistvlad/modulegrid/internal/builder"
	"github.com/specialistvlad/modulegrid/internal/registry"
	"github.com/specialistvlad/modulegrid/internal/testutil"
	"github.com/stretchr/testify/require"
)

// harnessResult holds the outcome of one integration run.
type harnessResult struct {
	App       *app.App
	Pipeline  *builder.Pipeline
	Err       error
	LogOutput string
}

// runIntegrationTest writes files into a temporary directory, starts an app
// with providers (the core modules when none are given) and builds the
// manifest found there. Startup panics are returned as Err.
func runIntegrationTest(t *testing.T, files map[string]string, providers ...registry.Provider) *harnessResult {
	t.Helper()

	dir := testutil.WriteFiles(t, files)
	cfg, err := app.NewConfig(app.Config{ManifestPath: dir, LogLevel: "debug", LogFormat: "text"})
	require.NoError(t, err)

	logBuffer := &testutil.SafeBuffer{}
	result := &harnessResult{}

	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("application startup panicked: %v", r)
			}
		}()
		result.App = app.NewApp(logBuffer, cfg, providers...)
	}()

	if result.App != nil {
		t.Cleanup(func() { _ = result.App.Close() })
		result.Pipeline, result.Err = result.App.Build(context.Background())
	}
	result.LogOutput = logBuffer.String()

	t.Cleanup(func() {
		if os.Getenv("MODULEGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.LogOutput)
		}
	})
	return result
}
