package testutil

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/modulegrid/internal/registry"
	"github.com/specialistvlad/modulegrid/internal/version"
	"github.com/stretchr/testify/require"
)

// ReleaseVersion is the release every test registry is pinned to.
var ReleaseVersion = version.New(22, 11, 0)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// NewLogger returns a debug-level text logger writing into a SafeBuffer. With
// MODULEGRID_TEST_LOGS=true the captured output is dumped when the test ends.
func NewLogger(t *testing.T) (*slog.Logger, *SafeBuffer) {
	t.Helper()

	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	t.Cleanup(func() {
		if os.Getenv("MODULEGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
	return logger, buf
}

// NewRegistry creates a registry pinned to ReleaseVersion and registers the
// given providers, failing the test if any of them cannot register.
func NewRegistry(t *testing.T, providers ...registry.Provider) *registry.Registry {
	t.Helper()

	logger, _ := NewLogger(t)
	reg := registry.New(
		registry.WithReleaseVersion(ReleaseVersion),
		registry.WithLogger(logger),
	)
	require.NoError(t, reg.RegisterProviders(providers...))
	return reg
}

// WriteFiles writes files (relative path -> content) under a fresh temporary
// directory and returns that directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}
