package integration_tests

import (
	"testing"

	"github.com/specialistvlad/modulegrid/internal/builder"
	"github.com/specialistvlad/modulegrid/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test for: invalid hcl is rejected
func TestErrorHandling_InvalidHCL_IsRejected(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	invalidHCL := `
		module "reader" {
			type = "SourceModule"
		// Missing closing brace here
	`

	// --- Act ---
	result := runIntegrationTest(t, map[string]string{"main.hcl": invalidHCL})

	// --- Assert ---
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "failed to parse manifest")
}

// Test for: every unknown module is reported, not just the first one
func TestErrorHandling_UnknownModules_AreAllReported(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	gridHCL := `
		module "a" {
			type      = "SourceModule"
			namespace = "unittest"
		}
		module "b" {
			type      = "SourceModule"
			namespace = "elsewhere"
		}
		module "c" {
			type = "SourceModule"
		}
	`

	// --- Act ---
	result := runIntegrationTest(t, map[string]string{"main.hcl": gridHCL})

	// --- Assert ---
	require.Error(t, result.Err)
	assert.Nil(t, result.Pipeline)
	assert.Contains(t, result.Err.Error(), "module 'b': namespace 'elsewhere' does not exist")
	assert.Contains(t, result.Err.Error(), "module 'c': no module 'SourceModule' registered in namespace 'default'")
	assert.NotContains(t, result.Err.Error(), "module 'a'")
}

// Test for: a manifest for a newer release is rejected before anything is built
func TestErrorHandling_NewerFrameworkVersion_IsRejected(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	gridHCL := `
		framework_version = [22, 11, 99]

		module "a" {
			type      = "SourceModule"
			namespace = "unittest"
		}
	`

	// --- Act ---
	result := runIntegrationTest(t, map[string]string{"main.hcl": gridHCL})

	// --- Assert ---
	assert.ErrorIs(t, result.Err, builder.ErrIncompatibleVersion)
	assert.NotContains(t, result.LogOutput, "Module instantiated.")
}

// Test for: a wrong-typed retire namespace fails as an invalid argument
func TestErrorHandling_RetireWithBoolNamespace_IsInvalid(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	gridHCL := `
		retire "SimpleModule" {
			namespace = false
		}
	`

	// --- Act ---
	result := runIntegrationTest(t, map[string]string{"main.hcl": gridHCL})

	// --- Assert ---
	assert.ErrorIs(t, result.Err, registry.ErrInvalidArgument)
	assert.NotErrorIs(t, result.Err, registry.ErrNotFound)
	assert.True(t, result.App.Registry().Contains("SimpleModule", "unittest"))
}

// Test for: a provider that cannot register stops startup
func TestErrorHandling_ConflictingProviders_PanicAtStartup(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	first := &staticProvider{name: "Dup"}
	second := &staticProvider{name: "Dup"}

	// --- Act ---
	result := runIntegrationTest(t, map[string]string{"main.hcl": ""}, first, second)

	// --- Assert ---
	require.Error(t, result.Err)
	assert.Nil(t, result.App)
	assert.Contains(t, result.Err.Error(), "application startup panicked")
	assert.Contains(t, result.Err.Error(), "already registered")
}
