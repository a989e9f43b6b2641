package testutil

import (
	"github.com/specialistvlad/modulegrid/internal/module"
	"github.com/specialistvlad/modulegrid/internal/registry"
)

// NoOpProvider registers a single "NoOp" module in the default namespace. It
// is useful for tests that need a registry with something in it but do not
// care what the module does.
type NoOpProvider struct{}

// Register implements the registry.Provider interface.
func (NoOpProvider) Register(r *registry.Registry) error {
	return r.RegisterModule("NoOp", registry.DefaultNamespace, ReleaseVersion, module.BaseFactory(), false)
}
