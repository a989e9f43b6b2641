package testutil

import (
	"github.com/specialistvlad/modulegrid/internal/module"
	"github.com/specialistvlad/modulegrid/internal/registry"
	"github.com/specialistvlad/modulegrid/internal/version"
)

// StaticProvider is a test helper for registering a single factory. A nil
// Factory registers module.BaseFactory; a zero Version uses ReleaseVersion.
type StaticProvider struct {
	Name      string
	Namespace string
	Version   version.Version
	Factory   module.Factory
	Overwrite bool
}

// Register implements the registry.Provider interface.
func (p *StaticProvider) Register(r *registry.Registry) error {
	build := p.Factory
	if build == nil {
		build = module.BaseFactory()
	}
	v := p.Version
	if v == (version.Version{}) {
		v = ReleaseVersion
	}
	return r.RegisterModule(p.Name, p.Namespace, v, build, p.Overwrite)
}
