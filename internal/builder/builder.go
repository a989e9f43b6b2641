package builder

import (
	"errors"

	"github.com/specialistvlad/modulegrid/internal/module"
)

// ErrIncompatibleVersion is returned when a manifest was written for a
// framework release the registry cannot serve.
var ErrIncompatibleVersion = errors.New("incompatible framework version")

// Pipeline is the set of modules a manifest asked for, in declaration order.
type Pipeline struct {
	Modules []module.Module
}

// Module returns the instance with the given name.
func (p *Pipeline) Module(instanceName string) (module.Module, bool) {
	for _, m := range p.Modules {
		if m.Name() == instanceName {
			return m, true
		}
	}
	return nil, false
}

// Names returns the instance names in declaration order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.Modules))
	for i, m := range p.Modules {
		names[i] = m.Name()
	}
	return names
}
