package registry

import (
	"fmt"

	"github.com/specialistvlad/modulegrid/internal/module"
	"github.com/specialistvlad/modulegrid/internal/version"
)

// RegisterModule installs build under (name, namespace). An empty namespace
// means DefaultNamespace. If the key is taken, ErrAlreadyRegistered is
// returned unless overwrite is set, in which case the old factory is
// replaced.
func (r *Registry) RegisterModule(name, namespace string, v version.Version, build module.Factory, overwrite bool) error {
	namespace = normalize(namespace)
	if name == "" {
		return &Error{Op: "register", Name: name, Namespace: namespace, Err: fmt.Errorf("%w: module name is required", ErrInvalidArgument)}
	}
	if build == nil {
		return &Error{Op: "register", Name: name, Namespace: namespace, Err: fmt.Errorf("%w: factory is required", ErrInvalidArgument)}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{name: name, namespace: namespace}
	_, exists := r.factories[k]
	if exists && !overwrite {
		r.metrics.registrations.WithLabelValues(namespace, resultConflict).Inc()
		return &Error{Op: "register", Name: name, Namespace: namespace, Err: ErrAlreadyRegistered}
	}

	r.factories[k] = &Factory{
		Name:      name,
		Namespace: namespace,
		Version:   v,
		Build:     build,
	}
	r.namespaces.add(namespace, name)

	if exists {
		r.metrics.registrations.WithLabelValues(namespace, resultReplaced).Inc()
		r.logger.Debug("Replaced module factory.", "name", name, "namespace", namespace, "version", v.String())
	} else {
		r.metrics.registrations.WithLabelValues(namespace, resultOK).Inc()
		r.metrics.factories.Inc()
		r.logger.Debug("Registered module factory.", "name", name, "namespace", namespace, "version", v.String())
	}
	return nil
}

// MustRegisterModule is like RegisterModule but panics on error. It is meant
// for built-in modules registered at startup, where a failure is a
// programming error.
func (r *Registry) MustRegisterModule(name, namespace string, v version.Version, build module.Factory) {
	if err := r.RegisterModule(name, namespace, v, build, false); err != nil {
		panic(err)
	}
}

// RegisterProviders calls Register on each provider in order and stops at the
// first failure.
func (r *Registry) RegisterProviders(providers ...Provider) error {
	for _, p := range providers {
		if err := p.Register(r); err != nil {
			return fmt.Errorf("provider %T: %w", p, err)
		}
	}
	return nil
}
