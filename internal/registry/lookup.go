package registry

import (
	"context"
	"fmt"

	"github.com/specialistvlad/modulegrid/internal/ctxlog"
	"github.com/specialistvlad/modulegrid/internal/module"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ContainsNamespace reports whether namespace is DefaultNamespace or has ever
// received a registration.
func (r *Registry) ContainsNamespace(namespace string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namespaces.has(normalize(namespace))
}

// Contains reports whether a factory is registered under exactly
// (name, namespace). An empty namespace checks DefaultNamespace only.
func (r *Registry) Contains(name, namespace string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[key{name: name, namespace: normalize(namespace)}]
	return ok
}

// Factory returns a copy of the factory registered under (name, namespace).
func (r *Registry) Factory(name, namespace string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[key{name: name, namespace: normalize(namespace)}]
	if !ok {
		return Factory{}, false
	}
	return *f, true
}

// RegisteredModules returns namespace -> sorted module names. Namespaces
// whose modules have all been removed are included with an empty list.
func (r *Registry) RegisteredModules() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namespaces.snapshot()
}

// FindModule builds a module from the factory registered under exactly
// (name, namespace). There is no fallback to other namespaces. The factory
// receives its own copy of cfg and runs on the caller's goroutine, outside
// the registry lock.
func (r *Registry) FindModule(ctx context.Context, name, namespace, instanceName string, cfg module.Config) (module.Module, error) {
	namespace = normalize(namespace)
	ctx, span := r.tracer.Start(ctx, "registry.FindModule", trace.WithAttributes(
		attribute.String("module.name", name),
		attribute.String("module.namespace", namespace),
		attribute.String("module.instance", instanceName),
	))
	defer span.End()
	logger := ctxlog.FromContextOr(ctx, r.logger)

	r.mu.RLock()
	f, ok := r.factories[key{name: name, namespace: namespace}]
	r.mu.RUnlock()

	if !ok {
		r.metrics.lookups.WithLabelValues(namespace, resultNotFound).Inc()
		err := &Error{Op: "find", Name: name, Namespace: namespace, Err: ErrNotFound}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	mod, err := f.Build(ctx, instanceName, cfg.Clone())
	if err != nil {
		r.metrics.lookups.WithLabelValues(namespace, resultError).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Debug("Module factory failed.", "name", name, "namespace", namespace, "instance", instanceName, "error", err)
		return nil, &Error{Op: "build", Name: name, Namespace: namespace, Err: err}
	}
	if mod == nil {
		r.metrics.lookups.WithLabelValues(namespace, resultError).Inc()
		err := &Error{Op: "build", Name: name, Namespace: namespace, Err: fmt.Errorf("factory returned no module for instance %q", instanceName)}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	r.metrics.lookups.WithLabelValues(namespace, resultOK).Inc()
	span.SetAttributes(attribute.String("module.id", mod.ID()))
	logger.Debug("Module instantiated.", "name", name, "namespace", namespace, "instance", instanceName, "id", mod.ID())
	return mod, nil
}
