package registry

import (
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/modulegrid/internal/module"
	"github.com/specialistvlad/modulegrid/internal/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/specialistvlad/modulegrid/internal/registry"

// Provider is implemented by packages that contribute modules. Register is
// called once while the application starts.
type Provider interface {
	Register(r *Registry) error
}

// Factory is a registered constructor together with the version of the
// component that declared it.
type Factory struct {
	Name      string
	Namespace string
	Version   version.Version
	Build     module.Factory
}

type key struct {
	name      string
	namespace string
}

// Registry holds every registered factory for a single application instance.
// All methods are safe for concurrent use; a single RWMutex guards the whole
// registry.
type Registry struct {
	mu         sync.RWMutex
	release    version.Version
	namespaces *namespaceTable
	factories  map[key]*Factory

	logger  *slog.Logger
	metrics *metrics
	tracer  trace.Tracer
}

// Option configures a Registry.
type Option func(*options)

type options struct {
	release    version.Version
	logger     *slog.Logger
	registerer prometheus.Registerer
	tracer     trace.TracerProvider
}

// WithReleaseVersion overrides the framework release the registry checks
// candidates against. It defaults to version.Current().
func WithReleaseVersion(v version.Version) Option {
	return func(o *options) { o.release = v }
}

// WithLogger sets the logger used for registry events. A nil logger keeps
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsRegisterer registers the registry's collectors on reg.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithTracerProvider sets the provider used for lookup spans. A nil
// provider keeps the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracer = tp
		}
	}
}

// New creates an empty Registry. Only the default namespace exists.
func New(opts ...Option) *Registry {
	o := options{
		release: version.Current(),
		logger:  slog.Default(),
		tracer:  otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Registry{
		release:    o.release,
		namespaces: newNamespaceTable(),
		factories:  make(map[key]*Factory),
		logger:     o.logger,
		metrics:    newMetrics(o.registerer),
		tracer:     o.tracer.Tracer(tracerName),
	}
}

// normalize maps an omitted namespace to DefaultNamespace.
func normalize(namespace string) string {
	if namespace == "" {
		return DefaultNamespace
	}
	return namespace
}
