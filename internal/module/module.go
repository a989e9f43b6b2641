package module

import (
	"context"

	"github.com/google/uuid"
)

// Module is an instantiated component handed to the pipeline engine. Once
// built it is owned by the caller; the registry keeps no reference to it.
type Module interface {
	// Name is the instance name used for diagnostics and wiring.
	Name() string
	// ID uniquely identifies this instance within the process.
	ID() string
	// Config returns a copy of the configuration the module was built with.
	Config() Config
}

// Factory builds a Module from an instance name and a configuration. It is
// called synchronously on the caller's goroutine.
type Factory func(ctx context.Context, instanceName string, cfg Config) (Module, error)

// Base implements Module and is meant to be embedded by concrete modules.
type Base struct {
	name   string
	id     string
	config Config
}

// NewBase copies cfg and assigns a fresh instance ID.
func NewBase(instanceName string, cfg Config) Base {
	return Base{
		name:   instanceName,
		id:     uuid.NewString(),
		config: cfg.Clone(),
	}
}

func (b *Base) Name() string { return b.name }

func (b *Base) ID() string { return b.id }

func (b *Base) Config() Config { return b.config.Clone() }

// Generic is the module produced by BaseFactory: it carries its
// configuration and nothing else.
type Generic struct {
	Base
}

// BaseFactory returns a factory that builds Generic modules.
func BaseFactory() Factory {
	return func(_ context.Context, instanceName string, cfg Config) (Module, error) {
		return &Generic{Base: NewBase(instanceName, cfg)}, nil
	}
}
