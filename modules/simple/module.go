// Package simple provides SimpleModule, a pass-through transform.
package simple

import (
	"context"

	"github.com/specialistvlad/modulegrid/internal/module"
	"github.com/specialistvlad/modulegrid/internal/registry"
	"github.com/specialistvlad/modulegrid/internal/version"
	"github.com/specialistvlad/modulegrid/modules"
	"github.com/zclconf/go-cty/cty"
)

// Name is the registered module name.
const Name = "SimpleModule"

// Module implements the registry.Provider interface for this package.
type Module struct{}

// Simple forwards every value unchanged. The optional "label" config key is
// kept for diagnostics.
type Simple struct {
	module.Base
	Label string
}

// New is the SimpleModule factory.
func New(_ context.Context, instanceName string, cfg module.Config) (module.Module, error) {
	label, err := cfg.String("label", instanceName)
	if err != nil {
		return nil, err
	}
	return &Simple{Base: module.NewBase(instanceName, cfg), Label: label}, nil
}

// Process returns v unchanged.
func (s *Simple) Process(v cty.Value) cty.Value {
	return v
}

// Register registers the factory with the registry.
func (m *Module) Register(r *registry.Registry) error {
	return r.RegisterModule(Name, modules.Namespace, version.Current(), New, false)
}
