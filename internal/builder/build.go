package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/modulegrid/internal/binding"
	"github.com/specialistvlad/modulegrid/internal/ctxlog"
	"github.com/specialistvlad/modulegrid/internal/manifest"
	"github.com/specialistvlad/modulegrid/internal/module"
	"github.com/specialistvlad/modulegrid/internal/registry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/specialistvlad/modulegrid/internal/builder")

// Build applies m to reg and returns the instantiated pipeline.
func Build(ctx context.Context, reg *registry.Registry, m *manifest.Manifest) (_ *Pipeline, err error) {
	ctx, span := tracer.Start(ctx, "builder.Build")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	logger := ctxlog.FromContext(ctx)

	if m.HasFrameworkVersion() {
		ok, err := binding.IsVersionCompatible(reg, m.FrameworkVersion)
		if err != nil {
			return nil, fmt.Errorf("%s: framework_version: %w", m.FrameworkVersionRange, err)
		}
		if !ok {
			components, _ := binding.VersionComponents(m.FrameworkVersion)
			return nil, fmt.Errorf("%w: manifest targets %v, registry release is %s",
				ErrIncompatibleVersion, components, reg.ReleaseVersion())
		}
		logger.Debug("Framework version is compatible.", "release", reg.ReleaseVersion().String())
	} else {
		logger.Warn("Manifest does not declare framework_version; skipping compatibility check.")
	}

	plan, err := planRetirements(reg, m)
	if err != nil {
		return nil, err
	}
	if err := validateModules(reg, m, plan); err != nil {
		return nil, err
	}

	pipeline := &Pipeline{Modules: make([]module.Module, 0, len(m.Modules))}
	for _, decl := range m.Modules {
		mod, err := binding.FindModule(ctx, reg, decl.Type, decl.Namespace, decl.InstanceName, decl.Config)
		if err != nil {
			return nil, fmt.Errorf("%s: module %q: %w", decl.DeclRange, decl.InstanceName, err)
		}
		pipeline.Modules = append(pipeline.Modules, mod)
		logger.Debug("Module built.", "instance", decl.InstanceName, "type", decl.Type, "id", mod.ID())
	}

	// Retire last: a manifest that fails anywhere above leaves reg as it was.
	// Modules never depend on a retired factory, validation made sure of it.
	for _, r := range plan {
		if err := reg.UnregisterModule(r.name, r.namespace, r.optional); err != nil {
			return nil, fmt.Errorf("%s: retire %q: %w", r.declRange, r.name, err)
		}
		logger.Debug("Retired module.", "name", r.name, "namespace", r.namespace)
	}

	span.SetAttributes(attribute.Int("pipeline.modules", len(pipeline.Modules)))
	logger.Info("Pipeline built.", "modules", len(pipeline.Modules))
	return pipeline, nil
}

// Validate checks m against reg without changing it: every retire block
// must name a registered module (unless optional) and every module block
// must name a module that is still registered once the retirements apply.
func Validate(reg *registry.Registry, m *manifest.Manifest) error {
	plan, err := planRetirements(reg, m)
	if err != nil {
		return err
	}
	return validateModules(reg, m, plan)
}

type moduleKey struct {
	name      string
	namespace string
}

// retirement is a retire block with its arguments resolved.
type retirement struct {
	name      string
	namespace string
	optional  bool
	declRange hcl.Range
}

// planRetirements type-checks every retire block and resolves it against
// reg, treating earlier blocks of the same manifest as already applied.
func planRetirements(reg *registry.Registry, m *manifest.Manifest) ([]retirement, error) {
	plan := make([]retirement, 0, len(m.Retirements))
	removed := make(map[moduleKey]bool)

	for _, r := range m.Retirements {
		ns, optional, err := binding.UnregisterArgs(r.Args()...)
		if err != nil {
			return nil, fmt.Errorf("%s: retire %q: %w", r.DeclRange, r.Name, err)
		}

		k := moduleKey{name: r.Name, namespace: ns}
		if removed[k] || !reg.Contains(r.Name, ns) {
			if optional {
				continue
			}
			return nil, fmt.Errorf("%s: retire %q: %w", r.DeclRange, r.Name,
				&registry.Error{Op: "unregister", Name: r.Name, Namespace: ns, Err: registry.ErrNotFound})
		}
		removed[k] = true
		plan = append(plan, retirement{name: r.Name, namespace: ns, optional: optional, declRange: r.DeclRange})
	}
	return plan, nil
}

func validateModules(reg *registry.Registry, m *manifest.Manifest, plan []retirement) error {
	retired := make(map[moduleKey]bool, len(plan))
	for _, r := range plan {
		retired[moduleKey{name: r.name, namespace: r.namespace}] = true
	}

	var errs []string
	for _, decl := range m.Modules {
		ns, err := binding.Namespace(decl.Namespace)
		if err != nil {
			errs = append(errs, fmt.Sprintf("module '%s': %v", decl.InstanceName, err))
			continue
		}
		if !reg.ContainsNamespace(ns) {
			errs = append(errs, fmt.Sprintf("module '%s': namespace '%s' does not exist", decl.InstanceName, ns))
			continue
		}
		if retired[moduleKey{name: decl.Type, namespace: ns}] {
			errs = append(errs, fmt.Sprintf("module '%s': module '%s' in namespace '%s' is retired by this manifest", decl.InstanceName, decl.Type, ns))
			continue
		}
		if !reg.Contains(decl.Type, ns) {
			errs = append(errs, fmt.Sprintf("module '%s': no module '%s' registered in namespace '%s'", decl.InstanceName, decl.Type, ns))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("pipeline validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
