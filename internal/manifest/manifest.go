// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the in-memory form of a pipeline manifest.
//
// Why keep raw cty values?
//
// A manifest is written by people, so a namespace may come out as a bool or a
// version as a string. Rejecting those here would give a manifest author a
// different error than a program calling the registry through the binding
// layer. The manifest therefore records what was written, together with the
// source range, and leaves the verdict to binding.
package manifest

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/modulegrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Manifest is the merged content of one or more manifest files.
type Manifest struct {
	// FrameworkVersion is the release the pipeline was authored against, or
	// a null value when no file declares one.
	FrameworkVersion      cty.Value
	FrameworkVersionRange *hcl.Range

	Modules     []*ModuleBlock
	Retirements []*RetireBlock
	Files       []string
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{FrameworkVersion: cty.NullVal(cty.DynamicPseudoType)}
}

// HasFrameworkVersion reports whether any file declared framework_version.
func (m *Manifest) HasFrameworkVersion() bool {
	return !m.FrameworkVersion.IsNull()
}

// ModuleBlock asks for one module instance.
type ModuleBlock struct {
	// InstanceName is the block label, unique within the manifest.
	InstanceName string
	// Type is the registered module name.
	Type string
	// Namespace is null when omitted.
	Namespace cty.Value
	// Config is null when omitted.
	Config    cty.Value
	DeclRange hcl.Range
}

// RetireBlock asks for a factory to be unregistered.
type RetireBlock struct {
	Name      string
	Namespace cty.Value
	Optional  cty.Value
	DeclRange hcl.Range
}

// Args returns the positional arguments for binding.Unregister: nothing,
// [namespace] or [namespace, optional]. An optional flag without a namespace
// targets the default namespace.
func (r *RetireBlock) Args() []cty.Value {
	hasNS := !r.Namespace.IsNull()
	hasOpt := !r.Optional.IsNull()
	switch {
	case hasNS && hasOpt:
		return []cty.Value{r.Namespace, r.Optional}
	case hasNS:
		return []cty.Value{r.Namespace}
	case hasOpt:
		return []cty.Value{cty.StringVal(registry.DefaultNamespace), r.Optional}
	default:
		return nil
	}
}
