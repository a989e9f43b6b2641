package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/modulegrid/internal/ctxlog"
	"github.com/specialistvlad/modulegrid/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// rootSchema defines the top-level structure of a manifest file.
var rootSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "framework_version"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "module", LabelNames: []string{"name"}},
		{Type: "retire", LabelNames: []string{"name"}},
	},
}

var moduleBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		// `type` is required, but we check for its existence manually
		// to provide a better error message.
		{Name: "type"},
		{Name: "namespace"},
		{Name: "config"},
	},
}

var retireBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "namespace"},
		{Name: "optional"},
	},
}

// Load parses every .hcl file found under paths (files or directories) into
// a single manifest.
func Load(ctx context.Context, paths ...string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, p := range paths {
		found, err := fsutil.FindFilesByExtension(p, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to find manifest files in %s: %w", p, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		logger.Warn("No .hcl manifest files found.", "paths", paths)
	}
	logger.Debug("Found manifest files to load.", "files", files)

	parser := hclparse.NewParser()
	m := New()
	var diags hcl.Diagnostics
	for _, path := range files {
		file, fileDiags := parser.ParseHCLFile(path)
		diags = append(diags, fileDiags...)
		if fileDiags.HasErrors() {
			continue
		}
		diags = append(diags, m.decodeFile(file, path)...)
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest: %w", diags)
	}

	logger.Debug("Manifest loaded.", "modules", len(m.Modules), "retirements", len(m.Retirements))
	return m, nil
}

// Parse decodes a single manifest held in memory. filename is used for
// diagnostics only.
func Parse(ctx context.Context, filename string, src []byte) (*Manifest, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest: %w", diags)
	}

	m := New()
	if diags := m.decodeFile(file, filename); diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest: %w", diags)
	}
	ctxlog.FromContext(ctx).Debug("Manifest parsed.", "file", filename, "modules", len(m.Modules))
	return m, nil
}

// decodeFile merges one parsed file into m.
func (m *Manifest) decodeFile(file *hcl.File, path string) hcl.Diagnostics {
	content, diags := file.Body.Content(rootSchema)
	if diags.HasErrors() {
		return diags
	}
	m.Files = append(m.Files, path)

	if attr, ok := content.Attributes["framework_version"]; ok {
		if m.FrameworkVersionRange != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate framework_version",
				Detail:   fmt.Sprintf("framework_version was already set at %s.", m.FrameworkVersionRange),
				Subject:  attr.Range.Ptr(),
			})
		} else {
			// A nil eval context is used because manifests hold literal values.
			val, valDiags := attr.Expr.Value(nil)
			diags = append(diags, valDiags...)
			if !valDiags.HasErrors() {
				m.FrameworkVersion = val
				m.FrameworkVersionRange = attr.Range.Ptr()
			}
		}
	}

	for _, block := range content.Blocks.OfType("module") {
		mod, modDiags := decodeModule(block)
		diags = append(diags, modDiags...)
		if mod == nil {
			continue
		}
		if prev := m.findModule(mod.InstanceName); prev != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate module block",
				Detail:   fmt.Sprintf("A module named '%s' was already declared at %s.", mod.InstanceName, prev.DeclRange),
				Subject:  &block.DefRange,
			})
			continue
		}
		m.Modules = append(m.Modules, mod)
	}

	for _, block := range content.Blocks.OfType("retire") {
		ret, retDiags := decodeRetire(block)
		diags = append(diags, retDiags...)
		if ret != nil {
			m.Retirements = append(m.Retirements, ret)
		}
	}

	return diags
}

func (m *Manifest) findModule(instanceName string) *ModuleBlock {
	for _, mod := range m.Modules {
		if mod.InstanceName == instanceName {
			return mod
		}
	}
	return nil
}

func decodeModule(block *hcl.Block) (*ModuleBlock, hcl.Diagnostics) {
	content, diags := block.Body.Content(moduleBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	typeAttr, ok := content.Attributes["type"]
	if !ok {
		missing := block.Body.MissingItemRange()
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing 'type' attribute",
			Detail:   "The 'type' attribute is required for all module blocks.",
			Subject:  &missing,
		})
	}

	mod := &ModuleBlock{
		InstanceName: block.Labels[0],
		Namespace:    cty.NullVal(cty.String),
		Config:       cty.NullVal(cty.DynamicPseudoType),
		DeclRange:    block.DefRange,
	}

	typeDiags := gohcl.DecodeExpression(typeAttr.Expr, nil, &mod.Type)
	diags = append(diags, typeDiags...)
	if typeDiags.HasErrors() {
		return nil, diags
	}
	if mod.Type == "" {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Empty module type",
			Detail:   "The 'type' attribute must name a registered module.",
			Subject:  typeAttr.Expr.Range().Ptr(),
		})
	}

	var valDiags hcl.Diagnostics
	mod.Namespace, valDiags = literal(content.Attributes["namespace"], mod.Namespace)
	diags = append(diags, valDiags...)
	mod.Config, valDiags = literal(content.Attributes["config"], mod.Config)
	diags = append(diags, valDiags...)
	if diags.HasErrors() {
		return nil, diags
	}
	return mod, diags
}

func decodeRetire(block *hcl.Block) (*RetireBlock, hcl.Diagnostics) {
	content, diags := block.Body.Content(retireBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	ret := &RetireBlock{
		Name:      block.Labels[0],
		Namespace: cty.NullVal(cty.String),
		Optional:  cty.NullVal(cty.Bool),
		DeclRange: block.DefRange,
	}

	var valDiags hcl.Diagnostics
	ret.Namespace, valDiags = literal(content.Attributes["namespace"], ret.Namespace)
	diags = append(diags, valDiags...)
	ret.Optional, valDiags = literal(content.Attributes["optional"], ret.Optional)
	diags = append(diags, valDiags...)
	if diags.HasErrors() {
		return nil, diags
	}
	return ret, diags
}

// literal evaluates attr without variables, returning def when attr is nil.
func literal(attr *hcl.Attribute, def cty.Value) (cty.Value, hcl.Diagnostics) {
	if attr == nil {
		return def, nil
	}
	return attr.Expr.Value(nil)
}
