// Package source provides SourceModule, a producer of values taken from its
// configuration and, optionally, from the process environment.
package source

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/specialistvlad/modulegrid/internal/module"
	"github.com/specialistvlad/modulegrid/internal/registry"
	"github.com/specialistvlad/modulegrid/internal/version"
	"github.com/specialistvlad/modulegrid/modules"
	"github.com/zclconf/go-cty/cty"
)

// Name is the registered module name.
const Name = "SourceModule"

// MaxValues caps how many values a single source emits in total.
const MaxValues = 1 << 20

// Module implements the registry.Provider interface for this package.
type Module struct{}

// Source emits a fixed sequence of values.
//
// Config keys:
//   - values: list of values to emit (optional)
//   - repeat: how many times to emit the list, default 1
//   - env_prefix: also emit matching environment variables as
//     {name, value} objects, sorted by name (optional)
type Source struct {
	module.Base
	values []cty.Value
	repeat int
}

// New is the SourceModule factory.
func New(_ context.Context, instanceName string, cfg module.Config) (module.Module, error) {
	values, err := cfg.List("values")
	if err != nil {
		return nil, err
	}
	repeat, err := cfg.Int("repeat", 1)
	if err != nil {
		return nil, err
	}
	if repeat < 0 {
		return nil, &module.ConfigError{Key: "repeat", Reason: "must not be negative"}
	}

	if cfg.Has("env_prefix") {
		prefix, err := cfg.String("env_prefix", "")
		if err != nil {
			return nil, err
		}
		values = append(values, envValues(prefix)...)
	}
	if len(values) > 0 && repeat > MaxValues/len(values) {
		return nil, &module.ConfigError{
			Key:    "repeat",
			Reason: fmt.Sprintf("%d values repeated %d times exceeds the limit of %d", len(values), repeat, MaxValues),
		}
	}

	return &Source{
		Base:   module.NewBase(instanceName, cfg),
		values: values,
		repeat: repeat,
	}, nil
}

func envValues(prefix string) []cty.Value {
	env := make(map[string]string)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 && strings.HasPrefix(pair[0], prefix) {
			env[pair[0]] = pair[1]
		}
	}

	// Sort keys for consistent output
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]cty.Value, 0, len(keys))
	for _, k := range keys {
		out = append(out, cty.ObjectVal(map[string]cty.Value{
			"name":  cty.StringVal(k),
			"value": cty.StringVal(env[k]),
		}))
	}
	return out
}

// Values returns everything the source emits, in order.
func (s *Source) Values() []cty.Value {
	out := make([]cty.Value, 0, len(s.values)*s.repeat)
	for i := 0; i < s.repeat; i++ {
		out = append(out, s.values...)
	}
	return out
}

// Emit passes each value to fn and stops early when ctx is done or fn fails.
func (s *Source) Emit(ctx context.Context, fn func(cty.Value) error) error {
	if len(s.values) == 0 {
		return nil
	}
	for i := 0; i < s.repeat; i++ {
		for _, v := range s.values {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Register registers the factory with the registry.
func (m *Module) Register(r *registry.Registry) error {
	return r.RegisterModule(Name, modules.Namespace, version.Current(), New, false)
}
