// Package sink provides SinkModule, a consumer that records what it receives
// and can print it.
package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/specialistvlad/modulegrid/internal/ctxlog"
	"github.com/specialistvlad/modulegrid/internal/module"
	"github.com/specialistvlad/modulegrid/internal/registry"
	"github.com/specialistvlad/modulegrid/internal/version"
	"github.com/specialistvlad/modulegrid/modules"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Name is the registered module name.
const Name = "SinkModule"

// ErrCapacity is returned by Consume once the sink is full.
var ErrCapacity = errors.New("sink capacity reached")

// Module implements the registry.Provider interface for this package. Out is
// where printing sinks write; nil means os.Stdout.
type Module struct {
	Out io.Writer
}

// Sink collects consumed values.
//
// Config keys:
//   - capacity: maximum number of values accepted, 0 means unlimited
//   - print: write each value as JSON on its own line
type Sink struct {
	module.Base
	capacity int
	print    bool
	out      io.Writer

	mu       sync.Mutex
	received []cty.Value
}

func (m *Module) factory() module.Factory {
	return func(ctx context.Context, instanceName string, cfg module.Config) (module.Module, error) {
		capacity, err := cfg.Int("capacity", 0)
		if err != nil {
			return nil, err
		}
		if capacity < 0 {
			return nil, &module.ConfigError{Key: "capacity", Reason: "must not be negative"}
		}
		printValues, err := cfg.Bool("print", false)
		if err != nil {
			return nil, err
		}

		out := m.Out
		if out == nil {
			out = os.Stdout
		}
		ctxlog.FromContext(ctx).Debug("Sink configured.", "instance", instanceName, "capacity", capacity, "print", printValues)

		return &Sink{
			Base:     module.NewBase(instanceName, cfg),
			capacity: capacity,
			print:    printValues,
			out:      out,
		}, nil
	}
}

// Consume records v, printing it when configured to.
func (s *Sink) Consume(v cty.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capacity > 0 && len(s.received) >= s.capacity {
		return fmt.Errorf("%w: %d values", ErrCapacity, s.capacity)
	}
	s.received = append(s.received, v)

	if s.print {
		if v.IsNull() {
			fmt.Fprintln(s.out, "(null)")
			return nil
		}
		data, err := ctyjson.Marshal(v, v.Type())
		if err != nil {
			return fmt.Errorf("sink %s: encoding value: %w", s.Name(), err)
		}
		fmt.Fprintln(s.out, string(data))
	}
	return nil
}

// Received returns a copy of everything consumed so far.
func (s *Sink) Received() []cty.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]cty.Value, len(s.received))
	copy(out, s.received)
	return out
}

// Register registers the factory with the registry.
func (m *Module) Register(r *registry.Registry) error {
	return r.RegisterModule(Name, modules.Namespace, version.Current(), m.factory(), false)
}
