package app

import (
	"io"

	"github.com/specialistvlad/modulegrid/internal/registry"
	"github.com/specialistvlad/modulegrid/modules/sink"
	"github.com/specialistvlad/modulegrid/modules/simple"
	"github.com/specialistvlad/modulegrid/modules/source"
)

// coreModules is the definitive list of all modules that are compiled into
// the modulegrid binary. Sinks that print write to outW.
func coreModules(outW io.Writer) []registry.Provider {
	return []registry.Provider{
		&simple.Module{},
		&source.Module{},
		&sink.Module{Out: outW},
	}
}
