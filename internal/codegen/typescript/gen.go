package typescript

import (
	"github.com/cmsgen/cmsgen/internal/codegen"
	"github.com/cmsgen/cmsgen/internal/codegen/layout"
	"github.com/cmsgen/cmsgen/internal/codegen/tsfile"
)

// addRefs turns symbol references into imports on f, resolving the relative
// path for the active layout. References to the file's own module are
// suppressed — that is what keeps self-referencing entities and components
// from importing themselves.
func addRefs(f *tsfile.File, refs []SymbolRef, opts codegen.Options, typeOnly bool) {
	for _, ref := range refs {
		if ref.Module == f.Module {
			continue
		}
		f.Import(tsfile.Import{
			From:     layout.Import(f.Module, ref.Module, opts.Layout),
			Names:    []string{ref.Name},
			TypeOnly: typeOnly,
		})
	}
}

// importNames adds a plain import of names from module to f.
func importNames(f *tsfile.File, from layout.Module, opts codegen.Options, typeOnly bool, names ...string) {
	if from == f.Module {
		return
	}
	f.Import(tsfile.Import{
		From:     layout.Import(f.Module, from, opts.Layout),
		Names:    names,
		TypeOnly: typeOnly,
	})
}

// emit renders f into an output file for the active dialect and layout.
func emit(f *tsfile.File, opts codegen.Options) codegen.File {
	return codegen.File{
		Path:    layout.Path(f.Module, opts.Layout) + opts.Dialect.Ext(),
		Content: f.Render(opts.Dialect),
	}
}
