// Package tsfile is the in-memory representation of one generated source
// file: a header, a set of imports and an ordered list of declarations,
// rendered by a single printer. Centralizing import merging and ordering
// here is what makes repeat runs byte-identical.
package tsfile

import (
	"sort"
	"strings"

	"github.com/cmsgen/cmsgen/internal/codegen/layout"
	"github.com/cmsgen/cmsgen/internal/codegen/writer"
)

// Language is the output language of the generated project.
type Language string

const (
	TypeScript Language = "typescript"
	JavaScript Language = "javascript"
)

// ModuleSystem only matters for JavaScript output.
type ModuleSystem string

const (
	ESM ModuleSystem = "esm"
	CJS ModuleSystem = "cjs"
)

// Banner is the first line of every generated file. The output planner uses
// it to recognize previously generated files during orphan cleanup.
const Banner = "// Generated by cmsgen. Do not edit; changes are overwritten."

// Dialect bundles the rendering choices shared by every generator.
type Dialect struct {
	Language     Language
	ModuleSystem ModuleSystem
}

// TypeScript reports whether the dialect emits .ts sources.
func (d Dialect) TypeScript() bool { return d.Language != JavaScript }

// Ext returns the file extension including the dot.
func (d Dialect) Ext() string {
	if d.TypeScript() {
		return ".ts"
	}
	return ".js"
}

// Export returns the prefix for an exported runtime declaration.
func (d Dialect) Export() string {
	if !d.TypeScript() && d.ModuleSystem == CJS {
		return ""
	}
	return "export "
}

// Import is one import statement before merging. From is either a package
// name or an already-resolved relative specifier. TypeOnly imports carry
// type information and render as JSDoc typedefs in JavaScript output.
type Import struct {
	From     string
	Default  string
	Names    []string
	TypeOnly bool
}

// File is the IR for one generated source file.
type File struct {
	Module  layout.Module
	Header  []string
	imports []Import
	decls   []string
	exports []string
}

// New creates an empty file for the given logical module.
func New(m layout.Module) *File {
	return &File{Module: m}
}

// Import records an import; imports from the same specifier are merged at
// render time.
func (f *File) Import(imp Import) {
	f.imports = append(f.imports, imp)
}

// Add appends one declaration block.
func (f *File) Add(decl string) {
	f.decls = append(f.decls, strings.TrimRight(decl, "\n"))
}

// Export registers an exported runtime symbol, used for the CommonJS
// module.exports footer.
func (f *File) Export(name string) {
	f.exports = append(f.exports, name)
}

// Render prints the file for the given dialect.
func (f *File) Render(d Dialect) string {
	w := writer.New("  ")
	w.Line(Banner)

	for _, h := range f.Header {
		w.Line(h)
	}

	runtime, typeOnly := mergeImports(f.imports)

	if len(runtime) > 0 || (d.TypeScript() && len(typeOnly) > 0) {
		w.Blank()
	}
	for _, imp := range runtime {
		renderRuntimeImport(w, imp, d)
	}
	if d.TypeScript() {
		for _, imp := range typeOnly {
			if len(imp.Names) > 0 {
				w.Linef("import type { %s } from %q;", strings.Join(imp.Names, ", "), imp.From)
			}
		}
	} else if len(typeOnly) > 0 {
		w.Blank()
		for _, imp := range typeOnly {
			for _, name := range imp.Names {
				w.Linef("/** @typedef {import(%q).%s} %s */", specifier(imp.From, d), name, name)
			}
		}
	}

	for _, decl := range f.decls {
		w.Blank()
		w.Line(decl)
	}

	if !d.TypeScript() && d.ModuleSystem == CJS && len(f.exports) > 0 {
		w.Blank()
		w.Linef("module.exports = { %s };", strings.Join(f.exports, ", "))
	}

	return w.String()
}

func renderRuntimeImport(w *writer.Writer, imp Import, d Dialect) {
	spec := specifier(imp.From, d)
	if d.TypeScript() || d.ModuleSystem == ESM {
		switch {
		case imp.Default != "" && len(imp.Names) > 0:
			w.Linef("import %s, { %s } from %q;", imp.Default, strings.Join(imp.Names, ", "), spec)
		case imp.Default != "":
			w.Linef("import %s from %q;", imp.Default, spec)
		case len(imp.Names) > 0:
			w.Linef("import { %s } from %q;", strings.Join(imp.Names, ", "), spec)
		}
		return
	}
	// CommonJS
	if imp.Default != "" {
		w.Linef("const %s = require(%q);", imp.Default, imp.From)
	}
	if len(imp.Names) > 0 {
		w.Linef("const { %s } = require(%q);", strings.Join(imp.Names, ", "), imp.From)
	}
}

// specifier adapts a module specifier to the dialect: ESM JavaScript needs
// explicit extensions on relative imports.
func specifier(from string, d Dialect) string {
	if d.TypeScript() || !strings.HasPrefix(from, ".") {
		return from
	}
	if d.ModuleSystem == ESM {
		return from + ".js"
	}
	return from
}

// mergeImports deduplicates and orders imports: external packages first,
// then relative modules, each sorted by specifier; names sorted within one
// statement. Runtime and type-only imports merge separately.
func mergeImports(imports []Import) (runtime, typeOnly []Import) {
	type key struct {
		from     string
		typeOnly bool
	}
	merged := map[key]*Import{}
	for _, imp := range imports {
		k := key{imp.From, imp.TypeOnly}
		m, ok := merged[k]
		if !ok {
			m = &Import{From: imp.From, TypeOnly: imp.TypeOnly}
			merged[k] = m
		}
		if imp.Default != "" {
			m.Default = imp.Default
		}
		m.Names = append(m.Names, imp.Names...)
	}

	var all []Import
	for _, m := range merged {
		m.Names = dedupeSorted(m.Names)
		all = append(all, *m)
	}
	sort.Slice(all, func(i, j int) bool {
		ei, ej := strings.HasPrefix(all[i].From, "."), strings.HasPrefix(all[j].From, ".")
		if ei != ej {
			return !ei
		}
		if all[i].From != all[j].From {
			return all[i].From < all[j].From
		}
		return !all[i].TypeOnly
	})

	for _, imp := range all {
		if imp.TypeOnly {
			typeOnly = append(typeOnly, imp)
		} else {
			runtime = append(runtime, imp)
		}
	}
	return runtime, typeOnly
}

func dedupeSorted(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	out := names[:1]
	for _, n := range names[1:] {
		if n != out[len(out)-1] {
			out = append(out, n)
		}
	}
	return out
}
