package typescript

import (
	"fmt"
	"strings"

	"github.com/cmsgen/cmsgen/internal/codegen"
	"github.com/cmsgen/cmsgen/internal/codegen/layout"
	"github.com/cmsgen/cmsgen/internal/codegen/tsfile"
	"github.com/cmsgen/cmsgen/internal/codegen/writer"
	"github.com/cmsgen/cmsgen/internal/schema"
)

// TypesGenerator emits one type module per entity and per component, plus a
// filter-expression type for every collection.
type TypesGenerator struct{}

func (TypesGenerator) Name() string { return "types" }

func (g TypesGenerator) Generate(s *schema.ParsedSchema, opts codegen.Options) ([]codegen.File, error) {
	names := BuildNames(s)
	mapper := &TypeMapper{Schema: s, Names: names}

	var files []codegen.File
	for _, e := range s.Entities() {
		files = append(files, g.entityFile(e, names, mapper, opts))
	}
	for _, c := range s.Components {
		files = append(files, g.componentFile(c, names, mapper, opts))
	}
	return files, nil
}

func (g TypesGenerator) entityFile(e schema.Entity, names *Names, mapper *TypeMapper, opts codegen.Options) codegen.File {
	entry := names.EntityEntry(e)
	f := tsfile.New(entry.Module(layout.Types))
	importNames(f, layout.SharedModule(layout.Utils), opts, true, "BaseEntity")

	fields := g.systemFields(e, opts)
	for _, attr := range e.Attributes {
		expr, refs := mapper.Map(attr)
		addRefs(f, refs, opts, true)
		fields = append(fields, field{name: attr.Name, expr: expr, optional: !attr.Required})
	}

	if opts.Dialect.TypeScript() {
		w := writer.New("  ")
		if e.Description != "" {
			w.JSDoc(e.Description)
		}
		w.Block(fmt.Sprintf("export interface %s extends BaseEntity {", entry.TypeName), "}", func() {
			for _, fl := range fields {
				w.Line(fl.tsLine())
			}
		})
		f.Add(strings.TrimRight(w.String(), "\n"))
	} else {
		f.Add(jsTypedef(entry.TypeName, e.Description, "BaseEntity & ", fields))
	}

	if e.Collection {
		g.addFilters(f, entry, e, opts)
	}
	return emit(f, opts)
}

func (g TypesGenerator) componentFile(c schema.Component, names *Names, mapper *TypeMapper, opts codegen.Options) codegen.File {
	entry := names.ComponentEntry(c)
	f := tsfile.New(entry.Module(layout.Types))

	fields := []field{{name: "id", expr: "number"}}
	for _, attr := range c.Attributes {
		expr, refs := mapper.Map(attr)
		addRefs(f, refs, opts, true)
		fields = append(fields, field{name: attr.Name, expr: expr, optional: !attr.Required})
	}

	if opts.Dialect.TypeScript() {
		w := writer.New("  ")
		w.Block(fmt.Sprintf("export interface %s {", entry.TypeName), "}", func() {
			for _, fl := range fields {
				w.Line(fl.tsLine())
			}
		})
		f.Add(strings.TrimRight(w.String(), "\n"))
	} else {
		f.Add(jsTypedef(entry.TypeName, "", "", fields))
	}
	return emit(f, opts)
}

// systemFields are the generator-injected base fields whose presence is
// gated per entity, on top of the version-wide BaseEntity shape.
func (g TypesGenerator) systemFields(e schema.Entity, opts codegen.Options) []field {
	var fields []field
	if e.DraftAndPublish {
		fields = append(fields, field{name: "publishedAt", expr: "string | null"})
	}
	if e.Localized {
		fields = append(fields, field{name: "locale", expr: "string"})
	}
	return fields
}

// addFilters emits the recursive filter-expression type for a collection:
// comparisons on the id-like and timestamp-like fields plus the boolean
// combinators.
func (g TypesGenerator) addFilters(f *tsfile.File, entry Entry, e schema.Entity, opts codegen.Options) {
	if !opts.Dialect.TypeScript() {
		// JavaScript output keeps filters permissive.
		f.Add(fmt.Sprintf("/** @typedef {Record<string, unknown>} %s */", entry.FiltersName))
		return
	}

	importNames(f, layout.SharedModule(layout.Utils), opts, true, "FilterOperators", "ID")

	w := writer.New("  ")
	w.Block(fmt.Sprintf("export interface %s {", entry.FiltersName), "}", func() {
		w.Line("id?: FilterOperators<ID>;")
		if opts.Version == codegen.V5 {
			w.Line("documentId?: FilterOperators<string>;")
		}
		w.Line("createdAt?: FilterOperators<string>;")
		w.Line("updatedAt?: FilterOperators<string>;")
		if e.DraftAndPublish {
			w.Line("publishedAt?: FilterOperators<string>;")
		}
		w.Linef("$and?: %s[];", entry.FiltersName)
		w.Linef("$or?: %s[];", entry.FiltersName)
		w.Linef("$not?: %s;", entry.FiltersName)
	})
	f.Add(strings.TrimRight(w.String(), "\n"))
}

type field struct {
	name     string
	expr     string
	optional bool
}

func (f field) tsLine() string {
	if f.optional {
		return fmt.Sprintf("%s?: %s;", f.name, f.expr)
	}
	return fmt.Sprintf("%s: %s;", f.name, f.expr)
}

// jsTypedef renders a JSDoc typedef using TypeScript object-type syntax,
// optionally intersected with a base type.
func jsTypedef(name, doc, base string, fields []field) string {
	w := writer.New("  ")
	w.Line("/**")
	if doc != "" {
		w.Linef(" * %s", doc)
	}
	w.Linef(" * @typedef {%s{", base)
	for _, fl := range fields {
		opt := ""
		if fl.optional {
			opt = "?"
		}
		w.Linef(" *   %s%s: %s,", fl.name, opt, fl.expr)
	}
	w.Linef(" * }} %s", name)
	w.Line(" */")
	return strings.TrimRight(w.String(), "\n")
}
