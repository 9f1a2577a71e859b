package typescript

import (
	"fmt"

	"github.com/cmsgen/cmsgen/internal/codegen"
	"github.com/cmsgen/cmsgen/internal/codegen/layout"
	"github.com/cmsgen/cmsgen/internal/codegen/tsfile"
	"github.com/cmsgen/cmsgen/internal/codegen/writer"
	"github.com/cmsgen/cmsgen/internal/schema"
)

// ActionsGenerator emits server-action wrappers over the service layer:
// request payloads are validated with the generated zod schemas (or an
// inline permissive fallback when the schemas artifact is disabled) and
// every action returns a { data } or { error } envelope instead of
// throwing.
type ActionsGenerator struct{}

func (ActionsGenerator) Name() string { return "actions" }

func (g ActionsGenerator) Generate(s *schema.ParsedSchema, opts codegen.Options) ([]codegen.File, error) {
	names := BuildNames(s)

	var files []codegen.File
	for _, e := range s.Entities() {
		files = append(files, g.entityFile(e, names, opts))
	}
	return files, nil
}

type actions struct {
	entity schema.Entity
	entry  Entry
	file   *tsfile.File
	opts   codegen.Options
	d      tsfile.Dialect
	plural string
}

func (g ActionsGenerator) entityFile(e schema.Entity, names *Names, opts codegen.Options) codegen.File {
	entry := names.EntityEntry(e)
	f := tsfile.New(entry.Module(layout.Actions))
	f.Header = []string{`"use server";`}

	a := &actions{entity: e, entry: entry, file: f, opts: opts, d: opts.Dialect, plural: PascalCase(e.Plural)}
	importNames(f, entry.Module(layout.Types), opts, true, entry.TypeName)

	createVar := entry.SchemaVar + "CreateSchema"
	updateVar := entry.SchemaVar + "UpdateSchema"
	validators := []string{createVar, updateVar}
	if !e.Collection {
		// singles have no create action, so only the update validator
		validators = []string{updateVar}
	}
	if opts.Artifacts.Schemas {
		importNames(f, entry.Module(layout.Schemas), opts, false, validators...)
	} else {
		// Inline permissive fallback: accept any record, reject non-objects.
		f.Import(tsfile.Import{From: "zod", Names: []string{"z"}})
		for _, v := range validators {
			f.Add(fmt.Sprintf("const %s = z.record(z.string(), z.unknown());", v))
		}
	}

	if e.Collection {
		g.collectionActions(a, createVar, updateVar)
	} else {
		g.singleActions(a, updateVar)
	}
	return emit(f, opts)
}

func (a *actions) service(names ...string) {
	importNames(a.file, a.entry.Module(layout.Services), a.opts, false, names...)
}

func (a *actions) serviceTypes(names ...string) {
	importNames(a.file, a.entry.Module(layout.Services), a.opts, true, names...)
}

// envelope is the action return shape around a payload type.
func envelope(payload string) string {
	return fmt.Sprintf("{ data: %s } | { error: string }", payload)
}

// tryEnvelope renders the shared try/catch tail converting thrown errors
// into the { error } envelope.
func tryEnvelope(w *writer.Writer, call string) {
	w.Block("try {", "} catch (error) {", func() {
		w.Linef("return { data: %s };", call)
	})
	w.Indent()
	w.Line("return { error: error instanceof Error ? error.message : String(error) };")
	w.Dedent()
	w.Line("}")
}

func (g ActionsGenerator) collectionActions(a *actions, createVar, updateVar string) {
	listParams := "Get" + a.plural + "Params"
	itemParams := "Get" + a.entry.TypeName + "Params"
	idParam := a.opts.IDParam()
	idType := a.opts.DocumentIDType()

	a.service("get"+a.plural, "get"+a.entry.TypeName, "create"+a.entry.TypeName, "update"+a.entry.TypeName, "delete"+a.entry.TypeName)
	a.serviceTypes(listParams, itemParams)

	paged := a.pagedType()

	(&fn{
		name:   "get" + a.plural + "Action",
		params: []param{{name: "params", typ: listParams, def: "{}"}},
		ret:    envelope(paged),
		body: func(w *writer.Writer) {
			tryEnvelope(w, fmt.Sprintf("await get%s(params)", a.plural))
		},
	}).render(a.file, a.d)

	(&fn{
		name:   "get" + a.entry.TypeName + "Action",
		params: []param{{name: idParam, typ: idType}, {name: "params", typ: itemParams, def: "{}"}},
		ret:    envelope(a.entry.TypeName),
		body: func(w *writer.Writer) {
			tryEnvelope(w, fmt.Sprintf("await get%s(%s, params)", a.entry.TypeName, idParam))
		},
	}).render(a.file, a.d)

	(&fn{
		name:   "create" + a.entry.TypeName + "Action",
		params: []param{{name: "input", typ: "unknown"}},
		ret:    envelope(a.entry.TypeName),
		body: func(w *writer.Writer) {
			w.Linef("const parsed = %s.safeParse(input);", createVar)
			w.Block("if (!parsed.success) {", "}", func() {
				w.Line("return { error: parsed.error.message };")
			})
			tryEnvelope(w, fmt.Sprintf("await create%s(parsed.data)", a.entry.TypeName))
		},
	}).render(a.file, a.d)

	(&fn{
		name:   "update" + a.entry.TypeName + "Action",
		params: []param{{name: idParam, typ: idType}, {name: "input", typ: "unknown"}},
		ret:    envelope(a.entry.TypeName),
		body: func(w *writer.Writer) {
			w.Linef("const parsed = %s.safeParse(input);", updateVar)
			w.Block("if (!parsed.success) {", "}", func() {
				w.Line("return { error: parsed.error.message };")
			})
			tryEnvelope(w, fmt.Sprintf("await update%s(%s, parsed.data)", a.entry.TypeName, idParam))
		},
	}).render(a.file, a.d)

	(&fn{
		name:   "delete" + a.entry.TypeName + "Action",
		params: []param{{name: idParam, typ: idType}},
		ret:    envelope("null"),
		body: func(w *writer.Writer) {
			w.Block("try {", "} catch (error) {", func() {
				w.Linef("await delete%s(%s);", a.entry.TypeName, idParam)
				w.Line("return { data: null };")
			})
			w.Indent()
			w.Line("return { error: error instanceof Error ? error.message : String(error) };")
			w.Dedent()
			w.Line("}")
		},
	}).render(a.file, a.d)
}

func (g ActionsGenerator) singleActions(a *actions, updateVar string) {
	itemParams := "Get" + a.entry.TypeName + "Params"

	a.service("get"+a.entry.TypeName, "update"+a.entry.TypeName, "delete"+a.entry.TypeName)
	a.serviceTypes(itemParams)

	(&fn{
		name:   "get" + a.entry.TypeName + "Action",
		params: []param{{name: "params", typ: itemParams, def: "{}"}},
		ret:    envelope(a.entry.TypeName),
		body: func(w *writer.Writer) {
			tryEnvelope(w, fmt.Sprintf("await get%s(params)", a.entry.TypeName))
		},
	}).render(a.file, a.d)

	(&fn{
		name:   "update" + a.entry.TypeName + "Action",
		params: []param{{name: "input", typ: "unknown"}},
		ret:    envelope(a.entry.TypeName),
		body: func(w *writer.Writer) {
			w.Linef("const parsed = %s.safeParse(input);", updateVar)
			w.Block("if (!parsed.success) {", "}", func() {
				w.Line("return { error: parsed.error.message };")
			})
			tryEnvelope(w, fmt.Sprintf("await update%s(parsed.data)", a.entry.TypeName))
		},
	}).render(a.file, a.d)

	(&fn{
		name:   "delete" + a.entry.TypeName + "Action",
		params: nil,
		ret:    envelope("null"),
		body: func(w *writer.Writer) {
			w.Block("try {", "} catch (error) {", func() {
				w.Linef("await delete%s();", a.entry.TypeName)
				w.Line("return { data: null };")
			})
			w.Indent()
			w.Line("return { error: error instanceof Error ? error.message : String(error) };")
			w.Dedent()
			w.Line("}")
		},
	}).render(a.file, a.d)
}

// pagedType mirrors svc.pagedReturn for the actions layer.
func (a *actions) pagedType() string {
	if a.d.TypeScript() {
		importNames(a.file, layout.SharedModule(layout.Utils), a.opts, true, "PagedResponse")
		return fmt.Sprintf("PagedResponse<%s>", a.entry.TypeName)
	}
	importNames(a.file, layout.SharedModule(layout.Utils), a.opts, true, "Pagination")
	return fmt.Sprintf("{ data: %s[], meta: { pagination: Pagination } }", a.entry.TypeName)
}
