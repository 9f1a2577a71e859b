package typescript

import (
	"fmt"

	"github.com/cmsgen/cmsgen/internal/codegen"
	"github.com/cmsgen/cmsgen/internal/codegen/layout"
	"github.com/cmsgen/cmsgen/internal/codegen/tsfile"
	"github.com/cmsgen/cmsgen/internal/codegen/writer"
	"github.com/cmsgen/cmsgen/internal/schema"
)

// pageSize is the fixed page size used by the auto-paginating find-all
// accumulation loop.
const pageSize = 100

// ServicesGenerator emits the data-access layer: one module per entity
// wrapping the shared client with typed find/create/update/delete/count
// operations.
type ServicesGenerator struct{}

func (ServicesGenerator) Name() string { return "services" }

func (g ServicesGenerator) Generate(s *schema.ParsedSchema, opts codegen.Options) ([]codegen.File, error) {
	names := BuildNames(s)

	var files []codegen.File
	for _, e := range s.Collections {
		files = append(files, g.collectionFile(e, names, opts))
	}
	for _, e := range s.Singles {
		files = append(files, g.singleFile(e, names, opts))
	}
	return files, nil
}

// svc carries everything needed to render one entity's service module.
type svc struct {
	entity schema.Entity
	entry  Entry
	file   *tsfile.File
	opts   codegen.Options
	d      tsfile.Dialect

	plural   string // GetArticles suffix base
	endpoint string
}

func (g ServicesGenerator) newSvc(e schema.Entity, names *Names, opts codegen.Options) *svc {
	entry := names.EntityEntry(e)
	f := tsfile.New(entry.Module(layout.Services))
	importNames(f, layout.SharedModule(layout.Client), opts, false, "cmsFetch")

	endpoint := "/" + e.Plural
	if !e.Collection {
		endpoint = "/" + e.Singular
	}

	return &svc{
		entity:   e,
		entry:    entry,
		file:     f,
		opts:     opts,
		d:        opts.Dialect,
		plural:   PascalCase(e.Plural),
		endpoint: endpoint,
	}
}

// importType pulls the entity's own generated type into the service module.
func (s *svc) importType(names ...string) {
	importNames(s.file, s.entry.Module(layout.Types), s.opts, true, names...)
}

// inputType resolves the payload type for create/update. When validation
// schemas are generated the inferred input types are reused; otherwise the
// payload stays an open record.
func (s *svc) inputType(mode string) string {
	if s.opts.Artifacts.Schemas && s.d.TypeScript() {
		name := s.entry.TypeName + mode + "Input"
		importNames(s.file, s.entry.Module(layout.Schemas), s.opts, true, name)
		return name
	}
	return "Record<string, unknown>"
}

// readParamFields returns the param-object fields shared by every read
// operation, with locale and status gated by the entity's flags.
func (s *svc) readParamFields() []field {
	fields := []field{{name: "populate", expr: "string | string[]", optional: true}}
	return append(fields, s.gatedFields()...)
}

func (s *svc) gatedFields() []field {
	var fields []field
	if s.entity.Localized {
		fields = append(fields, field{name: "locale", expr: "string", optional: true})
	}
	if s.entity.DraftAndPublish {
		fields = append(fields, field{name: "status", expr: `"draft" | "published"`, optional: true})
	}
	return fields
}

// pagedReturn is the list-response type: a named generic in TypeScript, an
// inline shape in JSDoc.
func (s *svc) pagedReturn() string {
	if s.d.TypeScript() {
		importNames(s.file, layout.SharedModule(layout.Utils), s.opts, true, "PagedResponse")
		return fmt.Sprintf("PagedResponse<%s>", s.entry.TypeName)
	}
	importNames(s.file, layout.SharedModule(layout.Utils), s.opts, true, "Pagination")
	return fmt.Sprintf("{ data: %s[], meta: { pagination: Pagination } }", s.entry.TypeName)
}

func (g ServicesGenerator) collectionFile(e schema.Entity, names *Names, opts codegen.Options) codegen.File {
	s := g.newSvc(e, names, opts)
	s.importType(s.entry.TypeName, s.entry.FiltersName)

	listParams := "Get" + s.plural + "Params"
	itemParams := "Get" + s.entry.TypeName + "Params"
	idParam := s.opts.IDParam()
	idType := s.opts.DocumentIDType()

	listFields := []field{
		{name: "page", expr: "number", optional: true},
		{name: "pageSize", expr: "number", optional: true},
		{name: "sort", expr: "string | string[]", optional: true},
		{name: "filters", expr: s.entry.FiltersName, optional: true},
	}
	listFields = append(listFields, s.readParamFields()...)
	s.file.Add(objectType(s.d, listParams, listFields))
	s.file.Add(objectType(s.d, itemParams, s.readParamFields()))

	(&fn{
		doc:    fmt.Sprintf("Fetch one page of %s.", e.Plural),
		name:   "get" + s.plural,
		params: []param{{name: "params", typ: listParams, def: "{}"}},
		ret:    s.pagedReturn(),
		body: func(w *writer.Writer) {
			w.Line("const { page, pageSize, ...query } = params;")
			w.Block(fmt.Sprintf("return cmsFetch(%q, {", s.endpoint), "});", func() {
				w.Line("query: { ...query, pagination: { page, pageSize } },")
			})
		},
	}).render(s.file, s.d)

	allParams := listParams
	if s.d.TypeScript() {
		allParams = fmt.Sprintf(`Omit<%s, "page" | "pageSize">`, listParams)
	}
	(&fn{
		doc:    fmt.Sprintf("Fetch every %s, accumulating pages of %d until the page count is exhausted.", e.Singular, pageSize),
		name:   "getAll" + s.plural,
		params: []param{{name: "params", typ: allParams, def: "{}"}},
		ret:    s.entry.TypeName + "[]",
		body: func(w *writer.Writer) {
			w.Line(ifTS(s.d, fmt.Sprintf("const items: %s[] = [];", s.entry.TypeName), "const items = [];"))
			w.Line("let page = 1;")
			w.Line("let pageCount = 1;")
			w.Block("while (page <= pageCount) {", "}", func() {
				w.Linef("const res = await get%s({ ...params, page, pageSize: %d });", s.plural, pageSize)
				w.Line("items.push(...res.data);")
				w.Line("pageCount = res.meta.pagination.pageCount;")
				w.Line("page += 1;")
			})
			w.Line("return items;")
		},
	}).render(s.file, s.d)

	(&fn{
		doc:    fmt.Sprintf("Fetch one %s by %s.", e.Singular, idParam),
		name:   "get" + s.entry.TypeName,
		params: []param{{name: idParam, typ: idType}, {name: "params", typ: itemParams, def: "{}"}},
		ret:    s.entry.TypeName,
		body: func(w *writer.Writer) {
			w.Linef("const res = await cmsFetch(`%s/${%s}`, { query: params });", s.endpoint, idParam)
			w.Line("return res.data;")
		},
	}).render(s.file, s.d)

	if slug := e.SlugAttribute(); slug != "" {
		(&fn{
			doc:    fmt.Sprintf("Fetch the %s matching the given %s, or null.", e.Singular, slug),
			name:   "get" + s.entry.TypeName + "BySlug",
			params: []param{{name: "slug", typ: "string"}, {name: "params", typ: itemParams, def: "{}"}},
			ret:    s.entry.TypeName + " | null",
			body: func(w *writer.Writer) {
				w.Block(fmt.Sprintf("const res = await cmsFetch(%q, {", s.endpoint), "});", func() {
					w.Linef("query: { ...params, filters: { %s: { $eq: slug } }, pagination: { page: 1, pageSize: 1 } },", slug)
				})
				w.Line("return res.data[0] ?? null;")
			},
		}).render(s.file, s.d)
	}

	g.addMutations(s, idParam, idType, true)

	(&fn{
		doc:    fmt.Sprintf("Count %s by requesting a single-entry page and reading the total.", e.Plural),
		name:   "count" + s.plural,
		params: []param{{name: "filters", typ: s.entry.FiltersName + " | undefined", def: "undefined"}},
		ret:    "number",
		body: func(w *writer.Writer) {
			w.Block(fmt.Sprintf("const res = await cmsFetch(%q, {", s.endpoint), "});", func() {
				w.Line("query: { filters, pagination: { page: 1, pageSize: 1 } },")
			})
			w.Line("return res.meta.pagination.total;")
		},
	}).render(s.file, s.d)

	return emit(s.file, s.opts)
}

func (g ServicesGenerator) singleFile(e schema.Entity, names *Names, opts codegen.Options) codegen.File {
	s := g.newSvc(e, names, opts)
	s.importType(s.entry.TypeName)

	itemParams := "Get" + s.entry.TypeName + "Params"
	s.file.Add(objectType(s.d, itemParams, s.readParamFields()))

	(&fn{
		doc:    fmt.Sprintf("Fetch the %s single type.", e.Singular),
		name:   "get" + s.entry.TypeName,
		params: []param{{name: "params", typ: itemParams, def: "{}"}},
		ret:    s.entry.TypeName,
		body: func(w *writer.Writer) {
			w.Linef("const res = await cmsFetch(%q, { query: params });", s.endpoint)
			w.Line("return res.data;")
		},
	}).render(s.file, s.d)

	g.addMutations(s, "", "", false)

	return emit(s.file, s.opts)
}

// addMutations emits create/update/delete. Collections address entries by
// id (v4) or documentId (v5); singles address the one entry implicitly and
// never get a create operation of their own beyond update-or-create
// semantics on PUT.
func (g ServicesGenerator) addMutations(s *svc, idParam, idType string, collection bool) {
	optFields := s.gatedFields()
	optType := ""
	var mutParams []param
	if len(optFields) > 0 {
		optType = "Mutate" + s.entry.TypeName + "Options"
		s.file.Add(objectType(s.d, optType, optFields))
		mutParams = []param{{name: "options", typ: optType, def: "{}"}}
	}

	mutationQuery := func(w *writer.Writer) {
		if optType != "" {
			w.Line("query: options,")
		}
	}

	if collection {
		(&fn{
			doc:    fmt.Sprintf("Create a new %s entry.", s.entity.Singular),
			name:   "create" + s.entry.TypeName,
			params: append([]param{{name: "data", typ: s.inputType("Create")}}, mutParams...),
			ret:    s.entry.TypeName,
			body: func(w *writer.Writer) {
				w.Block(fmt.Sprintf("const res = await cmsFetch(%q, {", s.endpoint), "});", func() {
					w.Line(`method: "POST",`)
					w.Line("body: { data },")
					mutationQuery(w)
				})
				w.Line("return res.data;")
			},
		}).render(s.file, s.d)
	}

	updatePath := fmt.Sprintf("%q", s.endpoint)
	updateParams := []param{{name: "data", typ: s.inputType("Update")}}
	if collection {
		updatePath = fmt.Sprintf("`%s/${%s}`", s.endpoint, idParam)
		updateParams = append([]param{{name: idParam, typ: idType}}, updateParams...)
	}
	(&fn{
		doc:    fmt.Sprintf("Update the %s entry.", s.entity.Singular),
		name:   "update" + s.entry.TypeName,
		params: append(updateParams, mutParams...),
		ret:    s.entry.TypeName,
		body: func(w *writer.Writer) {
			w.Block(fmt.Sprintf("const res = await cmsFetch(%s, {", updatePath), "});", func() {
				w.Line(`method: "PUT",`)
				w.Line("body: { data },")
				mutationQuery(w)
			})
			w.Line("return res.data;")
		},
	}).render(s.file, s.d)

	deletePath := fmt.Sprintf("%q", s.endpoint)
	var deleteParams []param
	if collection {
		deletePath = fmt.Sprintf("`%s/${%s}`", s.endpoint, idParam)
		deleteParams = []param{{name: idParam, typ: idType}}
	}
	(&fn{
		doc:    fmt.Sprintf("Delete the %s entry.", s.entity.Singular),
		name:   "delete" + s.entry.TypeName,
		params: deleteParams,
		ret:    "void",
		body: func(w *writer.Writer) {
			w.Linef("await cmsFetch(%s, { method: \"DELETE\" });", deletePath)
		},
	}).render(s.file, s.d)
}
