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

// SchemasGenerator emits zod validation schemas: one reusable schema per
// component and a create/update pair per entity. Component schemas are
// self-contained modules imported by name, never inlined, so two attributes
// referencing the same component share one schema symbol.
type SchemasGenerator struct{}

func (SchemasGenerator) Name() string { return "schemas" }

// schemaMode selects the optionality rule for one rendered object.
type schemaMode int

const (
	modeCreate schemaMode = iota // required attributes stay required
	modeUpdate                   // every field optional, partial updates
)

func (g SchemasGenerator) Generate(s *schema.ParsedSchema, opts codegen.Options) ([]codegen.File, error) {
	names := BuildNames(s)
	mapper := NewZodMapper(s, names, opts.Version, opts.AdvancedRelations)

	var files []codegen.File
	for _, c := range s.Components {
		files = append(files, g.componentFile(c, names, mapper, opts))
	}
	for _, e := range s.Entities() {
		files = append(files, g.entityFile(e, names, mapper, opts))
	}
	return files, nil
}

func (g SchemasGenerator) componentFile(c schema.Component, names *Names, mapper *ZodMapper, opts codegen.Options) codegen.File {
	entry := names.ComponentEntry(c)
	f := tsfile.New(entry.Module(layout.Schemas))
	f.Import(tsfile.Import{From: "zod", Names: []string{"z"}})

	decl, usesHelper := g.objectDecl(entry.SchemaVar, c.Attributes, c.UID, modeCreate, f, mapper, opts)
	if usesHelper {
		f.Add(RelationInputDecl)
	}
	f.Add(decl)
	f.Export(entry.SchemaVar)
	return emit(f, opts)
}

func (g SchemasGenerator) entityFile(e schema.Entity, names *Names, mapper *ZodMapper, opts codegen.Options) codegen.File {
	entry := names.EntityEntry(e)
	f := tsfile.New(entry.Module(layout.Schemas))
	f.Import(tsfile.Import{From: "zod", Names: []string{"z"}})

	createVar := entry.SchemaVar + "CreateSchema"
	updateVar := entry.SchemaVar + "UpdateSchema"

	createDecl, h1 := g.objectDecl(createVar, e.Attributes, "", modeCreate, f, mapper, opts)
	updateDecl, h2 := g.objectDecl(updateVar, e.Attributes, "", modeUpdate, f, mapper, opts)
	if h1 || h2 {
		f.Add(RelationInputDecl)
	}
	f.Add(createDecl)
	f.Add(updateDecl)
	f.Export(createVar)
	f.Export(updateVar)

	if opts.Dialect.TypeScript() {
		f.Add(fmt.Sprintf("export type %sCreateInput = z.infer<typeof %s>;", entry.TypeName, createVar))
		f.Add(fmt.Sprintf("export type %sUpdateInput = z.infer<typeof %s>;", entry.TypeName, updateVar))
	}
	return emit(f, opts)
}

// objectDecl renders one exported z.object declaration. The update-mode
// optional override is applied here, once for the whole object, not inside
// the per-attribute mapping.
func (g SchemasGenerator) objectDecl(varName string, attrs []schema.Attribute, ownerUID string, mode schemaMode, f *tsfile.File, mapper *ZodMapper, opts codegen.Options) (string, bool) {
	usesHelper := false
	w := writer.New("  ")
	w.Block(fmt.Sprintf("%sconst %s = z.object({", opts.Dialect.Export(), varName), "});", func() {
		for _, attr := range attrs {
			expr, refs, helper := mapper.Map(attr, ownerUID)
			usesHelper = usesHelper || helper
			addRefs(f, refs, opts, false)
			w.Linef("%s: %s,", attr.Name, fieldExpr(expr, attr, mode))
		}
	})
	return strings.TrimRight(w.String(), "\n"), usesHelper
}

// fieldExpr applies defaults and optionality on top of the mapped base
// expression.
func fieldExpr(expr string, attr schema.Attribute, mode schemaMode) string {
	if mode == modeUpdate {
		return expr + ".optional()"
	}
	if len(attr.Default) > 0 {
		expr += fmt.Sprintf(".default(%s)", string(attr.Default))
	}
	if !attr.Required {
		expr += ".optional()"
	}
	return expr
}
