// Package typescript renders the TypeScript (and JSDoc-annotated
// JavaScript) artifacts: entity types, zod validation schemas, data-access
// services, server actions and the shared client/locale/util modules.
package typescript

import (
	"strings"

	"github.com/cmsgen/cmsgen/internal/codegen/layout"
	"github.com/cmsgen/cmsgen/internal/schema"
)

// Entry is the resolved naming for one entity or component. All symbol
// names are derived once per run through this table so that every generator
// agrees on them, including across component reference cycles.
type Entry struct {
	UID         string
	TypeName    string // Article, SharedSeo
	FiltersName string // ArticleFilters (collections only)
	SchemaVar   string // articleSchema base / sharedSeoSchema
	IsComponent bool
	IsSingle    bool
	singular    string
	category    string
	name        string
}

// Module returns the logical module holding the entry's artifact of the
// given kind.
func (e Entry) Module(kind layout.Kind) layout.Module {
	if e.IsComponent {
		return layout.ComponentModule(kind, e.category, e.name)
	}
	return layout.EntityModule(kind, e.singular)
}

// Names is the uid → naming table for one generation run.
type Names struct {
	entries map[string]Entry
}

// BuildNames derives the naming table from a parsed schema. Components may
// reference each other in cycles; name resolution never follows references,
// it only reads UIDs, so cycles are harmless here.
func BuildNames(s *schema.ParsedSchema) *Names {
	n := &Names{entries: make(map[string]Entry)}

	addEntity := func(e schema.Entity, single bool) {
		typeName := PascalCase(e.Singular)
		n.entries[e.UID] = Entry{
			UID:         e.UID,
			TypeName:    typeName,
			FiltersName: typeName + "Filters",
			SchemaVar:   CamelCase(e.Singular),
			IsSingle:    single,
			singular:    e.Singular,
		}
	}
	for _, e := range s.Collections {
		addEntity(e, false)
	}
	for _, e := range s.Singles {
		addEntity(e, true)
	}
	for _, c := range s.Components {
		typeName := PascalCase(c.Category) + PascalCase(c.Name)
		n.entries[c.UID] = Entry{
			UID:         c.UID,
			TypeName:    typeName,
			SchemaVar:   CamelCase(c.Category) + PascalCase(c.Name) + "Schema",
			IsComponent: true,
			category:    c.Category,
			name:        c.Name,
		}
	}
	return n
}

// Lookup resolves a uid. Missing uids mean the reference degrades to an
// opaque type; generation never fails on them.
func (n *Names) Lookup(uid string) (Entry, bool) {
	e, ok := n.entries[uid]
	return e, ok
}

// EntityEntry returns the entry for a normalized entity.
func (n *Names) EntityEntry(e schema.Entity) Entry {
	entry := n.entries[e.UID]
	return entry
}

// ComponentEntry returns the entry for a normalized component.
func (n *Names) ComponentEntry(c schema.Component) Entry {
	return n.entries[c.UID]
}

// PascalCase converts kebab-, snake- or dot-separated identifiers to
// PascalCase: "blog-post" → "BlogPost".
func PascalCase(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		switch r {
		case '-', '_', '.', ' ':
			upper = true
		default:
			if upper {
				b.WriteString(strings.ToUpper(string(r)))
				upper = false
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// CamelCase is PascalCase with a lowercase head.
func CamelCase(s string) string {
	p := PascalCase(s)
	if p == "" {
		return p
	}
	return strings.ToLower(p[:1]) + p[1:]
}
