package typescript

import (
	"fmt"
	"strings"

	"github.com/cmsgen/cmsgen/internal/codegen/layout"
	"github.com/cmsgen/cmsgen/internal/schema"
)

// SymbolRef is a named symbol a mapped type expression depends on. The
// generator owning the file resolves it to an import (or suppresses it when
// the symbol lives in the file itself).
type SymbolRef struct {
	Module layout.Module
	Name   string
}

func utilsRef(name string) SymbolRef {
	return SymbolRef{Module: layout.SharedModule(layout.Utils), Name: name}
}

// TypeMapper maps one normalized attribute to a type expression. It needs
// the whole schema to resolve relation and component targets.
type TypeMapper struct {
	Schema *schema.ParsedSchema
	Names  *Names
}

// Map returns the type expression for attr plus the symbols it references.
// It is total: unknown kinds and unresolvable targets map to "unknown".
func (m *TypeMapper) Map(attr schema.Attribute) (string, []SymbolRef) {
	switch attr.Kind {
	case schema.KindString, schema.KindText, schema.KindRichText,
		schema.KindEmail, schema.KindPassword, schema.KindSlug,
		schema.KindDate, schema.KindTime, schema.KindDateTime, schema.KindTimestamp:
		return "string", nil

	case schema.KindInteger, schema.KindBigInteger, schema.KindFloat, schema.KindDecimal:
		return "number", nil

	case schema.KindBoolean:
		return "boolean", nil

	case schema.KindJSON:
		return "unknown", nil

	case schema.KindEnumeration:
		if len(attr.Enum) == 0 {
			return "string", nil
		}
		return enumUnion(attr.Enum), nil

	case schema.KindBlocks:
		return "BlocksContent", []SymbolRef{utilsRef("BlocksContent")}

	case schema.KindMedia:
		ref := utilsRef("Media")
		if attr.Multiple {
			return "Media[]", []SymbolRef{ref}
		}
		return "Media | null", []SymbolRef{ref}

	case schema.KindRelation:
		entry, ok := m.Names.Lookup(attr.Target)
		if !ok || entry.IsComponent {
			// Unresolved targets degrade to an opaque type rather than
			// failing generation.
			return "unknown", nil
		}
		ref := SymbolRef{Module: entry.Module(layout.Types), Name: entry.TypeName}
		if attr.Relation.Many() {
			return entry.TypeName + "[]", []SymbolRef{ref}
		}
		return entry.TypeName + " | null", []SymbolRef{ref}

	case schema.KindComponent:
		entry, ok := m.Names.Lookup(attr.Component)
		if !ok || !entry.IsComponent {
			return "unknown", nil
		}
		ref := SymbolRef{Module: entry.Module(layout.Types), Name: entry.TypeName}
		if attr.Repeatable {
			return entry.TypeName + "[]", []SymbolRef{ref}
		}
		return entry.TypeName + " | null", []SymbolRef{ref}

	case schema.KindDynamicZone:
		var members []string
		var refs []SymbolRef
		for _, uid := range attr.Components {
			entry, ok := m.Names.Lookup(uid)
			if !ok || !entry.IsComponent {
				members = append(members, "unknown")
				continue
			}
			members = append(members, entry.TypeName)
			refs = append(refs, SymbolRef{Module: entry.Module(layout.Types), Name: entry.TypeName})
		}
		if len(members) == 0 {
			return "unknown[]", nil
		}
		if len(members) == 1 {
			return members[0] + "[]", refs
		}
		return "(" + strings.Join(members, " | ") + ")[]", refs

	case schema.KindUnknown:
		return "unknown", nil
	}
	return "unknown", nil
}

// enumUnion renders a closed union of string literals.
func enumUnion(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(parts, " | ")
}
