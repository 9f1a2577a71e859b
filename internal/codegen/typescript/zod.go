package typescript

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cmsgen/cmsgen/internal/codegen"
	"github.com/cmsgen/cmsgen/internal/codegen/layout"
	"github.com/cmsgen/cmsgen/internal/schema"
)

// ZodMapper maps one normalized attribute to a zod validation expression.
// It is the validation-mode twin of TypeMapper: same dispatch, different
// target grammar.
type ZodMapper struct {
	Schema   *schema.ParsedSchema
	Names    *Names
	Version  codegen.Version
	Advanced bool

	// reach[a][b] reports that component a (transitively) references
	// component b. Used to degrade reference cycles to a placeholder
	// instead of emitting mutually recursive schema imports.
	reach map[string]map[string]bool
}

// NewZodMapper builds the mapper, including the component reachability
// table used for cycle detection.
func NewZodMapper(s *schema.ParsedSchema, names *Names, version codegen.Version, advanced bool) *ZodMapper {
	return &ZodMapper{
		Schema:   s,
		Names:    names,
		Version:  version,
		Advanced: advanced,
		reach:    componentReachability(s),
	}
}

// placeholder is the shallow validation used where a structural schema
// cannot be expressed (reference cycles, unknown kinds).
const placeholder = "z.record(z.string(), z.unknown())"

// Map returns the zod expression for attr. ownerUID is the uid of the
// enclosing component ("" for entities); a component reference that can
// reach its owner would close an import cycle and degrades to a
// placeholder. The second result lists referenced schema symbols and the
// third reports that the expression uses the shared relation input helper.
func (m *ZodMapper) Map(attr schema.Attribute, ownerUID string) (string, []SymbolRef, bool) {
	switch attr.Kind {
	case schema.KindString, schema.KindText, schema.KindRichText, schema.KindPassword:
		return m.stringExpr(attr, ""), nil, false

	case schema.KindEmail:
		return m.stringExpr(attr, ".email()"), nil, false

	case schema.KindSlug:
		return m.stringExpr(attr, ""), nil, false

	case schema.KindDate, schema.KindTime, schema.KindDateTime, schema.KindTimestamp:
		return "z.string()", nil, false

	case schema.KindInteger, schema.KindBigInteger:
		return m.numberExpr(attr, true), nil, false

	case schema.KindFloat, schema.KindDecimal:
		return m.numberExpr(attr, false), nil, false

	case schema.KindBoolean:
		return "z.boolean()", nil, false

	case schema.KindJSON:
		return "z.unknown()", nil, false

	case schema.KindEnumeration:
		if len(attr.Enum) == 0 {
			return "z.string()", nil, false
		}
		quoted := make([]string, len(attr.Enum))
		for i, v := range attr.Enum {
			quoted[i] = fmt.Sprintf("%q", v)
		}
		return fmt.Sprintf("z.enum([%s])", strings.Join(quoted, ", ")), nil, false

	case schema.KindBlocks:
		return "z.array(z.unknown())", nil, false

	case schema.KindMedia:
		// Files are uploaded out of band and linked by numeric id.
		if attr.Multiple {
			return "z.array(z.number().int().positive())", nil, false
		}
		return "z.number().int().positive().nullable()", nil, false

	case schema.KindRelation:
		return m.relationExpr(attr)

	case schema.KindComponent:
		entry, ok := m.Names.Lookup(attr.Component)
		if !ok || !entry.IsComponent || m.closesCycle(ownerUID, attr.Component) {
			if attr.Repeatable {
				return "z.array(" + placeholder + ")", nil, false
			}
			return placeholder + ".nullable()", nil, false
		}
		ref := SymbolRef{Module: entry.Module(layout.Schemas), Name: entry.SchemaVar}
		if attr.Repeatable {
			return "z.array(" + entry.SchemaVar + ")", []SymbolRef{ref}, false
		}
		return entry.SchemaVar + ".nullable()", []SymbolRef{ref}, false

	case schema.KindDynamicZone:
		var members []string
		var refs []SymbolRef
		for _, uid := range attr.Components {
			entry, ok := m.Names.Lookup(uid)
			if !ok || !entry.IsComponent || m.closesCycle(ownerUID, uid) {
				members = append(members, placeholder)
				continue
			}
			members = append(members, entry.SchemaVar)
			refs = append(refs, SymbolRef{Module: entry.Module(layout.Schemas), Name: entry.SchemaVar})
		}
		switch len(members) {
		case 0:
			return "z.array(z.unknown())", nil, false
		case 1:
			return "z.array(" + members[0] + ")", refs, false
		}
		return fmt.Sprintf("z.array(z.union([%s]))", strings.Join(members, ", ")), refs, false

	case schema.KindUnknown:
		return "z.unknown()", nil, false
	}
	return "z.unknown()", nil, false
}

func (m *ZodMapper) stringExpr(attr schema.Attribute, refinement string) string {
	var b strings.Builder
	b.WriteString("z.string()")
	b.WriteString(refinement)
	if attr.MinLength != nil {
		fmt.Fprintf(&b, ".min(%d)", *attr.MinLength)
	}
	if attr.MaxLength != nil {
		fmt.Fprintf(&b, ".max(%d)", *attr.MaxLength)
	}
	if attr.Regex != "" {
		fmt.Fprintf(&b, ".regex(new RegExp(%q))", attr.Regex)
	}
	return b.String()
}

func (m *ZodMapper) numberExpr(attr schema.Attribute, integer bool) string {
	var b strings.Builder
	b.WriteString("z.number()")
	if integer {
		b.WriteString(".int()")
	}
	if attr.Min != nil {
		fmt.Fprintf(&b, ".min(%s)", formatNumber(*attr.Min))
	}
	if attr.Max != nil {
		fmt.Fprintf(&b, ".max(%s)", formatNumber(*attr.Max))
	}
	return b.String()
}

// relationExpr serializes a relation to the identifier shape of the target
// version, or to the advanced connect/disconnect/set input when opted in.
func (m *ZodMapper) relationExpr(attr schema.Attribute) (string, []SymbolRef, bool) {
	if m.Advanced {
		// relationInput is emitted once per schemas file; see schemas.go.
		if attr.Relation.Many() {
			return relationInputVar, nil, true
		}
		return relationInputVar + ".nullable()", nil, true
	}

	id := "z.number().int().positive()"
	if m.Version == codegen.V5 {
		id = "z.string()"
	}
	if attr.Relation.Many() {
		return "z.array(" + id + ")", nil, false
	}
	return id + ".nullable()", nil, false
}

// closesCycle reports whether referencing target from owner would create a
// schema import cycle: the target is the owner itself, or reaches back to
// it through other components.
func (m *ZodMapper) closesCycle(ownerUID, target string) bool {
	if ownerUID == "" {
		return false
	}
	if target == ownerUID {
		return true
	}
	return m.reach[target][ownerUID]
}

// componentReachability computes the transitive component reference
// relation. Component graphs are small, so repeated BFS is fine.
func componentReachability(s *schema.ParsedSchema) map[string]map[string]bool {
	direct := make(map[string][]string, len(s.Components))
	for _, c := range s.Components {
		for _, a := range c.Attributes {
			switch a.Kind {
			case schema.KindComponent:
				direct[c.UID] = append(direct[c.UID], a.Component)
			case schema.KindDynamicZone:
				direct[c.UID] = append(direct[c.UID], a.Components...)
			}
		}
	}

	reach := make(map[string]map[string]bool, len(s.Components))
	for _, c := range s.Components {
		seen := map[string]bool{}
		queue := append([]string(nil), direct[c.UID]...)
		for len(queue) > 0 {
			next := queue[0]
			queue = queue[1:]
			if seen[next] {
				continue
			}
			seen[next] = true
			queue = append(queue, direct[next]...)
		}
		reach[c.UID] = seen
	}
	return reach
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// relationInputVar is the name of the per-file advanced relation helper.
const relationInputVar = "relationInput"

// RelationInputDecl is the shared helper emitted into a schemas file when
// any field uses the advanced relation format (v5 only): bare document ids,
// arrays of ids, or connect/disconnect/set objects with optional locale,
// publish status and ordering position qualifiers.
const RelationInputDecl = `const relationTarget = z.union([
  z.string(),
  z.object({
    documentId: z.string(),
    locale: z.string().optional(),
    status: z.enum(["draft", "published"]).optional(),
    position: z
      .object({
        before: z.string().optional(),
        after: z.string().optional(),
        start: z.boolean().optional(),
        end: z.boolean().optional(),
      })
      .optional(),
  }),
]);

const relationInput = z.union([
  z.string(),
  z.array(z.string()),
  z.object({
    connect: z.array(relationTarget).optional(),
    disconnect: z.array(relationTarget).optional(),
    set: z.array(relationTarget).optional(),
  }),
]);`
