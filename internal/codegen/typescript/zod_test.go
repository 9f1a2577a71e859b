package typescript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmsgen/cmsgen/internal/codegen"
	"github.com/cmsgen/cmsgen/internal/schema"
)

func newZodMapper(version codegen.Version, advanced bool) *ZodMapper {
	s := testSchema()
	return NewZodMapper(s, BuildNames(s), version, advanced)
}

func TestZodMapper_Strings(t *testing.T) {
	m := newZodMapper(codegen.V5, false)

	expr, _, _ := m.Map(schema.Attribute{Kind: schema.KindString, MinLength: intp(2), MaxLength: intp(10)}, "")
	assert.Equal(t, "z.string().min(2).max(10)", expr)

	expr, _, _ = m.Map(schema.Attribute{Kind: schema.KindEmail}, "")
	assert.Equal(t, "z.string().email()", expr)

	expr, _, _ = m.Map(schema.Attribute{Kind: schema.KindString, Regex: "^[a-z]+$"}, "")
	assert.Equal(t, `z.string().regex(new RegExp("^[a-z]+$"))`, expr)

	// date-like kinds validate as plain strings, no length refinements
	expr, _, _ = m.Map(schema.Attribute{Kind: schema.KindDateTime, MaxLength: intp(10)}, "")
	assert.Equal(t, "z.string()", expr)
}

func TestZodMapper_Numbers(t *testing.T) {
	m := newZodMapper(codegen.V5, false)

	expr, _, _ := m.Map(schema.Attribute{Kind: schema.KindInteger, Min: floatp(0), Max: floatp(100)}, "")
	assert.Equal(t, "z.number().int().min(0).max(100)", expr)

	expr, _, _ = m.Map(schema.Attribute{Kind: schema.KindFloat, Min: floatp(0.5)}, "")
	assert.Equal(t, "z.number().min(0.5)", expr)
}

func TestZodMapper_Enumeration(t *testing.T) {
	m := newZodMapper(codegen.V5, false)

	expr, _, _ := m.Map(schema.Attribute{Kind: schema.KindEnumeration, Enum: []string{"news", "opinion"}}, "")
	assert.Equal(t, `z.enum(["news", "opinion"])`, expr)
}

func TestZodMapper_Media(t *testing.T) {
	// media inputs are numeric upload ids, not nested objects
	m := newZodMapper(codegen.V5, false)

	expr, _, _ := m.Map(schema.Attribute{Kind: schema.KindMedia}, "")
	assert.Equal(t, "z.number().int().positive().nullable()", expr)

	expr, _, _ = m.Map(schema.Attribute{Kind: schema.KindMedia, Multiple: true}, "")
	assert.Equal(t, "z.array(z.number().int().positive())", expr)
}

func TestZodMapper_RelationsByVersion(t *testing.T) {
	// Test plan:
	// - v4 relations link by positive numeric id
	// - v5 relations link by document id string
	// - cardinality selects array vs nullable
	rel := schema.Attribute{Kind: schema.KindRelation, Relation: schema.ManyToOne, Target: "api::author.author"}
	many := schema.Attribute{Kind: schema.KindRelation, Relation: schema.ManyToMany, Target: "api::author.author"}

	v4 := newZodMapper(codegen.V4, false)
	expr, _, helper := v4.Map(rel, "")
	assert.Equal(t, "z.number().int().positive().nullable()", expr)
	assert.False(t, helper)
	expr, _, _ = v4.Map(many, "")
	assert.Equal(t, "z.array(z.number().int().positive())", expr)

	v5 := newZodMapper(codegen.V5, false)
	expr, _, _ = v5.Map(rel, "")
	assert.Equal(t, "z.string().nullable()", expr)
	expr, _, _ = v5.Map(many, "")
	assert.Equal(t, "z.array(z.string())", expr)
}

func TestZodMapper_AdvancedRelations(t *testing.T) {
	m := newZodMapper(codegen.V5, true)

	rel := schema.Attribute{Kind: schema.KindRelation, Relation: schema.ManyToOne, Target: "api::author.author"}
	expr, _, helper := m.Map(rel, "")
	assert.Equal(t, "relationInput.nullable()", expr)
	assert.True(t, helper)

	many := schema.Attribute{Kind: schema.KindRelation, Relation: schema.OneToMany, Target: "api::article.article"}
	expr, _, helper = m.Map(many, "")
	assert.Equal(t, "relationInput", expr)
	assert.True(t, helper)
}

func TestZodMapper_Components(t *testing.T) {
	m := newZodMapper(codegen.V5, false)

	expr, refs, _ := m.Map(schema.Attribute{Kind: schema.KindComponent, Component: "shared.seo"}, "")
	assert.Equal(t, "sharedSeoSchema.nullable()", expr)
	require.Len(t, refs, 1)
	assert.Equal(t, "sharedSeoSchema", refs[0].Name)

	expr, _, _ = m.Map(schema.Attribute{Kind: schema.KindComponent, Component: "shared.seo", Repeatable: true}, "")
	assert.Equal(t, "z.array(sharedSeoSchema)", expr)

	// unresolvable components degrade to the placeholder
	expr, refs, _ = m.Map(schema.Attribute{Kind: schema.KindComponent, Component: "shared.gone"}, "")
	assert.Equal(t, placeholder+".nullable()", expr)
	assert.Empty(t, refs)
}

func TestZodMapper_ComponentCycles(t *testing.T) {
	// Test plan:
	// - a self-referencing component degrades to the placeholder
	// - a reference closing a two-component cycle degrades too
	// - the forward edge of the cycle keeps its structural schema
	s := &schema.ParsedSchema{
		Components: []schema.Component{
			{UID: "shared.a", Category: "shared", Name: "a", Attributes: []schema.Attribute{
				{Name: "b", Kind: schema.KindComponent, Component: "shared.b"},
				{Name: "self", Kind: schema.KindComponent, Component: "shared.a"},
			}},
			{UID: "shared.b", Category: "shared", Name: "b", Attributes: []schema.Attribute{
				{Name: "a", Kind: schema.KindComponent, Component: "shared.a"},
			}},
			{UID: "shared.leaf", Category: "shared", Name: "leaf", Attributes: []schema.Attribute{
				{Name: "text", Kind: schema.KindText},
			}},
		},
	}
	m := NewZodMapper(s, BuildNames(s), codegen.V5, false)

	expr, refs, _ := m.Map(schema.Attribute{Kind: schema.KindComponent, Component: "shared.a"}, "shared.a")
	assert.Equal(t, placeholder+".nullable()", expr)
	assert.Empty(t, refs)

	// b reaches back to a, so a -> b closes the cycle
	expr, _, _ = m.Map(schema.Attribute{Kind: schema.KindComponent, Component: "shared.b"}, "shared.a")
	assert.Equal(t, placeholder+".nullable()", expr)

	// leaf is acyclic and keeps its schema reference
	expr, refs, _ = m.Map(schema.Attribute{Kind: schema.KindComponent, Component: "shared.leaf"}, "shared.a")
	assert.Equal(t, "sharedLeafSchema.nullable()", expr)
	assert.Len(t, refs, 1)

	// entities never close component cycles
	expr, _, _ = m.Map(schema.Attribute{Kind: schema.KindComponent, Component: "shared.a"}, "")
	assert.Equal(t, "sharedASchema.nullable()", expr)
}

func TestZodMapper_DynamicZone(t *testing.T) {
	m := newZodMapper(codegen.V5, false)

	expr, refs, _ := m.Map(schema.Attribute{Kind: schema.KindDynamicZone, Components: []string{"shared.quote", "shared.seo"}}, "")
	assert.Equal(t, "z.array(z.union([sharedQuoteSchema, sharedSeoSchema]))", expr)
	assert.Len(t, refs, 2)

	expr, _, _ = m.Map(schema.Attribute{Kind: schema.KindDynamicZone, Components: []string{"shared.seo"}}, "")
	assert.Equal(t, "z.array(sharedSeoSchema)", expr)

	expr, _, _ = m.Map(schema.Attribute{Kind: schema.KindDynamicZone}, "")
	assert.Equal(t, "z.array(z.unknown())", expr)
}
