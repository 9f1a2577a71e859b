package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePayload = `{
	"uid": "api::article.article",
	"apiID": "article",
	"schema": {
		"kind": "collectionType",
		"collectionName": "articles",
		"singularName": "article",
		"pluralName": "articles",
		"displayName": "Article",
		"description": "Blog articles",
		"draftAndPublish": true,
		"pluginOptions": {"i18n": {"localized": true}},
		"attributes": {
			"title": {"type": "string", "required": true, "maxLength": 120},
			"slug": {"type": "uid", "required": true},
			"body": {"type": "richtext"},
			"views": {"type": "integer", "min": 0},
			"internalNotes": {"type": "text", "private": true},
			"createdAt": {"type": "datetime"},
			"author": {"type": "relation", "relation": "manyToOne", "target": "api::author.author"},
			"seo": {"type": "component", "component": "shared.seo"},
			"sections": {"type": "dynamiczone", "components": ["shared.quote", "shared.seo"]},
			"cover": {"type": "media", "multiple": false},
			"mystery": {"type": "holo-field"}
		}
	}
}`

func decodeContentType(t *testing.T, payload string) RawContentType {
	t.Helper()
	var ct RawContentType
	require.NoError(t, json.Unmarshal([]byte(payload), &ct))
	return ct
}

func TestNormalize_CollectionType(t *testing.T) {
	// Test plan:
	// - kind tag splits collections from singles
	// - naming fields and flags are copied over
	// - system and private attributes are dropped
	// - unknown attribute type tags degrade to KindUnknown

	raw := Raw{ContentTypes: []RawContentType{decodeContentType(t, articlePayload)}}
	parsed := Normalize(raw)

	require.Len(t, parsed.Collections, 1)
	require.Len(t, parsed.Singles, 0)

	article := parsed.Collections[0]
	assert.Equal(t, "api::article.article", article.UID)
	assert.Equal(t, "article", article.Singular)
	assert.Equal(t, "articles", article.Plural)
	assert.Equal(t, "Article", article.DisplayName)
	assert.True(t, article.Collection)
	assert.True(t, article.DraftAndPublish)
	assert.True(t, article.Localized)

	// Test: createdAt (system) and internalNotes (private) are filtered
	names := make([]string, 0, len(article.Attributes))
	for _, a := range article.Attributes {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"title", "slug", "body", "views", "author", "seo", "sections", "cover", "mystery"}, names)

	// Test: declaration order survives and kind-specific fields are mapped
	title := article.Attributes[0]
	assert.Equal(t, KindString, title.Kind)
	assert.True(t, title.Required)
	require.NotNil(t, title.MaxLength)
	assert.Equal(t, 120, *title.MaxLength)

	author := article.Attributes[4]
	assert.Equal(t, KindRelation, author.Kind)
	assert.Equal(t, ManyToOne, author.Relation)
	assert.Equal(t, "api::author.author", author.Target)
	assert.False(t, author.Relation.Many())

	sections := article.Attributes[6]
	assert.Equal(t, KindDynamicZone, sections.Kind)
	assert.Equal(t, []string{"shared.quote", "shared.seo"}, sections.Components)

	mystery := article.Attributes[8]
	assert.Equal(t, KindUnknown, mystery.Kind)
}

func TestNormalize_FiltersNonAPITypes(t *testing.T) {
	// Test: plugin:: and admin:: descriptors never reach the parsed schema

	raw := Raw{ContentTypes: []RawContentType{
		{UID: "plugin::users-permissions.user", Schema: RawContentSchema{Kind: "collectionType", SingularName: "user"}},
		{UID: "admin::permission", Schema: RawContentSchema{Kind: "collectionType", SingularName: "permission"}},
		decodeContentType(t, articlePayload),
	}}

	parsed := Normalize(raw)
	require.Len(t, parsed.Collections, 1)
	assert.Equal(t, "api::article.article", parsed.Collections[0].UID)
}

func TestNormalize_SortsDeterministically(t *testing.T) {
	// Test plan:
	// - collections sorted by singular name, components by uid
	// - two runs over the same input produce identical output

	raw := Raw{
		ContentTypes: []RawContentType{
			{UID: "api::zebra.zebra", Schema: RawContentSchema{Kind: "collectionType", SingularName: "zebra"}},
			{UID: "api::apple.apple", Schema: RawContentSchema{Kind: "collectionType", SingularName: "apple"}},
			{UID: "api::home.home", Schema: RawContentSchema{Kind: "singleType", SingularName: "home"}},
		},
		Components: []RawComponent{
			{UID: "shared.seo", Category: "shared"},
			{UID: "blocks.hero", Category: "blocks"},
		},
		Locales: []RawLocale{{Code: "fr", Name: "French"}, {Code: "en", Name: "English", IsDefault: true}},
	}

	parsed := Normalize(raw)
	assert.Equal(t, "apple", parsed.Collections[0].Singular)
	assert.Equal(t, "zebra", parsed.Collections[1].Singular)
	require.Len(t, parsed.Singles, 1)
	assert.Equal(t, "blocks.hero", parsed.Components[0].UID)
	assert.Equal(t, "seo", parsed.Components[1].Name)
	assert.Equal(t, "en", parsed.Locales[0].Code)
	assert.True(t, parsed.LocalizationEnabled())

	first, err := json.Marshal(parsed)
	require.NoError(t, err)
	second, err := json.Marshal(Normalize(raw))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNormalize_LocalizedFlagDefaultsFalse(t *testing.T) {
	// Test: missing or malformed plugin options mean not localized

	cases := []struct {
		name string
		opts map[string]json.RawMessage
	}{
		{"no options", nil},
		{"no i18n block", map[string]json.RawMessage{"other": json.RawMessage(`{}`)}},
		{"malformed i18n", map[string]json.RawMessage{"i18n": json.RawMessage(`"yes"`)}},
		{"explicit false", map[string]json.RawMessage{"i18n": json.RawMessage(`{"localized": false}`)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := Raw{ContentTypes: []RawContentType{{
				UID:    "api::page.page",
				Schema: RawContentSchema{Kind: "singleType", SingularName: "page", PluginOptions: tc.opts},
			}}}
			parsed := Normalize(raw)
			require.Len(t, parsed.Singles, 1)
			assert.False(t, parsed.Singles[0].Localized)
		})
	}
}

func TestRawAttributes_PreservesKeyOrder(t *testing.T) {
	// Test: JSON object key order is recorded, not alphabetized

	var attrs RawAttributes
	payload := `{"zulu": {"type": "string"}, "alpha": {"type": "boolean"}, "mike": {"type": "integer"}}`
	require.NoError(t, json.Unmarshal([]byte(payload), &attrs))

	assert.Equal(t, []string{"zulu", "alpha", "mike"}, attrs.Names)
	assert.Equal(t, "boolean", attrs.Items["alpha"].Type)
}

func TestParsedSchema_Lookups(t *testing.T) {
	parsed := &ParsedSchema{
		Collections: []Entity{{UID: "api::article.article", Singular: "article", Attributes: []Attribute{{Name: "slug", Kind: KindSlug}}}},
		Singles:     []Entity{{UID: "api::home.home", Singular: "home"}},
		Components:  []Component{{UID: "shared.seo", Name: "seo"}},
	}

	article, ok := parsed.LookupEntity("api::article.article")
	require.True(t, ok)
	assert.True(t, article.HasSlug())
	assert.Equal(t, "slug", article.SlugAttribute())

	home, ok := parsed.LookupEntity("api::home.home")
	require.True(t, ok)
	assert.False(t, home.HasSlug())

	_, ok = parsed.LookupEntity("api::missing.missing")
	assert.False(t, ok)

	seo, ok := parsed.LookupComponent("shared.seo")
	require.True(t, ok)
	assert.Equal(t, "seo", seo.Name)

	assert.Len(t, parsed.Entities(), 2)
}
