package typescript

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmsgen/cmsgen/internal/codegen"
	"github.com/cmsgen/cmsgen/internal/codegen/layout"
	"github.com/cmsgen/cmsgen/internal/codegen/tsfile"
	"github.com/cmsgen/cmsgen/internal/schema"
)

func intp(i int) *int           { return &i }
func floatp(f float64) *float64 { return &f }

// testSchema is the shared fixture: two collections (one fully featured,
// one plain), one single type and two components, already in normalized
// sort order.
func testSchema() *schema.ParsedSchema {
	return &schema.ParsedSchema{
		Collections: []schema.Entity{
			{
				UID:             "api::article.article",
				APIID:           "article",
				Singular:        "article",
				Plural:          "articles",
				DisplayName:     "Article",
				Description:     "Blog articles",
				Collection:      true,
				DraftAndPublish: true,
				Localized:       true,
				Attributes: []schema.Attribute{
					{Name: "title", Kind: schema.KindString, Required: true, MaxLength: intp(120)},
					{Name: "slug", Kind: schema.KindSlug, Required: true},
					{Name: "body", Kind: schema.KindRichText},
					{Name: "category", Kind: schema.KindEnumeration, Enum: []string{"news", "opinion"}},
					{Name: "rating", Kind: schema.KindFloat, Min: floatp(0), Max: floatp(5)},
					{Name: "featured", Kind: schema.KindBoolean, Default: json.RawMessage("true")},
					{Name: "author", Kind: schema.KindRelation, Relation: schema.ManyToOne, Target: "api::author.author"},
					{Name: "seo", Kind: schema.KindComponent, Component: "shared.seo"},
					{Name: "cover", Kind: schema.KindMedia},
					{Name: "gallery", Kind: schema.KindMedia, Multiple: true},
					{Name: "sections", Kind: schema.KindDynamicZone, Components: []string{"shared.quote", "shared.seo"}},
				},
			},
			{
				UID:         "api::author.author",
				APIID:       "author",
				Singular:    "author",
				Plural:      "authors",
				DisplayName: "Author",
				Collection:  true,
				Attributes: []schema.Attribute{
					{Name: "name", Kind: schema.KindString, Required: true},
					{Name: "articles", Kind: schema.KindRelation, Relation: schema.OneToMany, Target: "api::article.article"},
				},
			},
		},
		Singles: []schema.Entity{
			{
				UID:         "api::homepage.homepage",
				APIID:       "homepage",
				Singular:    "homepage",
				Plural:      "homepages",
				DisplayName: "Homepage",
				Attributes: []schema.Attribute{
					{Name: "title", Kind: schema.KindString, Required: true},
					{Name: "seo", Kind: schema.KindComponent, Component: "shared.seo"},
				},
			},
		},
		Components: []schema.Component{
			{
				UID:      "shared.quote",
				Category: "shared",
				Name:     "quote",
				Attributes: []schema.Attribute{
					{Name: "text", Kind: schema.KindText, Required: true},
					{Name: "attribution", Kind: schema.KindString},
				},
			},
			{
				UID:      "shared.seo",
				Category: "shared",
				Name:     "seo",
				Attributes: []schema.Attribute{
					{Name: "metaTitle", Kind: schema.KindString, Required: true, MaxLength: intp(60)},
					{Name: "metaDescription", Kind: schema.KindText},
				},
			},
		},
		Locales: []schema.Locale{
			{Code: "en", Name: "English", IsDefault: true},
			{Code: "de", Name: "German"},
		},
	}
}

func tsOptions() codegen.Options {
	return codegen.Options{
		Version:   codegen.V5,
		Layout:    layout.ByLayer,
		Dialect:   tsfile.Dialect{Language: tsfile.TypeScript},
		Artifacts: codegen.Artifacts{Types: true, Schemas: true, Services: true},
	}
}

func jsOptions(ms tsfile.ModuleSystem) codegen.Options {
	opts := tsOptions()
	opts.Dialect = tsfile.Dialect{Language: tsfile.JavaScript, ModuleSystem: ms}
	return opts
}

func fileByPath(t *testing.T, files []codegen.File, path string) codegen.File {
	t.Helper()
	for _, f := range files {
		if f.Path == path {
			return f
		}
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	require.Failf(t, "file not generated", "want %s, have %v", path, paths)
	return codegen.File{}
}
