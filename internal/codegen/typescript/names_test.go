package typescript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmsgen/cmsgen/internal/codegen/layout"
)

func TestPascalCase(t *testing.T) {
	tests := map[string]string{
		"article":      "Article",
		"blog-post":    "BlogPost",
		"blog_post":    "BlogPost",
		"shared.seo":   "SharedSeo",
		"two words":    "TwoWords",
		"":             "",
		"alreadyCamel": "AlreadyCamel",
	}
	for in, want := range tests {
		assert.Equal(t, want, PascalCase(in), "PascalCase(%q)", in)
	}
}

func TestCamelCase(t *testing.T) {
	assert.Equal(t, "blogPost", CamelCase("blog-post"))
	assert.Equal(t, "article", CamelCase("article"))
	assert.Equal(t, "", CamelCase(""))
}

func TestBuildNames(t *testing.T) {
	// Test plan:
	// - entities get type, filters and schema-var names from the singular
	// - components combine category and name
	// - lookups by uid resolve, unknown uids do not

	names := BuildNames(testSchema())

	article, ok := names.Lookup("api::article.article")
	require.True(t, ok)
	assert.Equal(t, "Article", article.TypeName)
	assert.Equal(t, "ArticleFilters", article.FiltersName)
	assert.Equal(t, "article", article.SchemaVar)
	assert.False(t, article.IsComponent)
	assert.False(t, article.IsSingle)

	homepage, ok := names.Lookup("api::homepage.homepage")
	require.True(t, ok)
	assert.True(t, homepage.IsSingle)

	seo, ok := names.Lookup("shared.seo")
	require.True(t, ok)
	assert.Equal(t, "SharedSeo", seo.TypeName)
	assert.Equal(t, "sharedSeoSchema", seo.SchemaVar)
	assert.True(t, seo.IsComponent)

	_, ok = names.Lookup("api::ghost.ghost")
	assert.False(t, ok)
}

func TestEntryModule(t *testing.T) {
	names := BuildNames(testSchema())

	article, _ := names.Lookup("api::article.article")
	assert.Equal(t, layout.EntityModule(layout.Types, "article"), article.Module(layout.Types))

	seo, _ := names.Lookup("shared.seo")
	assert.Equal(t, layout.ComponentModule(layout.Schemas, "shared", "seo"), seo.Module(layout.Schemas))
}
