package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath(t *testing.T) {
	// Test plan: every module kind resolves to the right location in both
	// layout modes; shared modules are layout-independent.

	tests := []struct {
		name   string
		module Module
		mode   Mode
		want   string
	}{
		{"entity types by-layer", EntityModule(Types, "article"), ByLayer, "types/article"},
		{"entity types by-feature", EntityModule(Types, "article"), ByFeature, "article/types"},
		{"entity services by-layer", EntityModule(Services, "article"), ByLayer, "services/article"},
		{"entity services by-feature", EntityModule(Services, "article"), ByFeature, "article/services"},
		{"entity actions by-layer", EntityModule(Actions, "author"), ByLayer, "actions/author"},
		{"entity schemas by-feature", EntityModule(Schemas, "author"), ByFeature, "author/schemas"},
		{"component types by-layer", ComponentModule(Types, "shared", "seo"), ByLayer, "types/components/shared/seo"},
		{"component types by-feature", ComponentModule(Types, "shared", "seo"), ByFeature, "components/shared/seo/types"},
		{"component schemas by-layer", ComponentModule(Schemas, "shared", "seo"), ByLayer, "schemas/components/shared/seo"},
		{"client by-layer", SharedModule(Client), ByLayer, "client"},
		{"client by-feature", SharedModule(Client), ByFeature, "client"},
		{"utils by-feature", SharedModule(Utils), ByFeature, "utils"},
		{"locales by-layer", SharedModule(Locales), ByLayer, "locales"},
		{"upload by-feature", SharedModule(Upload), ByFeature, "upload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Path(tt.module, tt.mode))
		})
	}
}

func TestImport(t *testing.T) {
	// Test plan: relative import specifiers for every reference kind the
	// generators produce, in both layout modes. Results must always be
	// explicitly relative.

	tests := []struct {
		name string
		from Module
		to   Module
		mode Mode
		want string
	}{
		// relation target: article's types import author's types
		{"sibling entity by-layer", EntityModule(Types, "article"), EntityModule(Types, "author"), ByLayer, "./author"},
		{"sibling entity by-feature", EntityModule(Types, "article"), EntityModule(Types, "author"), ByFeature, "../author/types"},

		// entity file -> shared module
		{"types to utils by-layer", EntityModule(Types, "article"), SharedModule(Utils), ByLayer, "../utils"},
		{"types to utils by-feature", EntityModule(Types, "article"), SharedModule(Utils), ByFeature, "../utils"},
		{"services to client by-layer", EntityModule(Services, "article"), SharedModule(Client), ByLayer, "../client"},
		{"services to client by-feature", EntityModule(Services, "article"), SharedModule(Client), ByFeature, "../client"},

		// entity -> component reference
		{"entity to component by-layer", EntityModule(Types, "article"), ComponentModule(Types, "shared", "seo"), ByLayer, "./components/shared/seo"},
		{"entity to component by-feature", EntityModule(Types, "article"), ComponentModule(Types, "shared", "seo"), ByFeature, "../components/shared/seo/types"},

		// component -> component reference
		{"component to component by-layer", ComponentModule(Types, "shared", "seo"), ComponentModule(Types, "shared", "quote"), ByLayer, "./quote"},
		{"component to component by-feature", ComponentModule(Types, "shared", "seo"), ComponentModule(Types, "shared", "quote"), ByFeature, "../quote/types"},
		{"component across categories by-layer", ComponentModule(Types, "shared", "seo"), ComponentModule(Types, "blocks", "hero"), ByLayer, "../blocks/hero"},

		// component -> shared module
		{"component to utils by-layer", ComponentModule(Types, "shared", "seo"), SharedModule(Utils), ByLayer, "../../../utils"},
		{"component to utils by-feature", ComponentModule(Types, "shared", "seo"), SharedModule(Utils), ByFeature, "../../../utils"},

		// same-feature sibling files
		{"services to own types by-feature", EntityModule(Services, "article"), EntityModule(Types, "article"), ByFeature, "./types"},
		{"services to own types by-layer", EntityModule(Services, "article"), EntityModule(Types, "article"), ByLayer, "../types/article"},
		{"actions to own schemas by-feature", EntityModule(Actions, "article"), EntityModule(Schemas, "article"), ByFeature, "./schemas"},

		// shared -> shared
		{"client to utils", SharedModule(Client), SharedModule(Utils), ByLayer, "./utils"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Import(tt.from, tt.to, tt.mode)
			assert.Equal(t, tt.want, got)
			assert.True(t, got[0] == '.', "import must be explicitly relative")
		})
	}
}

func TestImport_SymbolIndependentOfMode(t *testing.T) {
	// Test: switching layout mode changes only the path, never the module
	// identity used to compute it.

	from := EntityModule(Types, "article")
	to := EntityModule(Types, "author")
	assert.NotEqual(t, Import(from, to, ByLayer), Import(from, to, ByFeature))
}
