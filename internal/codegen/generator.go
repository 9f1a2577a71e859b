// Package codegen turns a normalized schema into generated source files.
package codegen

import (
	"fmt"

	"github.com/cmsgen/cmsgen/internal/codegen/layout"
	"github.com/cmsgen/cmsgen/internal/codegen/tsfile"
	"github.com/cmsgen/cmsgen/internal/schema"
)

// Version is the wire dialect of the source CMS.
type Version string

const (
	V4 Version = "v4"
	V5 Version = "v5"
)

// File is one generated output file. Path is relative to the output root
// and includes the extension.
type File struct {
	Path    string
	Content string
}

// Generator is the interface every artifact generator implements.
type Generator interface {
	// Name identifies the artifact kind (types, schemas, services, ...).
	Name() string

	// Generate renders the artifact's files from the parsed schema. It must
	// be pure: same schema and options, byte-identical files.
	Generate(s *schema.ParsedSchema, opts Options) ([]File, error)
}

// Artifacts selects which artifact kinds a run emits.
type Artifacts struct {
	Types    bool
	Schemas  bool
	Services bool
	Actions  bool
	Upload   bool
}

// Options carries every generation-time decision shared by the generators.
type Options struct {
	Version Version
	Layout  layout.Mode
	Dialect tsfile.Dialect

	// AdvancedRelations switches validation schemas to the
	// connect/disconnect/set relation input format. v5 only.
	AdvancedRelations bool

	// BlocksRenderer reports whether the target project depends on the
	// structured rich-text renderer package, in which case the generated
	// BlocksContent alias resolves to that package's type.
	BlocksRenderer bool

	Artifacts Artifacts
}

// Validate rejects option combinations the generators do not support.
func (o Options) Validate() error {
	switch o.Version {
	case V4, V5:
	default:
		return fmt.Errorf("unsupported target version %q", o.Version)
	}
	if o.AdvancedRelations && o.Version != V5 {
		return fmt.Errorf("advanced relation format requires target version v5")
	}
	switch o.Layout {
	case layout.ByLayer, layout.ByFeature:
	default:
		return fmt.Errorf("unsupported layout mode %q", o.Layout)
	}
	if !o.Dialect.TypeScript() && o.Dialect.ModuleSystem != tsfile.ESM && o.Dialect.ModuleSystem != tsfile.CJS {
		return fmt.Errorf("javascript output requires a module system (esm or cjs)")
	}
	return nil
}

// DocumentIDType is the type expression of an entry identifier in service
// signatures: numeric id on v4, opaque document id string on v5.
func (o Options) DocumentIDType() string {
	if o.Version == V5 {
		return "string"
	}
	return "number"
}

// IDParam is the parameter name used for entry identifiers in generated
// services and actions.
func (o Options) IDParam() string {
	if o.Version == V5 {
		return "documentId"
	}
	return "id"
}
