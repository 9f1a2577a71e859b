// Package layout maps logical generated modules onto on-disk paths and
// computes the relative import specifiers between them. All path math for
// every generator goes through here so the two grouping modes stay
// consistent.
package layout

import (
	"path"
	"strings"
)

// Mode selects how generated files are grouped under the output root.
type Mode string

const (
	// ByLayer groups files by artifact kind: all types together, all
	// services together, and so on.
	ByLayer Mode = "by-layer"
	// ByFeature gives each entity its own directory holding that entity's
	// types, schemas, services and actions.
	ByFeature Mode = "by-feature"
)

// Kind is the artifact kind of a logical module.
type Kind string

const (
	Types    Kind = "types"
	Schemas  Kind = "schemas"
	Services Kind = "services"
	Actions  Kind = "actions"

	// Shared modules live at the output root in both layout modes.
	Client  Kind = "client"
	Locales Kind = "locales"
	Utils   Kind = "utils"
	Upload  Kind = "upload"
)

// Module identifies one generated file independently of layout mode.
// Entity is the singular name for content types; components set Category
// and Entity (the component name) instead.
type Module struct {
	Kind     Kind
	Entity   string
	Category string
}

// Shared reports whether the module is layout-independent.
func (m Module) Shared() bool {
	switch m.Kind {
	case Client, Locales, Utils, Upload:
		return true
	}
	return false
}

// EntityModule returns the module for an entity-scoped artifact.
func EntityModule(kind Kind, singular string) Module {
	return Module{Kind: kind, Entity: singular}
}

// ComponentModule returns the module for a component-scoped artifact.
func ComponentModule(kind Kind, category, name string) Module {
	return Module{Kind: kind, Entity: name, Category: category}
}

// SharedModule returns a root-level shared module.
func SharedModule(kind Kind) Module {
	return Module{Kind: kind}
}

// Path returns the module's path relative to the output root, without a file
// extension. Paths use forward slashes regardless of platform.
func Path(m Module, mode Mode) string {
	if m.Shared() {
		return string(m.Kind)
	}

	if mode == ByFeature {
		if m.Category != "" {
			return path.Join("components", m.Category, m.Entity, string(m.Kind))
		}
		return path.Join(m.Entity, string(m.Kind))
	}

	// by-layer
	if m.Category != "" {
		return path.Join(string(m.Kind), "components", m.Category, m.Entity)
	}
	return path.Join(string(m.Kind), m.Entity)
}

// Import returns the relative import specifier for referencing module `to`
// from module `from` under the given layout mode. The result never has a
// file extension and is always explicitly relative ("./" or "../").
func Import(from, to Module, mode Mode) string {
	rel := relative(path.Dir(Path(from, mode)), Path(to, mode))
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

// relative computes a slash-separated relative path from directory base to
// target. base "." means the output root.
func relative(base, target string) string {
	if base == "." {
		return target
	}
	baseParts := strings.Split(base, "/")
	targetParts := strings.Split(target, "/")

	common := 0
	for common < len(baseParts) && common < len(targetParts) && baseParts[common] == targetParts[common] {
		common++
	}

	var parts []string
	for i := common; i < len(baseParts); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, targetParts[common:]...)
	return strings.Join(parts, "/")
}
