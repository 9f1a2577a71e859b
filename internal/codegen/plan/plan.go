// Package plan is the output planner: it wires the artifact generators
// together, enforces the shared-before-entity invocation order and detects
// files left over from a previous layout mode.
package plan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cmsgen/cmsgen/internal/codegen"
	"github.com/cmsgen/cmsgen/internal/codegen/tsfile"
	"github.com/cmsgen/cmsgen/internal/codegen/typescript"
	"github.com/cmsgen/cmsgen/internal/schema"
)

// DefaultRegistry holds the built-in artifact generators.
var DefaultRegistry = codegen.NewRegistry()

func init() {
	DefaultRegistry.Register("shared", func() codegen.Generator { return typescript.SharedGenerator{} })
	DefaultRegistry.Register("types", func() codegen.Generator { return typescript.TypesGenerator{} })
	DefaultRegistry.Register("schemas", func() codegen.Generator { return typescript.SchemasGenerator{} })
	DefaultRegistry.Register("services", func() codegen.Generator { return typescript.ServicesGenerator{} })
	DefaultRegistry.Register("actions", func() codegen.Generator { return typescript.ActionsGenerator{} })
}

// Files runs the enabled generators and returns the complete file list,
// shared modules first. Generation is pure: the same schema and options
// yield byte-identical files, which is what makes repeat runs diffable.
func Files(s *schema.ParsedSchema, opts codegen.Options) ([]codegen.File, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = withImpliedArtifacts(opts)

	steps := []struct {
		name    string
		enabled bool
	}{
		{"shared", true},
		{"types", opts.Artifacts.Types},
		{"schemas", opts.Artifacts.Schemas},
		{"services", opts.Artifacts.Services},
		{"actions", opts.Artifacts.Actions},
	}

	var files []codegen.File
	seen := map[string]string{}
	for _, step := range steps {
		if !step.enabled {
			continue
		}
		gen, err := DefaultRegistry.Get(step.name)
		if err != nil {
			return nil, err
		}
		generated, err := gen.Generate(s, opts)
		if err != nil {
			return nil, fmt.Errorf("generate %s: %w", step.name, err)
		}
		for _, f := range generated {
			if prev, dup := seen[f.Path]; dup {
				return nil, fmt.Errorf("generator %s and %s both produce %s", prev, step.name, f.Path)
			}
			seen[f.Path] = step.name
			files = append(files, f)
		}
	}
	return files, nil
}

// withImpliedArtifacts enables the artifacts the requested ones import:
// actions call services, and services and actions reference the generated
// types.
func withImpliedArtifacts(opts codegen.Options) codegen.Options {
	if opts.Artifacts.Actions {
		opts.Artifacts.Services = true
	}
	if opts.Artifacts.Services {
		opts.Artifacts.Types = true
	}
	return opts
}

// Orphans returns previously generated files under outDir that the planned
// file set no longer produces — typically the residue of switching between
// layout modes. Only files carrying the generation banner are reported, so
// hand-written files are never offered for deletion.
func Orphans(outDir string, planned []codegen.File) ([]string, error) {
	expected := make(map[string]bool, len(planned))
	for _, f := range planned {
		expected[filepath.FromSlash(f.Path)] = true
	}

	var orphans []string
	err := filepath.WalkDir(outDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(p)
		if ext != ".ts" && ext != ".js" {
			return nil
		}
		rel, err := filepath.Rel(outDir, p)
		if err != nil {
			return err
		}
		if expected[rel] {
			return nil
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if strings.HasPrefix(string(content), tsfile.Banner) {
			orphans = append(orphans, rel)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	sort.Strings(orphans)
	return orphans, nil
}

// RemoveOrphans deletes the given files (paths relative to outDir) and any
// directories the deletions leave empty.
func RemoveOrphans(outDir string, orphans []string) error {
	for _, rel := range orphans {
		if err := os.Remove(filepath.Join(outDir, rel)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", rel, err)
		}
	}
	// prune empty directories bottom-up
	var dirs []string
	err := filepath.WalkDir(outDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && p != outDir {
			dirs = append(dirs, p)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err == nil && len(entries) == 0 {
			_ = os.Remove(dir)
		}
	}
	return nil
}
