package commands

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmsgen/cmsgen/internal/codegen"
	"github.com/cmsgen/cmsgen/internal/codegen/layout"
	"github.com/cmsgen/cmsgen/internal/codegen/tsfile"
	"github.com/cmsgen/cmsgen/internal/config"
)

func TestPhaseError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &PhaseError{Phase: PhaseFetch, Err: cause}

	assert.Equal(t, "fetch failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	var perr *PhaseError
	require.ErrorAs(t, error(err), &perr)
	assert.Equal(t, PhaseFetch, perr.Phase)
}

func TestBuildOptions(t *testing.T) {
	// Test plan:
	// - config strings map onto the typed generator options
	// - the detected version wins over the configured one
	cfg := &config.Config{
		Layout:            "by-feature",
		Language:          "javascript",
		ModuleSystem:      "cjs",
		AdvancedRelations: true,
		Artifacts:         config.Artifacts{Types: true, Actions: true},
	}

	opts := buildOptions(cfg, codegen.V4, t.TempDir())
	assert.Equal(t, codegen.V4, opts.Version)
	assert.Equal(t, layout.ByFeature, opts.Layout)
	assert.Equal(t, tsfile.JavaScript, opts.Dialect.Language)
	assert.Equal(t, tsfile.CJS, opts.Dialect.ModuleSystem)
	assert.True(t, opts.AdvancedRelations)
	assert.False(t, opts.BlocksRenderer)
	assert.True(t, opts.Artifacts.Types)
	assert.True(t, opts.Artifacts.Actions)
	assert.False(t, opts.Artifacts.Schemas)
}

func TestLoadRunConfig_ReloadsBetweenRuns(t *testing.T) {
	// Test plan:
	// - each run re-reads the config, so watch-triggered edits take effect
	// - flag overrides still win over the file on every run
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"layout": "by-layer"}`), 0o644))

	cfg, err := loadRunConfig(dir, GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "by-layer", cfg.Layout)

	require.NoError(t, os.WriteFile(path, []byte(`{"layout": "by-feature", "url": "https://cms.example.com"}`), 0o644))

	cfg, err = loadRunConfig(dir, GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "by-feature", cfg.Layout)
	assert.Equal(t, "https://cms.example.com", cfg.URL)

	cfg, err = loadRunConfig(dir, GenerateOptions{URL: "https://override.example.com", Token: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "https://override.example.com", cfg.URL)
	assert.Equal(t, "secret", cfg.Token)
}

func TestHasBlocksRenderer(t *testing.T) {
	// Test plan:
	// - found under dependencies and devDependencies
	// - missing package.json or missing dependency reports false
	dir := t.TempDir()
	assert.False(t, hasBlocksRenderer(dir))

	pkg := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(pkg, []byte(`{"dependencies": {"react": "^19.0.0"}}`), 0o644))
	assert.False(t, hasBlocksRenderer(dir))

	require.NoError(t, os.WriteFile(pkg, []byte(`{"dependencies": {"@strapi/blocks-react-renderer": "^1.0.0"}}`), 0o644))
	assert.True(t, hasBlocksRenderer(dir))

	require.NoError(t, os.WriteFile(pkg, []byte(`{"devDependencies": {"@strapi/blocks-react-renderer": "^1.0.0"}}`), 0o644))
	assert.True(t, hasBlocksRenderer(dir))

	require.NoError(t, os.WriteFile(pkg, []byte(`not json`), 0o644))
	assert.False(t, hasBlocksRenderer(dir))
}

func TestTruncateList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, truncateList([]string{"a", "b"}, 5))

	got := truncateList([]string{"a", "b", "c", "d"}, 2)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b"}, got[:2])
	assert.Contains(t, got[2], "2 more")
}
