package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/cmsgen/cmsgen/internal/cms"
	"github.com/cmsgen/cmsgen/internal/codegen"
	"github.com/cmsgen/cmsgen/internal/codegen/layout"
	"github.com/cmsgen/cmsgen/internal/codegen/plan"
	"github.com/cmsgen/cmsgen/internal/codegen/tsfile"
	"github.com/cmsgen/cmsgen/internal/config"
	"github.com/cmsgen/cmsgen/internal/format"
	"github.com/cmsgen/cmsgen/internal/schema"
)

// Phase identifies where in the run state machine a failure happened:
// Idle -> Fetching -> Normalizing -> Generating -> Writing -> Done.
type Phase string

const (
	PhaseFetch     Phase = "fetch"
	PhaseNormalize Phase = "normalize"
	PhaseGenerate  Phase = "generate"
	PhaseWrite     Phase = "write"
)

// PhaseError wraps a failure with the phase it occurred in. Runs abort on
// the first phase error; there is no automatic retry.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// GenerateOptions are the generate command's flag values.
type GenerateOptions struct {
	// Token overrides the configured API token (usually from env).
	Token string
	// URL overrides the configured CMS URL.
	URL string
	// Watch re-runs generation whenever the config or .env changes.
	Watch bool
	// ForceClean removes files left over from a previous layout mode
	// without asking.
	ForceClean bool
}

// Generate runs one generation pass, or a watch loop when requested.
func (c *Controller) Generate(ctx context.Context, opts GenerateOptions) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("component", "generate").Logger()

	// Locate the project once; the config itself is re-read on every run
	// so that watch-triggered edits take effect without a restart.
	_, projectRoot, err := config.Load()
	if err != nil {
		return err
	}

	run := func() error {
		cfg, err := loadRunConfig(projectRoot, opts)
		if err != nil {
			return err
		}
		return runGeneration(ctx, cfg, projectRoot, opts.ForceClean, logger)
	}

	if err := run(); err != nil {
		if !opts.Watch {
			return err
		}
		logger.Error().Err(err).Msg("generation failed")
	}
	if !opts.Watch {
		return nil
	}
	return watchAndRegenerate(ctx, projectRoot, run, logger)
}

// loadRunConfig re-reads the project configuration and applies the flag
// overrides. Watch mode calls this before every run.
func loadRunConfig(projectRoot string, opts GenerateOptions) (*config.Config, error) {
	cfg, err := config.LoadFromPath(filepath.Join(projectRoot, config.FileName))
	if err != nil {
		return nil, err
	}
	if opts.URL != "" {
		cfg.URL = opts.URL
	}
	if opts.Token != "" {
		cfg.Token = opts.Token
	}
	return cfg, nil
}

// runGeneration executes the fetch -> normalize -> generate -> write
// pipeline once, aborting on the first phase failure.
func runGeneration(ctx context.Context, cfg *config.Config, projectRoot string, forceClean bool, logger zerolog.Logger) error {
	client := cms.NewClient(cfg.URL, cfg.Token, cfg.APIPrefix, logger)

	version := codegen.Version(cfg.Version)
	if detected, ok := client.DetectVersion(ctx); ok {
		if detected != version {
			logger.Warn().Str("configured", cfg.Version).Str("detected", string(detected)).Msg("using detected CMS version")
		}
		version = detected
	}

	logger.Info().Str("url", cfg.URL).Msg("fetching schema")
	raw, err := client.FetchSchema(ctx)
	if err != nil {
		return &PhaseError{Phase: PhaseFetch, Err: err}
	}

	parsed := schema.Normalize(raw)
	logger.Info().
		Int("collections", len(parsed.Collections)).
		Int("singles", len(parsed.Singles)).
		Int("components", len(parsed.Components)).
		Msg("normalized schema")

	genOpts := buildOptions(cfg, version, projectRoot)
	files, err := plan.Files(parsed, genOpts)
	if err != nil {
		return &PhaseError{Phase: PhaseGenerate, Err: err}
	}

	outDir := filepath.Join(projectRoot, cfg.Output)
	orphans, err := plan.Orphans(outDir, files)
	if err != nil {
		return &PhaseError{Phase: PhaseWrite, Err: err}
	}
	if len(orphans) > 0 {
		if forceClean {
			logger.Info().Int("files", len(orphans)).Msg("removing files from previous layout")
			if err := plan.RemoveOrphans(outDir, orphans); err != nil {
				return &PhaseError{Phase: PhaseWrite, Err: err}
			}
		} else {
			logger.Warn().Strs("files", truncateList(orphans, 5)).
				Msg("stale generated files from a previous layout; re-run with --force-clean or run cmsgen clean")
		}
	}

	for _, f := range files {
		target := filepath.Join(outDir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return &PhaseError{Phase: PhaseWrite, Err: err}
		}
		content := format.Format(f.Path, f.Content)
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			return &PhaseError{Phase: PhaseWrite, Err: err}
		}
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Path
	}
	logger.Info().Int("files", len(files)).Strs("written", truncateList(names, 10)).Msg("generation complete")
	return nil
}

// buildOptions translates the project configuration into generator options.
func buildOptions(cfg *config.Config, version codegen.Version, projectRoot string) codegen.Options {
	return codegen.Options{
		Version: version,
		Layout:  layout.Mode(cfg.Layout),
		Dialect: tsfile.Dialect{
			Language:     tsfile.Language(cfg.Language),
			ModuleSystem: tsfile.ModuleSystem(cfg.ModuleSystem),
		},
		AdvancedRelations: cfg.AdvancedRelations,
		BlocksRenderer:    hasBlocksRenderer(projectRoot),
		Artifacts: codegen.Artifacts{
			Types:    cfg.Artifacts.Types,
			Schemas:  cfg.Artifacts.Schemas,
			Services: cfg.Artifacts.Services,
			Actions:  cfg.Artifacts.Actions,
			Upload:   cfg.Artifacts.Upload,
		},
	}
}

// hasBlocksRenderer checks the target project's package.json for the
// structured rich-text renderer dependency.
func hasBlocksRenderer(projectRoot string) bool {
	data, err := os.ReadFile(filepath.Join(projectRoot, "package.json"))
	if err != nil {
		return false
	}
	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return false
	}
	const renderer = "@strapi/blocks-react-renderer"
	_, dep := pkg.Dependencies[renderer]
	_, dev := pkg.DevDependencies[renderer]
	return dep || dev
}

// watchAndRegenerate re-runs the pipeline when the configuration or .env
// changes, debouncing bursts of filesystem events.
func watchAndRegenerate(ctx context.Context, projectRoot string, run func() error, logger zerolog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(projectRoot); err != nil {
		return fmt.Errorf("failed to watch %s: %w", projectRoot, err)
	}
	logger.Info().Str("dir", projectRoot).Msg("watching for configuration changes")

	var debounce *time.Timer
	trigger := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			base := filepath.Base(event.Name)
			if base != config.FileName && base != ".env" {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(300*time.Millisecond, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})
		case <-trigger:
			logger.Info().Msg("configuration changed, regenerating")
			if err := run(); err != nil {
				logger.Error().Err(err).Msg("generation failed")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if err != nil {
				logger.Warn().Err(err).Msg("watcher error")
			}
		}
	}
}

func truncateList(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	out := append([]string(nil), items[:n]...)
	return append(out, fmt.Sprintf("… and %d more", len(items)-n))
}
