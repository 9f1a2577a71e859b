package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"

	"github.com/cmsgen/cmsgen/internal/codegen/plan"
	"github.com/cmsgen/cmsgen/internal/config"
)

// CleanOptions are the clean command's flag values.
type CleanOptions struct {
	// Force skips the confirmation prompt.
	Force bool
}

// Clean removes every generated file under the configured output directory.
// Only files carrying the generation banner are touched.
func (c *Controller) Clean(ctx context.Context, opts CleanOptions) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("component", "clean").Logger()

	cfg, projectRoot, err := config.Load()
	if err != nil {
		return err
	}
	outDir := filepath.Join(projectRoot, cfg.Output)

	generated, err := plan.Orphans(outDir, nil)
	if err != nil {
		return fmt.Errorf("scan %s: %w", outDir, err)
	}
	if len(generated) == 0 {
		logger.Info().Str("dir", outDir).Msg("no generated files found")
		return nil
	}

	if !opts.Force {
		confirmed := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %d generated files under %s?", len(generated), cfg.Output)).
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			logger.Info().Msg("aborted")
			return nil
		}
	}

	if err := plan.RemoveOrphans(outDir, generated); err != nil {
		return err
	}
	logger.Info().Int("files", len(generated)).Msg("removed generated files")
	return nil
}
