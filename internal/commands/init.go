package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/cmsgen/cmsgen/internal/config"
)

// InitOptions are the answers collected by the init form.
type InitOptions struct {
	URL       string
	Token     string
	Version   string
	Layout    string
	Language  string
	Output    string
	Artifacts []string
}

// FileSystem abstracts the filesystem operations init needs, so tests can
// run against a fake.
type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	Getwd() (string, error)
}

type osFileSystem struct{}

func (osFileSystem) Stat(name string) (os.FileInfo, error) { return os.Stat(name) }
func (osFileSystem) Getwd() (string, error)                { return os.Getwd() }

// InitCommand scaffolds a cmsgen.json in the current directory.
type InitCommand struct {
	filesystem FileSystem
	writeFile  func(cfg *config.Config, dir string) error
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand() *InitCommand {
	return &InitCommand{
		filesystem: osFileSystem{},
		writeFile:  func(cfg *config.Config, dir string) error { return cfg.Write(dir) },
	}
}

func (c *Controller) Init(ctx context.Context) error {
	cmd := NewInitCommand()
	return cmd.Run(ctx)
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	dir, err := ic.filesystem.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	if _, err := ic.filesystem.Stat(filepath.Join(dir, config.FileName)); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	var options *InitOptions

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	cfg := configFromOptions(options)
	if err := ic.writeFile(cfg, dir); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.FileName, err)
	}

	fmt.Printf("Created %s. Run `cmsgen generate` to generate your client code.\n", config.FileName)
	return nil
}

func configFromOptions(options *InitOptions) *config.Config {
	cfg := &config.Config{
		URL:      options.URL,
		Token:    options.Token,
		Version:  options.Version,
		Layout:   options.Layout,
		Language: options.Language,
		Output:   options.Output,
	}
	for _, a := range options.Artifacts {
		switch a {
		case "types":
			cfg.Artifacts.Types = true
		case "schemas":
			cfg.Artifacts.Schemas = true
		case "services":
			cfg.Artifacts.Services = true
		case "actions":
			cfg.Artifacts.Actions = true
		case "upload":
			cfg.Artifacts.Upload = true
		}
	}
	return cfg
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	options := &InitOptions{
		URL:       "http://localhost:1337",
		Version:   "v5",
		Layout:    "by-layer",
		Language:  "typescript",
		Output:    "./src/cms",
		Artifacts: []string{"types", "schemas", "services"},
	}

	form := ic.createInitForm(options)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

func (ic *InitCommand) createInitForm(options *InitOptions) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("CMS URL").
				Description("Base URL of your CMS instance").
				Value(&options.URL).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("URL cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Title("API token").
				Description("Leave empty for unauthenticated instances").
				EchoMode(huh.EchoModePassword).
				Value(&options.Token),

			huh.NewSelect[string]().
				Title("CMS version").
				Options(
					huh.NewOption("v5", "v5"),
					huh.NewOption("v4", "v4"),
				).
				Value(&options.Version),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output layout").
				Description("Group files by layer or by content type").
				Options(
					huh.NewOption("By layer (types/, schemas/, ...)", "by-layer"),
					huh.NewOption("By feature (article/, author/, ...)", "by-feature"),
				).
				Value(&options.Layout),

			huh.NewSelect[string]().
				Title("Language").
				Options(
					huh.NewOption("TypeScript", "typescript"),
					huh.NewOption("JavaScript with JSDoc", "javascript"),
				).
				Value(&options.Language),

			huh.NewMultiSelect[string]().
				Title("Artifacts").
				Description("What to generate").
				Options(
					huh.NewOption("Types", "types").Selected(true),
					huh.NewOption("Validation schemas", "schemas").Selected(true),
					huh.NewOption("Data services", "services").Selected(true),
					huh.NewOption("Server actions", "actions"),
					huh.NewOption("Upload helpers", "upload"),
				).
				Value(&options.Artifacts),

			huh.NewInput().
				Title("Output directory").
				Value(&options.Output).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("output directory cannot be empty")
					}
					return nil
				}),
		),
	)
}
