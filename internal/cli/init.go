package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/vitals/internal/config"
	"github.com/rileyhilliard/vitals/internal/errors"
	"github.com/rileyhilliard/vitals/internal/ui"
	"golang.org/x/term"
)

// defaultPostgresDSN is written when --backend postgres is picked without
// an existing DSN.
const defaultPostgresDSN = "postgres://localhost:5432/vitals?sslmode=disable"

// InitOptions holds options for the init command.
type InitOptions struct {
	Overwrite bool   // Overwrite existing config without asking
	Global    bool   // Write the global config instead of ./.vitals.yaml
	Env       string // Default environment (PROD or DEV)
	URL       string // Stream endpoint
	Backend   string // Range storage backend
}

// confirmOverwrite asks before replacing an existing file. Swapped in tests.
var confirmOverwrite = func(path string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.New(errors.ErrConfig,
			fmt.Sprintf("Config file already exists: %s", path),
			"Use --force to overwrite")
	}

	var overwrite bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", filepath.Base(path))).
				Value(&overwrite),
		),
	)
	if err := form.Run(); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Try running with --force to overwrite")
	}
	return overwrite, nil
}

// initConfig builds the config init writes: defaults plus flag overrides.
func initConfig(opts InitOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if opts.Env != "" || opts.URL != "" {
		if err := applyStreamOverrides(cfg, opts.URL, opts.Env); err != nil {
			return nil, err
		}
	}

	if opts.Backend != "" {
		cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(opts.Backend))
		if cfg.Storage.Backend == config.BackendPostgres && cfg.Storage.Postgres.DSN == "" {
			cfg.Storage.Postgres.DSN = defaultPostgresDSN
		}
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init creates a new .vitals.yaml configuration file.
func Init(w io.Writer, opts InitOptions) error {
	configPath := filepath.Join(".", config.ConfigFileName)
	if opts.Global {
		path, err := config.GlobalConfigPath()
		if err != nil {
			return err
		}
		configPath = path
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		overwrite, err := confirmOverwrite(configPath)
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	if err := config.Write(configPath, cfg, true); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Fprintf(w, "%s Created %s\n\n", ui.SuccessStyle().Render(ui.SymbolSuccess), configPath)
	if cfg.Storage.Backend == config.BackendPostgres && cfg.Storage.Postgres.DSN == defaultPostgresDSN {
		fmt.Fprintf(w, "  %s\n\n", ui.MutedStyle().Render("Set storage.postgres.dsn before first use."))
	}
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintln(w, "  vitals doctor   - Check configuration")
	fmt.Fprintln(w, "  vitals monitor  - Open the dashboard")
	fmt.Fprintln(w, "  vitals export   - Collect readings to a file")

	return nil
}
