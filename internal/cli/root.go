package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rileyhilliard/vitals/internal/config"
	"github.com/rileyhilliard/vitals/internal/errors"
	"github.com/rileyhilliard/vitals/internal/logger"
	"github.com/rileyhilliard/vitals/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile  string
	verbose  bool
	noColor  bool
	buildEnv = config.EnvProd
)

// logFileName is used when the dashboard owns the terminal and no log file
// is configured.
const logFileName = "vitals.log"

var rootCmd = &cobra.Command{
	Use:   "vitals",
	Short: "Live vital-signs dashboard for the terminal",
	Long: `vitals streams heart rate, blood oxygen, blood pressure and body
temperature from a Socket.IO (or MQTT) source, flags readings outside your
alert ranges, and exports the last samples to CSV, PDF or XLSX.

Run 'vitals monitor' to open the dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .vitals.yaml, searched upward)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

// Config returns the --config flag value.
func Config() string {
	return cfgFile
}

// SetBuildEnvironment sets the environment baked in at build time.
func SetBuildEnvironment(env string) {
	if env = strings.ToUpper(strings.TrimSpace(env)); env != "" {
		buildEnv = env
	}
}

// BuildEnvironment returns the environment baked in at build time.
func BuildEnvironment() string {
	return buildEnv
}

// loadConfig loads and validates the config, falling back to defaults when
// no file exists.
func loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, path, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// newLogger builds the logger for a command. When the dashboard owns the
// terminal, output goes to a file instead of stderr.
func newLogger(cfg *config.Config, prefix string, tui bool) (logger.Logger, error) {
	lc := logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	}
	if verbose {
		lc.Level = "debug"
	}
	if tui && lc.File == "" {
		path, err := defaultLogPath()
		if err != nil {
			return logger.Noop(), nil
		}
		lc.File = path
	}

	log, err := logger.New(lc, prefix)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't set up logging",
			"Check log.file in your .vitals.yaml points somewhere writable.")
	}
	return log, nil
}

func defaultLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, config.GlobalConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, logFileName), nil
}

// printError writes err to stderr. Structured errors already carry their
// own symbol and suggestion.
func printError(err error) {
	var vErr *errors.Error
	if errors.As(err, &vErr) {
		fmt.Fprint(os.Stderr, ui.ErrorStyle().Render(vErr.Error()))
		return
	}

	msg := err.Error()
	if isUnknownCommandError(err) {
		if name := extractUnknownCommand(err); name != "" {
			msg = fmt.Sprintf("Unknown command '%s'", name)
		}
		fmt.Fprintf(os.Stderr, "%s %s\n\n  %s\n", ui.ErrorStyle().Render(ui.SymbolFail), msg,
			ui.MutedStyle().Render("Run 'vitals --help' to see the available commands."))
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", ui.ErrorStyle().Render(ui.SymbolFail), msg)
}

// isUnknownCommandError reports whether cobra rejected the command line.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the command name out of cobra's
// `unknown command "foo" for "vitals"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start == -1 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end == -1 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
