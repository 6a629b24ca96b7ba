package cli

import (
	"os"
	"time"

	"github.com/rileyhilliard/vitals/internal/errors"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	monitorOpts MonitorOptions

	exportFlags ExportOptions

	rangesJSON bool

	initOpts InitOptions
)

// monitorCmd opens the dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Open the live vital-signs dashboard",
	Long: `Connect to the stream and show one card per vital sign, a history chart
of the last samples and the connection state.

Keyboard shortcuts:
  1-4           Show/hide heart rate, oxygen, pressure, temperature
  tab / arrows  Select a card
  e             Edit the selected card's alert range
  R             Reset all ranges to defaults
  c / p / x     Export CSV / PDF / XLSX
  ?             Show help
  q / Ctrl+C    Quit

Examples:
  vitals monitor
  vitals monitor --env dev
  vitals monitor --url http://localhost:6548`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(monitorOpts)
	},
}

// exportCmd collects samples without the dashboard and writes them out
var exportCmd = &cobra.Command{
	Use:   "export [csv|pdf|xlsx]...",
	Short: "Collect samples from the stream and export them",
	Long: `Connect to the stream, collect readings until the window is full (or
--samples readings arrive, or --timeout passes) and write one file per
format into the export directory.

Examples:
  vitals export csv
  vitals export csv pdf --samples 10
  vitals export xlsx --dir ./reports --timeout 1m`,
	ValidArgs: []string{"csv", "pdf", "xlsx"},
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := exportFlags
		opts.Formats = args
		return exportCommand(cmd.Context(), cmd.OutOrStdout(), opts)
	},
}

// rangesCmd groups the alert range subcommands
var rangesCmd = &cobra.Command{
	Use:   "ranges",
	Short: "Show or change the alert ranges",
	Long: `Alert ranges decide when a reading is flagged as out of range. They are
saved in the configured storage backend under one key and shared with the
dashboard.`,
}

var rangesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current alert ranges",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rangesShowCommand(cmd.Context(), cmd.OutOrStdout(), rangesJSON)
	},
}

var rangesSetCmd = &cobra.Command{
	Use:   "set <metric> <min|max> <value>",
	Short: "Set one bound of one metric",
	Long: `Set one bound of one metric. Metrics: bpm, o2InBlood, sistolica,
diastolica, temperature. An empty value stores 0; text that isn't a number
stores NaN, which never flags.

Examples:
  vitals ranges set bpm max 110
  vitals ranges set temperature min 35.8`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return rangesSetCommand(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], args[2])
	},
}

var rangesResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default alert ranges",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rangesResetCommand(cmd.Context(), cmd.OutOrStdout())
	},
}

var rangesEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit all alert ranges in a form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rangesEditCommand(cmd.Context(), cmd.OutOrStdout())
	},
}

// initCmd creates a new .vitals.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .vitals.yaml configuration",
	Long: `Write a .vitals.yaml with defaults to the current directory (or the
global config with --global). Flags override individual settings.

Examples:
  vitals init
  vitals init --env dev
  vitals init --url http://localhost:6548 --backend redis
  vitals init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(cmd.OutOrStdout(), initOpts)
	},
}

// doctorCmd diagnoses configuration, storage and stream issues
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, storage and stream issues",
	Long: `Run diagnostic checks to identify and fix common issues.

Checks:
  - Config file presence and validity
  - Stream endpoint for the active environment
  - Range storage backend
  - Stream handshake

Examples:
  vitals doctor
  vitals doctor --fix
  vitals doctor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.Context(), cmd.OutOrStdout())
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for vitals.

Examples:
  # Bash
  vitals completion bash > /etc/bash_completion.d/vitals

  # Zsh
  vitals completion zsh > "${fpath[1]}/_vitals"

  # Fish
  vitals completion fish > ~/.config/fish/completions/vitals.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// monitor command flags
	AddStreamFlags(monitorCmd, &monitorOpts.StreamFlags)
	monitorCmd.Flags().IntVar(&monitorOpts.WindowSize, "window", 0, "samples kept for the chart and exports")

	// export command flags
	AddStreamFlags(exportCmd, &exportFlags.StreamFlags)
	exportCmd.Flags().StringVar(&exportFlags.Dir, "dir", "", "output directory (default: export.dir)")
	exportCmd.Flags().IntVarP(&exportFlags.Samples, "samples", "n", 0, "readings to collect (default: window size)")
	exportCmd.Flags().DurationVar(&exportFlags.Timeout, "timeout", 30*time.Second, "stop collecting after this long")
	exportCmd.Flags().BoolVar(&exportFlags.NoChart, "no-chart", false, "skip the PDF chart page")

	// ranges command flags
	rangesShowCmd.Flags().BoolVar(&rangesJSON, "json", false, "output in JSON format")

	// init command flags
	initCmd.Flags().BoolVarP(&initOpts.Overwrite, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initOpts.Global, "global", false, "write ~/.config/vitals/config.yaml instead")
	initCmd.Flags().StringVar(&initOpts.Env, "env", "", "default environment: PROD or DEV")
	initCmd.Flags().StringVar(&initOpts.URL, "url", "", "stream endpoint")
	initCmd.Flags().StringVar(&initOpts.Backend, "backend", "", "range storage: file, redis or postgres")

	rangesCmd.AddCommand(rangesShowCmd)
	rangesCmd.AddCommand(rangesSetCmd)
	rangesCmd.AddCommand(rangesResetCmd)
	rangesCmd.AddCommand(rangesEditCmd)

	// Register all commands
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(rangesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(completionCmd)
}
