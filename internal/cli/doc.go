// Package cli implements the vitals command-line interface.
//
// Each cobra command delegates to a plain function that takes a context and
// an io.Writer, so the logic can be tested without cobra.
//
// # Command Structure
//
// The root command is "vitals" with subcommands:
//
//	vitals monitor              - Live dashboard (needs a terminal)
//	vitals export [format]...   - Collect readings and write CSV/PDF/XLSX
//	vitals ranges show|set|reset|edit - Inspect or change alert ranges
//	vitals init                 - Create .vitals.yaml
//	vitals doctor               - Diagnose config, storage and stream
//	vitals version              - Build information
//
// # Sessions
//
// Commands that touch the stream or the range store load the config with
// loadConfig, apply --url/--env with applyStreamOverrides and open the
// store with openStore. The dashboard logs to a file because it owns the
// terminal; every other command logs to stderr.
//
// # Build Environment
//
// The default endpoint environment (PROD or DEV) is fixed at build time via
// SetBuildEnvironment and can be overridden by the config's environment key
// or --env.
package cli
