package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rileyhilliard/vitals/internal/config"
	"github.com/rileyhilliard/vitals/internal/doctor"
	"github.com/rileyhilliard/vitals/internal/errors"
	"github.com/rileyhilliard/vitals/internal/ui"
	"github.com/rileyhilliard/vitals/internal/util"
)

var (
	doctorJSON bool
	doctorFix  bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "attempt automatic fixes where possible")
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []doctor.CategoryResults `json:"categories"`
	Summary    SummaryOutput            `json:"summary"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	AllClear bool `json:"all_clear"`
}

// doctorCommand implements the doctor command logic.
func doctorCommand(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	checks := collectChecks(Config(), buildEnv)
	results := doctor.RunAllParallel(ctx, checks)

	if doctorFix {
		results = attemptFixes(ctx, checks, results)
	}

	if doctorJSON {
		if err := outputDoctorJSON(w, checks, results); err != nil {
			return err
		}
		return doctorError(checks, results)
	}
	ui.PrintHeader(w, doctorHeader(Config(), buildEnv))
	if err := outputDoctorText(w, checks, results, doctorFix); err != nil {
		return err
	}
	return doctorError(checks, results)
}

// doctorError reports failed checks as an error so the exit status is
// non-zero. Warnings alone pass. The code follows the first failure.
func doctorError(checks []doctor.Check, results []doctor.CheckResult) error {
	if !doctor.HasFailures(results) {
		return nil
	}

	code := errors.ErrConfig
	for i, r := range results {
		if r.Status == doctor.StatusFail {
			code = categoryCode(checks[i].Category())
			break
		}
	}

	n := doctor.CountByStatus(results)[doctor.StatusFail]
	return errors.New(code,
		fmt.Sprintf("%d %s failed", n, util.Pluralize(n, "check", "checks")),
		"Follow the suggestions above, or run 'vitals doctor --fix'.")
}

func categoryCode(category string) string {
	switch category {
	case "STORAGE":
		return errors.ErrStorage
	case "STREAM":
		return errors.ErrStream
	default:
		return errors.ErrConfig
	}
}

// collectChecks gathers all diagnostic checks. Storage and stream checks
// need a loaded config; config checks report why one is missing.
func collectChecks(cfgPath, env string) []doctor.Check {
	cfg, _, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		cfg = nil
	}

	var checks []doctor.Check
	checks = append(checks, doctor.NewConfigChecks(cfgPath, cfg, env)...)
	if cfg != nil {
		checks = append(checks, doctor.NewStorageChecks(cfg.Storage)...)
	}
	checks = append(checks, doctor.NewStreamChecks(cfg, env)...)
	return checks
}

// doctorHeader describes what the checks ran against.
func doctorHeader(cfgPath, env string) ui.HeaderInfo {
	info := ui.HeaderInfo{Version: formatVersion(version), Tagline: "Diagnostic report"}

	path, err := config.Find(cfgPath)
	switch {
	case err != nil:
		info.Details = append(info.Details, [2]string{"Config", cfgPath + " (missing)"})
	case path == "":
		info.Details = append(info.Details, [2]string{"Config", "built-in defaults"})
	default:
		info.Details = append(info.Details, [2]string{"Config", path})
	}
	info.Details = append(info.Details, [2]string{"Build env", env})
	return info
}

// attemptFixes runs Fix on each fixable issue. When any fix succeeds, every
// check runs again in order.
func attemptFixes(ctx context.Context, checks []doctor.Check, results []doctor.CheckResult) []doctor.CheckResult {
	fixed := 0
	for i, result := range results {
		if !result.Fixable || result.Status == doctor.StatusPass {
			continue
		}
		if err := checks[i].Fix(); err == nil {
			fixed++
		}
	}
	if fixed == 0 {
		return results
	}
	return doctor.RunAll(ctx, checks)
}

// outputDoctorJSON outputs results in JSON format.
func outputDoctorJSON(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) error {
	counts := doctor.CountByStatus(results)
	output := DoctorOutput{
		Categories: doctor.GroupByCategory(checks, results),
		Summary: SummaryOutput{
			Pass:     counts[doctor.StatusPass],
			Warn:     counts[doctor.StatusWarn],
			Fail:     counts[doctor.StatusFail],
			Fixable:  doctor.FixableCount(results),
			AllClear: !doctor.HasIssues(results),
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// outputDoctorText outputs results in human-readable format.
//
//nolint:unparam // error return reserved for future use
func outputDoctorText(w io.Writer, checks []doctor.Check, results []doctor.CheckResult, fixed bool) error {
	fmt.Fprintln(w)

	var rows []ui.DoctorCheckRow
	for _, category := range doctor.GroupByCategory(checks, results) {
		for _, result := range category.Results {
			rows = append(rows, ui.DoctorCheckRow{
				Status:     result.Status.String(),
				Category:   category.Name,
				Message:    result.Message,
				Suggestion: result.Suggestion,
			})
		}
	}
	fmt.Fprint(w, ui.RenderDoctorTable(rows))

	fmt.Fprintln(w, ui.FormatDivider(60))
	fmt.Fprintln(w)

	if !doctor.HasIssues(results) {
		fmt.Fprintf(w, "%s %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), doctor.Summary(results))
	} else {
		fmt.Fprintf(w, "%s %s\n", ui.ErrorStyle().Render(ui.SymbolFail), doctor.Summary(results))

		if doctor.FixableCount(results) > 0 && !fixed {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  Run with %s to attempt automatic fixes where possible.\n",
				ui.MutedStyle().Render("--fix"))
		}
	}

	fmt.Fprintln(w)
	return nil
}
