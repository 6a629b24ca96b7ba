package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/vitals/internal/errors"
	"github.com/rileyhilliard/vitals/internal/ranges"
	"github.com/rileyhilliard/vitals/internal/ui"
	"github.com/rileyhilliard/vitals/internal/util"
	"github.com/rileyhilliard/vitals/internal/vitals"
)

// openRangesStore loads the config and opens the range store it names.
// Callers close the store.
func openRangesStore(ctx context.Context) (*ranges.Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg, "[ranges]", false)
	if err != nil {
		return nil, err
	}
	return openStore(ctx, cfg, log)
}

// rangeRows turns a config into table rows in metric order.
func rangeRows(cfg vitals.RangeConfig) []ui.RangeRow {
	rows := make([]ui.RangeRow, 0, len(vitals.Metrics))
	for _, m := range vitals.Metrics {
		b, ok := cfg[m]
		if !ok {
			continue
		}
		rows = append(rows, ui.RangeRow{
			Metric: m.Label(),
			Min:    vitals.FormatNumber(b.Min),
			Max:    vitals.FormatNumber(b.Max),
			Unit:   m.Unit(),
		})
	}
	return rows
}

func rangesShowCommand(ctx context.Context, w io.Writer, asJSON bool) error {
	store, err := openRangesStore(ctx)
	if err != nil {
		if asJSON {
			_ = WriteJSONFromError(w, err)
		}
		return err
	}
	defer store.Close()

	cfg := store.Current()
	if asJSON {
		return WriteJSONSuccess(w, cfg)
	}
	fmt.Fprintln(w, ui.RenderRangesTable(rangeRows(cfg)))
	return nil
}

func rangesSetCommand(ctx context.Context, w io.Writer, metric, bound, value string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := openRangesStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg, err := store.SetField(ctx, metric, bound, value)
	if err != nil {
		return err
	}

	m, _ := vitals.ParseMetric(metric)
	kind, _ := vitals.ParseBoundKind(bound)
	v := cfg[m].Get(kind)
	if math.IsNaN(v) {
		ui.PrintWarning(fmt.Sprintf("'%s' is not a number; the %s %s bound no longer triggers alerts", value, m, kind))
	}
	fmt.Fprintf(w, "%s %s %s set to %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), m, kind, vitals.FormatNumber(v))
	return nil
}

func rangesResetCommand(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := openRangesStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg, err := store.Reset(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Ranges restored to defaults\n\n", ui.SuccessStyle().Render(ui.SymbolSuccess))
	fmt.Fprintln(w, ui.RenderRangesTable(rangeRows(cfg)))
	return nil
}

// rangeField is one editable bound in the edit form.
type rangeField struct {
	metric vitals.Metric
	kind   vitals.BoundKind
	value  string
}

// rangeFields lists every bound of cfg, pre-filled with its current value.
func rangeFields(cfg vitals.RangeConfig) []*rangeField {
	var fields []*rangeField
	for _, m := range vitals.Metrics {
		b := cfg[m]
		fields = append(fields,
			&rangeField{metric: m, kind: vitals.BoundMin, value: vitals.FormatNumber(b.Min)},
			&rangeField{metric: m, kind: vitals.BoundMax, value: vitals.FormatNumber(b.Max)},
		)
	}
	return fields
}

// applyRangeFields persists the fields whose value differs from cfg and
// returns how many changed.
func applyRangeFields(ctx context.Context, store *ranges.Store, cfg vitals.RangeConfig, fields []*rangeField) (int, error) {
	changed := 0
	for _, f := range fields {
		input := strings.TrimSpace(f.value)
		if input == vitals.FormatNumber(cfg[f.metric].Get(f.kind)) {
			continue
		}
		if _, err := store.SetField(ctx, string(f.metric), string(f.kind), input); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

func validateNumber(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if math.IsNaN(vitals.ParseNumber(s)) {
		return fmt.Errorf("enter a number")
	}
	return nil
}

func rangesEditCommand(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := openRangesStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := store.Current()
	fields := rangeFields(cfg)

	var groups []*huh.Group
	for i := 0; i < len(fields); i += 2 {
		lo, hi := fields[i], fields[i+1]
		title := fmt.Sprintf("%s (%s)", lo.metric.Label(), lo.metric.Unit())
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title(title+" min").
				Value(&lo.value).
				Validate(validateNumber),
			huh.NewInput().
				Title(title+" max").
				Value(&hi.value).
				Validate(validateNumber),
		))
	}

	if err := huh.NewForm(groups...).Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Use 'vitals ranges set <metric> <min|max> <value>' instead")
	}

	changed, err := applyRangeFields(ctx, store, cfg, fields)
	if err != nil {
		return err
	}
	if changed == 0 {
		fmt.Fprintln(w, "No changes.")
		return nil
	}

	fmt.Fprintf(w, "%s Saved %d %s\n\n", ui.SuccessStyle().Render(ui.SymbolSuccess), changed, util.Pluralize(changed, "change", "changes"))
	fmt.Fprintln(w, ui.RenderRangesTable(rangeRows(store.Current())))
	return nil
}
