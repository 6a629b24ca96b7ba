package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rileyhilliard/vitals/internal/errors"
	"github.com/rileyhilliard/vitals/internal/export"
	"github.com/rileyhilliard/vitals/internal/logger"
	"github.com/rileyhilliard/vitals/internal/stream"
	"github.com/rileyhilliard/vitals/internal/ui"
	"github.com/rileyhilliard/vitals/internal/util"
	"github.com/rileyhilliard/vitals/internal/vitals"
)

// ExportOptions holds the export command flags.
type ExportOptions struct {
	StreamFlags
	Formats []string
	Dir     string
	Samples int
	Timeout time.Duration
	NoChart bool
}

// sampleSource is the part of stream.Client the collector needs.
type sampleSource interface {
	Subscribe(h stream.Handler) func()
	Run(ctx context.Context) error
}

// exportCommand collects readings without the dashboard and writes one
// file per requested format.
func exportCommand(ctx context.Context, out io.Writer, opts ExportOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := ValidateCount("samples", opts.Samples); err != nil {
		return err
	}

	formats, err := parseFormats(opts.Formats)
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyStreamOverrides(cfg, opts.URL, opts.Env); err != nil {
		return err
	}

	log, err := newLogger(cfg, "[export]", false)
	if err != nil {
		return err
	}

	client, err := stream.NewClientFromConfig(cfg, buildEnv, log)
	if err != nil {
		return err
	}

	target := opts.Samples
	if target <= 0 || target > cfg.Window.Size {
		target = cfg.Window.Size
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	window := vitals.NewWindow(cfg.Window.Size, vitals.WithTimeLayout(cfg.Window.TimeFormat))

	dir := opts.Dir
	if dir == "" {
		dir = cfg.Export.Dir
	}
	withChart := cfg.Export.PDFChart && !opts.NoChart

	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	ui.PrintHeader(out, ui.HeaderInfo{
		Version: formatVersion(version),
		Tagline: "Headless export",
		Details: [][2]string{
			{"Source", client.Source()},
			{"Samples", fmt.Sprintf("%d (timeout %s)", target, timeout)},
			{"Formats", strings.Join(names, ", ")},
			{"Directory", dir},
		},
	})

	spinner := ui.NewSpinner(fmt.Sprintf("Collecting from %s", client.Source()))
	spinner.SetOutput(out)
	spinner.Start()

	n, err := collectSamples(ctx, client, window, target, timeout, log, func(n int) {
		spinner.SetLabel(fmt.Sprintf("Collecting from %s (%d/%d)", client.Source(), n, target))
	})
	if err == nil && n == 0 {
		err = errors.New(errors.ErrStream,
			fmt.Sprintf("No readings arrived within %s", timeout),
			"Check the source is publishing, or raise --timeout.")
	}
	if err != nil {
		spinner.Fail()
		return err
	}
	spinner.SetLabel(fmt.Sprintf("Collected %d %s", n, util.Pluralize(n, "sample", "samples")))
	collected := spinner.Elapsed()
	spinner.Success()

	pd := ui.NewPhaseDisplay(out)
	for _, f := range formats {
		start := time.Now()
		pd.RenderProgress("Writing " + strings.ToUpper(string(f)))
		path, err := export.Export(f, window.Samples(), dir, export.WithChart(withChart))
		if err != nil {
			pd.RenderFailed("Writing "+strings.ToUpper(string(f)), time.Since(start), nil)
			return err
		}
		pd.RenderSuccess("Wrote "+strings.ToUpper(string(f)), time.Since(start))
		pd.RenderDetail(ui.SymbolPending, path, f.MIMEType())
	}
	if withChart && n < 2 && containsFormat(formats, export.FormatPDF) {
		pd.RenderSkipped("PDF chart page", "needs at least 2 samples")
	}

	pd.Divider()
	fmt.Fprintf(out, "%s %d %s in %s\n",
		ui.InfoStyle().Render(util.Pluralize(len(formats), "Export", "Exports")),
		n, util.Pluralize(n, "sample", "samples"), collected.Round(time.Millisecond))
	return nil
}

// collectSamples runs src until target readings land in window, the
// timeout passes or the stream gives up. Readings collected before a
// timeout or a stream failure are kept; the failure is only returned when
// nothing arrived.
func collectSamples(ctx context.Context, src sampleSource, window *vitals.Window, target int, timeout time.Duration, log logger.Logger, progress func(int)) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	readings := make(chan vitals.Reading, 16)
	unsubscribe := src.Subscribe(func(r vitals.Reading) {
		select {
		case readings <- r:
		case <-ctx.Done():
		}
	})
	defer unsubscribe()

	runErr := make(chan error, 1)
	go func() {
		runErr <- src.Run(ctx)
	}()

	count := 0
	add := func(r vitals.Reading) {
		window.Append(r)
		count++
		if progress != nil {
			progress(count)
		}
	}

	var err error
	stopped := false
	for count < target && !stopped {
		select {
		case r := <-readings:
			add(r)
		case err = <-runErr:
			stopped = true
		case <-ctx.Done():
			err = <-runErr
			stopped = true
		}
	}
	if !stopped {
		cancel()
		<-runErr
		return count, nil
	}

	// Run has returned, so nothing else will be queued.
drain:
	for count < target {
		select {
		case r := <-readings:
			add(r)
		default:
			break drain
		}
	}

	if err != nil && count > 0 {
		log.Warn("Stream stopped after %d %s: %v", count, util.Pluralize(count, "reading", "readings"), err)
		return count, nil
	}
	return count, err
}

// parseFormats resolves format names, dropping duplicates. No names means
// CSV.
func parseFormats(names []string) ([]export.Format, error) {
	if len(names) == 0 {
		return []export.Format{export.FormatCSV}, nil
	}

	var formats []export.Format
	for _, name := range names {
		f, err := export.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if !containsFormat(formats, f) {
			formats = append(formats, f)
		}
	}
	return formats, nil
}

func containsFormat(formats []export.Format, f export.Format) bool {
	for _, known := range formats {
		if known == f {
			return true
		}
	}
	return false
}
