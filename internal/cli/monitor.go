package cli

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/vitals/internal/errors"
	"github.com/rileyhilliard/vitals/internal/monitor"
	"github.com/rileyhilliard/vitals/internal/stream"
	"github.com/rileyhilliard/vitals/internal/vitals"
	"golang.org/x/term"
)

// MonitorOptions holds the monitor command flags.
type MonitorOptions struct {
	StreamFlags
	WindowSize int
}

// monitorCommand runs the dashboard until the user quits.
func monitorCommand(opts MonitorOptions) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"The dashboard needs an interactive terminal",
			"Use 'vitals export' to collect samples without the dashboard.")
	}

	if err := ValidateCount("window", opts.WindowSize); err != nil {
		return err
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyStreamOverrides(cfg, opts.URL, opts.Env); err != nil {
		return err
	}
	if opts.WindowSize > 0 {
		cfg.Window.Size = opts.WindowSize
	}

	log, err := newLogger(cfg, "[monitor]", true)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	feed := monitor.NewFeed(monitor.DefaultFeedBuffer)
	client, err := stream.NewClientFromConfig(cfg, buildEnv, log, stream.WithStateHandler(feed.OnState))
	if err != nil {
		return err
	}
	feed.Attach(client)

	window := vitals.NewWindow(cfg.Window.Size, vitals.WithTimeLayout(cfg.Window.TimeFormat))
	model := monitor.NewModel(monitor.Options{
		Window:    window,
		Store:     store,
		Feed:      feed,
		Source:    client.Source(),
		ExportDir: cfg.Export.Dir,
		PDFChart:  cfg.Export.PDFChart,
		Logger:    log,
	})

	streamDone := make(chan error, 1)
	go func() {
		streamDone <- client.Run(ctx)
	}()

	log.Info("dashboard started, source %s", client.Source())
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()

	// Close is idempotent; the model already closed it on a normal quit.
	feed.Close()
	cancel()
	if streamErr := <-streamDone; streamErr != nil {
		log.Warn("stream stopped: %v", streamErr)
	}
	return err
}
