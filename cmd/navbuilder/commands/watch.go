package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/navbuilder/internal/build"
	"git.home.luguber.info/inful/navbuilder/internal/metrics"
	"git.home.luguber.info/inful/navbuilder/internal/server"
	"git.home.luguber.info/inful/navbuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Output      string        `short:"o" required:"" help:"File the document is written to after every change" type:"path"`
	Format      string        `help:"Document format (yaml or json). Defaults to the output file extension"`
	DetectRepo  bool          `help:"Fill theme.repo from the git origin remote when it is unset"`
	Debounce    time.Duration `default:"500ms" help:"Quiet period before a change triggers a run"`
	MetricsAddr string        `help:"Serve /metrics, /healthz and /status on this address (e.g. :9090)"`
	ResolveFlags
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunWatch(ctx, g, root.Config, w)
}

// RunWatch resolves on every settled change until ctx is canceled.
func RunWatch(ctx context.Context, g *Global, configPath string, w *WatchCmd) error {
	format, err := documentFormat(w.Format, w.Output)
	if err != nil {
		return err
	}
	svc, err := newService()
	if err != nil {
		return err
	}
	reg := prom.NewRegistry()
	svc.WithRecorder(metrics.NewPrometheusRecorder(reg))
	tracker := server.NewTracker()

	opts := w.options()
	opts.DetectRepo = w.DetectRepo
	req := build.Request{
		ConfigPath: configPath,
		OutputPath: w.Output,
		Format:     format,
		Options:    opts,
	}

	// The content root comes from each run, so a broken config only
	// watches the config directory until it is fixed.
	var watcher *watch.Watcher
	run := func(ctx context.Context) error {
		result, err := svc.Run(ctx, req)
		tracker.Record(result)
		if result.ContentRoot != "" {
			watcher.SetContentRoot(result.ContentRoot)
		}
		if len(result.Report.Issues) > 0 {
			if _, ferr := reportOrError(g.Stderr, "text", configPath, result, err); ferr != nil {
				return ferr
			}
		}
		return err
	}

	watcher, err = watch.New(configPath, "", run, watch.WithDebounce(w.Debounce))
	if err != nil {
		return err
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return watcher.Run(ctx) })
	if w.MetricsAddr != "" {
		srv := server.New(w.MetricsAddr, reg, tracker)
		group.Go(func() error { return srv.Run(ctx) })
	}
	return group.Wait()
}
