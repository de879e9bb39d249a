package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/linkmark/internal/application/highlighter"
	"github.com/bnema/linkmark/internal/cli"
	"github.com/bnema/linkmark/internal/cli/model"
	"github.com/bnema/linkmark/internal/infrastructure/config"
	"github.com/bnema/linkmark/internal/infrastructure/htmldom"
	"github.com/bnema/linkmark/internal/logging"
)

var (
	openBase        string
	openMetricsAddr string
)

const (
	rebuildDelay           = 200 * time.Millisecond
	metricsShutdownTimeout = 2 * time.Second
)

var openCmd = &cobra.Command{
	Use:   "open <file.html>",
	Short: "Highlight a page live with a settings panel",
	Long: `Open a live highlighting session over an HTML file.

The file is watched: saving it swaps the new body into the page and only
the new links are processed. Config file changes are applied to the
running session. The panel toggles highlighting and tunes batching;
press 's' to persist the tuned values.

Logs go to $XDG_STATE_HOME/linkmark/linkmark.log (see 'linkmark logs').

Examples:
  linkmark open page.html
  linkmark open page.html --metrics-addr 127.0.0.1:9464`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationLogFile: "true"},
	RunE:        runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)

	openCmd.Flags().StringVar(&openBase, "base", "", "base URL for relative links")
	openCmd.Flags().StringVar(&openMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (default from config)")
}

func runOpen(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	path := args[0]
	doc, err := cli.LoadPage(path, openBase)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	log := logging.FromContext(ctx)

	dispatcher := highlighter.NewDispatcher()
	sup := &supervisor{app: app, doc: doc, dispatcher: dispatcher}

	g, gctx := errgroup.WithContext(ctx)

	// A failing watcher or supervisor cancels gctx, which also ends the panel.
	panel := model.NewPanelModel(gctx, app.Theme, dispatcher, filepath.Base(path), sup.save)
	program := tea.NewProgram(panel, tea.WithAltScreen(), tea.WithContext(gctx))

	g.Go(func() error { return sup.run(gctx) })
	g.Go(func() error {
		return cli.WatchPage(gctx, path, doc, func(err error) {
			if err != nil {
				log.Warn().Err(err).Msg("page reload failed")
				program.Send(model.StatusMsg{Text: "Reload failed: " + err.Error(), Err: true})
				return
			}
			log.Info().Str("path", path).Msg("page reloaded")
			program.Send(model.StatusMsg{Text: "Page reloaded"})
		})
	})

	if err := app.ConfigMgr.Watch(); err != nil {
		log.Warn().Err(err).Msg("config hot-reload unavailable")
	} else {
		app.ConfigMgr.OnConfigChange(func(*config.Config) {
			if _, err := dispatcher.Send(gctx, highlighter.Request{Action: highlighter.ActionUpdateConfig}); err != nil {
				log.Warn().Err(err).Msg("failed to apply config change")
				return
			}
			program.Send(model.StatusMsg{Text: "Configuration reloaded"})
		})
	}

	addr := openMetricsAddr
	if addr == "" {
		addr = app.Config.Metrics.Addr
	}
	if addr != "" {
		g.Go(func() error { return serveMetrics(gctx, app, addr) })
	}

	_, runErr := program.Run()
	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return runErr
	}
	return nil
}

// supervisor keeps one session attached to the dispatcher, building a new
// one whenever the current session tears itself down.
type supervisor struct {
	app        *cli.App
	doc        *htmldom.Document
	dispatcher *highlighter.Dispatcher

	mu      sync.Mutex
	current *highlighter.Session
}

func (s *supervisor) run(ctx context.Context) error {
	log := logging.FromContext(ctx)

	for {
		session, err := s.app.NewPageSession(ctx, s.doc)
		if err != nil {
			return err
		}
		if err := session.Start(ctx); err != nil {
			return fmt.Errorf("start session: %w", err)
		}
		s.setCurrent(session)
		s.dispatcher.Attach(session)

		select {
		case <-ctx.Done():
			s.dispatcher.Detach(session)
			s.setCurrent(nil)
			return session.Shutdown(context.WithoutCancel(ctx))
		case <-session.Done():
			s.dispatcher.Detach(session)
			s.setCurrent(nil)
			log.Info().Str("session", session.ID()).Msg("session ended, starting a new one")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(rebuildDelay):
		}
	}
}

func (s *supervisor) setCurrent(session *highlighter.Session) {
	s.mu.Lock()
	s.current = session
	s.mu.Unlock()
}

// save persists the running session's performance settings.
func (s *supervisor) save(ctx context.Context) error {
	s.mu.Lock()
	session := s.current
	s.mu.Unlock()
	if session == nil {
		return highlighter.ErrNotRunning
	}

	snap, err := session.Snapshot(ctx)
	if err != nil {
		return err
	}
	return s.app.HighlightConfig.SaveHighlightPerformance(ctx, snap.Config)
}

func serveMetrics(ctx context.Context, app *cli.App, addr string) error {
	log := logging.FromContext(ctx)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{Registry: app.Registry}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("serving metrics")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		log.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
