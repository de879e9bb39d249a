// Package cli wires the linkmark command line: configuration, logging, the
// history database and highlighter sessions over HTML files.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/bnema/linkmark/internal/application/highlighter"
	"github.com/bnema/linkmark/internal/application/usecase"
	"github.com/bnema/linkmark/internal/cli/styles"
	"github.com/bnema/linkmark/internal/domain/build"
	"github.com/bnema/linkmark/internal/domain/repository"
	"github.com/bnema/linkmark/internal/infrastructure/config"
	"github.com/bnema/linkmark/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/linkmark/internal/logging"
)

const (
	// LogFileName is the log written under the state directory by LogToFile.
	LogFileName   = "linkmark.log"
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 14
)

// AppOptions override the defaults NewApp derives from the environment.
type AppOptions struct {
	// ConfigDir replaces $XDG_CONFIG_HOME/linkmark.
	ConfigDir string
	// DatabasePath replaces the configured database path.
	DatabasePath string
	// LogOutput receives log lines. Nil means stderr.
	LogOutput io.Writer
	// LogToFile sends logs to a rotated file under $XDG_STATE_HOME/linkmark,
	// for commands that own the terminal.
	LogToFile bool
}

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	ConfigMgr *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	db      *sqlite.LazyDB
	History repository.HistoryRepository

	RecordVisitUC   *usecase.RecordVisitUseCase
	SearchHistoryUC *usecase.SearchHistoryUseCase
	HighlightConfig *config.HighlightConfigGateway

	Registry *prometheus.Registry
	Metrics  *highlighter.Metrics

	ctx     context.Context
	closers []io.Closer
}

// NewApp creates a new CLI application with all dependencies. The database
// is opened on first use.
func NewApp(opts AppOptions) (*App, error) {
	var mgrOpts []config.ManagerOption
	if opts.ConfigDir != "" {
		mgrOpts = append(mgrOpts, config.WithConfigDir(opts.ConfigDir))
	}
	mgr, err := config.NewManager(mgrOpts...)
	if err != nil {
		return nil, fmt.Errorf("create config manager: %w", err)
	}

	app := &App{ConfigMgr: mgr}

	loadErr := mgr.Load()
	cfg := mgr.Get()
	if cfg == nil {
		cfg = config.DefaultConfig()
		cfg.Database.Path = config.GetDatabaseFile()
	}
	if opts.DatabasePath != "" {
		cfg.Database.Path = opts.DatabasePath
	}
	app.Config = cfg

	logger, err := app.newLogger(opts)
	if err != nil {
		return nil, err
	}
	app.ctx = logging.WithContext(context.Background(), logger)
	if loadErr != nil {
		logger.Warn().Err(loadErr).Msg("config load failed, using defaults")
	}

	app.Theme = styles.NewTheme(cfg)

	app.db = sqlite.NewLazyDB(cfg.Database.Path)
	app.closers = append(app.closers, app.db)
	app.History = sqlite.NewLazyHistoryRepository(app.db)

	app.RecordVisitUC = usecase.NewRecordVisitUseCase(app.History, cfg.Highlight.IncludedProtocols)
	app.SearchHistoryUC = usecase.NewSearchHistoryUseCase(app.History)
	app.HighlightConfig = config.NewHighlightConfigGateway(mgr)

	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.Metrics = highlighter.NewMetrics(app.Registry)

	logger.Debug().Str("db_path", cfg.Database.Path).Msg("app initialized")
	return app, nil
}

func (a *App) newLogger(opts AppOptions) (zerolog.Logger, error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(a.Config.Logging.Level)
	logCfg.Format = a.Config.Logging.Format
	logCfg.TimeFormat = "15:04:05"
	logCfg.Output = opts.LogOutput

	if opts.LogToFile {
		rotator, err := logging.NewLogRotator(logging.RotatorConfig{
			Dir:        config.GetStateDir(),
			Name:       LogFileName,
			MaxSizeMB:  logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAgeDays: logMaxAgeDays,
			Compress:   true,
		})
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, rotator)
		logCfg.Output = rotator
		logCfg.Format = "json"
	}
	if logCfg.Output == nil {
		logCfg.Output = os.Stderr
	}
	return logging.New(logCfg), nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Close releases all resources.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
