package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/lama/internal/logging"
	"github.com/aretw0/lama/internal/presentation/tui"
	"github.com/aretw0/lama/pkg/config"
)

// Settings are the persistent command line flags.
type Settings struct {
	ConfigPath string
	LogLevel   string // overrides log.level when set
	LogFormat  string // overrides log.format when set
}

// App carries what every command needs: configuration, logger and output.
type App struct {
	Config config.Config
	Logger *slog.Logger
	Out    *tui.Output
}

// Setup loads the configuration file and applies flag overrides.
func Setup(s Settings, out io.Writer) (*App, error) {
	cfg, err := config.Load(s.ConfigPath)
	if err != nil {
		return nil, err
	}
	if s.LogLevel != "" {
		cfg.Log.Level = s.LogLevel
	}
	if s.LogFormat != "" {
		cfg.Log.Format = s.LogFormat
	}

	logger, err := logging.Configure(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("log settings: %w", err)
	}
	logger.Debug("configuration loaded", "path", s.ConfigPath, "store", cfg.Store.Backend)

	return &App{
		Config: cfg,
		Logger: logger,
		Out:    tui.NewOutput(out),
	}, nil
}

// libraryPath returns arg when given, else the configured library.
func (a *App) libraryPath(arg string) (string, error) {
	if arg != "" {
		return arg, nil
	}
	if a.Config.Library.Path != "" {
		return a.Config.Library.Path, nil
	}
	return "", fmt.Errorf("no material library given (pass a path or set library.path)")
}
