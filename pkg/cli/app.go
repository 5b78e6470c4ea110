package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/stefanpenner/quest/pkg/config"
	"github.com/stefanpenner/quest/pkg/logging"
	"github.com/stefanpenner/quest/pkg/quest"
)

// App is what a command runs against: the resolved data directory, its
// config and logger, and the registry loaded from the goals file.
type App struct {
	DataDir   string
	GoalsPath string
	Config    *config.Config
	Logger    *logging.Logger
	Registry  *quest.Registry
}

// NewApp resolves configuration for dataDir and loads the registry when
// autoload is on. goalsFile, when set, overrides the configured goals file.
// A goals file that does not exist yet starts an empty registry.
func NewApp(dataDir, goalsFile string) (*App, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}
	if goalsFile != "" {
		cfg.GoalsFile = goalsFile
	}

	logger, err := logging.New(dataDir, logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		return nil, err
	}

	a := &App{
		DataDir:   dataDir,
		GoalsPath: cfg.GoalsPath(dataDir),
		Config:    cfg,
		Logger:    logger,
		Registry:  quest.New(quest.WithLogger(logger.Logger)),
	}

	if cfg.Autoload {
		if err := a.Registry.Load(a.GoalsPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Close()
			return nil, fmt.Errorf("loading goals: %w", err)
		}
	}
	return a, nil
}

// Persist saves the registry to the goals file when autosave is on.
func (a *App) Persist() error {
	if !a.Config.Autosave {
		return nil
	}
	return a.Registry.Save(a.GoalsPath)
}

// Close releases the log file.
func (a *App) Close() error {
	return a.Logger.Close()
}
