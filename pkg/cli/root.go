// Package cli provides the command-line interface for quest.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stefanpenner/quest/pkg/store"
	"github.com/stefanpenner/quest/pkg/tui"
)

// Command group IDs.
const (
	groupGoals = "goals"
	groupData  = "data"
)

// launchTUIFunc launches the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// globals holds the persistent flags and the App built from them before a
// command runs.
type globals struct {
	dir     string
	file    string
	json    bool
	dataDir string
	app     *App
}

// NewRootCommand creates the root command for quest.
func NewRootCommand(version string) *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "quest",
		Short: "Track simple, eternal and checklist goals",
		Long: `quest keeps a list of goals and a running score.

Simple goals are done once, eternal goals never finish and checklist goals
pay a bonus after being recorded a set number of times. Run without a
command to open the interactive view.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			g.dataDir = store.ResolveDataDir(g.dir)
			// init must work before a valid config exists
			if cmd.Name() == "init" {
				return nil
			}
			app, err := NewApp(g.dataDir, g.file)
			if err != nil {
				return err
			}
			g.app = app
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if g.app == nil {
				return nil
			}
			return g.app.Close()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(g.app)
		},
	}

	root.PersistentFlags().StringVar(&g.dir, "dir", "", "Data directory (default $"+store.DataDirEnv+" or the OS data dir)")
	root.PersistentFlags().StringVar(&g.file, "file", "", "Goals file, relative to the data directory unless absolute")
	root.PersistentFlags().BoolVar(&g.json, "json", false, "Print machine-readable JSON")

	root.AddGroup(
		&cobra.Group{ID: groupGoals, Title: "Goal Commands:"},
		&cobra.Group{ID: groupData, Title: "Data Commands:"},
	)

	for _, cmd := range []*cobra.Command{
		newAddCmd(g),
		newListCmd(g),
		newRecordCmd(g),
		newScoreCmd(g),
	} {
		cmd.GroupID = groupGoals
		root.AddCommand(logFailures(g, cmd))
	}
	for _, cmd := range []*cobra.Command{
		newSaveCmd(g),
		newLoadCmd(g),
		newInitCmd(g),
		newSyncCmd(g),
	} {
		cmd.GroupID = groupData
		root.AddCommand(logFailures(g, cmd))
	}

	return root
}

// logFailures records a failed command in the log file.
func logFailures(g *globals, cmd *cobra.Command) *cobra.Command {
	run := cmd.RunE
	cmd.RunE = func(c *cobra.Command, args []string) error {
		err := run(c, args)
		if err != nil && g.app != nil {
			g.app.Logger.Error("command failed", "command", c.Name(), "args", args, "error", err)
		}
		return err
	}
	return cmd
}

func launchTUI(a *App) error {
	if err := os.MkdirAll(filepath.Dir(a.GoalsPath), 0o755); err != nil {
		return fmt.Errorf("creating goals directory: %w", err)
	}

	m := tui.NewModel(a.Registry, tui.Options{
		GoalsPath: a.GoalsPath,
		DataDir:   a.DataDir,
		Autosave:  a.Config.Autosave,
		Logger:    a.Logger.Logger,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())

	cleanup, err := tui.StartWatcher(a.GoalsPath, p)
	if err != nil {
		a.Logger.Warn("file watcher failed", "error", err)
	} else {
		defer cleanup()
	}

	_, err = p.Run()
	return err
}
