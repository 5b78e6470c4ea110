package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/stefanpenner/quest/pkg/config"
	gsync "github.com/stefanpenner/quest/pkg/sync"
)

func newSaveCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "save <path>",
		Short: "Write goals and score to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := g.app.Registry
			if err := reg.Save(args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Saved %d goals and score (%d) to %s.\n", reg.Len(), reg.Score(), args[0])
			return err
		},
	}
}

func newLoadCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "load <path>",
		Short: "Replace goals and score with the contents of a file",
		Long: `Replace goals and score with the contents of a file.

Lines that cannot be read are skipped and logged. The goals file is
rewritten with the result when autosave is on.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := g.app.Registry
			if err := reg.Load(args[0]); err != nil {
				return err
			}
			if err := g.app.Persist(); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d goals and score (%d) from %s.\n", reg.Len(), reg.Score(), args[0])
			return err
		},
	}
}

func newInitCmd(g *globals) *cobra.Command {
	var remote string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the data directory as a git repository",
		Long: `Initialize the data directory.

Writes a default config.yaml if none exists and makes the directory a git
repository so 'quest sync' can share it. --remote sets origin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			dir := g.dataDir

			cfgPath := config.Path(dir)
			if _, err := os.Stat(cfgPath); errors.Is(err, fs.ErrNotExist) {
				if err := config.Save(dir, config.Default()); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote %s\n", cfgPath)
			} else if err != nil {
				return fmt.Errorf("checking config: %w", err)
			}

			return gsync.InitRepo(dir, remote, out)
		},
	}

	cmd.Flags().StringVar(&remote, "remote", "", "Git remote URL for origin")
	return cmd
}

func newSyncCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Commit, pull and push the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return gsync.SyncRepo(g.dataDir, cmd.OutOrStdout())
		},
	}
}
