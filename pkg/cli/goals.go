package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/stefanpenner/quest/pkg/goal"
	"github.com/stefanpenner/quest/pkg/quest"
)

func newAddCmd(g *globals) *cobra.Command {
	var opts struct {
		description string
		points      int
		required    int
		bonus       int
	}

	cmd := &cobra.Command{
		Use:   "add <simple|eternal|checklist> <title>",
		Short: "Create a goal",
		Long: `Create a goal and append it to the list.

Checklist goals also take --required (events needed to finish) and
--bonus (points paid once on the finishing event).`,
		Example: `  quest add simple "Run a marathon" --points 1000
  quest add eternal "Read scriptures" -d "every morning" --points 100
  quest add checklist "Attend the temple" --points 50 --required 10 --bonus 500`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := goal.ParseKind(args[0])
			if err != nil {
				return err
			}
			gl, err := goal.New(kind, args[1], opts.description, opts.points, opts.required, opts.bonus)
			if err != nil {
				return err
			}

			reg := g.app.Registry
			reg.Add(gl)
			if err := g.app.Persist(); err != nil {
				return err
			}

			if g.json {
				return writeJSON(cmd.OutOrStdout(), newGoalView(reg.Len(), gl))
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created %s goal %d: %s\n", gl.Kind(), reg.Len(), goal.Render(gl))
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "Goal description")
	cmd.Flags().IntVarP(&opts.points, "points", "p", 0, "Points awarded per recorded event")
	cmd.Flags().IntVar(&opts.required, "required", 1, "Events needed to complete a checklist goal")
	cmd.Flags().IntVar(&opts.bonus, "bonus", 0, "Bonus awarded when a checklist goal completes")
	_ = cmd.MarkFlagRequired("points")

	return cmd
}

func newListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List goals with their progress",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := g.app.Registry
			out := cmd.OutOrStdout()

			if g.json {
				return writeJSON(out, newRegistryView(reg))
			}

			if reg.Len() == 0 {
				_, err := fmt.Fprintln(out, "No goals yet. Create one with 'quest add'.")
				return err
			}
			for i, line := range reg.List() {
				if _, err := fmt.Fprintf(out, "%d. %s\n", i+1, line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newRecordCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "record <n>",
		Short: "Record an event for goal n",
		Long:  "Record an event for the goal at position n, as shown by 'quest list'.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid goal number %q", args[0])
			}

			reg := g.app.Registry
			gl, err := reg.Goal(index)
			if err != nil {
				return err
			}
			wasComplete := goal.IsComplete(gl)
			awarded, err := reg.Record(index)
			if err != nil {
				return err
			}
			if err := g.app.Persist(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if g.json {
				return writeJSON(out, recordView{
					Goal:    newGoalView(index, gl),
					Awarded: awarded,
					Score:   reg.Score(),
				})
			}
			_, err = fmt.Fprintf(out, "%s\nTotal score is now: %d pts.\n", quest.RecordMessage(gl, wasComplete, awarded), reg.Score())
			return err
		},
	}
}

func newScoreCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Show the total score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			score := g.app.Registry.Score()
			if g.json {
				return writeJSON(cmd.OutOrStdout(), map[string]int{"score": score})
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "You have %d points.\n", score)
			return err
		},
	}
}
