package quest

import (
	"fmt"

	"github.com/stefanpenner/quest/pkg/goal"
)

// RecordMessage describes the outcome of recording g in the words shown to
// the player. wasComplete is whether g was complete before the recording and
// awarded is the points the recording earned.
func RecordMessage(g goal.Goal, wasComplete bool, awarded int) string {
	title := g.Info().Title

	switch g := g.(type) {
	case *goal.Simple:
		if wasComplete {
			return "This goal is already complete; no additional points awarded."
		}
		return fmt.Sprintf("You completed %q and earned %d points!", title, awarded)
	case *goal.Eternal:
		return fmt.Sprintf("Recorded %q and earned %d points!", title, awarded)
	case *goal.Checklist:
		if wasComplete {
			return "This checklist goal is already completed; no additional points awarded."
		}
		msg := fmt.Sprintf("Recorded %q (%d/%d) and earned %d points!", title, g.Current(), g.Required(), g.Points)
		if goal.IsComplete(g) {
			msg += fmt.Sprintf(" Congratulations! You completed the checklist and earned a bonus of %d points!", g.Bonus())
		}
		return msg
	default:
		panic(fmt.Sprintf("quest: unhandled goal variant %T", g))
	}
}
