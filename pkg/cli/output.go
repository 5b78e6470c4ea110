package cli

import (
	"encoding/json"
	"io"

	"github.com/stefanpenner/quest/pkg/goal"
	"github.com/stefanpenner/quest/pkg/quest"
)

// goalView is the JSON shape of one goal. Checklist fields are omitted for
// other kinds.
type goalView struct {
	Index       int       `json:"index"`
	Kind        goal.Kind `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	Complete    bool      `json:"complete"`
	Required    *int      `json:"required,omitempty"`
	Current     *int      `json:"current,omitempty"`
	Bonus       *int      `json:"bonus,omitempty"`
	Display     string    `json:"display"`
}

type registryView struct {
	Score int        `json:"score"`
	Goals []goalView `json:"goals"`
}

type recordView struct {
	Goal    goalView `json:"goal"`
	Awarded int      `json:"awarded"`
	Score   int      `json:"score"`
}

func newGoalView(index int, g goal.Goal) goalView {
	b := g.Info()
	v := goalView{
		Index:       index,
		Kind:        g.Kind(),
		Title:       b.Title,
		Description: b.Description,
		Points:      b.Points,
		Complete:    goal.IsComplete(g),
		Display:     goal.Render(g),
	}
	if c, ok := g.(*goal.Checklist); ok {
		required, current, bonus := c.Required(), c.Current(), c.Bonus()
		v.Required = &required
		v.Current = &current
		v.Bonus = &bonus
	}
	return v
}

func newRegistryView(reg *quest.Registry) registryView {
	v := registryView{Score: reg.Score(), Goals: []goalView{}}
	for i, g := range reg.Goals() {
		v.Goals = append(v.Goals, newGoalView(i+1, g))
	}
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
