package tui

import (
	"strings"

	"github.com/stefanpenner/quest/pkg/goal"
)

// Item is one row of the goal list.
type Item struct {
	Index int // 1-based registry position
	Goal  goal.Goal
}

// Name returns the goal title.
func (i Item) Name() string { return i.Goal.Info().Title }

// BuildItems converts the registry goals into list rows, keeping positions.
func BuildItems(goals []goal.Goal) []Item {
	items := make([]Item, len(goals))
	for i, g := range goals {
		items[i] = Item{Index: i + 1, Goal: g}
	}
	return items
}

// FilterItems keeps items whose title or description contains query,
// ignoring case. An empty query keeps everything.
func FilterItems(items []Item, query string) []Item {
	if query == "" {
		return items
	}
	query = strings.ToLower(query)
	var result []Item
	for _, item := range items {
		b := item.Goal.Info()
		if strings.Contains(strings.ToLower(b.Title), query) ||
			strings.Contains(strings.ToLower(b.Description), query) {
			result = append(result, item)
		}
	}
	return result
}
