// Package quest holds the registry of tracked goals and the running score.
package quest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/stefanpenner/quest/pkg/goal"
	"github.com/stefanpenner/quest/pkg/store"
)

// ErrGoalNotFound is returned for an index outside 1..Len().
var ErrGoalNotFound = errors.New("goal not found")

// Registry is the ordered set of goals and the cumulative score. Goals are
// addressed by 1-based position. A Registry is not safe for concurrent use.
type Registry struct {
	goals  []goal.Goal
	score  int
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for load, save and record events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates an empty Registry with a score of 0.
func New(opts ...Option) *Registry {
	r := &Registry{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add appends g. There is no uniqueness check.
func (r *Registry) Add(g goal.Goal) {
	if g == nil {
		return
	}
	r.goals = append(r.goals, g)
	r.logger.Debug("goal added", "kind", g.Kind(), "title", g.Info().Title, "index", len(r.goals))
}

// Len returns the number of goals.
func (r *Registry) Len() int { return len(r.goals) }

// Score returns the accumulated score.
func (r *Registry) Score() int { return r.score }

// Goals returns the goals in order. The slice is a copy; the goals are not.
func (r *Registry) Goals() []goal.Goal {
	out := make([]goal.Goal, len(r.goals))
	copy(out, r.goals)
	return out
}

// Goal returns the goal at the 1-based index.
func (r *Registry) Goal(index int) (goal.Goal, error) {
	if index < 1 || index > len(r.goals) {
		return nil, fmt.Errorf("%w: index %d (have %d)", ErrGoalNotFound, index, len(r.goals))
	}
	return r.goals[index-1], nil
}

// List renders one line per goal, in order.
func (r *Registry) List() []string {
	lines := make([]string, len(r.goals))
	for i, g := range r.goals {
		lines[i] = goal.Render(g)
	}
	return lines
}

// Record records an event against the goal at the 1-based index and adds
// the points it earned to the score.
func (r *Registry) Record(index int) (int, error) {
	g, err := r.Goal(index)
	if err != nil {
		return 0, err
	}
	awarded := goal.Record(g)
	r.score += awarded
	r.logger.Info("event recorded",
		"index", index,
		"title", g.Info().Title,
		"awarded", awarded,
		"score", r.score,
	)
	return awarded, nil
}

// Save writes the score and goals to path. The registry is not modified.
func (r *Registry) Save(path string) error {
	if err := store.WriteFile(path, store.Snapshot{Score: r.score, Goals: r.goals}); err != nil {
		r.logger.Error("save failed", "path", path, "error", err)
		return err
	}
	r.logger.Info("goals saved", "path", path, "goals", len(r.goals), "score", r.score)
	return nil
}

// Load replaces the goals and score with the contents of path. Record lines
// that do not decode are skipped and logged. If the file cannot be read or
// its score header is invalid, the registry is left unchanged.
func (r *Registry) Load(path string) error {
	snap, skipped, err := store.ReadFile(path)
	if err != nil {
		r.logger.Error("load failed", "path", path, "error", err)
		return err
	}
	for _, le := range skipped {
		r.logger.Warn("skipped goal record", "path", path, "line", le.Line, "error", le.Err)
	}

	r.goals = snap.Goals
	r.score = snap.Score
	r.logger.Info("goals loaded", "path", path, "goals", len(r.goals), "skipped", len(skipped), "score", r.score)
	return nil
}
