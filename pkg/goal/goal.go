// Package goal implements the goal variants and their completion rules.
package goal

import (
	"fmt"
	"strings"
)

// NewSimple creates an incomplete one-shot goal.
func NewSimple(title, description string, points int) (*Simple, error) {
	b, err := newBase(title, description, points)
	if err != nil {
		return nil, err
	}
	return &Simple{Base: b}, nil
}

// NewEternal creates a repeatable goal.
func NewEternal(title, description string, points int) (*Eternal, error) {
	b, err := newBase(title, description, points)
	if err != nil {
		return nil, err
	}
	return &Eternal{Base: b}, nil
}

// NewChecklist creates a counted goal with no progress. required is clamped
// to at least 1 and bonus to at least 0.
func NewChecklist(title, description string, points, required, bonus int) (*Checklist, error) {
	b, err := newBase(title, description, points)
	if err != nil {
		return nil, err
	}
	return &Checklist{
		Base:     b,
		required: max(1, required),
		bonus:    max(0, bonus),
	}, nil
}

// New creates a goal of the given kind. required and bonus are ignored for
// anything but KindChecklist.
func New(kind Kind, title, description string, points, required, bonus int) (Goal, error) {
	var (
		g   Goal
		err error
	)
	switch kind {
	case KindSimple:
		g, err = NewSimple(title, description, points)
	case KindEternal:
		g, err = NewEternal(title, description, points)
	case KindChecklist:
		g, err = NewChecklist(title, description, points, required, bonus)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		// No typed nil inside the interface
		return nil, err
	}
	return g, nil
}

func newBase(title, description string, points int) (Base, error) {
	if strings.TrimSpace(title) == "" {
		return Base{}, ErrEmptyTitle
	}
	return Base{Title: title, Description: description, Points: points}, nil
}

// IsComplete reports whether g can still earn points by being recorded.
// Eternal goals are never complete.
func IsComplete(g Goal) bool {
	switch g := g.(type) {
	case *Simple:
		return g.complete
	case *Eternal:
		return false
	case *Checklist:
		return g.current >= g.required
	default:
		panic(unhandled(g))
	}
}

// Record registers one recording event against g and returns the points it
// earned. A return of 0 means the goal has nothing left to award.
func Record(g Goal) int {
	switch g := g.(type) {
	case *Simple:
		if g.complete {
			return 0
		}
		g.complete = true
		return g.Points
	case *Eternal:
		return g.Points
	case *Checklist:
		if g.current >= g.required {
			return 0
		}
		g.current++
		awarded := g.Points
		if g.current == g.required {
			awarded += g.bonus
		}
		return awarded
	default:
		panic(unhandled(g))
	}
}

// Render returns the single-line list summary of g.
func Render(g Goal) string {
	switch g := g.(type) {
	case *Simple:
		return fmt.Sprintf("%s %s (%s)", checkbox(g.complete), g.Title, g.Description)
	case *Eternal:
		return fmt.Sprintf("[∞] %s (%s) - Each time: %d pts", g.Title, g.Description, g.Points)
	case *Checklist:
		return fmt.Sprintf("%s %s (%s) -- Completed %d/%d times. Each: %d pts, Bonus: %d pts",
			checkbox(IsComplete(g)), g.Title, g.Description, g.current, g.required, g.Points, g.bonus)
	default:
		panic(unhandled(g))
	}
}

func checkbox(done bool) string {
	if done {
		return "[X]"
	}
	return "[ ]"
}

// Goal is sealed, so this is only reachable through a nil interface.
func unhandled(g Goal) string {
	return fmt.Sprintf("goal: unhandled variant %T", g)
}
