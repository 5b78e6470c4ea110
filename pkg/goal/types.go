package goal

import (
	"errors"
	"strings"
)

// Kind identifies a goal variant. The value doubles as the record tag in
// the goals file.
type Kind string

const (
	KindSimple    Kind = "Simple"
	KindEternal   Kind = "Eternal"
	KindChecklist Kind = "Checklist"
)

// Kinds lists every variant in menu order.
var Kinds = []Kind{KindSimple, KindEternal, KindChecklist}

var (
	ErrEmptyTitle  = errors.New("title cannot be empty")
	ErrUnknownKind = errors.New("unknown goal kind")
)

// ParseKind accepts a variant tag in any letter case, or the menu number
// ("1", "2", "3") shown by the interactive prompt.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for i, k := range Kinds {
		if strings.EqualFold(s, string(k)) || s == string(rune('1'+i)) {
			return k, nil
		}
	}
	return "", ErrUnknownKind
}

// Base holds the fields shared by every variant.
type Base struct {
	Title       string
	Description string
	Points      int // awarded per countable recording event
}

// Goal is one of *Simple, *Eternal or *Checklist. The set is closed: the
// marker method is unexported, and every operation in this package switches
// over exactly these three types.
type Goal interface {
	Kind() Kind
	Info() Base
	goal()
}

// Simple is completed once.
type Simple struct {
	Base
	complete bool
}

// Eternal is never complete and pays out every time it is recorded.
type Eternal struct {
	Base
}

// Checklist must be recorded Required times; the bonus is paid on the
// recording that reaches Required.
type Checklist struct {
	Base
	required int
	current  int
	bonus    int
}

func (*Simple) Kind() Kind    { return KindSimple }
func (*Eternal) Kind() Kind   { return KindEternal }
func (*Checklist) Kind() Kind { return KindChecklist }

func (g *Simple) Info() Base    { return g.Base }
func (g *Eternal) Info() Base   { return g.Base }
func (g *Checklist) Info() Base { return g.Base }

func (*Simple) goal()    {}
func (*Eternal) goal()   {}
func (*Checklist) goal() {}

// Done reports whether the goal has been completed.
func (g *Simple) Done() bool { return g.complete }

// MarkComplete restores the completed state without awarding points.
func (g *Simple) MarkComplete() { g.complete = true }

func (g *Checklist) Required() int { return g.required }
func (g *Checklist) Current() int  { return g.current }
func (g *Checklist) Bonus() int    { return g.bonus }

// SetProgress restores the recorded count, clamped into [0, Required].
func (g *Checklist) SetProgress(n int) {
	g.current = max(0, min(n, g.required))
}
