package store

import (
	"errors"
	"fmt"

	"github.com/stefanpenner/quest/pkg/goal"
)

// Snapshot is the full persisted state: the score and the goals in order.
type Snapshot struct {
	Score int
	Goals []goal.Goal
}

// Decode errors. A record that fails with ErrFormat or ErrParse is skipped
// by the file decoder; ErrHeader fails the whole file.
var (
	ErrFormat = errors.New("malformed record")
	ErrParse  = errors.New("invalid field value")
	ErrHeader = errors.New("invalid score header")
)

// LineError describes a record line that was skipped while decoding a file.
type LineError struct {
	Line int // 1-based, counting the header
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// IOError reports a failure to read or write the goals file.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
