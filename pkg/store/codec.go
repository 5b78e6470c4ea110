package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stefanpenner/quest/pkg/goal"
)

// Delimiter separates the fields of a record line.
const Delimiter = '|'

// fieldCount is the exact number of fields each record tag carries.
var fieldCount = map[goal.Kind]int{
	goal.KindSimple:    5,
	goal.KindEternal:   4,
	goal.KindChecklist: 7,
}

// EncodeLine renders g as one record line. Free-text fields are escaped, so
// the line never contains a newline or an unescaped delimiter.
func EncodeLine(g goal.Goal) string {
	b := g.Info()
	fields := []string{string(g.Kind()), escape(b.Title), escape(b.Description), strconv.Itoa(b.Points)}

	switch g := g.(type) {
	case *goal.Simple:
		fields = append(fields, formatBool(g.Done()))
	case *goal.Eternal:
	case *goal.Checklist:
		fields = append(fields,
			strconv.Itoa(g.Required()),
			strconv.Itoa(g.Bonus()),
			strconv.Itoa(g.Current()),
		)
	default:
		panic(fmt.Sprintf("store: unhandled goal variant %T", g))
	}

	return strings.Join(fields, string(Delimiter))
}

// DecodeLine parses a record line. It returns an error wrapping ErrFormat
// for an unknown tag or a wrong field count, and ErrParse for a numeric or
// boolean field that does not parse. No goal is returned with an error.
func DecodeLine(line string) (goal.Goal, error) {
	parts := splitFields(line)
	kind := goal.Kind(parts[0])

	want, ok := fieldCount[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown tag %q", ErrFormat, parts[0])
	}
	if len(parts) != want {
		return nil, fmt.Errorf("%w: %s record has %d fields, want %d", ErrFormat, kind, len(parts), want)
	}

	title, desc := unescape(parts[1]), unescape(parts[2])
	points, err := parseInt("points", parts[3])
	if err != nil {
		return nil, err
	}

	switch kind {
	case goal.KindSimple:
		done, err := parseBool("complete", parts[4])
		if err != nil {
			return nil, err
		}
		g, err := goal.NewSimple(title, desc, points)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		if done {
			g.MarkComplete()
		}
		return g, nil

	case goal.KindEternal:
		g, err := goal.NewEternal(title, desc, points)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		return g, nil

	case goal.KindChecklist:
		var nums [3]int
		for i, name := range []string{"required", "bonus", "current"} {
			if nums[i], err = parseInt(name, parts[4+i]); err != nil {
				return nil, err
			}
		}
		g, err := goal.NewChecklist(title, desc, points, nums[0], nums[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		g.SetProgress(nums[2])
		return g, nil
	}

	return nil, fmt.Errorf("%w: unknown tag %q", ErrFormat, parts[0])
}

func parseInt(field, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrParse, field, s)
	}
	return n, nil
}

// Booleans are written the way the original console program wrote them,
// and read in any letter case.
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func parseBool(field, s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: %s %q is not a boolean", ErrParse, field, s)
}

// escape and unescape work on bytes; every escaped character is ASCII, so
// the remaining bytes pass through untouched even when they are not valid
// UTF-8.
func escape(s string) string {
	if !strings.ContainsAny(s, "\\|\n\r") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case Delimiter:
			b.WriteString(`\|`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// unescape reverses escape. Unknown sequences and a trailing backslash are
// kept literally, so lines written without escaping still decode.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			b.WriteByte(s[i])
			continue
		}
		switch next := s[i+1]; next {
		case '\\', Delimiter:
			b.WriteByte(next)
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
			b.WriteByte(next)
		}
		i++
	}
	return b.String()
}

// splitFields splits on delimiters that are not escaped. Escape sequences
// are left in place for unescape.
func splitFields(line string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case Delimiter:
			parts = append(parts, line[start:i])
			start = i + 1
		}
	}
	return append(parts, line[start:])
}
