package store

import (
	"testing"

	"github.com/stefanpenner/quest/pkg/goal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeLine(t *testing.T) {
	simple, _ := goal.NewSimple("Read", "daily", 100)
	eternal, _ := goal.NewEternal("Pray", "", 50)
	check, _ := goal.NewChecklist("Temple", "attend", 50, 10, 500)
	check.SetProgress(3)

	assert.Equal(t, "Simple|Read|daily|100|False", EncodeLine(simple))
	simple.MarkComplete()
	assert.Equal(t, "Simple|Read|daily|100|True", EncodeLine(simple))
	assert.Equal(t, "Eternal|Pray||50", EncodeLine(eternal))
	assert.Equal(t, "Checklist|Temple|attend|50|10|500|3", EncodeLine(check))
}

func TestRoundTrip(t *testing.T) {
	newSimple := func(title, desc string, points int, done bool) goal.Goal {
		g, err := goal.NewSimple(title, desc, points)
		require.NoError(t, err)
		if done {
			g.MarkComplete()
		}
		return g
	}
	newChecklist := func(title, desc string, points, required, bonus, current int) goal.Goal {
		g, err := goal.NewChecklist(title, desc, points, required, bonus)
		require.NoError(t, err)
		g.SetProgress(current)
		return g
	}
	eternal, err := goal.NewEternal("Journal", "write one line", -5)
	require.NoError(t, err)

	tests := []struct {
		name string
		g    goal.Goal
	}{
		{"simple incomplete", newSimple("Read", "daily", 100, false)},
		{"simple complete", newSimple("Read", "", 0, true)},
		{"eternal", eternal},
		{"checklist fresh", newChecklist("Temple", "attend", 50, 10, 500, 0)},
		{"checklist partial", newChecklist("Temple", "attend", 50, 10, 500, 7)},
		{"checklist done", newChecklist("Run", "5k", 10, 3, 0, 3)},
		{"delimiter in text", newSimple("a|b", "c | d ||", 1, false)},
		{"backslashes", newChecklist(`C:\temp\`, `\|\\n`, 2, 2, 2, 1)},
		{"newlines", newSimple("two\nlines", "cr\r\nlf", 3, true)},
		{"unicode", newSimple("読書", "ünïcödé ∞", 7, false)},
		{"invalid utf-8 kept byte for byte", newSimple("a|\xff", "\xfe\\\n\xc3", 1, false)},
		{"invalid utf-8 without escapes", newChecklist("\xff\xfe", "ok", 1, 2, 3, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := EncodeLine(tt.g)
			assert.NotContains(t, line, "\n")

			got, err := DecodeLine(line)
			require.NoError(t, err)
			assert.Equal(t, tt.g, got)
			assert.Equal(t, goal.Render(tt.g), goal.Render(got))
		})
	}
}

func TestDecodeLineOriginalFormat(t *testing.T) {
	g, err := DecodeLine("Simple|Read|daily|100|True")
	require.NoError(t, err)
	assert.True(t, goal.IsComplete(g))

	g, err = DecodeLine("Simple|Read|daily|100|false")
	require.NoError(t, err)
	assert.False(t, goal.IsComplete(g))

	// Unescaped backslashes from older files are kept as written.
	g, err = DecodeLine(`Eternal|Backup C:\temp|weekly| 20 `)
	require.NoError(t, err)
	assert.Equal(t, goal.Base{Title: `Backup C:\temp`, Description: "weekly", Points: 20}, g.Info())
}

func TestDecodeLineClampsProgress(t *testing.T) {
	g, err := DecodeLine("Checklist|Run||10|3|5|42")
	require.NoError(t, err)
	check := g.(*goal.Checklist)
	assert.Equal(t, 3, check.Current())
	assert.True(t, goal.IsComplete(check))

	g, err = DecodeLine("Checklist|Run||10|0|-1|-7")
	require.NoError(t, err)
	check = g.(*goal.Checklist)
	assert.Equal(t, 1, check.Required())
	assert.Equal(t, 0, check.Bonus())
	assert.Equal(t, 0, check.Current())
}

func TestDecodeLineRejects(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{"empty line", "", ErrFormat},
		{"unknown tag", "Weekly|Run||10", ErrFormat},
		{"tag case matters", "simple|Read||10|True", ErrFormat},
		{"simple too few", "Simple|Read|daily|100", ErrFormat},
		{"simple too many", "Simple|Read|daily|100|True|x", ErrFormat},
		{"eternal too many", "Eternal|Pray|morning|50|True", ErrFormat},
		{"checklist too few", "Checklist|Run||10|3|5", ErrFormat},
		{"escaped delimiter is not a separator", `Eternal|Pray\|x|50`, ErrFormat},
		{"empty title", "Eternal|||50", ErrFormat},
		{"bad points", "Eternal|Pray||lots", ErrParse},
		{"bad bool", "Simple|Read||10|yes", ErrParse},
		{"bad required", "Checklist|Run||10|three|5|0", ErrParse},
		{"bad current", "Checklist|Run||10|3|5|", ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := DecodeLine(tt.line)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, g)
		})
	}
}

func TestSplitFields(t *testing.T) {
	assert.Equal(t, []string{""}, splitFields(""))
	assert.Equal(t, []string{"a", "", "b"}, splitFields("a||b"))
	assert.Equal(t, []string{`a\|b`, "c"}, splitFields(`a\|b|c`))
	assert.Equal(t, []string{`a\\`, "b"}, splitFields(`a\\|b`))
	assert.Equal(t, []string{`trailing\`}, splitFields(`trailing\`))
}
