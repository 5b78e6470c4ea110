package store

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stefanpenner/quest/pkg/goal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(t *testing.T) Snapshot {
	t.Helper()
	simple, err := goal.NewSimple("Read", "daily", 100)
	require.NoError(t, err)
	simple.MarkComplete()
	eternal, err := goal.NewEternal("Pray", "morning", 50)
	require.NoError(t, err)
	check, err := goal.NewChecklist("Temple", "attend", 50, 10, 500)
	require.NoError(t, err)
	check.SetProgress(4)

	return Snapshot{Score: 1000, Goals: []goal.Goal{simple, eternal, check}}
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, testSnapshot(t)))

	want := "1000\n" +
		"Simple|Read|daily|100|True\n" +
		"Eternal|Pray|morning|50\n" +
		"Checklist|Temple|attend|50|10|500|4\n"
	assert.Equal(t, want, buf.String())
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Snapshot{}))
	assert.Equal(t, "0\n", buf.String())
}

func TestDecodeBestEffort(t *testing.T) {
	input := strings.Join([]string{
		"250",
		"Simple|Read|daily|100|False",
		"Bogus|x|y|1",
		"Eternal|Pray|morning|50",
		"Eternal|Pray|morning",
		"",
		"Checklist|Temple|attend|50|10|500|2",
		"Simple|Run||ten|False",
	}, "\r\n") + "\r\n"

	snap, skipped, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 250, snap.Score)
	require.Len(t, snap.Goals, 3)
	assert.Equal(t, goal.KindSimple, snap.Goals[0].Kind())
	assert.Equal(t, goal.KindEternal, snap.Goals[1].Kind())
	assert.Equal(t, goal.KindChecklist, snap.Goals[2].Kind())

	require.Len(t, skipped, 4)
	assert.Equal(t, []int{3, 5, 6, 8}, []int{skipped[0].Line, skipped[1].Line, skipped[2].Line, skipped[3].Line})
	assert.ErrorIs(t, skipped[0], ErrFormat)
	assert.ErrorIs(t, skipped[3], ErrParse)
	assert.Equal(t, "Bogus|x|y|1", skipped[0].Text)
}

func TestDecodeHeader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		score   int
		wantErr bool
	}{
		{name: "plain", input: "42\n", score: 42},
		{name: "whitespace", input: "  -7 \n", score: -7},
		{name: "no trailing newline", input: "9", score: 9},
		{name: "empty", input: "", wantErr: true},
		{name: "not a number", input: "Simple|Read||1|False\n", wantErr: true},
		{name: "blank header", input: "\nEternal|Pray||5\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, _, err := Decode(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrHeader)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.score, snap.Score)
			assert.Empty(t, snap.Goals)
		})
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goals.txt")
	snap := testSnapshot(t)

	require.NoError(t, WriteFile(path, snap))

	got, skipped, err := ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, snap, got)

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goals.txt")
	require.NoError(t, os.WriteFile(path, []byte("1\nEternal|Old||1\n"), 0o644))

	require.NoError(t, WriteFile(path, Snapshot{Score: 5}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "5\n", string(data))
}

func TestWriteReadFileLongRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goals.txt")
	long, err := goal.NewEternal("Journal", strings.Repeat("x", 2<<20), 5)
	require.NoError(t, err)
	simple, err := goal.NewSimple("Read", "daily", 100)
	require.NoError(t, err)
	snap := Snapshot{Score: 7, Goals: []goal.Goal{long, simple}}

	require.NoError(t, WriteFile(path, snap))

	got, skipped, err := ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, snap, got)
}

// tempFiles lists leftover temporary files next to path.
func tempFiles(t *testing.T, path string) []string {
	t.Helper()
	matches, err := filepath.Glob(path + ".tmp-*")
	require.NoError(t, err)
	return matches
}

func TestWriteFileFailureKeepsPrevious(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directory permissions do not block file creation on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "goals.txt")
	previous := []byte("5\nEternal|Pray|morning|50\n")
	require.NoError(t, os.WriteFile(path, previous, 0o644))
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	err := WriteFile(path, testSnapshot(t))
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr), "unexpected error: %v", err)
	assert.Equal(t, "write", ioErr.Op)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, previous, data)
	assert.Empty(t, tempFiles(t, path))
}

func TestWriteFileRenameFailureCleansUp(t *testing.T) {
	// A non-empty directory at the destination makes the final rename fail
	// after the temp file was written.
	dir := t.TempDir()
	path := filepath.Join(dir, "goals.txt")
	require.NoError(t, os.Mkdir(path, 0o755))
	keep := filepath.Join(path, "keep")
	require.NoError(t, os.WriteFile(keep, []byte("keep"), 0o644))

	err := WriteFile(path, testSnapshot(t))
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr), "unexpected error: %v", err)

	data, err := os.ReadFile(keep)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
	assert.Empty(t, tempFiles(t, path))
}

func TestWriteFileMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "goals.txt")

	err := WriteFile(path, testSnapshot(t))
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Op)
	assert.Equal(t, path, ioErr.Path)
}

func TestReadFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.txt")

	_, _, err := ReadFile(path)
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read", ioErr.Op)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestReadFileBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goals.txt")
	require.NoError(t, os.WriteFile(path, []byte("lots\nEternal|Pray||5\n"), 0o644))

	_, _, err := ReadFile(path)
	assert.ErrorIs(t, err, ErrHeader)
}
