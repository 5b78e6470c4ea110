package store

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Encode writes the score header followed by one record line per goal.
func Encode(w io.Writer, snap Snapshot) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", snap.Score)
	for _, g := range snap.Goals {
		bw.WriteString(EncodeLine(g))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Decode reads a goals file. Records that fail to decode are skipped and
// returned as LineErrors; only a read failure or a bad score header fails
// the decode as a whole.
func Decode(r io.Reader) (Snapshot, []*LineError, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, nil, err
	}
	return decode(data)
}

// decode splits data into lines itself, so no record is too long to read.
func decode(data []byte) (Snapshot, []*LineError, error) {
	lines := strings.Split(string(data), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return Snapshot{}, nil, fmt.Errorf("%w: file is empty", ErrHeader)
	}

	header := strings.TrimSuffix(lines[0], "\r")
	score, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil {
		return Snapshot{}, nil, fmt.Errorf("%w: %q", ErrHeader, header)
	}

	snap := Snapshot{Score: score}
	var skipped []*LineError
	for i, raw := range lines[1:] {
		line := strings.TrimSuffix(raw, "\r")
		g, err := DecodeLine(line)
		if err != nil {
			skipped = append(skipped, &LineError{Line: i + 2, Text: line, Err: err})
			continue
		}
		snap.Goals = append(snap.Goals, g)
	}
	return snap, skipped, nil
}

// ReadFile reads and decodes the goals file at path.
func ReadFile(path string) (Snapshot, []*LineError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, nil, &IOError{Op: "read", Path: path, Err: err}
	}
	snap, skipped, err := decode(data)
	if err != nil {
		return Snapshot{}, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return snap, skipped, nil
}

// WriteFile writes snap to path. The content goes to a temporary file in the
// same directory which then replaces path, so a failed write leaves any
// existing file as it was.
func WriteFile(path string, snap Snapshot) error {
	var buf bytes.Buffer
	if err := Encode(&buf, snap); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := writeAtomic(path, buf.Bytes(), 0o644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func writeAtomic(path string, content []byte, perm os.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := f.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
