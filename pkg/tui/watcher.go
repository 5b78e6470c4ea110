package tui

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// debounceDelay is how long the watcher waits after the last change.
const debounceDelay = 200 * time.Millisecond

// Sender receives messages from the watcher. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// StartWatcher watches the goals file and sends FileChangedMsg after it
// changes. The parent directory is watched so that atomic replaces, which
// swap the inode, are still seen.
func StartWatcher(goalsPath string, program Sender) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	target := filepath.Clean(goalsPath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})

	go func() {
		var debounceTimer *time.Timer

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}

				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDelay, func() {
					program.Send(FileChangedMsg{})
				})

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}

			case <-done:
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			}
		}
	}()

	cleanup := func() {
		close(done)
		watcher.Close()
	}

	return cleanup, nil
}
