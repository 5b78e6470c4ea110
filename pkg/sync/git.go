// Package sync keeps the quest data directory in a git repository and
// synchronizes it with a remote.
package sync

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const gitignore = "logs/\n*.tmp-*\n"

// ErrNotRepository is returned when the data directory has not been
// initialized with InitRepo.
var ErrNotRepository = errors.New("not a git repository. Run 'quest init' first")

// InitRepo makes dir a git repository if it is not one already, adds a
// .gitignore for logs and temp files, and points origin at remote when one
// is given.
func InitRepo(dir, remote string, out io.Writer) error {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		if repo, err = git.PlainInit(dir, false); err != nil {
			return fmt.Errorf("initializing repository: %w", err)
		}
		fmt.Fprintf(out, "Initialized git repository in %s\n", dir)
	} else if err != nil {
		return fmt.Errorf("opening repository: %w", err)
	}

	ignorePath := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(ignorePath); os.IsNotExist(err) {
		if err := os.WriteFile(ignorePath, []byte(gitignore), 0o644); err != nil {
			return fmt.Errorf("writing .gitignore: %w", err)
		}
	}

	if remote == "" {
		fmt.Fprintln(out, "No remote specified. Use --remote <url> to set one.")
		return nil
	}

	if err := repo.DeleteRemote("origin"); err != nil && !errors.Is(err, git.ErrRemoteNotFound) {
		return fmt.Errorf("removing remote: %w", err)
	}
	if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{remote}}); err != nil {
		return fmt.Errorf("setting remote: %w", err)
	}
	fmt.Fprintf(out, "Remote set to: %s\n", remote)
	return nil
}

// Commit stages every change in dir and commits it. It reports false when
// there was nothing to commit.
func Commit(dir, message string) (bool, error) {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return false, ErrNotRepository
	}
	if err != nil {
		return false, fmt.Errorf("opening repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("opening worktree: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return false, fmt.Errorf("staging changes: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("reading status: %w", err)
	}
	if status.IsClean() {
		return false, nil
	}

	if _, err := wt.Commit(message, &git.CommitOptions{Author: signature(repo)}); err != nil {
		return false, fmt.Errorf("committing: %w", err)
	}
	return true, nil
}

func signature(repo *git.Repository) *object.Signature {
	sig := &object.Signature{Name: "quest", Email: "quest@localhost", When: time.Now()}
	if cfg, err := repo.ConfigScoped(gitconfig.GlobalScope); err == nil {
		if cfg.User.Name != "" {
			sig.Name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			sig.Email = cfg.User.Email
		}
	}
	return sig
}

// SyncRepo synchronizes the data directory with its remote.
// Strategy: commit local changes, rebase, fallback to merge, push.
// Pull and push go through the git binary so the user's credential setup
// applies.
func SyncRepo(dir string, out io.Writer) error {
	fmt.Fprintln(out, "Committing changes...")
	if _, err := Commit(dir, "sync "+time.Now().Format("2006-01-02 15:04:05")); err != nil {
		return err
	}

	git := func(args ...string) *exec.Cmd {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Stdout = out
		cmd.Stderr = out
		return cmd
	}

	fmt.Fprintln(out, "Pulling...")
	if err := git("pull", "--rebase").Run(); err != nil {
		fmt.Fprintln(out, "Rebase failed, trying merge...")
		_ = git("rebase", "--abort").Run()

		if err := git("pull", "--no-rebase").Run(); err != nil {
			_ = git("merge", "--abort").Run()
			return fmt.Errorf("sync failed: could not rebase or merge. Resolve conflicts manually")
		}
	}

	fmt.Fprintln(out, "Pushing...")
	if err := git("push").Run(); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	fmt.Fprintln(out, "Sync complete.")
	return nil
}
