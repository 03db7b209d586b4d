package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// GitService is the version-control collaborator. Every completed
// inventory operation is committed, so git carries the full change
// history and the rollback path the core itself does not provide.
type GitService struct {
	workingDir string
}

// NewGitService creates a new instance of GitService rooted at the vault.
func NewGitService(workingDir string) *GitService {
	return &GitService{workingDir: workingDir}
}

// runGit executes a git command in the service's working directory.
func (s *GitService) runGit(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.workingDir
	// Stdout stays silent to keep the CLI clean; stderr surfaces errors.
	cmd.Stdout = nil
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (s *GitService) output(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.workingDir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Init initializes a git repository in the vault if one doesn't exist.
func (s *GitService) Init(ctx context.Context) error {
	if _, err := os.Stat(filepath.Join(s.workingDir, ".git")); err == nil {
		return nil // already initialized
	}
	return s.runGit(ctx, "init")
}

// Commit stages all changes and commits them with the given message.
func (s *GitService) Commit(ctx context.Context, message string) error {
	if err := s.runGit(ctx, "add", "-A"); err != nil {
		return fmt.Errorf("git add failed: %w", err)
	}
	if err := s.runGit(ctx, "commit", "-m", message); err != nil {
		return fmt.Errorf("git commit failed: %w", err)
	}
	return nil
}

// Restore discards all uncommitted changes, returning the working tree
// to the last committed state.
func (s *GitService) Restore(ctx context.Context) error {
	if err := s.runGit(ctx, "reset", "--hard", "HEAD"); err != nil {
		return fmt.Errorf("git reset failed: %w", err)
	}
	if err := s.runGit(ctx, "clean", "-fd"); err != nil {
		return fmt.Errorf("git clean failed: %w", err)
	}
	return nil
}

// Log returns the change history for a path, newest first. An empty
// path returns the history of the whole vault.
func (s *GitService) Log(ctx context.Context, relPath string, limit int) (string, error) {
	args := []string{"log", "--follow", "--oneline"}
	if limit > 0 {
		args = append(args, "-n", strconv.Itoa(limit))
	}
	if relPath != "" {
		args = append(args, "--", relPath)
	}
	out, err := s.output(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("git log failed: %w", err)
	}
	return out, nil
}

// Status returns the porcelain status of the vault.
func (s *GitService) Status(ctx context.Context) (string, error) {
	return s.output(ctx, "status", "--short")
}

// Passthrough runs an arbitrary git command in the vault, wiring the
// caller's terminal through.
func (s *GitService) Passthrough(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.workingDir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// IsAvailable reports whether the git binary can be found.
func IsGitAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// HasUncommittedChanges reports whether the working tree is dirty.
func (s *GitService) HasUncommittedChanges(ctx context.Context) bool {
	out, err := s.Status(ctx)
	return err == nil && strings.TrimSpace(out) != ""
}
