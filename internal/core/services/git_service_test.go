package services

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// setupGitEnv creates a temp directory and initializes a GitService.
// It also configures local git identity to ensure commits work in CI environments.
func setupGitEnv(t *testing.T) (string, *GitService) {
	t.Helper()
	if !IsGitAvailable() {
		t.Skip("git not available")
	}

	tmpDir := t.TempDir()
	svc := NewGitService(tmpDir)

	if err := svc.Init(context.Background()); err != nil {
		t.Fatalf("Failed to init git repo: %v", err)
	}
	configureGitIdentity(t, tmpDir)

	return tmpDir, svc
}

func configureGitIdentity(t *testing.T, dir string) {
	runCmd(t, dir, "git", "config", "user.email", "test@inv.local")
	runCmd(t, dir, "git", "config", "user.name", "Inv Test Bot")
}

func runCmd(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Command failed: %s %v\nOutput: %s\nError: %v", name, args, out, err)
	}
}

func TestGitService_Init(t *testing.T) {
	if !IsGitAvailable() {
		t.Skip("git not available")
	}

	tmpDir := t.TempDir()
	svc := NewGitService(tmpDir)

	if err := svc.Init(context.Background()); err != nil {
		t.Fatalf("Init() returned error: %v", err)
	}

	gitDir := filepath.Join(tmpDir, ".git")
	if _, err := os.Stat(gitDir); os.IsNotExist(err) {
		t.Errorf("Expected .git directory to be created, but it was missing")
	}

	// Idempotency check
	if err := svc.Init(context.Background()); err != nil {
		t.Errorf("Subsequent Init() call should not fail: %v", err)
	}
}

func TestGitService_Commit(t *testing.T) {
	dir, svc := setupGitEnv(t)
	ctx := context.Background()

	testFile := filepath.Join(dir, "laptop_apple_macbook.9r32he")
	if err := os.WriteFile(testFile, []byte("os: ventura\n"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	message := "new [1]: laptop_apple_macbook.9r32he\n\n--- Inventory Operations ---\nNew assets:\n- laptop_apple_macbook.9r32he\n"
	if err := svc.Commit(ctx, message); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}

	log, err := svc.Log(ctx, "", 1)
	if err != nil {
		t.Fatalf("Log() failed: %v", err)
	}
	if !strings.Contains(log, "new [1]") {
		t.Errorf("Expected log to contain the message subject, got: %s", log)
	}

	if svc.HasUncommittedChanges(ctx) {
		t.Error("Working tree should be clean after commit")
	}
}

func TestGitService_Restore(t *testing.T) {
	dir, svc := setupGitEnv(t)
	ctx := context.Background()

	committed := filepath.Join(dir, "monitor_dell_u2720q.abc123")
	if err := os.WriteFile(committed, []byte("display_size: 27\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := svc.Commit(ctx, "baseline"); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}

	// Dirty the tree: modify a tracked file and add an untracked one.
	if err := os.WriteFile(committed, []byte("display_size: 32\n"), 0644); err != nil {
		t.Fatal(err)
	}
	stray := filepath.Join(dir, "stray_file")
	if err := os.WriteFile(stray, []byte("junk"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := svc.Restore(ctx); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}

	data, err := os.ReadFile(committed)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "display_size: 27\n" {
		t.Errorf("Tracked file not restored: %q", data)
	}
	if _, err := os.Stat(stray); !os.IsNotExist(err) {
		t.Error("Untracked file should be cleaned")
	}
	if svc.HasUncommittedChanges(ctx) {
		t.Error("Working tree should be clean after restore")
	}
}

func TestGitService_LogForPath(t *testing.T) {
	dir, svc := setupGitEnv(t)
	ctx := context.Background()

	a := filepath.Join(dir, "laptop_apple_macbook.9r32he")
	b := filepath.Join(dir, "monitor_dell_u2720q.abc123")
	if err := os.WriteFile(a, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := svc.Commit(ctx, "add laptop"); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("b"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := svc.Commit(ctx, "add monitor"); err != nil {
		t.Fatal(err)
	}

	log, err := svc.Log(ctx, "laptop_apple_macbook.9r32he", 0)
	if err != nil {
		t.Fatalf("Log() failed: %v", err)
	}
	if !strings.Contains(log, "add laptop") {
		t.Errorf("Expected laptop commit in log, got: %s", log)
	}
	if strings.Contains(log, "add monitor") {
		t.Errorf("Unrelated commit should not appear in path log: %s", log)
	}
}
