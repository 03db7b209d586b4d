package services

import (
	"context"
	"strings"
	"testing"

	"inv/internal/core/ports/mocks"
)

func TestTreeService_Render(t *testing.T) {
	repo := mocks.NewMockRepository()
	repo.SeedContainer("office/desk_1")
	repo.SeedContainer("storage")
	seedAsset(t, repo, "laptop_apple_macbook.9r32he", "office/desk_1", nil)
	seedAsset(t, repo, "monitor_dell_u2720q.abc123", "", nil)
	svc := NewTreeService(repo)

	out, err := svc.Render(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := strings.Join([]string{
		"/",
		"├── office",
		"│   └── desk_1",
		"│       └── laptop_apple_macbook.9r32he",
		"├── storage",
		"└── monitor_dell_u2720q.abc123",
		"",
	}, "\n")
	if out != expected {
		t.Errorf("tree mismatch:\ngot:\n%s\nwant:\n%s", out, expected)
	}
}

func TestTreeService_RenderSubtree(t *testing.T) {
	repo := mocks.NewMockRepository()
	repo.SeedContainer("office/desk_1")
	repo.SeedContainer("storage")
	seedAsset(t, repo, "laptop_apple_macbook.9r32he", "office/desk_1", nil)
	svc := NewTreeService(repo)

	out, err := svc.Render(context.Background(), "office")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "storage") {
		t.Errorf("subtree should not include siblings:\n%s", out)
	}
	if !strings.Contains(out, "desk_1") || !strings.Contains(out, "laptop_apple_macbook.9r32he") {
		t.Errorf("subtree missing content:\n%s", out)
	}
}
