package services

import (
	"context"
	"testing"

	"inv/internal/core/ports/mocks"
)

func seedListFixture(t *testing.T, repo *mocks.MockRepository) {
	t.Helper()
	repo.SeedContainer("office/desk_1")
	repo.SeedContainer("storage")
	seedAsset(t, repo, "laptop_apple_macbook.9r32he", "office/desk_1", map[string]any{"os": "ventura"})
	seedAsset(t, repo, "monitor_dell_u2720q.abc123", "office/desk_1", nil)
	seedAsset(t, repo, "headphones_JBL_pro.fauxaaaaaa", "storage", nil)
}

func TestListService_Execute(t *testing.T) {
	tests := []struct {
		name          string
		request       ListRequest
		pattern       string
		filters       []string
		expectedCount int
		expectedFirst string
	}{
		{
			name:          "list everything",
			pattern:       "**",
			expectedCount: 3,
			expectedFirst: "office/desk_1/laptop_apple_macbook.9r32he",
		},
		{
			name:          "scope to container",
			pattern:       "office/**",
			expectedCount: 2,
		},
		{
			name:          "filter by type",
			pattern:       "**",
			filters:       []string{"type=laptop"},
			expectedCount: 1,
		},
		{
			name:          "empty result is not an error",
			pattern:       "basement/**",
			expectedCount: 0,
		},
		{
			name:          "depth limits nesting",
			pattern:       "**",
			request:       ListRequest{Depth: 2},
			expectedCount: 1, // only storage/headphones is two levels deep
			expectedFirst: "storage/headphones_JBL_pro.fauxaaaaaa",
		},
		{
			name:          "sort by serial",
			pattern:       "**",
			request:       ListRequest{SortBy: "serial"},
			expectedCount: 3,
			expectedFirst: "office/desk_1/laptop_apple_macbook.9r32he",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockRepository()
			seedListFixture(t, repo)
			svc := NewListService(repo)

			req := tt.request
			req.Selector = selector(t, tt.pattern, tt.filters...)

			resp, err := svc.Execute(context.Background(), req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Total != tt.expectedCount {
				t.Fatalf("total = %d, want %d", resp.Total, tt.expectedCount)
			}
			if tt.expectedFirst != "" && resp.Assets[0].Path() != tt.expectedFirst {
				t.Errorf("first = %s, want %s", resp.Assets[0].Path(), tt.expectedFirst)
			}
		})
	}
}

func TestListService_Search(t *testing.T) {
	repo := mocks.NewMockRepository()
	seedListFixture(t, repo)
	svc := NewListService(repo)

	tests := []struct {
		query         string
		expectedCount int
	}{
		{"", 3},
		{"MACBOOK", 1},    // case-insensitive over the path
		{"ventura", 1},    // attribute values are searched too
		{"nosuchthing", 0},
	}
	for _, tt := range tests {
		resp, err := svc.Search(context.Background(), tt.query)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Total != tt.expectedCount {
			t.Errorf("Search(%q) = %d results, want %d", tt.query, resp.Total, tt.expectedCount)
		}
	}
}

func TestListService_Resolve(t *testing.T) {
	repo := mocks.NewMockRepository()
	seedListFixture(t, repo)
	svc := NewListService(repo)

	t.Run("single match", func(t *testing.T) {
		a, err := svc.Resolve(context.Background(), selector(t, "**/laptop_*"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Identity.Type != "laptop" {
			t.Errorf("resolved wrong asset: %s", a.Path())
		}
	})

	t.Run("no match", func(t *testing.T) {
		if _, err := svc.Resolve(context.Background(), selector(t, "**/printer_*")); err == nil {
			t.Error("expected error for zero matches")
		}
	})

	t.Run("ambiguous", func(t *testing.T) {
		if _, err := svc.Resolve(context.Background(), selector(t, "office/**")); err == nil {
			t.Error("expected error for multiple matches")
		}
	})
}
