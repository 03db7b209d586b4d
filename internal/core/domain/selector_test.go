package domain

import "testing"

func testAsset(t *testing.T, token, container string, attributes map[string]any) *Asset {
	t.Helper()
	id, err := ParseIdentity(token)
	if err != nil {
		t.Fatalf("bad identity %q: %v", token, err)
	}
	a, err := NewAsset(id, attributes, container)
	if err != nil {
		t.Fatalf("bad asset %q: %v", token, err)
	}
	return a
}

func TestSelectorMatchAsset(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		filters   []string
		asset     *Asset
		container string
		expected  bool
	}{
		{
			name:     "literal path",
			pattern:  "office/desk_1/laptop_apple_macbook.9r32he",
			expected: true,
		},
		{
			name:     "wrong literal path",
			pattern:  "office/desk_2/laptop_apple_macbook.9r32he",
			expected: false,
		},
		{
			name:     "star within segment",
			pattern:  "office/desk_1/laptop_*",
			expected: true,
		},
		{
			name:     "star does not cross segments",
			pattern:  "office/laptop_*",
			expected: false,
		},
		{
			name:     "doublestar spans segments",
			pattern:  "office/**",
			expected: true,
		},
		{
			name:     "doublestar under container",
			pattern:  "office/desk_1/**",
			expected: true,
		},
		{
			name:     "doublestar then name",
			pattern:  "**/laptop_apple_macbook.9r32he",
			expected: true,
		},
		{
			name:     "whole vault",
			pattern:  "**",
			expected: true,
		},
		{
			name:     "filter on pseudo key",
			pattern:  "**",
			filters:  []string{"type=laptop"},
			expected: true,
		},
		{
			name:     "filter on pseudo key mismatch",
			pattern:  "**",
			filters:  []string{"type=monitor"},
			expected: false,
		},
		{
			name:     "filter on attribute",
			pattern:  "**",
			filters:  []string{"os=ventura"},
			expected: true,
		},
		{
			name:     "filter regex",
			pattern:  "**",
			filters:  []string{"os=ven.*"},
			expected: true,
		},
		{
			name:     "filter regex is anchored",
			pattern:  "**",
			filters:  []string{"os=ent"},
			expected: false,
		},
		{
			name:     "unset filter on missing key",
			pattern:  "**",
			filters:  []string{"warranty=<unset>"},
			expected: true,
		},
		{
			name:     "unset filter on present key",
			pattern:  "**",
			filters:  []string{"os=<unset>"},
			expected: false,
		},
		{
			name:     "numeric attribute matched as text",
			pattern:  "**",
			filters:  []string{"usb_ports=3"},
			expected: true,
		},
		{
			name:     "all filters must hold",
			pattern:  "**",
			filters:  []string{"type=laptop", "os=linux"},
			expected: false,
		},
	}

	asset := testAsset(t, "laptop_apple_macbook.9r32he", "office/desk_1", map[string]any{
		"os":        "ventura",
		"usb_ports": 3,
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := NewSelector(tt.pattern, tt.filters)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := sel.MatchAsset(asset); got != tt.expected {
				t.Errorf("MatchAsset(%q, %v) = %v, want %v", tt.pattern, tt.filters, got, tt.expected)
			}
		})
	}
}

func TestSelectorMatchContainer(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		filters  []string
		target   string
		expected bool
	}{
		{name: "literal", pattern: "office/desk_1", target: "office/desk_1", expected: true},
		{name: "glob", pattern: "office/desk_*", target: "office/desk_2", expected: true},
		{name: "doublestar", pattern: "office/**", target: "office/desk_1/drawer", expected: true},
		{name: "doublestar matches zero segments", pattern: "office/**", target: "office", expected: true},
		{name: "mismatch", pattern: "storage", target: "office", expected: false},
		{name: "filters never match containers", pattern: "office", filters: []string{"type=laptop"}, target: "office", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := NewSelector(tt.pattern, tt.filters)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := sel.MatchContainer(tt.target); got != tt.expected {
				t.Errorf("MatchContainer(%q, %q) = %v, want %v", tt.pattern, tt.target, got, tt.expected)
			}
		})
	}
}

func TestNewSelectorNormalizesDot(t *testing.T) {
	sel, err := NewSelector(".", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Pattern != "**" {
		t.Errorf("expected '.' to become '**', got %q", sel.Pattern)
	}
}

func TestParseFilterErrors(t *testing.T) {
	for _, arg := range []string{"no-equals", "=value", ""} {
		if _, err := ParseFilter(arg); err == nil {
			t.Errorf("expected error for %q", arg)
		}
	}
}

func TestSelectorIsLiteral(t *testing.T) {
	literal, _ := NewSelector("office/desk_1", nil)
	glob, _ := NewSelector("office/desk_*", nil)
	if !literal.IsLiteral() {
		t.Error("expected literal selector")
	}
	if glob.IsLiteral() {
		t.Error("expected glob selector to not be literal")
	}
}
