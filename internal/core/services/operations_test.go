package services

import (
	"strings"
	"testing"

	"inv/internal/core/domain"
)

func TestPlanRecord(t *testing.T) {
	id, _ := domain.ParseIdentity("laptop_apple_macbook.9r32he")
	a, _ := domain.NewAsset(id, nil, "office")

	var p plan
	p.add(operation{kind: opNewAsset, asset: a})
	p.add(operation{kind: opMoveAsset, src: "storage/monitor_dell_u2720q.abc123", dst: "office/monitor_dell_u2720q.abc123"})
	// Duplicate snippet in the same section collapses.
	p.add(operation{kind: opNewAsset, asset: a})

	record := p.record()

	if !strings.HasPrefix(record, "--- Inventory Operations ---\n") {
		t.Errorf("record missing header:\n%s", record)
	}
	if !strings.Contains(record, "New assets:\n- office/laptop_apple_macbook.9r32he\n") {
		t.Errorf("record missing new asset section:\n%s", record)
	}
	if !strings.Contains(record, "Moved assets:\n- storage/monitor_dell_u2720q.abc123 -> office/monitor_dell_u2720q.abc123\n") {
		t.Errorf("record missing move section:\n%s", record)
	}
	if strings.Count(record, "office/laptop_apple_macbook.9r32he") != 1 {
		t.Errorf("duplicate snippet not collapsed:\n%s", record)
	}
}

func TestPlanPaths(t *testing.T) {
	var p plan
	p.add(operation{kind: opRemoveAsset, src: "office/laptop_apple_macbook.9r32he"})
	p.add(operation{kind: opMoveContainer, src: "office", dst: "basement/office"})

	paths := p.paths()
	expected := []string{"office/laptop_apple_macbook.9r32he", "office", "basement/office"}
	if len(paths) != len(expected) {
		t.Fatalf("paths = %v, want %v", paths, expected)
	}
	for i := range expected {
		if paths[i] != expected[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], expected[i])
		}
	}
}
