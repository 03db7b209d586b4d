package services

import (
	"context"
	"strings"
	"testing"

	"inv/internal/core/ports/mocks"
)

func newImportFixture(t *testing.T) (*ImportService, *mocks.MockRepository) {
	t.Helper()
	repo := mocks.NewMockRepository()
	inventory := NewInventoryService(repo, mocks.NewFixedSerialGenerator("aaaaaa", "bbbbbb"), mocks.NewMockVersioner(), 6)
	return NewImportService(inventory), repo
}

func TestImportService_Execute(t *testing.T) {
	table := strings.Join([]string{
		"type\tmake\tmodel\tserial\tdirectory\tos",
		"laptop\tapple\tmacbook\t9r32he\toffice\tventura",
		"monitor\tdell\tu2720q\t\t\t",
	}, "\n")

	svc, repo := newImportFixture(t)
	repo.SeedContainer("office")
	repo.SeedContainer("inbox")

	resp, err := svc.Execute(context.Background(), ImportRequest{
		Reader:    strings.NewReader(table),
		Directory: "inbox",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Created) != 2 {
		t.Fatalf("created %d assets, want 2", len(resp.Created))
	}

	snap, _ := repo.Snapshot(context.Background())

	laptop := snap.AssetAt("office/laptop_apple_macbook.9r32he")
	if laptop == nil {
		t.Fatal("laptop missing: directory column should win over the default")
	}
	if laptop.Attributes["os"] != "ventura" {
		t.Errorf("os = %v, want ventura", laptop.Attributes["os"])
	}

	// No serial column value: a faux serial is generated; no directory:
	// the default container is used.
	monitor := snap.AssetAt("inbox/monitor_dell_u2720q.fauxaaaaaa")
	if monitor == nil {
		t.Fatal("monitor missing from the default container")
	}
	if _, ok := monitor.Attributes["os"]; ok {
		t.Error("empty cells must not become attributes")
	}
}

func TestImportService_DefaultsAndTypes(t *testing.T) {
	table := strings.Join([]string{
		"type\tmake\tmodel\tram_gb",
		"laptop\tlenovo\tthinkpad\t32",
	}, "\n")

	svc, repo := newImportFixture(t)
	repo.SeedContainer("inbox")

	resp, err := svc.Execute(context.Background(), ImportRequest{
		Reader:    strings.NewReader(table),
		Directory: "inbox",
		Defaults:  map[string]any{"vendor": "cdw", "ram_gb": 8},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := resp.Created[0]
	if a.Attributes["vendor"] != "cdw" {
		t.Errorf("default attribute missing: %v", a.Attributes)
	}
	if a.Attributes["ram_gb"] != 32 {
		t.Errorf("row value should win over the default and be typed, got %v (%T)",
			a.Attributes["ram_gb"], a.Attributes["ram_gb"])
	}
}

func TestImportService_Errors(t *testing.T) {
	tests := []struct {
		name     string
		table    string
		errorMsg string
	}{
		{
			name:     "empty input",
			table:    "",
			errorMsg: "no header",
		},
		{
			name:     "header only",
			table:    "type\tmake\tmodel",
			errorMsg: "no data rows",
		},
		{
			name:     "missing identity column",
			table:    "type\tmake\nlaptop\tapple",
			errorMsg: "row 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newImportFixture(t)
			repo.SeedContainer("inbox")

			_, err := svc.Execute(context.Background(), ImportRequest{
				Reader:    strings.NewReader(tt.table),
				Directory: "inbox",
			})
			if err == nil || !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("expected error containing %q, got %v", tt.errorMsg, err)
			}
		})
	}
}

func TestImportService_RowErrorAbortsBeforeAnyCreate(t *testing.T) {
	// The second row is invalid, so even the valid first row must not be
	// created: the table is validated in full before the first create.
	table := strings.Join([]string{
		"type\tmake\tmodel\tserial",
		"laptop\tapple\tmacbook\t9r32he",
		"\tdell\tu2720q\tabc123",
	}, "\n")

	svc, repo := newImportFixture(t)
	repo.SeedContainer("inbox")

	_, err := svc.Execute(context.Background(), ImportRequest{
		Reader:    strings.NewReader(table),
		Directory: "inbox",
	})
	if err == nil || !strings.Contains(err.Error(), "row 2") {
		t.Fatalf("expected row 2 error, got %v", err)
	}

	snap, _ := repo.Snapshot(context.Background())
	if len(snap.Assets) != 0 {
		t.Errorf("no asset should be created, found %d", len(snap.Assets))
	}
}
