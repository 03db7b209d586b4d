package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"inv/internal/core/domain"
	"inv/pkg/vault"
)

func newTestRepo(t *testing.T) (*FileRepository, *vault.Vault) {
	t.Helper()
	v := vault.At(t.TempDir())
	if err := v.Initialize(); err != nil {
		t.Fatalf("failed to initialize vault: %v", err)
	}
	return NewFileRepository(v), v
}

func newTestAsset(t *testing.T, token, container string, attributes map[string]any) *domain.Asset {
	t.Helper()
	id, err := domain.ParseIdentity(token)
	if err != nil {
		t.Fatalf("bad identity %q: %v", token, err)
	}
	a, err := domain.NewAsset(id, attributes, container)
	if err != nil {
		t.Fatalf("bad asset: %v", err)
	}
	return a
}

func TestFileRepository_WriteAndSnapshot(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if err := repo.MakeContainer(ctx, "office/desk_1"); err != nil {
		t.Fatalf("MakeContainer failed: %v", err)
	}
	asset := newTestAsset(t, "laptop_apple_macbook.9r32he", "office/desk_1", map[string]any{"os": "ventura", "ram": 16})
	if err := repo.WriteAsset(ctx, asset); err != nil {
		t.Fatalf("WriteAsset failed: %v", err)
	}

	snap, err := repo.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	for _, c := range []string{"office", "office/desk_1"} {
		if !snap.HasContainer(c) {
			t.Errorf("expected container %s", c)
		}
	}
	loaded := snap.AssetAt("office/desk_1/laptop_apple_macbook.9r32he")
	if loaded == nil {
		t.Fatal("asset missing from snapshot")
	}
	if loaded.Attributes["os"] != "ventura" {
		t.Errorf("os = %v, want ventura", loaded.Attributes["os"])
	}
	if loaded.Attributes["ram"] != 16 {
		t.Errorf("ram = %v (%T), want int 16", loaded.Attributes["ram"], loaded.Attributes["ram"])
	}
	if loaded.Container != "office/desk_1" {
		t.Errorf("container = %q", loaded.Container)
	}
}

func TestFileRepository_EmptyContainerIsAnchored(t *testing.T) {
	repo, v := newTestRepo(t)
	ctx := context.Background()

	if err := repo.MakeContainer(ctx, "warehouse/shelf_1"); err != nil {
		t.Fatalf("MakeContainer failed: %v", err)
	}

	for _, rel := range []string{"warehouse", "warehouse/shelf_1"} {
		anchor := filepath.Join(v.AbsPath(rel), vault.AnchorFile)
		if _, err := os.Stat(anchor); err != nil {
			t.Errorf("expected anchor file in %s: %v", rel, err)
		}
	}

	// Anchors are bookkeeping, not assets.
	snap, err := repo.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Assets) != 0 || len(snap.Malformed) != 0 {
		t.Errorf("anchor files leaked into the snapshot: %+v", snap)
	}
}

func TestFileRepository_MalformedFilesReported(t *testing.T) {
	repo, v := newTestRepo(t)
	ctx := context.Background()

	if err := repo.MakeContainer(ctx, "office"); err != nil {
		t.Fatal(err)
	}
	// A file whose name is not an identity token.
	if err := os.WriteFile(v.AbsPath("office/notes.txt"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	// A well-named file with non-mapping YAML content.
	if err := os.WriteFile(v.AbsPath("office/laptop_apple_macbook.9r32he"), []byte("- a\n- b\n"), 0644); err != nil {
		t.Fatal(err)
	}

	snap, err := repo.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Assets) != 0 {
		t.Errorf("malformed files must not load as assets: %+v", snap.Assets)
	}
	if len(snap.Malformed) != 2 {
		t.Errorf("expected 2 malformed entries, got %+v", snap.Malformed)
	}
}

func TestFileRepository_MoveAndRemove(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if err := repo.MakeContainer(ctx, "office"); err != nil {
		t.Fatal(err)
	}
	if err := repo.MakeContainer(ctx, "storage"); err != nil {
		t.Fatal(err)
	}
	asset := newTestAsset(t, "laptop_apple_macbook.9r32he", "office", nil)
	if err := repo.WriteAsset(ctx, asset); err != nil {
		t.Fatal(err)
	}

	if err := repo.Move(ctx, "office/laptop_apple_macbook.9r32he", "storage/laptop_apple_macbook.9r32he"); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	snap, _ := repo.Snapshot(ctx)
	if snap.AssetAt("office/laptop_apple_macbook.9r32he") != nil {
		t.Error("asset still at the old path")
	}
	if snap.AssetAt("storage/laptop_apple_macbook.9r32he") == nil {
		t.Error("asset missing at the new path")
	}

	if err := repo.RemoveAsset(ctx, "storage/laptop_apple_macbook.9r32he"); err != nil {
		t.Fatalf("RemoveAsset failed: %v", err)
	}
	if err := repo.RemoveContainer(ctx, "storage"); err != nil {
		t.Fatalf("RemoveContainer failed: %v", err)
	}

	snap, _ = repo.Snapshot(ctx)
	if snap.HasContainer("storage") {
		t.Error("removed container still present")
	}
	if !snap.HasContainer("office") {
		t.Error("unrelated container disappeared")
	}
}

func TestFileRepository_RemoveContainerRefusesRoot(t *testing.T) {
	repo, _ := newTestRepo(t)
	for _, p := range []string{"", ".", "/"} {
		if err := repo.RemoveContainer(context.Background(), p); err == nil {
			t.Errorf("expected refusal for %q", p)
		}
	}
}

func TestFileRepository_EmptyAttributesWriteEmptyFile(t *testing.T) {
	repo, v := newTestRepo(t)
	ctx := context.Background()

	if err := repo.MakeContainer(ctx, "office"); err != nil {
		t.Fatal(err)
	}
	asset := newTestAsset(t, "laptop_apple_macbook.9r32he", "office", nil)
	if err := repo.WriteAsset(ctx, asset); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(v.AbsPath("office/laptop_apple_macbook.9r32he"))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty file, got %q", data)
	}

	snap, _ := repo.Snapshot(ctx)
	a := snap.AssetAt("office/laptop_apple_macbook.9r32he")
	if a == nil || a.Attributes == nil || len(a.Attributes) != 0 {
		t.Errorf("empty file should load as empty attribute map, got %+v", a)
	}
}
