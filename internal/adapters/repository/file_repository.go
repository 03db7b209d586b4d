package repository

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"inv/internal/core/domain"
	"inv/internal/core/ports"
	"inv/pkg/attrs"
	"inv/pkg/vault"
)

// FileRepository stores the inventory as plain files: containers are
// directories, assets are YAML files named by their identity token, and
// empty containers carry an anchor file so git keeps them.
type FileRepository struct {
	vault *vault.Vault
	mu    sync.RWMutex
}

// NewFileRepository creates a file-based repository over a vault.
func NewFileRepository(v *vault.Vault) *FileRepository {
	return &FileRepository{vault: v}
}

// Ensure it implements the interface
var _ ports.Repository = (*FileRepository)(nil)

// Snapshot walks the vault and returns a consistent view of all assets
// and containers. Files with unparsable names or invalid YAML are
// reported separately instead of silently skipped.
func (r *FileRepository) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := &domain.Snapshot{}

	err := filepath.WalkDir(r.vault.RootPath, func(absPath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := r.vault.RelPath(absPath)
		if relErr != nil || rel == "" {
			return nil
		}
		if entry.IsDir() {
			if base := filepath.Base(absPath); base == vault.MarkerDir || base == ".git" {
				return filepath.SkipDir
			}
			snap.Containers = append(snap.Containers, rel)
			return nil
		}
		if r.vault.IsProtected(rel) {
			return nil
		}

		asset, readErr := r.readAsset(absPath, rel)
		if readErr != nil {
			snap.Malformed = append(snap.Malformed, domain.Violation{Path: rel, Reason: readErr.Error()})
			return nil
		}
		snap.Assets = append(snap.Assets, asset)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk vault: %w", err)
	}

	sort.Strings(snap.Containers)
	sort.Slice(snap.Assets, func(i, j int) bool { return snap.Assets[i].Path() < snap.Assets[j].Path() })
	return snap, nil
}

// WriteAsset creates or overwrites the asset file at its current path.
func (r *FileRepository) WriteAsset(ctx context.Context, asset *domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := attrs.Marshal(asset.Attributes)
	if err != nil {
		return err
	}
	return os.WriteFile(r.vault.AbsPath(asset.Path()), data, 0644)
}

// RemoveAsset deletes the asset file at the given path.
func (r *FileRepository) RemoveAsset(ctx context.Context, relPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return os.Remove(r.vault.AbsPath(relPath))
}

// MakeContainer creates a container directory, parents included, and
// drops an anchor file so git tracks it while empty.
func (r *FileRepository) MakeContainer(ctx context.Context, relPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	abs := r.vault.AbsPath(relPath)
	if err := os.MkdirAll(abs, 0755); err != nil {
		return fmt.Errorf("failed to create container %s: %w", relPath, err)
	}
	// Anchor every directory on the way down.
	dir := abs
	for {
		rel, err := r.vault.RelPath(dir)
		if err != nil || rel == "" {
			break
		}
		anchor := filepath.Join(dir, vault.AnchorFile)
		if _, err := os.Stat(anchor); os.IsNotExist(err) {
			if err := os.WriteFile(anchor, []byte{}, 0644); err != nil {
				return fmt.Errorf("failed to anchor %s: %w", rel, err)
			}
		}
		dir = filepath.Dir(dir)
	}
	return nil
}

// RemoveContainer deletes a container and everything below it.
func (r *FileRepository) RemoveContainer(ctx context.Context, relPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rel := strings.Trim(relPath, "/")
	if rel == "" || rel == "." {
		return fmt.Errorf("refusing to remove the vault root")
	}
	return os.RemoveAll(r.vault.AbsPath(rel))
}

// Move relocates an asset file or container directory.
func (r *FileRepository) Move(ctx context.Context, oldRel, newRel string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := os.Rename(r.vault.AbsPath(oldRel), r.vault.AbsPath(newRel)); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", oldRel, newRel, err)
	}
	return nil
}

// readAsset parses one asset file into the domain type.
func (r *FileRepository) readAsset(absPath, rel string) (*domain.Asset, error) {
	name := filepath.Base(absPath)
	identity, err := domain.ParseIdentity(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset: %w", err)
	}
	attributes, err := attrs.Unmarshal(data)
	if err != nil {
		return nil, err
	}

	container := filepath.ToSlash(filepath.Dir(rel))
	if container == "." {
		container = ""
	}
	// Assets built from disk skip NewAsset validation: reserved keys in
	// content must survive loading so Validate can report them.
	return &domain.Asset{Identity: identity, Attributes: attributes, Container: container}, nil
}
