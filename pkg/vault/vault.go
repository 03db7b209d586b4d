// Package vault locates and lays out the inventory directory: the tree
// of containers and asset files, plus the .inv marker directory holding
// configuration.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MarkerDir distinguishes an inventory vault from a plain directory.
const MarkerDir = ".inv"

// AnchorFile keeps otherwise-empty containers tracked by git.
const AnchorFile = ".anchor"

// Vault represents the managed inventory directory.
type Vault struct {
	RootPath   string
	MarkerPath string
	ConfigPath string
}

// At returns the vault rooted at the given directory, without checking
// that it is initialized.
func At(root string) *Vault {
	root = filepath.Clean(root)
	return &Vault{
		RootPath:   root,
		MarkerPath: filepath.Join(root, MarkerDir),
		ConfigPath: filepath.Join(root, MarkerDir, "config.yaml"),
	}
}

// Discover walks from the start directory upward until it finds a vault
// marker, the way git finds its repository root.
func Discover(start string) (*Vault, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", start, err)
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, MarkerDir)); err == nil && info.IsDir() {
			return At(dir), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("no inventory vault found in %s or any parent directory", start)
		}
		dir = parent
	}
}

// Initialize creates the vault structure. The root may already exist
// and contain files; the marker directory may not.
func (v *Vault) Initialize() error {
	if v.Exists() {
		return fmt.Errorf("vault already initialized at %s", v.RootPath)
	}
	for _, dir := range []string{v.RootPath, v.MarkerPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Exists checks whether the vault has been initialized.
func (v *Vault) Exists() bool {
	info, err := os.Stat(v.MarkerPath)
	return err == nil && info.IsDir()
}

// AbsPath resolves a slash-separated vault-relative path to an absolute
// filesystem path.
func (v *Vault) AbsPath(rel string) string {
	return filepath.Join(v.RootPath, filepath.FromSlash(rel))
}

// RelPath converts an absolute path inside the vault back to the
// slash-separated form used everywhere in the core.
func (v *Vault) RelPath(abs string) (string, error) {
	rel, err := filepath.Rel(v.RootPath, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside the vault", abs)
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}

// IsProtected reports whether the path belongs to vault or git
// bookkeeping rather than inventory content.
func (v *Vault) IsProtected(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == MarkerDir || part == ".git" || part == AnchorFile {
			return true
		}
	}
	return false
}
