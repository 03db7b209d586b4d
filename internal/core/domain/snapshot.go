package domain

import (
	"sort"
	"strings"
)

// Snapshot is a consistent view of the repository taken before an
// operation plans its batch. All matching within one call runs against
// the same snapshot, never against partially-mutated state.
type Snapshot struct {
	Assets     []*Asset
	Containers []string // sorted, slash-separated paths relative to the vault root

	// Malformed lists files that could not be read as assets (bad
	// identity token or invalid YAML). They are surfaced by Validate
	// and ignored by every other operation.
	Malformed []Violation
}

// HasContainer reports whether the container path exists. The vault
// root ("" or ".") always exists.
func (s *Snapshot) HasContainer(p string) bool {
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return true
	}
	for _, c := range s.Containers {
		if c == p {
			return true
		}
	}
	return false
}

// HasIdentity reports whether any asset already carries the filename.
// Identities are unique across the whole repository, not per container.
func (s *Snapshot) HasIdentity(filename string) bool {
	for _, a := range s.Assets {
		if a.Identity.Filename() == filename {
			return true
		}
	}
	return false
}

// AssetAt returns the asset stored at the given path, or nil.
func (s *Snapshot) AssetAt(p string) *Asset {
	p = strings.Trim(p, "/")
	for _, a := range s.Assets {
		if a.Path() == p {
			return a
		}
	}
	return nil
}

// Select returns the assets and containers matched by the selector,
// each list sorted by path.
func (s *Snapshot) Select(sel Selector) (assets []*Asset, containers []string) {
	for _, a := range s.Assets {
		if sel.MatchAsset(a) {
			assets = append(assets, a)
		}
	}
	for _, c := range s.Containers {
		if sel.MatchContainer(c) {
			containers = append(containers, c)
		}
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Path() < assets[j].Path() })
	sort.Strings(containers)
	return assets, containers
}

// Descendants returns the assets and containers transitively below the
// given container path.
func (s *Snapshot) Descendants(containerPath string) (assets []*Asset, containers []string) {
	prefix := strings.Trim(containerPath, "/") + "/"
	for _, a := range s.Assets {
		if strings.HasPrefix(a.Path(), prefix) {
			assets = append(assets, a)
		}
	}
	for _, c := range s.Containers {
		if strings.HasPrefix(c, prefix) {
			containers = append(containers, c)
		}
	}
	return assets, containers
}

// FauxSerials returns the set of auto-generated serials in use, so a
// generator can avoid collisions.
func (s *Snapshot) FauxSerials() map[string]bool {
	serials := make(map[string]bool)
	for _, a := range s.Assets {
		if a.Identity.IsFaux() {
			serials[a.Identity.Serial] = true
		}
	}
	return serials
}
