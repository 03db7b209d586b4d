package mocks

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"inv/internal/core/domain"
)

// MockRepository is an in-memory implementation of the Repository port
// for testing. It mirrors the file layout: containers are a path set,
// assets a path-keyed map.
type MockRepository struct {
	mu         sync.RWMutex
	assets     map[string]*domain.Asset // keyed by path
	containers map[string]bool
	failNext   error
}

// NewMockRepository creates an empty mock repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		assets:     make(map[string]*domain.Asset),
		containers: make(map[string]bool),
	}
}

// FailNext makes the next mutating primitive return err, for testing
// the all-or-nothing failure path.
func (m *MockRepository) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *MockRepository) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

// Snapshot returns a deep copy of the current state.
func (m *MockRepository) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := &domain.Snapshot{}
	for _, a := range m.assets {
		snap.Assets = append(snap.Assets, a.Clone())
	}
	for c := range m.containers {
		snap.Containers = append(snap.Containers, c)
	}
	sort.Strings(snap.Containers)
	sort.Slice(snap.Assets, func(i, j int) bool { return snap.Assets[i].Path() < snap.Assets[j].Path() })
	return snap, nil
}

// WriteAsset creates or overwrites an asset at its current path.
func (m *MockRepository) WriteAsset(ctx context.Context, asset *domain.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.assets[asset.Path()] = asset.Clone()
	return nil
}

// RemoveAsset deletes the asset at the given path.
func (m *MockRepository) RemoveAsset(ctx context.Context, relPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	if _, ok := m.assets[relPath]; !ok {
		return fmt.Errorf("asset not found: %s", relPath)
	}
	delete(m.assets, relPath)
	return nil
}

// MakeContainer creates a container and its parents.
func (m *MockRepository) MakeContainer(ctx context.Context, relPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	p := strings.Trim(relPath, "/")
	for p != "" && p != "." {
		m.containers[p] = true
		p = path.Dir(p)
	}
	return nil
}

// RemoveContainer deletes a container and everything below it.
func (m *MockRepository) RemoveContainer(ctx context.Context, relPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	p := strings.Trim(relPath, "/")
	if !m.containers[p] {
		return fmt.Errorf("container not found: %s", p)
	}
	delete(m.containers, p)
	for c := range m.containers {
		if strings.HasPrefix(c+"/", p+"/") {
			delete(m.containers, c)
		}
	}
	for ap, a := range m.assets {
		if strings.HasPrefix(a.Container+"/", p+"/") || a.Container == p {
			delete(m.assets, ap)
		}
	}
	return nil
}

// Move relocates an asset or container.
func (m *MockRepository) Move(ctx context.Context, oldRel, newRel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}

	if a, ok := m.assets[oldRel]; ok {
		moved := a.Clone()
		container := path.Dir(newRel)
		if container == "." {
			container = ""
		}
		moved.Container = container
		delete(m.assets, oldRel)
		m.assets[moved.Path()] = moved
		return nil
	}

	if m.containers[oldRel] {
		delete(m.containers, oldRel)
		m.containers[newRel] = true
		for c := range m.containers {
			if strings.HasPrefix(c, oldRel+"/") {
				delete(m.containers, c)
				m.containers[newRel+c[len(oldRel):]] = true
			}
		}
		for ap, a := range m.assets {
			if a.Container == oldRel || strings.HasPrefix(a.Container, oldRel+"/") {
				moved := a.Clone()
				moved.Container = newRel + a.Container[len(oldRel):]
				delete(m.assets, ap)
				m.assets[moved.Path()] = moved
			}
		}
		return nil
	}

	return fmt.Errorf("not found: %s", oldRel)
}

// SeedContainer registers containers without going through a service.
func (m *MockRepository) SeedContainer(paths ...string) {
	for _, p := range paths {
		_ = m.MakeContainer(context.Background(), p)
	}
}

// SeedAsset registers an asset without going through a service.
func (m *MockRepository) SeedAsset(a *domain.Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[a.Path()] = a.Clone()
}

// --- FixedSerialGenerator ---

// FixedSerialGenerator yields a deterministic sequence of suffixes so
// tests control faux serial assignment.
type FixedSerialGenerator struct {
	mu      sync.Mutex
	serials []string
	next    int
}

// NewFixedSerialGenerator creates a generator cycling the given suffixes.
func NewFixedSerialGenerator(serials ...string) *FixedSerialGenerator {
	return &FixedSerialGenerator{serials: serials}
}

// Generate returns the next suffix in sequence, cycling at the end.
func (g *FixedSerialGenerator) Generate(length int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.serials) == 0 {
		return "", fmt.Errorf("no serials configured")
	}
	s := g.serials[g.next%len(g.serials)]
	g.next++
	return s, nil
}

// --- MockVersioner ---

// MockVersioner records commit and restore calls.
type MockVersioner struct {
	mu       sync.Mutex
	Commits  []string
	Restores int
	FailWith error
}

// NewMockVersioner creates an empty mock versioner.
func NewMockVersioner() *MockVersioner {
	return &MockVersioner{}
}

func (v *MockVersioner) Init(ctx context.Context) error { return nil }

func (v *MockVersioner) Commit(ctx context.Context, message string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.FailWith != nil {
		return v.FailWith
	}
	v.Commits = append(v.Commits, message)
	return nil
}

func (v *MockVersioner) Restore(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Restores++
	return nil
}

func (v *MockVersioner) Log(ctx context.Context, relPath string, limit int) (string, error) {
	return "", nil
}

// LastCommit returns the most recent commit message, or "".
func (v *MockVersioner) LastCommit() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.Commits) == 0 {
		return ""
	}
	return v.Commits[len(v.Commits)-1]
}
