package services

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"inv/internal/core/domain"
	"inv/internal/core/ports"
)

// fauxAttempts bounds the faux serial retry loop. Generation must never
// collide silently: after this many collisions the call fails explicit.
const fauxAttempts = 10

// InventoryService owns the asset identity, attribute, and location
// contract. Every mutating call matches against a single snapshot,
// plans a batch, validates it in full, executes it, and hands the
// result to the version-control collaborator. Calls are all-or-nothing.
type InventoryService struct {
	repo         ports.Repository
	serials      ports.SerialGenerator
	versioner    ports.Versioner
	serialLength int

	// One mutation at a time; the model is sequential by design.
	mu sync.Mutex
}

// NewInventoryService creates the inventory service.
func NewInventoryService(repo ports.Repository, serials ports.SerialGenerator, versioner ports.Versioner, serialLength int) *InventoryService {
	if serialLength < 4 {
		// 62^4 combinations is the lowest acceptable collision risk
		// between independent checkouts.
		serialLength = 6
	}
	return &InventoryService{
		repo:         repo,
		serials:      serials,
		versioner:    versioner,
		serialLength: serialLength,
	}
}

// OperationResponse reports what one completed call changed.
type OperationResponse struct {
	Record    string   // operations record appended to the commit message
	Paths     []string // affected paths, relative to the vault root
	Committed bool
}

// CreateRequest describes one or more new assets sharing an identity
// template and attribute set.
type CreateRequest struct {
	Container  string
	Type       string
	Make       string
	Model      string
	Serials    []string // explicit serials; empty or "faux" entries are generated
	Count      int      // template expansion when Serials is empty; default 1
	Attributes map[string]any
	Message    string
	DryRun     bool
}

// CreateResponse carries the created assets alongside the batch result.
type CreateResponse struct {
	OperationResponse
	Assets []*domain.Asset
}

// Create registers new assets under an existing container.
func (s *InventoryService) Create(ctx context.Context, req CreateRequest) (*CreateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	container := strings.Trim(path.Clean(req.Container), "/")
	if container == "." {
		container = ""
	}
	if !snap.HasContainer(container) {
		return nil, fmt.Errorf("%w: %s", domain.ErrContainerNotFound, req.Container)
	}

	serials := req.Serials
	if len(serials) == 0 {
		count := req.Count
		if count < 1 {
			count = 1
		}
		serials = make([]string, count)
		for i := range serials {
			serials[i] = domain.FauxPrefix
		}
	}

	var p plan
	pending := make(map[string]bool) // filenames claimed within this batch
	usedFaux := snap.FauxSerials()
	var created []*domain.Asset

	for _, serial := range serials {
		if serial == "" || serial == domain.FauxPrefix {
			serial, err = s.nextFauxSerial(snap, usedFaux)
			if err != nil {
				return nil, err
			}
			usedFaux[serial] = true
		}

		asset, err := domain.NewAsset(domain.Identity{
			Type:   req.Type,
			Make:   req.Make,
			Model:  req.Model,
			Serial: serial,
		}, cloneAttrs(req.Attributes), container)
		if err != nil {
			return nil, err
		}

		name := asset.Identity.Filename()
		if snap.HasIdentity(name) || pending[name] {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateIdentity, name)
		}
		pending[name] = true

		created = append(created, asset)
		p.add(operation{kind: opNewAsset, asset: asset})
	}

	resp := &CreateResponse{Assets: created}
	return resp, s.finish(ctx, &p, &resp.OperationResponse, req.Message, req.DryRun,
		defaultMessage("new", p.ops))
}

// MkdirRequest creates containers, missing parents included.
type MkdirRequest struct {
	Paths   []string
	Message string
	DryRun  bool
}

// CreateContainers creates one or more containers. Existing containers
// and collisions with asset files are errors.
func (s *InventoryService) CreateContainers(ctx context.Context, req MkdirRequest) (*OperationResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var p plan
	pending := make(map[string]bool)
	for _, raw := range req.Paths {
		target := strings.Trim(path.Clean(raw), "/")
		if target == "" || target == "." {
			return nil, fmt.Errorf("invalid container path: %q", raw)
		}
		if snap.HasContainer(target) || pending[target] {
			return nil, fmt.Errorf("container %s already exists", target)
		}
		if snap.AssetAt(target) != nil {
			return nil, fmt.Errorf("%w: %s is an asset", domain.ErrNameCollision, target)
		}
		// Record the whole chain of directories that will appear.
		for at := target; at != "" && at != "."; at = parentOf(at) {
			if !snap.HasContainer(at) && !pending[at] {
				pending[at] = true
				p.add(operation{kind: opNewContainer, src: at})
			}
		}
	}

	resp := &OperationResponse{}
	return resp, s.finish(ctx, &p, resp, req.Message, req.DryRun, defaultMessage("mkdir", p.ops))
}

func parentOf(p string) string {
	parent := path.Dir(p)
	if parent == "." {
		return ""
	}
	return parent
}

// SetRequest applies the same attribute patch to every matched asset.
type SetRequest struct {
	Selectors []domain.Selector
	Patch     map[string]any
	Message   string
	DryRun    bool
}

// SetResponse carries the assets whose attributes changed.
type SetResponse struct {
	OperationResponse
	Matched  int
	Modified []*domain.Asset
}

// SetAttributes merges the patch into all matched assets: patch keys
// overwrite, other keys are untouched. A selector matching nothing is
// an error (strict interpretation); assets already carrying the patched
// values count as matched but are not rewritten.
func (s *InventoryService) SetAttributes(ctx context.Context, req SetRequest) (*SetResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range domain.ReservedKeys {
		if _, ok := req.Patch[k]; ok {
			return nil, fmt.Errorf("key %q is reserved for the asset name and cannot be set", k)
		}
	}

	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	matched, err := matchAssets(snap, req.Selectors)
	if err != nil {
		return nil, err
	}

	var p plan
	var modified []*domain.Asset
	for _, a := range matched {
		next := a.Clone()
		changed := false
		for k, v := range req.Patch {
			if cur, ok := next.Attributes[k]; !ok || cur != v {
				next.Attributes[k] = v
				changed = true
			}
		}
		if !changed {
			continue
		}
		modified = append(modified, next)
		p.add(operation{kind: opModifyAsset, asset: next})
	}

	resp := &SetResponse{Matched: len(matched), Modified: modified}
	return resp, s.finish(ctx, &p, &resp.OperationResponse, req.Message, req.DryRun,
		defaultMessage("set", p.ops))
}

// UnsetRequest removes attribute keys from every matched asset.
type UnsetRequest struct {
	Selectors []domain.Selector
	Keys      []string
	Message   string
	DryRun    bool
}

// UnsetAttributes deletes the given keys from all matched assets. Keys
// absent on a matched asset are ignored for that asset.
func (s *InventoryService) UnsetAttributes(ctx context.Context, req UnsetRequest) (*SetResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range req.Keys {
		if domain.IsPseudoKey(k) {
			return nil, fmt.Errorf("key %q is part of the asset name and cannot be unset", k)
		}
	}

	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	matched, err := matchAssets(snap, req.Selectors)
	if err != nil {
		return nil, err
	}

	var p plan
	var modified []*domain.Asset
	for _, a := range matched {
		next := a.Clone()
		changed := false
		for _, k := range req.Keys {
			if _, ok := next.Attributes[k]; ok {
				delete(next.Attributes, k)
				changed = true
			}
		}
		if !changed {
			continue
		}
		modified = append(modified, next)
		p.add(operation{kind: opModifyAsset, asset: next})
	}

	resp := &SetResponse{Matched: len(matched), Modified: modified}
	return resp, s.finish(ctx, &p, &resp.OperationResponse, req.Message, req.DryRun,
		defaultMessage("unset", p.ops))
}

// MoveRequest relocates matched assets and containers into Destination.
// When Destination does not exist, its parent does, and exactly one
// source container matched, the call is a rename instead.
type MoveRequest struct {
	Sources     []domain.Selector
	Destination string
	Message     string
	DryRun      bool
}

// Move relocates assets and containers, preserving identity and
// attributes. Partial moves are never observable: the batch is fully
// validated before the first rename happens.
func (s *InventoryService) Move(ctx context.Context, req MoveRequest) (*OperationResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	assets, containers, err := matchAll(snap, req.Sources)
	if err != nil {
		return nil, err
	}

	dest := strings.Trim(path.Clean(req.Destination), "/")
	if dest == "." {
		dest = ""
	}

	var p plan
	if !snap.HasContainer(dest) {
		// Rename mode: one explicitly named source container, new name
		// whose parent exists. Globs never trigger a rename.
		if len(assets) == 0 && len(containers) == 1 &&
			len(req.Sources) == 1 && req.Sources[0].IsLiteral() &&
			snap.HasContainer(path.Dir(dest)) {
			return s.renameContainer(ctx, snap, containers[0], dest, req)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrContainerNotFound, req.Destination)
	}

	taken := destinationNames(snap, dest)
	for _, a := range assets {
		name := a.Identity.Filename()
		if a.Container == dest {
			return nil, fmt.Errorf("cannot move %s: already in %s", a.Path(), displayPath(dest))
		}
		if taken[name] {
			return nil, fmt.Errorf("%w: %s already exists in %s", domain.ErrNameCollision, name, displayPath(dest))
		}
		taken[name] = true
		p.add(operation{kind: opMoveAsset, src: a.Path(), dst: path.Join(dest, name)})
	}
	for _, c := range containers {
		name := path.Base(c)
		if path.Dir(c) == dest || (path.Dir(c) == "." && dest == "") {
			return nil, fmt.Errorf("cannot move %s: already in %s", c, displayPath(dest))
		}
		if c == dest || strings.HasPrefix(dest+"/", c+"/") {
			return nil, fmt.Errorf("cannot move %s into itself", c)
		}
		if taken[name] {
			return nil, fmt.Errorf("%w: %s already exists in %s", domain.ErrNameCollision, name, displayPath(dest))
		}
		taken[name] = true
		p.add(operation{kind: opMoveContainer, src: c, dst: path.Join(dest, name)})
	}

	resp := &OperationResponse{}
	return resp, s.finish(ctx, &p, resp, req.Message, req.DryRun, defaultMessage("mv", p.ops))
}

func (s *InventoryService) renameContainer(ctx context.Context, snap *domain.Snapshot, src, dst string, req MoveRequest) (*OperationResponse, error) {
	if src == dst {
		return nil, fmt.Errorf("cannot rename %s: this is already its name", src)
	}
	if snap.HasContainer(dst) || snap.AssetAt(dst) != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNameCollision, dst)
	}
	var p plan
	p.add(operation{kind: opRenameContainer, src: src, dst: dst})

	resp := &OperationResponse{}
	return resp, s.finish(ctx, &p, resp, req.Message, req.DryRun, defaultMessage("mv", p.ops))
}

// RemoveRequest permanently deletes matched assets and containers.
type RemoveRequest struct {
	Selectors []domain.Selector
	Message   string
	DryRun    bool
}

// RemoveResponse lists everything deleted, including the transitive
// descendants of removed containers.
type RemoveResponse struct {
	OperationResponse
	Assets     []string
	Containers []string
}

// Remove deletes matched assets and containers recursively. Removal is
// irreversible at this layer; history lives with the versioner.
func (s *InventoryService) Remove(ctx context.Context, req RemoveRequest) (*RemoveResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	assets, containers, err := matchAll(snap, req.Selectors)
	if err != nil {
		return nil, err
	}

	var p plan
	removedAssets := make(map[string]bool)
	removedContainers := make(map[string]bool)

	for _, c := range containers {
		if removedContainers[c] {
			continue
		}
		removedContainers[c] = true
		descAssets, descContainers := snap.Descendants(c)
		for _, a := range descAssets {
			removedAssets[a.Path()] = true
			p.add(operation{kind: opRemoveAsset, src: a.Path()})
		}
		for _, d := range descContainers {
			removedContainers[d] = true
		}
	}
	for _, a := range assets {
		if !removedAssets[a.Path()] {
			removedAssets[a.Path()] = true
			p.add(operation{kind: opRemoveAsset, src: a.Path()})
		}
	}
	// Containers go last, deepest first, so children are already gone by
	// the time their parent is removed.
	containerList := sortedKeys(removedContainers)
	sort.Slice(containerList, func(i, j int) bool { return len(containerList[i]) > len(containerList[j]) })
	for _, c := range containerList {
		p.add(operation{kind: opRemoveContainer, src: c})
	}

	resp := &RemoveResponse{
		Assets:     sortedKeys(removedAssets),
		Containers: sortedKeys(removedContainers),
	}
	return resp, s.finish(ctx, &p, &resp.OperationResponse, req.Message, req.DryRun,
		defaultMessage("rm", p.ops))
}

// Validate walks the whole repository and checks its invariants. It is
// the only read-only operation, mutates nothing, and is safe to call at
// any time. An empty violation list means the inventory is consistent.
func (s *InventoryService) Validate(ctx context.Context) ([]domain.Violation, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var violations []domain.Violation
	violations = append(violations, snap.Malformed...)

	seen := make(map[string]string) // filename -> first path
	for _, a := range snap.Assets {
		name := a.Identity.Filename()
		if err := a.Identity.Validate(); err != nil {
			violations = append(violations, domain.Violation{Path: a.Path(), Reason: err.Error()})
		}
		if first, ok := seen[name]; ok {
			violations = append(violations, domain.Violation{
				Path:   a.Path(),
				Reason: fmt.Sprintf("identity %s is not unique (also at %s)", name, first),
			})
		} else {
			seen[name] = a.Path()
		}
		for _, k := range domain.ReservedKeys {
			if _, ok := a.Attributes[k]; ok {
				violations = append(violations, domain.Violation{
					Path:   a.Path(),
					Reason: fmt.Sprintf("reserved key %q stored as attribute", k),
				})
			}
		}
		if !snap.HasContainer(a.Container) {
			violations = append(violations, domain.Violation{
				Path:   a.Path(),
				Reason: fmt.Sprintf("orphaned: container %s does not exist", displayPath(a.Container)),
			})
		}
	}

	sort.Slice(violations, func(i, j int) bool { return violations[i].Path < violations[j].Path })
	return violations, nil
}

// finish validates, optionally executes, and commits a planned batch.
// On a dry run the record is returned without touching the repository.
func (s *InventoryService) finish(ctx context.Context, p *plan, resp *OperationResponse, message string, dryRun bool, fallback string) error {
	if p.empty() {
		return nil
	}
	resp.Record = p.record()
	resp.Paths = p.paths()
	if dryRun {
		return nil
	}

	if err := p.execute(ctx, s.repo); err != nil {
		// Leave prior state untouched: discard whatever did land.
		if restoreErr := s.versioner.Restore(ctx); restoreErr != nil {
			return fmt.Errorf("%w (restore also failed: %v)", err, restoreErr)
		}
		return err
	}

	if message == "" {
		message = fallback
	}
	if err := s.versioner.Commit(ctx, message+"\n\n"+resp.Record); err != nil {
		return fmt.Errorf("operation applied but commit failed: %w", err)
	}
	resp.Committed = true
	return nil
}

func (s *InventoryService) nextFauxSerial(snap *domain.Snapshot, used map[string]bool) (string, error) {
	for i := 0; i < fauxAttempts; i++ {
		suffix, err := s.serials.Generate(s.serialLength)
		if err != nil {
			return "", fmt.Errorf("faux serial generation failed: %w", err)
		}
		serial := domain.FauxPrefix + suffix
		if !used[serial] && !snap.HasIdentity(serial) {
			return serial, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique faux serial after %d attempts", fauxAttempts)
}

// matchAssets resolves selectors to assets only, erroring on a selector
// that matches nothing.
func matchAssets(snap *domain.Snapshot, selectors []domain.Selector) ([]*domain.Asset, error) {
	var out []*domain.Asset
	seen := make(map[string]bool)
	for _, sel := range selectors {
		assets, _ := snap.Select(sel)
		if len(assets) == 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoMatch, sel.Pattern)
		}
		for _, a := range assets {
			if !seen[a.Path()] {
				seen[a.Path()] = true
				out = append(out, a)
			}
		}
	}
	return out, nil
}

// matchAll resolves selectors to assets and containers, erroring on a
// selector that matches neither.
func matchAll(snap *domain.Snapshot, selectors []domain.Selector) ([]*domain.Asset, []string, error) {
	var assets []*domain.Asset
	var containers []string
	seenAssets := make(map[string]bool)
	seenContainers := make(map[string]bool)
	for _, sel := range selectors {
		selAssets, selContainers := snap.Select(sel)
		if len(selAssets) == 0 && len(selContainers) == 0 {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrNoMatch, sel.Pattern)
		}
		for _, a := range selAssets {
			if !seenAssets[a.Path()] {
				seenAssets[a.Path()] = true
				assets = append(assets, a)
			}
		}
		for _, c := range selContainers {
			if !seenContainers[c] {
				seenContainers[c] = true
				containers = append(containers, c)
			}
		}
	}
	return assets, containers, nil
}

func destinationNames(snap *domain.Snapshot, dest string) map[string]bool {
	taken := make(map[string]bool)
	for _, a := range snap.Assets {
		if a.Container == dest {
			taken[a.Identity.Filename()] = true
		}
	}
	for _, c := range snap.Containers {
		parent := path.Dir(c)
		if parent == "." {
			parent = ""
		}
		if parent == dest {
			taken[path.Base(c)] = true
		}
	}
	return taken
}

func defaultMessage(verb string, ops []operation) string {
	if len(ops) == 0 {
		return verb
	}
	first := ops[0].snippet()
	first = strings.TrimPrefix(first, "- ")
	if len(ops) == 1 {
		return fmt.Sprintf("%s [1]: %s", verb, first)
	}
	return fmt.Sprintf("%s [%d]: %s ...", verb, len(ops), first)
}

func displayPath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

func cloneAttrs(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
