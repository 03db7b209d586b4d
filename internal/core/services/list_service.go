package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"inv/internal/core/domain"
	"inv/internal/core/ports"
)

// ListService answers read-only queries over the inventory.
type ListService struct {
	repo ports.Repository
}

// NewListService creates a new list service.
func NewListService(repo ports.Repository) *ListService {
	return &ListService{repo: repo}
}

// ListRequest selects and orders assets for display.
type ListRequest struct {
	Selector domain.Selector
	Depth    int // limit below the matched paths; 0 = unlimited
	SortBy   string
	Reverse  bool
}

// ListResponse carries the matched assets.
type ListResponse struct {
	Assets []*domain.Asset
	Total  int
}

// Execute returns all assets matching the request. An empty result is
// a valid answer for a query, not an error.
func (s *ListService) Execute(ctx context.Context, req ListRequest) (*ListResponse, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	assets, _ := snap.Select(req.Selector)
	if req.Depth > 0 {
		filtered := assets[:0]
		for _, a := range assets {
			if pathDepth(a.Path()) <= req.Depth {
				filtered = append(filtered, a)
			}
		}
		assets = filtered
	}

	sortAssets(assets, req.SortBy, req.Reverse)
	return &ListResponse{Assets: assets, Total: len(assets)}, nil
}

// Search returns assets whose path, identity token, or attribute values
// contain the query, case-insensitively. Used by interactive pickers.
func (s *ListService) Search(ctx context.Context, query string) (*ListResponse, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var matches []*domain.Asset
	for _, a := range snap.Assets {
		if query == "" || assetMatchesQuery(a, query) {
			matches = append(matches, a)
		}
	}
	sortAssets(matches, "path", false)
	return &ListResponse{Assets: matches, Total: len(matches)}, nil
}

// Resolve returns the single asset a selector names, erroring when it
// matches zero or several.
func (s *ListService) Resolve(ctx context.Context, sel domain.Selector) (*domain.Asset, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	assets, _ := snap.Select(sel)
	switch len(assets) {
	case 0:
		return nil, fmt.Errorf("%w: %s", domain.ErrNoMatch, sel.Pattern)
	case 1:
		return assets[0], nil
	default:
		paths := make([]string, len(assets))
		for i, a := range assets {
			paths[i] = a.Path()
		}
		return nil, fmt.Errorf("%s matches %d assets: %s", sel.Pattern, len(assets), strings.Join(paths, ", "))
	}
}

func assetMatchesQuery(a *domain.Asset, query string) bool {
	if strings.Contains(strings.ToLower(a.Path()), query) {
		return true
	}
	for _, v := range a.Attributes {
		if strings.Contains(strings.ToLower(fmt.Sprintf("%v", v)), query) {
			return true
		}
	}
	return false
}

func sortAssets(assets []*domain.Asset, sortBy string, reverse bool) {
	less := func(i, j int) bool { return assets[i].Path() < assets[j].Path() }
	switch sortBy {
	case "type":
		less = func(i, j int) bool {
			if assets[i].Identity.Type != assets[j].Identity.Type {
				return assets[i].Identity.Type < assets[j].Identity.Type
			}
			return assets[i].Path() < assets[j].Path()
		}
	case "make":
		less = func(i, j int) bool {
			if assets[i].Identity.Make != assets[j].Identity.Make {
				return assets[i].Identity.Make < assets[j].Identity.Make
			}
			return assets[i].Path() < assets[j].Path()
		}
	case "serial":
		less = func(i, j int) bool { return assets[i].Identity.Serial < assets[j].Identity.Serial }
	}
	if reverse {
		orig := less
		less = func(i, j int) bool { return orig(j, i) }
	}
	sort.Slice(assets, less)
}

func pathDepth(p string) int {
	return strings.Count(strings.Trim(p, "/"), "/") + 1
}
