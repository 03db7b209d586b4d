package services

import (
	"context"
	"path"
	"sort"
	"strings"

	"inv/internal/core/ports"
)

// TreeService renders the container hierarchy as an indented tree.
type TreeService struct {
	repo ports.Repository
}

// NewTreeService creates a new tree service.
func NewTreeService(repo ports.Repository) *TreeService {
	return &TreeService{repo: repo}
}

type treeNode struct {
	name     string
	isAsset  bool
	children []*treeNode
}

// Render returns the tree rooted at the given container ("" = vault
// root) using box-drawing connectors.
func (s *TreeService) Render(ctx context.Context, root string) (string, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return "", err
	}

	root = strings.Trim(path.Clean(root), "/")
	if root == "." {
		root = ""
	}

	nodes := make(map[string]*treeNode)
	top := &treeNode{name: displayPath(root)}
	nodes[root] = top

	ensure := func(p string) *treeNode { return ensureNode(nodes, p, root) }

	for _, c := range snap.Containers {
		if underRoot(c, root) {
			ensure(c)
		}
	}
	for _, a := range snap.Assets {
		p := a.Path()
		if !underRoot(p, root) {
			continue
		}
		parent := ensure(a.Container)
		parent.children = append(parent.children, &treeNode{name: a.Identity.Filename(), isAsset: true})
	}

	var b strings.Builder
	b.WriteString(top.name + "\n")
	renderChildren(&b, top, "")
	return b.String(), nil
}

func ensureNode(nodes map[string]*treeNode, p, root string) *treeNode {
	p = strings.Trim(p, "/")
	if n, ok := nodes[p]; ok {
		return n
	}
	parentPath := path.Dir(p)
	if parentPath == "." {
		parentPath = ""
	}
	parent := ensureNode(nodes, parentPath, root)
	n := &treeNode{name: path.Base(p)}
	nodes[p] = n
	parent.children = append(parent.children, n)
	return n
}

func underRoot(p, root string) bool {
	if root == "" {
		return true
	}
	return strings.HasPrefix(p+"/", root+"/") && p != root
}

func renderChildren(b *strings.Builder, node *treeNode, prefix string) {
	// Containers before assets, each group alphabetical.
	sort.SliceStable(node.children, func(i, j int) bool {
		a, c := node.children[i], node.children[j]
		if a.isAsset != c.isAsset {
			return !a.isAsset
		}
		return a.name < c.name
	})

	for i, child := range node.children {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(node.children)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		b.WriteString(prefix + connector + child.name + "\n")
		renderChildren(b, child, childPrefix)
	}
}
