package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"inv/internal/core/domain"
	"inv/internal/core/ports"
)

// Operation kinds double as the section titles of the operations record
// appended to every commit message.
const (
	opNewAsset        = "New assets"
	opNewContainer    = "New directories"
	opModifyAsset     = "Modified assets"
	opMoveAsset       = "Moved assets"
	opMoveContainer   = "Moved directories"
	opRenameContainer = "Renamed directories"
	opRemoveAsset     = "Removed assets"
	opRemoveContainer = "Removed directories"
)

// recordHeader separates the user message from the operations record in
// a commit message.
const recordHeader = "--- Inventory Operations ---"

// operation is one staged primitive of a batch. A batch is planned and
// validated in full against a snapshot before any operation executes.
type operation struct {
	kind  string
	asset *domain.Asset // opNewAsset, opModifyAsset
	src   string        // move/rename/remove source
	dst   string        // move/rename destination
}

func (op operation) execute(ctx context.Context, repo ports.Repository) error {
	switch op.kind {
	case opNewAsset, opModifyAsset:
		return repo.WriteAsset(ctx, op.asset)
	case opNewContainer:
		return repo.MakeContainer(ctx, op.src)
	case opMoveAsset, opMoveContainer, opRenameContainer:
		return repo.Move(ctx, op.src, op.dst)
	case opRemoveAsset:
		return repo.RemoveAsset(ctx, op.src)
	case opRemoveContainer:
		return repo.RemoveContainer(ctx, op.src)
	}
	return fmt.Errorf("unknown operation kind %q", op.kind)
}

// snippet is the one-line record of the operation.
func (op operation) snippet() string {
	switch op.kind {
	case opNewAsset, opModifyAsset:
		return "- " + op.asset.Path()
	case opMoveAsset, opMoveContainer, opRenameContainer:
		return fmt.Sprintf("- %s -> %s", op.src, op.dst)
	default:
		return "- " + op.src
	}
}

// plan is an ordered batch of operations forming one logical call.
type plan struct {
	ops []operation
}

func (p *plan) add(op operation) {
	p.ops = append(p.ops, op)
}

func (p *plan) empty() bool {
	return len(p.ops) == 0
}

// paths returns every path touched by the plan.
func (p *plan) paths() []string {
	var out []string
	for _, op := range p.ops {
		if op.asset != nil {
			out = append(out, op.asset.Path())
			continue
		}
		out = append(out, op.src)
		if op.dst != "" {
			out = append(out, op.dst)
		}
	}
	return out
}

// record renders the operations record grouped by kind, snippets sorted
// and deduplicated within each section.
func (p *plan) record() string {
	sections := make(map[string][]string)
	var order []string
	for _, op := range p.ops {
		if _, ok := sections[op.kind]; !ok {
			order = append(order, op.kind)
		}
		sections[op.kind] = append(sections[op.kind], op.snippet())
	}

	var b strings.Builder
	b.WriteString(recordHeader + "\n")
	for _, kind := range order {
		seen := make(map[string]bool)
		lines := make([]string, 0, len(sections[kind]))
		for _, s := range sections[kind] {
			if !seen[s] {
				seen[s] = true
				lines = append(lines, s)
			}
		}
		sort.Strings(lines)
		b.WriteString(kind + ":\n")
		for _, l := range lines {
			b.WriteString(l + "\n")
		}
	}
	return b.String()
}

// execute runs all operations in order. The caller handles rollback on
// failure; by the time a plan executes it has been fully validated, so
// failures here are I/O problems.
func (p *plan) execute(ctx context.Context, repo ports.Repository) error {
	for _, op := range p.ops {
		if err := op.execute(ctx, repo); err != nil {
			return fmt.Errorf("%s (%s): %w", strings.ToLower(op.kind), op.snippet(), err)
		}
	}
	return nil
}
