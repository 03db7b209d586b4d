package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the inventory operations. Callers match them with
// errors.Is; the CLI maps them to user-facing messages.
var (
	ErrContainerNotFound = errors.New("container not found")
	ErrDuplicateIdentity = errors.New("duplicate asset identity")
	ErrNoMatch           = errors.New("no matching assets or containers")
	ErrNameCollision     = errors.New("name collision at destination")
	ErrMalformedIdentity = errors.New("malformed identity token")
)

// Violation is a single integrity problem found by a validation walk.
type Violation struct {
	Path   string
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Reason)
}

// ValidationError aggregates every violation found in one walk, so the
// caller can report the full list rather than just the first.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Violations)+1)
	lines = append(lines, fmt.Sprintf("inventory validation failed with %d violation(s):", len(e.Violations)))
	for _, v := range e.Violations {
		lines = append(lines, "  "+v.String())
	}
	return strings.Join(lines, "\n")
}
