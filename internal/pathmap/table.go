package pathmap

import (
	"fmt"
	"sort"
)

// ErrCollision reports two distinct inputs resolving to the same pretty path.
// This is a configuration error and always aborts the run.
type ErrCollision struct {
	PrettyPath string
	Existing   string // previously registered source, or "" for a pre-existing index document
	Source     string
}

func (e *ErrCollision) Error() string {
	if e.Existing == "" {
		return fmt.Sprintf("pretty path collision: %s maps to %s which is occupied by a pre-existing index document", e.Source, e.PrettyPath)
	}
	return fmt.Sprintf("pretty path collision: %s and %s both map to %s", e.Existing, e.Source, e.PrettyPath)
}

// Table is the explicit bidirectional source<->pretty mapping built once
// during the initial directory scan.
type Table struct {
	toPretty map[string]string
	toSource map[string]string
	occupied map[string]struct{} // pretty paths taken by pre-existing index documents
}

// NewTable creates an empty mapping table.
func NewTable() *Table {
	return &Table{
		toPretty: make(map[string]string),
		toSource: make(map[string]string),
		occupied: make(map[string]struct{}),
	}
}

// MarkExisting records a pre-existing index document occupying its pretty
// path. Such documents are never transformed, but a later source mapping to
// the same path is a collision.
func (t *Table) MarkExisting(pretty string) error {
	if src, ok := t.toSource[pretty]; ok {
		return &ErrCollision{PrettyPath: pretty, Existing: src, Source: pretty}
	}
	t.occupied[pretty] = struct{}{}
	return nil
}

// Add registers a source->pretty mapping, rejecting collisions.
func (t *Table) Add(source, pretty string) error {
	if existing, ok := t.toSource[pretty]; ok {
		return &ErrCollision{PrettyPath: pretty, Existing: existing, Source: source}
	}
	if _, ok := t.occupied[pretty]; ok {
		return &ErrCollision{PrettyPath: pretty, Source: source}
	}
	t.toPretty[source] = pretty
	t.toSource[pretty] = source
	return nil
}

// PrettyOf returns the pretty path derived from a source document.
func (t *Table) PrettyOf(source string) (string, bool) {
	p, ok := t.toPretty[source]
	return p, ok
}

// SourceOf returns the original source document for a pretty index path.
// Pre-existing index documents have no source.
func (t *Table) SourceOf(pretty string) (string, bool) {
	s, ok := t.toSource[pretty]
	return s, ok
}

// Sources returns all registered source paths in sorted order.
func (t *Table) Sources() []string {
	out := make([]string, 0, len(t.toPretty))
	for s := range t.toPretty {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of source->pretty mappings.
func (t *Table) Len() int { return len(t.toPretty) }
