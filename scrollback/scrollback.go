// Package scrollback provides the in-memory ScrollbackProvider shipped
// alongside the core terminal package, so callers of vt.New don't need to
// write their own ring buffer just to get history.
package scrollback

import "github.com/danielgatis/headlessvt"

// Store is an in-memory list of scrolled-off lines, oldest first. When
// maxLines is positive, the oldest line is evicted once Len would exceed it.
type Store struct {
	lines    [][]vt.Cell
	maxLines int
}

// New returns a Store capped at maxLines lines. maxLines <= 0 means
// unlimited.
func New(maxLines int) *Store {
	return &Store{maxLines: maxLines}
}

func (s *Store) Push(line []vt.Cell) {
	s.lines = append(s.lines, line)
	if s.maxLines > 0 && len(s.lines) > s.maxLines {
		s.lines = s.lines[len(s.lines)-s.maxLines:]
	}
}

func (s *Store) Len() int { return len(s.lines) }

// Line returns the line at index, where 0 is the oldest retained line.
func (s *Store) Line(index int) []vt.Cell {
	if index < 0 || index >= len(s.lines) {
		return nil
	}
	return s.lines[index]
}

func (s *Store) Clear() { s.lines = nil }

func (s *Store) SetMaxLines(max int) {
	s.maxLines = max
	if max > 0 && len(s.lines) > max {
		s.lines = s.lines[len(s.lines)-max:]
	}
}

func (s *Store) MaxLines() int { return s.maxLines }

var _ vt.ScrollbackProvider = (*Store)(nil)
