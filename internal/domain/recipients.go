package domain

import (
	"strings"
	"unicode/utf8"
)

// NormalizeIDs trims ids, drops empty entries and collapses duplicates,
// keeping the first occurrence order. Matching is exact and case-sensitive.
func NormalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// RecipientSet is an insertion-ordered set of user ids.
type RecipientSet struct {
	order []string
	index map[string]struct{}
}

// NewRecipientSet creates a set holding the given ids.
func NewRecipientSet(ids ...string) *RecipientSet {
	s := &RecipientSet{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id; empty ids are ignored.
func (s *RecipientSet) Add(id string) {
	if id == "" {
		return
	}
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
}

// Remove deletes id if present.
func (s *RecipientSet) Remove(id string) {
	if _, ok := s.index[id]; !ok {
		return
	}
	delete(s.index, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Contains reports whether id is in the set.
func (s *RecipientSet) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of ids in the set.
func (s *RecipientSet) Len() int {
	return len(s.order)
}

// Slice returns the ids in insertion order. The result is a copy.
func (s *RecipientSet) Slice() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Truncate returns the first maxChars characters of text. It never splits a
// multi-byte character and adds no marker.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	n := 0
	for i := range text {
		if n == maxChars {
			return text[:i]
		}
		n++
	}
	return text
}
