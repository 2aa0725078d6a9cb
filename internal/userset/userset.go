// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package userset collects the usernames to fetch.
//
// Duplicates are dropped on exact, case-sensitive match. The first occurrence
// decides the position, so poll output order follows the command line.
package userset

import (
	"slices"
	"strings"
)

// Set is an insertion-ordered set of usernames. The zero value is ready to use.
type Set struct {
	names []string
	index map[string]struct{}
}

// New returns a Set holding args, trimmed, without empties or duplicates.
func New(args ...string) *Set {
	s := &Set{}
	for _, a := range args {
		s.Add(a)
	}

	return s
}

// Add inserts name and reports whether it was new.
func (s *Set) Add(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	if s.index == nil {
		s.index = make(map[string]struct{})
	}

	if _, ok := s.index[name]; ok {
		return false
	}

	s.index[name] = struct{}{}
	s.names = append(s.names, name)

	return true
}

// Contains reports whether name is in the set.
func (s *Set) Contains(name string) bool {
	_, ok := s.index[strings.TrimSpace(name)]
	return ok
}

// Len returns the number of distinct usernames.
func (s *Set) Len() int {
	return len(s.names)
}

// Names returns the usernames in insertion order. The slice is a copy.
func (s *Set) Names() []string {
	return slices.Clone(s.names)
}
