// Copyright 2024 The University of Queensland
// Copyright 2025 Contriboss
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pubgrub

// Memory is the per-package view of a partialSolution's chronological
// assignment history. Where partialSolution owns the global, ordered
// sequence of assignments, Memory owns the index into that sequence by
// package name: it answers "what do we currently know about P" without
// a caller needing to replay the whole history.
//
// A partialSolution delegates every per-package query (allowed version
// set, whether a decision has been made, which packages are still
// pending) to its Memory.
type Memory struct {
	perPackage map[Name][]*assignment
	decisions  []*assignment
	order      []Name
	seen       map[Name]bool
}

// newMemory creates an empty Memory.
func newMemory() *Memory {
	return &Memory{
		perPackage: make(map[Name][]*assignment),
		seen:       make(map[Name]bool),
	}
}

// record appends an assignment to the package's history.
func (m *Memory) record(a *assignment) {
	if !m.seen[a.name] {
		m.seen[a.name] = true
		m.order = append(m.order, a.name)
	}
	m.perPackage[a.name] = append(m.perPackage[a.name], a)
	if a.kind == assignmentDecision {
		m.decisions = append(m.decisions, a)
	}
}

// popLast removes the most recent assignment recorded for name, used when
// backtracking. It is a no-op if the package has no recorded assignments.
func (m *Memory) popLast(name Name) {
	stack := m.perPackage[name]
	if len(stack) == 0 {
		return
	}

	last := stack[len(stack)-1]
	stack = stack[:len(stack)-1]
	if len(stack) == 0 {
		delete(m.perPackage, name)
	} else {
		m.perPackage[name] = stack
	}

	if last.kind == assignmentDecision && len(m.decisions) > 0 {
		m.decisions = m.decisions[:len(m.decisions)-1]
	}
}

// assignmentsFor returns the chronological assignment history for a package.
func (m *Memory) assignmentsFor(name Name) []*assignment {
	return m.perPackage[name]
}

// latest returns the most recent assignment for a package, or nil.
func (m *Memory) latest(name Name) *assignment {
	stack := m.perPackage[name]
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

// hasAssignments reports whether any assignment has been recorded for name.
func (m *Memory) hasAssignments(name Name) bool {
	return len(m.perPackage[name]) > 0
}

// hasDecision reports whether a decision assignment has been recorded for name.
func (m *Memory) hasDecision(name Name) bool {
	for _, a := range m.perPackage[name] {
		if a.kind == assignmentDecision {
			return true
		}
	}
	return false
}

// termIntersectionForPackage computes the version set still allowed for
// name: the intersection of every positive assignment's allowed set, minus
// every negative assignment's forbidden set.
func (m *Memory) termIntersectionForPackage(name Name) VersionSet {
	stack := m.perPackage[name]
	current := FullVersionSet()
	if len(stack) == 0 {
		return current
	}

	for _, a := range stack {
		if a.term.Positive {
			if a.allowed != nil {
				current = current.Intersection(a.allowed)
			}
		} else if a.forbidden != nil {
			current = current.Intersection(a.forbidden.Complement())
		}
	}
	return current
}

// potentialPackages lists every package with recorded assignments but no
// decision yet, in the order they were first mentioned. root is excluded.
func (m *Memory) potentialPackages(root Name) []Name {
	pending := make([]Name, 0, len(m.order))
	for _, name := range m.order {
		if name == root {
			continue
		}
		if m.hasAssignments(name) && !m.hasDecision(name) {
			pending = append(pending, name)
		}
	}
	return pending
}

// extractSolution builds the resolved package-version map from every
// decision recorded so far, in the order those decisions were made.
func (m *Memory) extractSolution() Solution {
	result := make([]NameVersion, 0, len(m.decisions))
	seen := make(map[Name]bool)
	for _, a := range m.decisions {
		if seen[a.name] {
			continue
		}
		seen[a.name] = true
		result = append(result, NameVersion{Name: a.name, Version: a.version})
	}
	return result
}
