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

import (
	"errors"
	"fmt"
	"strings"
)

// partialSolution maintains the evolving solution during dependency resolution.
// It tracks assignments (decisions and derivations) in chronological order,
// supporting efficient backtracking and version set queries. Per-package
// bookkeeping (what's currently allowed, whether a decision has been made)
// is delegated to Memory.
//
// The partial solution grows as the solver:
//  1. Makes decisions (selects package versions)
//  2. Propagates constraints (derives new constraints via unit propagation)
//  3. Backtracks (removes assignments when conflicts occur)
type partialSolution struct {
	assignments []*assignment // All assignments in chronological order
	mem         *Memory       // Per-package index into assignments
	decisionLvl int           // Current decision level
	nextIndex   int           // Next assignment index
	root        Name          // Root package name
}

// newPartialSolution creates a new empty partial solution for the given root package.
func newPartialSolution(root Name) *partialSolution {
	return &partialSolution{
		assignments: make([]*assignment, 0),
		mem:         newMemory(),
		decisionLvl: 0,
		nextIndex:   0,
		root:        root,
	}
}

// newDecisionAssignment creates a new decision assignment for a package version.
func (ps *partialSolution) newDecisionAssignment(name Name, version Version, level int) *assignment {
	return &assignment{
		name:          name,
		term:          NewTerm(name, EqualsCondition{Version: version}),
		kind:          assignmentDecision,
		allowed:       (&VersionIntervalSet{}).Singleton(version),
		version:       version,
		decisionLevel: level,
		index:         ps.nextIndex,
	}
}

// append adds an assignment to the partial solution.
func (ps *partialSolution) append(assign *assignment) {
	ps.assignments = append(ps.assignments, assign)
	ps.mem.record(assign)
	ps.nextIndex++
}

// latest returns the most recent assignment for a package, or nil if none exists.
func (ps *partialSolution) latest(name Name) *assignment {
	return ps.mem.latest(name)
}

// allowedSet computes the currently allowed version set for a package by
// intersecting all positive constraints and excluding forbidden sets.
func (ps *partialSolution) allowedSet(name Name) VersionSet {
	return ps.mem.termIntersectionForPackage(name)
}

// hasAssignments returns true if there are any assignments for the package.
func (ps *partialSolution) hasAssignments(name Name) bool {
	return ps.mem.hasAssignments(name)
}

// addDecision adds a version selection decision, incrementing the decision level.
func (ps *partialSolution) addDecision(name Name, version Version) *assignment {
	ps.decisionLvl++
	assign := ps.newDecisionAssignment(name, version, ps.decisionLvl)
	ps.append(assign)
	return assign
}

// seedRoot initializes the partial solution with the root package at decision level 0.
func (ps *partialSolution) seedRoot(name Name, version Version) *assignment {
	assign := ps.newDecisionAssignment(name, version, 0)
	ps.append(assign)
	return assign
}

var errNoAllowedVersions = errors.New("no versions satisfy constraints")

// addDerivation adds a constraint derived from unit propagation.
// Returns (assignment, changed, error) where changed indicates if the allowed set was tightened.
func (ps *partialSolution) addDerivation(term Term, cause *Incompatibility) (*assignment, bool, error) {
	currentAllowed := ps.allowedSet(term.Name)
	newAllowed, err := narrowAllowedRange(currentAllowed, term)
	if err != nil {
		return nil, false, err
	}
	if newAllowed.IsEmpty() {
		return nil, false, errNoAllowedVersions
	}

	assign := &assignment{
		name:          term.Name,
		term:          term,
		kind:          assignmentDerivation,
		cause:         cause,
		decisionLevel: ps.decisionLvl,
		index:         ps.nextIndex,
	}

	if term.Positive {
		assign.allowed = newAllowed
	} else {
		forbidden, ok := excludedRange(term)
		if !ok {
			return nil, false, errors.New("unable to compute forbidden set for term")
		}
		assign.forbidden = forbidden
	}

	changed := !rangesEqual(currentAllowed, newAllowed)
	ps.append(assign)

	if changed && term.Positive {
		return assign, true, nil
	}

	if changed && !term.Positive {
		// Record tightened allowance as positive assignment
		tightening := &assignment{
			name:          term.Name,
			term:          allowedRangeTerm(term.Name, newAllowed),
			kind:          assignmentDerivation,
			allowed:       newAllowed,
			cause:         cause,
			decisionLevel: ps.decisionLvl,
			index:         ps.nextIndex,
		}
		ps.append(tightening)
		return tightening, true, nil
	}

	return assign, changed, nil
}

// backtrack removes all assignments above the specified decision level.
// Used when the solver needs to undo decisions during conflict resolution.
func (ps *partialSolution) backtrack(level int) {
	if level < 0 {
		level = 0
	}

	for len(ps.assignments) > 0 {
		last := ps.assignments[len(ps.assignments)-1]
		if last.decisionLevel <= level {
			break
		}
		ps.assignments = ps.assignments[:len(ps.assignments)-1]
		ps.mem.popLast(last.name)
	}

	ps.decisionLvl = level
}

// isComplete returns true if every package (except root) has a decision assignment.
func (ps *partialSolution) isComplete() bool {
	return len(ps.mem.potentialPackages(ps.root)) == 0
}

// nextDecisionCandidate finds the next package that needs a version decision.
// Returns the package name and true if found, or EmptyName and false if none.
func (ps *partialSolution) nextDecisionCandidate() (Name, bool) {
	pending := ps.mem.potentialPackages(ps.root)
	if len(pending) == 0 {
		return EmptyName(), false
	}
	return pending[0], true
}

// hasDecision returns true if there's a decision assignment for the package.
func (ps *partialSolution) hasDecision(name Name) bool {
	return ps.mem.hasDecision(name)
}

// satisfierSearch replays the assignment history oldest-first, folding
// each relevant assignment's contribution into a per-package running
// intersection, until every term of an incompatibility is satisfied by
// its package's accumulation. It backs both phases of
// findSatisfierAndPreviousSatisfierLevel: the forward pass that locates
// the satisfier, and the re-seeded pass that locates the previous
// satisfier.
type satisfierSearch struct {
	termFor     map[Name]Term
	accumulated map[Name]VersionSet
	satisfied   map[Name]bool
}

func newSatisfierSearch(termFor map[Name]Term) *satisfierSearch {
	return &satisfierSearch{
		termFor:     termFor,
		accumulated: make(map[Name]VersionSet, len(termFor)),
		satisfied:   make(map[Name]bool, len(termFor)),
	}
}

// seed pre-loads the accumulator for name with set, as if it were the
// only contribution replayed so far, marking it satisfied immediately if
// set alone already forces the incompatibility's term on that package.
func (s *satisfierSearch) seed(name Name, set VersionSet) {
	s.accumulated[name] = set
	if term, ok := s.termFor[name]; ok && termSatisfiedByAllowed(term, set) {
		s.satisfied[name] = true
	}
}

// absorb folds a's contribution into the running accumulator for its
// package. It returns true once every package named by termFor has been
// satisfied, i.e. a is (or completes) the satisfier.
func (s *satisfierSearch) absorb(a *assignment) bool {
	term, relevant := s.termFor[a.name]
	if relevant && !s.satisfied[a.name] {
		current, ok := s.accumulated[a.name]
		if !ok {
			current = FullVersionSet()
		}
		if a.term.Positive {
			if a.allowed != nil {
				current = current.Intersection(a.allowed)
			}
		} else if a.forbidden != nil {
			current = current.Intersection(a.forbidden.Complement())
		}
		s.accumulated[a.name] = current

		if termSatisfiedByAllowed(term, current) {
			s.satisfied[a.name] = true
		}
	}

	return len(s.satisfied) == len(s.termFor)
}

// contribution returns the version set that term alone denotes: the
// required range for a positive term, the complement of the excluded
// range for a negative one. Used to treat a satisfier assignment as a
// single contributing term, independent of its cumulative history.
func contribution(term Term) VersionSet {
	if term.Positive {
		if set, ok := requiredRange(term); ok {
			return set
		}
		return FullVersionSet()
	}
	if set, ok := excludedRange(term); ok {
		return set.Complement()
	}
	return FullVersionSet()
}

// findSatisfierAndPreviousSatisfierLevel locates the satisfier of inc —
// the earliest assignment whose prefix of history makes inc fully
// satisfied — and the previous satisfier level: the decision level that
// was already committed to before the satisfier's own contribution was
// needed.
//
// Computing the previous level is a second, independent search: seed a
// fresh accumulator with the satisfier's own term (not its cumulative
// history) on its package, then replay the strict prefix before the
// satisfier. This mirrors the reference implementation rather than a
// "most recent assignment per other term" shortcut, which gets the
// level wrong when the satisfier's own package needed a combination of
// several earlier assignments (not just its most recent one) to close
// out the incompatibility. Per the algorithm, a previous level is never
// reported below 1; absent any qualifying prior assignment, 1 is
// returned as the default backtrack floor.
func (ps *partialSolution) findSatisfierAndPreviousSatisfierLevel(inc *Incompatibility) (*assignment, int) {
	if len(inc.Terms) == 0 {
		return nil, 1
	}

	termFor := make(map[Name]Term, len(inc.Terms))
	for _, t := range inc.Terms {
		termFor[t.Name] = t
	}

	forward := newSatisfierSearch(termFor)
	var satisfier *assignment
	satisfierPos := -1
	for i, a := range ps.assignments {
		if forward.absorb(a) {
			satisfier = a
			satisfierPos = i
			break
		}
	}
	if satisfier == nil {
		return nil, 1
	}

	reseeded := newSatisfierSearch(termFor)
	reseeded.seed(satisfier.name, contribution(satisfier.term))

	previous := 0
	if len(reseeded.satisfied) < len(termFor) {
		for _, a := range ps.assignments[:satisfierPos] {
			if reseeded.absorb(a) {
				previous = a.decisionLevel
				break
			}
		}
	}

	if previous < 1 {
		previous = 1
	}
	return satisfier, previous
}

// satisfier finds the assignment that completes satisfaction of inc,
// per findSatisfierAndPreviousSatisfierLevel.
func (ps *partialSolution) satisfier(inc *Incompatibility) *assignment {
	satisfier, _ := ps.findSatisfierAndPreviousSatisfierLevel(inc)
	return satisfier
}

// previousDecisionLevel returns the previous satisfier level for inc. The
// satisfier argument is not consulted: the level is always recomputed by
// findSatisfierAndPreviousSatisfierLevel.
func (ps *partialSolution) previousDecisionLevel(inc *Incompatibility, satisfier *assignment) int {
	_, previous := ps.findSatisfierAndPreviousSatisfierLevel(inc)
	return previous
}

// buildSolution constructs the final solution from decision assignments.
func (ps *partialSolution) buildSolution() Solution {
	return ps.mem.extractSolution()
}

// snapshot returns a human-readable representation of the partial solution.
// Intended for debug logging to understand solver state during complex conflicts.
func (ps *partialSolution) snapshot() string {
	var b strings.Builder
	fmt.Fprintf(&b, "decision_level=%d next_index=%d assignments=%d\n", ps.decisionLvl, ps.nextIndex, len(ps.assignments))
	for _, assign := range ps.assignments {
		fmt.Fprintf(&b, "  %s\n", assign.describe())
	}
	return b.String()
}

// pendingPackages lists packages that have constraints but no decided version yet.
// Used for diagnostics when analysing package selection order.
func (ps *partialSolution) pendingPackages() []Name {
	return ps.mem.potentialPackages(ps.root)
}

// termSatisfiedByAllowed reports whether the accumulated allowed version
// set for a package forces term to hold: for a positive term, every
// remaining possibility must satisfy it; for a negative term, no
// remaining possibility may violate it.
func termSatisfiedByAllowed(term Term, allowed VersionSet) bool {
	if allowed == nil {
		return false
	}

	if term.Positive {
		required, ok := requiredRange(term)
		if !ok {
			return false
		}
		return allowed.IsSubset(required)
	}

	forbidden, ok := excludedRange(term)
	if !ok {
		return false
	}
	return allowed.IsDisjoint(forbidden)
}
