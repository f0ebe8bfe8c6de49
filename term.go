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

import "fmt"

// Term represents a dependency constraint, either positive or negative.
// A positive term (e.g., "lodash >=1.0.0") asserts that a package must satisfy
// the condition. A negative term (e.g., "not lodash ==1.5.0") excludes versions
// that match the condition.
//
// Terms are the building blocks of dependency resolution, combining package
// names with version constraints and polarity.
type Term struct {
	Name      Name
	Condition Condition
	Positive  bool
}

// String returns a human-readable representation of the term.
func (t Term) String() string {
	cond := "*"
	if t.Condition != nil {
		cond = t.Condition.String()
	}

	if t.Positive {
		if cond == "*" {
			return t.Name.Value()
		}
		return fmt.Sprintf("%s %s", t.Name.Value(), cond)
	}

	if cond == "*" {
		return fmt.Sprintf("not %s", t.Name.Value())
	}
	return fmt.Sprintf("not %s %s", t.Name.Value(), cond)
}

// NewTerm creates a positive term requiring the package to satisfy the condition.
func NewTerm(name Name, condition Condition) Term {
	return Term{Name: name, Condition: condition, Positive: true}
}

// NewNegativeTerm creates a negative term excluding versions matching the condition.
func NewNegativeTerm(name Name, condition Condition) Term {
	return Term{Name: name, Condition: condition, Positive: false}
}

// Negate returns the logical negation of the term.
// A positive term becomes negative and vice versa.
func (t Term) Negate() Term {
	return Term{
		Name:      t.Name,
		Condition: t.Condition,
		Positive:  !t.Positive,
	}
}

// IsPositive reports whether the term asserts a positive constraint.
func (t Term) IsPositive() bool {
	return t.Positive
}

// SatisfiedBy reports whether the provided version satisfies the term.
// A nil version indicates the package is not selected.
//
// For positive terms, returns true if the version matches the condition.
// For negative terms, returns true if the version does NOT match the condition.
func (t Term) SatisfiedBy(ver Version) bool {
	if ver == nil {
		return !t.Positive
	}

	if t.Condition == nil {
		return t.Positive
	}

	satisfied := t.Condition.Satisfies(ver)
	if t.Positive {
		return satisfied
	}
	return !satisfied
}

// rangeForCondition resolves a Condition to the VersionSet it denotes,
// independent of any term's polarity. An unrecognized Condition
// implementation resolves to (nil, false) so callers can fail loudly
// rather than silently treat an opaque condition as unconstrained.
func rangeForCondition(cond Condition) (VersionSet, bool) {
	switch c := cond.(type) {
	case nil:
		return FullVersionSet(), true
	case EqualsCondition:
		return (&VersionIntervalSet{}).Singleton(c.Version), true
	case *EqualsCondition:
		if c == nil {
			return FullVersionSet(), true
		}
		return (&VersionIntervalSet{}).Singleton(c.Version), true
	case *VersionSetCondition:
		if c == nil || c.Set == nil {
			return FullVersionSet(), true
		}
		return c.Set, true
	case VersionSetConverter:
		return c.ToVersionSet(), true
	default:
		return nil, false
	}
}

// requiredRange returns the version set a positive term demands. It
// reports (nil, false) for a negative term or an unrecognized condition.
func requiredRange(term Term) (VersionSet, bool) {
	if !term.Positive {
		return nil, false
	}
	return rangeForCondition(term.Condition)
}

// excludedRange returns the version set a negative term forbids. It
// reports (nil, false) for a positive term or an unrecognized condition.
func excludedRange(term Term) (VersionSet, bool) {
	if term.Positive {
		return nil, false
	}
	return rangeForCondition(term.Condition)
}

// narrowAllowedRange intersects current with whatever term contributes:
// the required range for a positive term, or the complement of the
// excluded range for a negative one.
func narrowAllowedRange(current VersionSet, term Term) (VersionSet, error) {
	if current == nil {
		current = FullVersionSet()
	}

	if term.Positive {
		required, ok := requiredRange(term)
		if !ok {
			return nil, fmt.Errorf("term %s does not support positive conversion", term)
		}
		return current.Intersection(required), nil
	}

	forbidden, ok := excludedRange(term)
	if !ok {
		return nil, fmt.Errorf("term %s does not support negative conversion", term)
	}
	return current.Intersection(forbidden.Complement()), nil
}

// allowedRangeTerm builds the positive term asserting that name's
// allowed range is exactly set, collapsing to an EqualsCondition when
// set happens to contain a single version.
func allowedRangeTerm(name Name, set VersionSet) Term {
	if set == nil {
		set = FullVersionSet()
	}

	if version, ok := singletonVersionFromSet(set); ok {
		return Term{Name: name, Condition: EqualsCondition{Version: version}, Positive: true}
	}
	return Term{Name: name, Condition: NewVersionSetCondition(set), Positive: true}
}

// excludedRangeTerm builds the negative term forbidding name from set.
func excludedRangeTerm(name Name, set VersionSet) Term {
	if set == nil {
		set = FullVersionSet()
	}
	return Term{Name: name, Condition: NewVersionSetCondition(set), Positive: false}
}

// rangesEqual reports whether a and b denote the same version set via
// mutual subset containment, since VersionSet implementations are not
// required to support direct structural comparison.
func rangesEqual(a, b VersionSet) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.IsSubset(b) && b.IsSubset(a)
}
