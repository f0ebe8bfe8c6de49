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
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// SemanticVersion represents a semantic version (major.minor.patch[-prerelease][+build]),
// backed by Masterminds/semver for parsing and precedence comparison.
type SemanticVersion struct {
	v *semver.Version
}

// ParseSemanticVersion parses a semantic version string.
// Supports formats like: "1.2.3", "1.2.3-alpha", "1.2.3-alpha.1", "1.2.3+build", "1.2.3-alpha+build"
func ParseSemanticVersion(s string) (*SemanticVersion, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("invalid version format: %s: %w", s, err)
	}
	return &SemanticVersion{v: v}, nil
}

// String returns the string representation of the semantic version
func (sv *SemanticVersion) String() string {
	if sv.v == nil {
		return ""
	}
	return sv.v.String()
}

// Major, Minor, Patch, Prerelease, and Metadata expose the underlying components.
func (sv *SemanticVersion) Major() int64     { return sv.v.Major() }
func (sv *SemanticVersion) Minor() int64     { return sv.v.Minor() }
func (sv *SemanticVersion) Patch() int64     { return sv.v.Patch() }
func (sv *SemanticVersion) Prerelease() string { return sv.v.Prerelease() }
func (sv *SemanticVersion) Metadata() string   { return sv.v.Metadata() }

// Sort implements Version.Sort using semver precedence: major, minor, patch,
// then prerelease identifiers; build metadata is ignored per the semver spec.
func (sv *SemanticVersion) Sort(other Version) int {
	otherSV, ok := other.(*SemanticVersion)
	if !ok || sv.v == nil || otherSV.v == nil {
		return strings.Compare(sv.String(), other.String())
	}
	return sv.v.Compare(otherSV.v)
}

// NewSemanticVersion creates a new SemanticVersion with the given major, minor, and patch versions
func NewSemanticVersion(major, minor, patch int) *SemanticVersion {
	v, _ := semver.NewVersion(fmt.Sprintf("%d.%d.%d", major, minor, patch))
	return &SemanticVersion{v: v}
}

// NewSemanticVersionWithPrerelease creates a new SemanticVersion with prerelease info
func NewSemanticVersionWithPrerelease(major, minor, patch int, prerelease string) *SemanticVersion {
	s := fmt.Sprintf("%d.%d.%d", major, minor, patch)
	if prerelease != "" {
		s += "-" + prerelease
	}
	v, _ := semver.NewVersion(s)
	return &SemanticVersion{v: v}
}

// Verify interface compliance
var (
	_ Version = (*SemanticVersion)(nil)
)
