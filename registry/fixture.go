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

// Package registry provides Source (DependencyProvider) implementations
// beyond the in-memory fixtures in the root package: a YAML-fixture
// loader for the CLI, a bbolt-persisted cache, and a gRPC-backed remote
// source.
package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/solvegraph/pubgrub"
)

// FixtureFile is the on-disk shape of a YAML registry fixture:
//
//	packages:
//	  lodash:
//	    "1.0.0": {}
//	    "2.0.0":
//	      deps:
//	        core-js: ">=1.0.0"
//	  core-js:
//	    "1.0.0": {}
type FixtureFile struct {
	Packages map[string]map[string]FixtureVersion `yaml:"packages"`
}

// FixtureVersion lists a single version's dependency constraints, keyed by
// dependency name with a version-range expression as understood by
// pubgrub.ParseVersionRange.
type FixtureVersion struct {
	Deps map[string]string `yaml:"deps"`
}

// LoadFixtureFile reads and parses a YAML registry fixture from disk.
func LoadFixtureFile(path string) (*FixtureFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry fixture %s: %w", path, err)
	}

	var file FixtureFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing registry fixture %s: %w", path, err)
	}
	return &file, nil
}

// ToSource converts the fixture into an in-memory pubgrub.Source.
func (f *FixtureFile) ToSource() (*pubgrub.InMemorySource, error) {
	source := &pubgrub.InMemorySource{}

	for pkgName, versions := range f.Packages {
		for verStr, fv := range versions {
			version := parseVersion(verStr)

			terms := make([]pubgrub.Term, 0, len(fv.Deps))
			for depName, rangeExpr := range fv.Deps {
				set, err := pubgrub.ParseVersionRange(rangeExpr)
				if err != nil {
					return nil, fmt.Errorf("package %s@%s depends on %s: %w", pkgName, verStr, depName, err)
				}
				terms = append(terms, pubgrub.NewTerm(pubgrub.MakeName(depName), pubgrub.NewVersionSetCondition(set)))
			}

			source.AddPackage(pubgrub.MakeName(pkgName), version, terms)
		}
	}

	return source, nil
}

// parseVersion tries SemanticVersion first, falling back to SimpleVersion,
// matching the convention pubgrub.ParseVersionRange itself uses.
func parseVersion(raw string) pubgrub.Version {
	if sv, err := pubgrub.ParseSemanticVersion(raw); err == nil {
		return sv
	}
	return pubgrub.SimpleVersion(raw)
}
