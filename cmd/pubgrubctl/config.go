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

package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// solverConfig tunes the solver's non-functional limits. Loaded from TOML
// rather than flags because these are usually checked into a project
// alongside its registry fixture, not typed at the shell each run.
//
//	max_steps = 50000
//	track_incompatibilities = true
type solverConfig struct {
	MaxSteps               int  `toml:"max_steps"`
	TrackIncompatibilities bool `toml:"track_incompatibilities"`
}

func defaultSolverConfig() solverConfig {
	return solverConfig{MaxSteps: 0, TrackIncompatibilities: true}
}

func loadSolverConfig(path string) (solverConfig, error) {
	cfg := defaultSolverConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("reading solver config %s: %w", path, err)
	}
	return cfg, nil
}
