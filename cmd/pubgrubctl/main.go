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

// Command pubgrubctl drives the solver against a YAML registry fixture from
// the shell, for exercising and demonstrating resolution scenarios without
// writing Go.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/solvegraph/pubgrub"
	"github.com/solvegraph/pubgrub/registry"
)

var (
	fixturePath string
	configPath  string
	cachePath   string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "pubgrubctl",
	Short: "pubgrubctl resolves package requirements with the PubGrub algorithm",
}

var solveCmd = &cobra.Command{
	Use:   "solve pkg=constraint [pkg=constraint ...]",
	Short: "Resolve a set of root requirements against a registry fixture",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&fixturePath, "fixture", "", "path to a YAML registry fixture (required)")
	solveCmd.Flags().StringVar(&configPath, "config", "", "path to a TOML solver tuning file")
	solveCmd.Flags().StringVar(&cachePath, "cache", "", "path to a bbolt cache file for registry lookups")
	solveCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log solver internals to stderr")
	_ = solveCmd.MarkFlagRequired("fixture")

	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	fixture, err := registry.LoadFixtureFile(fixturePath)
	if err != nil {
		return err
	}
	source, err := fixture.ToSource()
	if err != nil {
		return err
	}

	var underlying pubgrub.Source = source
	if cachePath != "" {
		bolt, err := registry.OpenBoltSource(cachePath, source)
		if err != nil {
			return err
		}
		defer bolt.Close()
		underlying = bolt
	}

	root := pubgrub.NewRootSource()
	for _, req := range args {
		name, condition, err := parseRequirement(req)
		if err != nil {
			return err
		}
		root.AddPackage(name, condition)
	}

	cfg, err := loadSolverConfig(configPath)
	if err != nil {
		return err
	}

	opts := []pubgrub.SolverOption{
		pubgrub.WithIncompatibilityTracking(cfg.TrackIncompatibilities),
		pubgrub.WithMaxSteps(cfg.MaxSteps),
	}
	if verbose {
		log := logrus.New()
		log.SetLevel(logrus.DebugLevel)
		opts = append(opts, pubgrub.WithLogrusLogger(log))
	}

	solver := pubgrub.NewSolverWithOptions([]pubgrub.Source{root, underlying}, opts...)

	solution, err := solver.Solve(root.Term())
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return errSilent
	}

	for pkg := range solution.All() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", pkg.Name.Value(), pkg.Version)
	}
	return nil
}

// errSilent signals a handled failure (already printed) so main doesn't
// double-report the error text cobra would otherwise add.
var errSilent = fmt.Errorf("solve failed")

// parseRequirement splits "pkg=constraint" into a name and a Condition,
// reusing pubgrub.ParseVersionRange so "lodash=>=1.0.0,<2.0.0" and bare pins
// like "lodash=1.2.3" both work.
func parseRequirement(req string) (pubgrub.Name, pubgrub.Condition, error) {
	name, constraint, ok := strings.Cut(req, "=")
	if !ok || name == "" {
		return pubgrub.EmptyName(), nil, fmt.Errorf("invalid requirement %q, expected pkg=constraint", req)
	}

	set, err := pubgrub.ParseVersionRange(constraint)
	if err != nil {
		return pubgrub.EmptyName(), nil, fmt.Errorf("invalid constraint for %s: %w", name, err)
	}
	return pubgrub.MakeName(name), pubgrub.NewVersionSetCondition(set), nil
}

func main() {
	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		if err != errSilent {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
