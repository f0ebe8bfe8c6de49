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

import "github.com/sirupsen/logrus"

// logrusLogger adapts a logrus.FieldLogger to the solver's Logger interface,
// turning the slog-style key/value pairs the solver emits into logrus fields.
type logrusLogger struct {
	log logrus.FieldLogger
}

// NewLogrusLogger wraps a logrus logger (or entry) for use as a solver Logger.
//
// Example:
//
//	log := logrus.New()
//	log.SetLevel(logrus.DebugLevel)
//	solver := NewSolverWithOptions(
//	    []Source{root, source},
//	    WithLogrusLogger(log),
//	)
func NewLogrusLogger(log logrus.FieldLogger) Logger {
	return &logrusLogger{log: log}
}

// WithLogrusLogger sets a logrus-backed logger for solver diagnostics.
func WithLogrusLogger(log logrus.FieldLogger) SolverOption {
	return func(opts *SolverOptions) {
		if log == nil {
			opts.Logger = nil
			return
		}
		opts.Logger = NewLogrusLogger(log)
	}
}

// Debug implements Logger, pairing up the variadic args into logrus fields.
func (l *logrusLogger) Debug(msg string, args ...any) {
	if len(args) == 0 {
		l.log.Debug(msg)
		return
	}

	fields := make(logrus.Fields, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		fields[key] = args[i+1]
	}
	l.log.WithFields(fields).Debug(msg)
}

var _ Logger = (*logrusLogger)(nil)
