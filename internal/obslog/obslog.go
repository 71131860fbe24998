// Copyright 2025 The agentcore Authors
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

// Package obslog builds the structured loggers used throughout this module.
// Every package-level logger carries a fixed "component" attribute so log
// lines can be filtered by subsystem without parsing messages.
package obslog

import (
	"log/slog"
	"os"
	"strings"
)

// ParseLevel converts a level string (debug/info/warn/error, case
// insensitive) to a slog.Level, defaulting to warn for anything else.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New builds the module's root *slog.Logger at the given level, writing
// text-formatted records to stderr.
func New(levelStr string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: ParseLevel(levelStr)})
	return slog.New(handler)
}

// ForComponent returns a logger derived from root with a "component"
// attribute, e.g. obslog.ForComponent(root, "provider").
func ForComponent(root *slog.Logger, component string) *slog.Logger {
	if root == nil {
		root = slog.Default()
	}
	return root.With("component", component)
}
