// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"errors"
	"fmt"
)

// ErrAbsent marks a listing that was never captured. It is wrapped by a
// ParseError.
var ErrAbsent = errors.New("listing absent")

// Source names used in errors and diagnostics.
const (
	SourceRPM        = "rpm"
	SourcePython     = "python"
	SourceGalaxy     = "galaxy"
	SourceFilesystem = "filesystem"
	SourceDocument   = "document"
)

// ParseError reports a listing that could not be interpreted as a whole. It is
// fatal for the snapshot being built and nothing else.
type ParseError struct {
	Identifier string
	Category   Category
	Source     string
	Err        error
}

func (e *ParseError) Error() string {
	id := e.Identifier
	if id == "" {
		id = "<unknown>"
	}
	return fmt.Sprintf("snapshot %s: %s listing (%s): %v", id, e.Source, e.Category, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LineSkipWarning describes one malformed listing entry that was skipped. The
// warnings of a build are kept on the resulting Snapshot.
type LineSkipWarning struct {
	Identifier string   `json:"identifier" yaml:"identifier"`
	Category   Category `json:"category" yaml:"category"`
	Source     string   `json:"source" yaml:"source"`
	Line       int      `json:"line,omitempty" yaml:"line,omitempty"`
	Text       string   `json:"text" yaml:"text"`
	Reason     string   `json:"reason" yaml:"reason"`
}

func (w LineSkipWarning) String() string {
	loc := w.Source
	if w.Line > 0 {
		loc = fmt.Sprintf("%s:%d", w.Source, w.Line)
	}
	return fmt.Sprintf("%s %s: %s: %q", w.Identifier, loc, w.Reason, w.Text)
}

// warnings accumulates LineSkipWarnings for one source while it is parsed.
type warnings struct {
	category Category
	source   string
	list     []LineSkipWarning
}

func (w *warnings) add(line int, text, reason string) {
	w.list = append(w.list, LineSkipWarning{
		Category: w.category,
		Source:   w.source,
		Line:     line,
		Text:     text,
		Reason:   reason,
	})
}
