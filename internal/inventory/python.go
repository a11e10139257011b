// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ParsePython parses the output of `pip list --format=json`. When the text is
// not JSON at all it falls back to `pip freeze` lines (name==version). Either
// path yields the same record shape.
func ParsePython(text string) ([]Record, []LineSkipWarning, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil, nil
	}

	if gjson.Valid(trimmed) {
		return parsePipJSON(gjson.Parse(trimmed))
	}
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		return nil, nil, errors.New("malformed JSON package list")
	}
	return parsePipFreeze(trimmed)
}

func parsePipJSON(doc gjson.Result) ([]Record, []LineSkipWarning, error) {
	if !doc.IsArray() {
		return nil, nil, fmt.Errorf("top level is %s, want a list", jsonKind(doc))
	}

	w := warnings{category: CategoryPython, source: SourcePython}
	acc := newAccumulator(&w)
	for i, entry := range doc.Array() {
		if !entry.IsObject() {
			w.add(i+1, entry.Raw, "entry is not an object")
			continue
		}
		name := strings.TrimSpace(entry.Get("name").String())
		version := strings.TrimSpace(entry.Get("version").String())
		if name == "" || version == "" {
			w.add(i+1, entry.Raw, "missing name or version")
			continue
		}
		acc.add(i+1, entry.Raw, Record{Name: name, Version: version, Category: CategoryPython})
	}
	return acc.records, w.list, nil
}

func parsePipFreeze(text string) ([]Record, []LineSkipWarning, error) {
	w := warnings{category: CategoryPython, source: SourcePython}
	acc := newAccumulator(&w)
	pinned := 0

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, version, ok := strings.Cut(line, "==")
		if !ok {
			reason := "not a name==version pin"
			switch {
			case strings.HasPrefix(line, "-e ") || strings.HasPrefix(line, "--editable"):
				reason = "editable install"
			case strings.Contains(line, " @ "):
				reason = "direct reference"
			}
			w.add(lineNo, line, reason)
			continue
		}
		pinned++

		// "name===version" is an arbitrary equality pin.
		version = strings.TrimSpace(strings.TrimPrefix(version, "="))
		name = strings.TrimSpace(name)
		if i := strings.Index(name, "["); i >= 0 {
			name = strings.TrimSpace(name[:i])
		}
		if name == "" || version == "" {
			w.add(lineNo, line, "missing name or version")
			continue
		}
		acc.add(lineNo, line, Record{Name: name, Version: version, Category: CategoryPython})
	}
	if err := scanner.Err(); err != nil {
		return nil, w.list, err
	}

	if pinned == 0 {
		return nil, w.list, errors.New("neither a JSON package list nor freeze output")
	}

	return acc.records, w.list, nil
}

// accumulator keeps the first record per key and warns about the rest.
type accumulator struct {
	w       *warnings
	seen    map[string]bool
	records []Record
}

func newAccumulator(w *warnings) *accumulator {
	return &accumulator{w: w, seen: map[string]bool{}}
}

func (a *accumulator) add(line int, text string, r Record) {
	key := r.Key()
	if a.seen[key] {
		a.w.add(line, text, "duplicate entry for "+key)
		return
	}
	a.seen[key] = true
	a.records = append(a.records, r)
}

// jsonKind names the JSON type of a gjson result for error messages.
func jsonKind(r gjson.Result) string {
	switch {
	case r.IsArray():
		return "a list"
	case r.IsObject():
		return "an object"
	case r.Type == gjson.String:
		return "a string"
	case r.Type == gjson.Number:
		return "a number"
	case r.Type == gjson.True || r.Type == gjson.False:
		return "a boolean"
	case r.Type == gjson.Null:
		return "null"
	}
	return "unknown"
}
