// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/eectl/eectl/internal/log"
)

// Raw writes a structural diff of two JSON documents to w. Top level keys in
// ignore are dropped from both documents first. It reports whether the
// documents differ.
func Raw(w io.Writer, from, to []byte, ignore []string, coloring bool) (bool, error) {
	log.Debugf("raw diff: %d / %d bytes", len(from), len(to))

	left, err := dropKeys(from, ignore)
	if err != nil {
		return false, fmt.Errorf("failed to read left document: %w", err)
	}
	right, err := dropKeys(to, ignore)
	if err != nil {
		return false, fmt.Errorf("failed to read right document: %w", err)
	}

	leftBytes, _ := json.Marshal(left)
	rightBytes, _ := json.Marshal(right)

	delta, err := gojsondiff.New().Compare(leftBytes, rightBytes)
	if err != nil {
		return false, fmt.Errorf("failed to compare documents: %w", err)
	}
	if !delta.Modified() {
		fmt.Fprintln(w, "The inventories are identical.")
		return false, nil
	}

	f := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       coloring,
	})
	out, err := f.Format(delta)
	if err != nil {
		return true, err
	}
	fmt.Fprintln(w, out)
	return true, nil
}

func dropKeys(doc []byte, ignore []string) (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, err
	}
	for _, k := range ignore {
		delete(m, k)
	}
	return m, nil
}
