// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"bufio"
	"io"
	"strings"
)

// RefForTag joins repo and tag into an image reference.
func RefForTag(repo, tag string) string {
	return strings.TrimRight(repo, "/") + ":" + tag
}

// ParseTagList splits a comma separated tag list. The single word "all"
// requests catalog discovery instead.
func ParseTagList(csv string) (tags []string, all bool) {
	if strings.EqualFold(strings.TrimSpace(csv), "all") {
		return nil, true
	}
	for _, t := range strings.Split(csv, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags, false
}

// ParseTagsFile reads one tag or full image reference per line. Blank lines
// and # comments are skipped; bare tags are qualified with repo.
func ParseTagsFile(r io.Reader, repo string) ([]string, error) {
	var refs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.ContainsAny(line, "/:@") {
			refs = append(refs, line)
			continue
		}
		refs = append(refs, RefForTag(repo, line))
	}
	return refs, scanner.Err()
}

// Dedupe drops repeated references, keeping the first occurrence.
func Dedupe(refs []string) []string {
	seen := make(map[string]bool, len(refs))
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
