// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package acquire

import (
	"fmt"
	"strings"

	"github.com/eectl/eectl/internal/inventory"
)

// Section markers written by the inventory script.
const (
	markRPM    = "RPM"
	markPython = "PIP"
	markGalaxy = "GALAXY"
)

func startMark(name string) string { return "===" + name + " START===" }
func endMark(name string) string   { return "===" + name + " END===" }

// InventoryScript is run with `bash -c` inside the image. Each listing is
// framed by markers so a listing that could not be produced at all is told
// apart from an empty one. A failing rpm query leaves its section unterminated
// so the listing reads as absent.
var InventoryScript = strings.Join([]string{
	`echo "` + startMark(markRPM) + `"`,
	`if rpm_out=$(rpm -qa --qf '` + inventory.RPMQueryFormat + `'); then`,
	`  printf '%s\n' "$rpm_out" | sort`,
	`  echo "` + endMark(markRPM) + `"`,
	`fi`,
	`echo "` + startMark(markPython) + `"`,
	`( python3 -m pip list --format=json 2>/dev/null ) || ( python3 -m pip freeze 2>/dev/null ) || true`,
	`echo`,
	`echo "` + endMark(markPython) + `"`,
	`echo "` + startMark(markGalaxy) + `"`,
	`( ansible-galaxy collection list --format json 2>/dev/null ) || echo "{}"`,
	`echo`,
	`echo "` + endMark(markGalaxy) + `"`,
}, "\n")

// ExportScript prints a tar stream holding the collection metadata files
// below the given roots. Missing roots are ignored.
func ExportScript(roots []string) string {
	quoted := make([]string, 0, len(roots))
	for _, r := range roots {
		quoted = append(quoted, "'/"+strings.ReplaceAll(strings.TrimPrefix(r, "/"), "'", `'\''`)+"'")
	}
	return fmt.Sprintf(`cd / && for r in %s; do [ -d "$r" ] && find "${r#/}" -mindepth 3 -maxdepth 3 \( -name %s -o -name %s \) -type f; done | tar -cf - -T - 2>/dev/null || true`,
		strings.Join(quoted, " "), inventory.ManifestFile, inventory.GalaxyFile)
}

// SplitSections cuts script output into listings. A section whose markers are
// missing yields an absent listing.
func SplitSections(raw string) (rpm, python, galaxy inventory.Raw) {
	return section(raw, markRPM), section(raw, markPython), section(raw, markGalaxy)
}

func section(raw, name string) inventory.Raw {
	_, rest, ok := strings.Cut(raw, startMark(name)+"\n")
	if !ok {
		return inventory.Raw{}
	}
	body, _, ok := strings.Cut(rest, endMark(name))
	if !ok {
		return inventory.Raw{}
	}
	return inventory.Present(strings.TrimSpace(body))
}
