// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"

	"github.com/eectl/eectl/internal/inventory"
)

// versionKeys are compared with the ordering rules of the row's category.
var versionKeys = map[string]bool{"version": true, "from": true, "to": true}

// SortDataset orders rows by a comma separated list of keys. A leading "-"
// sorts that key descending and a leading "!" makes the comparison case
// sensitive.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	if spec == "" {
		return
	}
	fields := strings.Split(spec, ",")

	sort.SliceStable(resultSet, func(one, two int) bool {
		for _, field := range fields {
			ascending := true
			if strings.HasPrefix(field, "-") {
				field = strings.TrimPrefix(field, "-")
				ascending = false
			}

			caseSensitive := false
			if strings.HasPrefix(field, "!") {
				field = strings.TrimPrefix(field, "!")
				caseSensitive = true
			}

			c := compareValues(resultSet[one], resultSet[two], field, caseSensitive)
			if c == 0 {
				continue
			}
			if ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func compareValues(a, b map[string]interface{}, field string, caseSensitive bool) int {
	oneValue, twoValue := a[field], b[field]

	if oneNum, ok := toNumber(oneValue); ok {
		if twoNum, ok := toNumber(twoValue); ok {
			switch {
			case oneNum < twoNum:
				return -1
			case oneNum > twoNum:
				return 1
			}
			return 0
		}
	}

	oneStr := InterfaceToString(oneValue)
	twoStr := InterfaceToString(twoValue)

	if versionKeys[field] && a["category"] == b["category"] {
		category, _ := a["category"].(string)
		if c, ok := inventory.CompareVersions(inventory.Category(category), oneStr, twoStr); ok && c != 0 {
			return c
		}
	}

	if !caseSensitive {
		oneStr = strings.ToLower(oneStr)
		twoStr = strings.ToLower(twoStr)
	}
	return strings.Compare(oneStr, twoStr)
}

func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
