// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"

	"github.com/eectl/eectl/internal/inventory"
)

// EnvDelim overrides the default "," between filter expressions.
const EnvDelim = "EECTL_FILTER_DELIM"

// filterRegex is the pattern used to parse filter expressions into key,
// operator, and target components. Operators are one of = ^ ~ < > @ or /,
// optionally prefixed with '!'. Examples: "name" (key only), "name=value"
// (key + operator + target), "arch!=noarch" (negated).
var filterRegex = regexp.MustCompile(`^([^!?=^~<>@/]*)(!?[=^~<>@/])?(.*)$`)

// versionKeys hold version strings. Ordering operands on them compare with
// the rules of the row's category instead of byte order.
var versionKeys = map[string]bool{"version": true, "from": true, "to": true}

// Filter is a single parsed --filter expression including the key, operand,
// optional negation and value to match against.
type Filter struct {
	Key     string `yaml:"key" json:"Key"`
	Negate  bool   `yaml:"negate" json:"Negate"`
	Operand string `yaml:"operand" json:"Operand"`
	Value   string `yaml:"value" json:"Value"`
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Malformed expressions are logged and skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	// Allow an override for values that contain commas.
	delim := ","
	if d, ok := os.LookupEnv(EnvDelim); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		filterSpec = strings.TrimSpace(filterSpec)
		if filterSpec == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		key := strings.TrimSpace(parts[1])
		operand := parts[2]
		target := parts[3]

		if key == "" {
			log.Error("invalid filter: empty key in " + filterSpec)
			continue
		}

		// A bare key tests for a non-empty value.
		if operand == "" {
			operand = "!="
			target = ""
		}

		negate := strings.HasPrefix(operand, "!")
		if negate {
			operand = strings.TrimPrefix(operand, "!")
		}

		filters = append(filters, Filter{
			Key:     key,
			Negate:  negate,
			Operand: operand,
			Value:   target,
		})
	}

	return filters
}

// Apply returns the rows matching every expression in spec. Rows are the
// flattened records or change entries produced by the output package.
func Apply(rows []map[string]interface{}, spec string) []map[string]interface{} {
	filters := BuildFilters(spec)
	if len(filters) == 0 {
		return rows
	}

	warned := map[string]bool{}
	//nolint:prealloc
	var kept []map[string]interface{}
	for _, row := range rows {
		if applyFilters(row, filters, warned) {
			kept = append(kept, row)
		}
	}

	log.Debugf("filter %q kept %d of %d rows", spec, len(kept), len(rows))
	return kept
}

// applyFilters returns true if the row matches all of the filters. A key the
// row does not carry is reported once and ignored.
func applyFilters(row map[string]interface{}, filters []Filter, warned map[string]bool) bool {
	for _, filter := range filters {
		value, ok := row[filter.Key]
		if !ok {
			if !warned[filter.Key] {
				warned[filter.Key] = true
				msg := fmt.Sprintf("filter key not found: %s", filter.Key)
				log.Error(msg)
				fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
			}
			continue
		}

		var result bool
		switch v := value.(type) {
		case string:
			if versionKeys[filter.Key] && (filter.Operand == "<" || filter.Operand == ">") {
				category, _ := row["category"].(string)
				result = checkVersionOperand(inventory.Category(category), v, filter)
			} else {
				result = checkStringOperand(v, filter)
			}
		case fmt.Stringer:
			result = checkStringOperand(v.String(), filter)
		case bool:
			result = checkStringOperand(strconv.FormatBool(v), filter)
		default:
			if num, ok := toFloat64(value); ok {
				result = checkNumericOperand(num, filter)
			} else {
				result = checkStringOperand(fmt.Sprintf("%v", value), filter)
			}
		}

		if !result {
			return false
		}
	}

	return true
}

// checkVersionOperand orders two versions of the same category. Versions the
// category cannot order fall back to byte comparison.
func checkVersionOperand(c inventory.Category, value string, filter Filter) bool {
	cmp, ok := inventory.CompareVersions(c, value, filter.Value)
	if !ok {
		return checkStringOperand(value, filter)
	}

	switch filter.Operand {
	case ">":
		return (cmp > 0) == !filter.Negate
	case "<":
		return (cmp < 0) == !filter.Negate
	default:
		return checkStringOperand(value, filter)
	}
}

// checkNumericOperand compares a numeric value against the filter value using
// numeric semantics. Supported operands: =, >, < and the negated form via
// filter.Negate (e.g., != is represented as Negate + "=").
func checkNumericOperand(value float64, filter Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Value), 64)
	if err != nil {
		log.Error("invalid numeric value: " + filter.Value)
		return false
	}

	switch filter.Operand {
	case "=":
		return (value == tgt) == !filter.Negate
	case ">":
		return (value > tgt) == !filter.Negate
	case "<":
		return (value < tgt) == !filter.Negate
	default:
		log.Error("unsupported numeric operand: " + filter.Operand)
		return false
	}
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value using the operand semantics.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return value == filter.Value == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Value) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Value) == !filter.Negate
	case ">":
		return value > filter.Value == !filter.Negate
	case "<":
		return value < filter.Value == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Value) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Value, value)
		if err != nil {
			log.Error("invalid regex: " + filter.Value)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
}

// toFloat64 normalizes the numeric types rows carry.
func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
