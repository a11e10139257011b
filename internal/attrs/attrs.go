// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/eectl/eectl/internal/log"
)

// lengthRe finds the width part of a transform spec.
var lengthRe = regexp.MustCompile(`-?\d+`)

// Attr is one column of tabular output: the row key to read, whether it is
// shown, its title and an optional transform.
type Attr struct {
	// The row key to read.
	Key string `yaml:"key" json:"Key"`
	// Should this Attr be included in output or is it just
	// intended for filtering and sorting?
	Include bool `yaml:"include" json:"Include"`
	// The key to use in the output. This is also used as the column title when
	// output=text.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// Transformation spec to apply to the output value.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// Transform applies the attribute's transform spec to a value and returns the
// transformed result. Supported spec letters:
//
//	t  timestamp in the local zone
//	T  timestamp as time ago
//	h  byte count in human units
//	l  lower case
//	u  upper case
//	N  truncate to N characters, -N elide the middle
func (a *Attr) Transform(value interface{}) interface{} {
	if a.TransformSpec == "" {
		return value
	}

	if strings.Contains(a.TransformSpec, "h") {
		if n, ok := toUint64(value); ok {
			value = humanize.Bytes(n)
		}
	}

	if ts, ok := toTime(value); ok && strings.ContainsAny(a.TransformSpec, "tT") {
		local := ts.In(time.Local)
		if strings.Contains(a.TransformSpec, "T") {
			value = humanize.Time(local)
			log.Tracef("time ago: result=%v", value)
		} else {
			value = local.Format("2006-01-02T15:04:05MST")
			log.Tracef("time local: result=%v", value)
		}
	}

	result, ok := value.(string)
	if !ok {
		log.Tracef("non-string value: value=%v", value)
		return value
	}

	// The last case letter wins so that a per-attr spec overrides a global
	// one prepended to it. IOW... --attrs '*::U,name::l' will be lower case.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")

	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	// Same logic as above re: case for the width.
	match := lengthRe.FindAllString(a.TransformSpec, -1)
	if len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		abs := int(math.Abs(float64(l)))
		if len(result) > abs && abs > 0 {
			if l < 0 && abs > 4 {
				lr := abs/2 - 1
				result = result[:lr] + ".." + result[len(result)-lr:]
				log.Tracef("length middle: result=%s", result)
			} else {
				result = result[:abs]
				log.Tracef("length trunc: result=%s", result)
			}
		}
	}

	return result
}

func toTime(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		ts, err := time.Parse(time.RFC3339, v)
		return ts, err == nil
	default:
		return time.Time{}, false
	}
}

func toUint64(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case int64:
		return uint64(max(v, 0)), true
	case int:
		return uint64(max(v, 0)), true
	case uint64:
		return v, true
	case float64:
		return uint64(math.Max(v, 0)), true
	default:
		return 0, false
	}
}

// AttrList is a collection of Attr used to shape output fields.
type AttrList []Attr

// Set parses each spec from --attrs and adds it to the AttrList. A spec is
// key[:title[:transform]]. A leading ! hides the column while keeping it
// available for filtering and sorting. The key * carries a transform that
// applies to every column.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

specloop:
	for _, spec := range strings.Split(value, ",") {
		fields := strings.Split(spec, ":")
		if len(fields) > transformIdx+1 {
			return fmt.Errorf("invalid attr spec: %s", spec)
		}

		attr := Attr{Include: true}

		attr.Key = strings.TrimSpace(fields[keyIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("invalid attr spec: empty key in %q", spec)
		}
		if attr.Key == "*" {
			attr.Include = false
		}

		attr.OutputKey = attr.Key
		if len(fields) > outputIdx && strings.TrimSpace(fields[outputIdx]) != "" {
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		}

		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}
		log.Tracef("attr parsed: %+v", attr)

		// A default column named again takes the new title, visibility and
		// transform in place, keeping its position.
		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				(*a)[i].OutputKey = attr.OutputKey
				(*a)[i].TransformSpec = attr.TransformSpec
				continue specloop
			}
		}

		*a = append(*a, attr)
	}

	return nil
}

// SetGlobalTransformSpec inserts a global transform spec at the front of all
// attrs in the list.
func (a *AttrList) SetGlobalTransformSpec() {
	spec := ""
	for _, attr := range *a {
		if attr.Key == "*" {
			spec = attr.TransformSpec
			break
		}
	}

	if spec == "" {
		return
	}
	log.Debugf("global spec: spec=%s", spec)

	for i := range *a {
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}
}

// Visible returns the included attrs in order.
func (a AttrList) Visible() AttrList {
	out := make(AttrList, 0, len(a))
	for _, attr := range a {
		if attr.Include {
			out = append(out, attr)
		}
	}
	return out
}

// String returns a string representation of the AttrList. This matches the
// format of the --attrs flag.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}
