// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters narrows inventory listings and diff results.
//
// Filters are key-operator-target expressions joined by a configurable
// delimiter (default: comma, override with EECTL_FILTER_DELIM). Keys name row
// columns such as name, version, arch, provenance, kind or direction.
//
// Operators:
//
//   - = : exact match (negate with !=)
//   - ~ : case-insensitive match
//   - ^ : prefix match
//   - < : less than
//   - > : greater than
//   - @ : contains substring
//   - / : regular expression match
//
// On the version, from and to keys < and > compare versions with the rules of
// the row's category, so "version>2.9" on a python row orders 2.10 after 2.9.
// A bare key ("arch") keeps rows where that column is not empty.
//
// Examples:
//
//   - "name^python3-"     RPMs whose name starts with python3-
//   - "arch!=noarch"      anything that is not noarch
//   - "kind=changed,direction=downgrade"
package filters
