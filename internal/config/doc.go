// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for eectl's user
// configuration. The configuration is a YAML document named by EECTL_CFG_FILE
// or located in the user's configuration directory, typically:
//   - Linux: $XDG_CONFIG_HOME/eectl.yaml or $HOME/.config/eectl.yaml
//   - macOS: $HOME/Library/Application Support/eectl.yaml
//
// A sample document:
//
//	registry: registry.redhat.io
//	repo: ansible-automation-platform-25/ee-supported-rhel9
//	out: ./inventories
//	parallel: 4
//	collections:
//	  roots: [/usr/share/ansible/collections/ansible_collections]
//	versions:
//	  lenient: true
//	timeouts:
//	  pull: 20m
//	cache:
//	  clean: 48
//	  ttl: 1h
//	report:
//	  title: Nightly EE drift
//	collect:
//	  out: s3://bucket/inventories
//	inv:
//	  defaults:
//	    - --titles
//	  wide:
//	    - --attrs *::-30
//
// Lookups prefer the key under the current command's namespace, so
// collect.out wins over out while running "eectl collect". A list under
// <command>.defaults is spliced into every invocation of that command and
// <command>.<set> is expanded in place of an @set argument.
package config
