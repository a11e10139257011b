// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/eectl/eectl/internal/cacheutil"
	"github.com/eectl/eectl/internal/command"
	"github.com/eectl/eectl/internal/config"
	"github.com/eectl/eectl/internal/log"
	"github.com/eectl/eectl/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs expands config sets into the args. The command's
// "defaults" set goes first so anything on the command line overrides it.
func processCommandArgs(args []string) []string {
	if len(args) < 2 || args[1] == "completion" || strings.HasPrefix(args[1], "-") {
		return args
	}

	args = processSetOnly(args)
	args = injectConfigSet(args, args[1]+".defaults", 2)
	log.Debugf("args after set processing: args=%v", args)

	return deduplicateFlags(args)
}

// processSetOnly replaces an @set argument with the entries of the
// <command>.<set> config key.
func processSetOnly(args []string) []string {
	for i := 2; i < len(args); i++ {
		if strings.HasPrefix(args[i], "@") && len(args[i]) > 1 {
			key := args[1] + "." + args[i][1:]
			args = append(args[:i:i], args[i+1:]...)
			return injectConfigSet(args, key, i)
		}
	}
	return args
}

// injectConfigSet splices the whitespace separated entries of the key's
// string list into args at insertIdx.
func injectConfigSet(args []string, key string, insertIdx int) []string {
	entries, err := config.GetStringSlice(key)
	if err != nil {
		return args
	}
	return spliceEntries(args, entries, insertIdx)
}

func spliceEntries(args []string, entries []string, insertIdx int) []string {
	if len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:insertIdx]...)
	out = append(out, expanded...)
	return append(out, args[insertIdx:]...)
}

// deduplicateFlags keeps only the last occurrence of each flag. A flag
// without =value takes the following non-flag token as its value.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	type occurrence struct {
		name   string
		tokens []string
	}

	var items []occurrence
	for i := 2; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") || a == "-" {
			items = append(items, occurrence{tokens: []string{a}})
			continue
		}
		name, _, hasValue := strings.Cut(a, "=")
		o := occurrence{name: name, tokens: []string{a}}
		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			o.tokens = append(o.tokens, args[i+1])
			i++
		}
		items = append(items, o)
	}

	last := map[string]int{}
	for i, o := range items {
		if o.name != "" {
			last[o.name] = i
		}
	}

	out := append([]string(nil), args[:2]...)
	for i, o := range items {
		if o.name != "" && last[o.name] != i {
			continue
		}
		out = append(out, o.tokens...)
	}
	return out
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	if hours, err := config.GetInt("cache.clean", 0); err == nil && hours > 0 {
		if err := cacheutil.Purge(hours); err != nil {
			log.Debugf("cache purge err: err=%v", err)
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}
