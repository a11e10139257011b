// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"embed"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/eectl/eectl/internal/command"
)

//go:embed templates/*.tmpl
var templates embed.FS

// Subcommand is the documented view of one eectl command.
type Subcommand struct {
	ID          string    `yaml:"id"`
	Short       string    `yaml:"short"`
	Description string    `yaml:"description"`
	Usage       string    `yaml:"usage"`
	Flags       []Flag    `yaml:"flags"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Flag struct {
	ID          string `yaml:"id"`
	Syntax      string `yaml:"syntax"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
	More        string `yaml:"more,omitempty"`
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

// Extras are the hand written parts merged over the generated command data,
// keyed by command name.
type Extras map[string]struct {
	Description string    `yaml:"description"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes"`
}

type TemplateData struct {
	Subcommand
	Date    string
	Version string
	IDUpper string
}

type Outputs struct {
	Template string
	Folder   string
	Prefix   string
	Suffix   string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen <docs dir>")
		os.Exit(1)
	}
	docs := os.Args[1]

	extras := Extras{}
	if data, err := os.ReadFile(filepath.Join(docs, "eectl.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &extras); err != nil {
			panic(err)
		}
	}

	app, err := command.InitApp(context.Background(), []string{"eectl"})
	if err != nil {
		panic(err)
	}

	types := []Outputs{
		{Template: "eectl.md.tmpl", Folder: filepath.Join(docs, "commands"), Suffix: ".md"},
		{Template: "eectl.man.tmpl", Folder: filepath.Join(docs, "man", "share", "man1"), Prefix: "eectl-", Suffix: ".1"},
	}

	version := getVersion()
	for _, sub := range Subcommands(app, extras) {
		metadata := TemplateData{
			Subcommand: sub,
			Date:       time.Now().Format("January 2, 2006"),
			Version:    version,
			IDUpper:    strings.ToUpper(sub.ID),
		}

		for _, t := range types {
			if err := os.MkdirAll(t.Folder, 0755); err != nil {
				panic(err)
			}

			path := filepath.Join(t.Folder, t.Prefix+sub.ID+t.Suffix)
			fmt.Println("Generating", path)
			file, err := os.Create(path)
			if err != nil {
				panic(err)
			}
			if err := Render(file, t.Template, metadata); err != nil {
				panic(err)
			}
			file.Close()
		}
	}
}

// Subcommands documents every command of app, flags sorted by name.
func Subcommands(app *cli.Command, extras Extras) []Subcommand {
	var subs []Subcommand
	for _, cmd := range app.Commands {
		sub := Subcommand{
			ID:    cmd.Name,
			Short: cmd.Usage,
			Usage: cmd.UsageText,
		}
		for _, f := range cmd.Flags {
			sub.Flags = append(sub.Flags, describeFlag(f))
		}
		sort.Slice(sub.Flags, func(i, j int) bool {
			return sub.Flags[i].ID < sub.Flags[j].ID
		})

		if x, ok := extras[cmd.Name]; ok {
			sub.Description = x.Description
			sub.Examples = x.Examples
			sub.Notes = x.Notes
		}
		subs = append(subs, sub)
	}
	return subs
}

func describeFlag(f cli.Flag) Flag {
	names := f.Names()
	out := Flag{ID: names[0]}

	var syntax []string
	for _, n := range names {
		if len(n) == 1 {
			syntax = append(syntax, "-"+n)
		} else {
			syntax = append(syntax, "--"+n)
		}
	}
	out.Syntax = strings.Join(syntax, ", ")

	if df, ok := f.(cli.DocGenerationFlag); ok {
		out.Description = df.GetUsage()
		if df.TakesValue() {
			out.Default = df.GetDefaultText()
		}
		if envs := df.GetEnvVars(); len(envs) > 0 {
			out.More = "env: " + strings.Join(envs, ", ")
		}
	}
	return out
}

// Render executes the named embedded template.
func Render(w io.Writer, name string, data TemplateData) error {
	tmpl, err := template.ParseFS(templates, "templates/"+name)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, data)
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
