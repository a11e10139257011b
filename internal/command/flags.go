// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/eectl/eectl/internal/acquire"
	"github.com/eectl/eectl/internal/catalog"
	"github.com/eectl/eectl/internal/config"
	"github.com/eectl/eectl/internal/inventory"
	"github.com/eectl/eectl/internal/report"
	"github.com/eectl/eectl/internal/selector"
)

var (
	schemaFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "schema",
		Usage:       "list the row keys usable by --attrs, --filter and --sort",
		HideDefault: true,
	}

	categoryFlag *cli.StringFlag = &cli.StringFlag{
		Name:    "category",
		Aliases: []string{"k"},
		Usage:   "comma-separated categories to include (rpm, python, collection)",
		Validator: func(value string) error {
			return FlagValidators(value, CategoryValidator)
		},
	}
)

// NewGlobalFlags returns the output shaping flags shared by the query
// commands.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of columns (key[:title[:transform]])",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.IntFlag{
			Name:  "padding",
			Usage: "space between text columns",
			Value: 2,
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of keys to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	return
}

// NewStoreFlag is the inventory document location: a directory or
// s3://bucket/prefix.
func NewStoreFlag(params ...string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"store"},
		Usage:   "inventory store, a directory or s3://bucket/prefix",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("EECTL_OUT"),
		),
		Value: "./ee_inventory_xml",
	}
	flag.Sources = withConfigSources(flag.Name, flag.Sources, params...)
	return flag
}

// NewRegistryFlag is the registry used for login and catalog lookups.
func NewRegistryFlag(params ...string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:    "registry",
		Aliases: []string{"r"},
		Usage:   "container registry",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("EECTL_REGISTRY"),
		),
		Value: "registry.redhat.io",
	}
	flag.Sources = withConfigSources(flag.Name, flag.Sources, params...)
	return flag
}

// NewRepoFlag is the repository path within the registry.
func NewRepoFlag(params ...string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:  "repo",
		Usage: "repository within the registry, e.g. ansible-automation-platform-25/ee-supported-rhel9",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("EECTL_REPO"),
		),
	}
	flag.Sources = withConfigSources(flag.Name, flag.Sources, params...)
	return flag
}

// NewParallelFlag bounds concurrent image or document work.
func NewParallelFlag(params ...string) *cli.IntFlag {
	flag := &cli.IntFlag{
		Name:    "parallel",
		Aliases: []string{"p"},
		Usage:   "number of images or documents processed concurrently",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("EECTL_PARALLEL"),
		),
		Value: 2,
		Validator: func(value int) error {
			return FlagValidators(value, PositiveValidator)
		},
	}
	flag.Sources = withConfigSources(flag.Name, flag.Sources, params...)
	return flag
}

// NewLenientFlag selects the lenient version policy.
func NewLenientFlag(params ...string) *cli.BoolFlag {
	flag := &cli.BoolFlag{
		Name:  "lenient",
		Usage: "treat versions that compare equal (0:1.2-3 vs 1.2-3) as unchanged",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("EECTL_LENIENT"),
		),
	}
	if v, err := config.GetBool("versions.lenient"); err == nil {
		flag.Value = v
	}
	flag.Sources = withConfigSources(flag.Name, flag.Sources, params...)
	return flag
}

// NewOrderFlag selects the snapshot ordering.
func NewOrderFlag(params ...string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:  "order",
		Usage: "snapshot ordering: created, semver, name or catalog",
		Value: string(selector.OrderCreated),
		Validator: func(value string) error {
			return FlagValidators(value, OrderingValidator)
		},
	}
	flag.Sources = withConfigSources(flag.Name, cli.ValueSourceChain{}, params...)
	return flag
}

// NewFormatFlag selects the report rendering.
func NewFormatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "format",
		Usage: "report format: html, text, json or yaml",
		Value: report.Formats[0],
		Validator: func(value string) error {
			return FlagValidators(value, FormatValidator)
		},
	}
}

// NewRootsFlag lists the in-image collection directories to scan.
func NewRootsFlag() *cli.StringSliceFlag {
	roots, _ := config.GetStringSlice("collections.roots", inventory.DefaultScanRoots)
	return &cli.StringSliceFlag{
		Name:  "roots",
		Usage: "collection roots scanned inside the image",
		Value: roots,
	}
}

// NewRPMPatternFlag is the glob naming rpm packaged collections.
func NewRPMPatternFlag() *cli.StringFlag {
	pattern, _ := config.GetString("collections.rpm_pattern", "")
	return &cli.StringFlag{
		Name:  "rpm-pattern",
		Usage: "glob of rpm names that ship collections, e.g. ansible-collection-*",
		Value: pattern,
	}
}

// NewEngineFlag picks the container engine binary.
func NewEngineFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "engine",
		Usage: "container engine binary (podman or docker); detected when empty",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("EECTL_ENGINE"),
		),
		Validator: func(value string) error {
			return FlagValidators(value, EngineValidator)
		},
	}
}

// NewCatalogURLFlag points the tag lookup at a catalog API.
func NewCatalogURLFlag() *cli.StringFlag {
	u, _ := config.GetString("catalog.url", catalog.DefaultPyxisURL)
	return &cli.StringFlag{
		Name:  "catalog-url",
		Usage: "container catalog API base URL",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("EECTL_CATALOG_URL"),
		),
		Value: u,
	}
}

// NewTimeoutFlags returns the per-step engine timeouts.
func NewTimeoutFlags() []cli.Flag {
	pull, _ := config.GetDuration("timeouts.pull", acquire.DefaultPullTimeout)
	run, _ := config.GetDuration("timeouts.run", acquire.DefaultRunTimeout)
	return []cli.Flag{
		&cli.DurationFlag{
			Name:  "pull-timeout",
			Usage: "timeout for one image pull",
			Value: pull,
		},
		&cli.DurationFlag{
			Name:  "run-timeout",
			Usage: "timeout for one inventory or export container run",
			Value: run,
		},
	}
}

// withConfigSources appends the config file as a value source for the flag:
// the namespaced key (params[0].name) first, then the bare key. params[1]
// overrides the config file path.
func withConfigSources(name string, chain cli.ValueSourceChain, params ...string) cli.ValueSourceChain {
	if len(params) == 0 {
		return chain
	}

	path := config.Path()
	if len(params) > 1 {
		path = params[1]
	}
	if path == "" {
		return chain
	}

	ns := params[0]
	chain.Chain = append(chain.Chain,
		yaml.YAML(ns+"."+name, altsrc.StringSourcer(path)),
		yaml.YAML(name, altsrc.StringSourcer(path)),
	)
	return chain
}
