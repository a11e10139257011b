// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/eectl/eectl/internal/acquire"
	"github.com/eectl/eectl/internal/catalog"
	"github.com/eectl/eectl/internal/inventory"
	"github.com/eectl/eectl/internal/meta"
	"github.com/eectl/eectl/internal/store"
	"github.com/eectl/eectl/internal/util"
)

// collectCommandAction captures, builds and persists one snapshot per image.
// A failing image is logged and counted; the others still complete and the
// failures come back joined.
func collectCommandAction(ctx context.Context, cmd *cli.Command) error {
	refs, err := resolveRefs(ctx, cmd)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return fmt.Errorf("nothing to collect, give --images, --tags or --tags-file")
	}
	log.Infof("collecting %d image(s)", len(refs))

	st, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}

	runner, err := acquire.NewExecRunner(cmd.String("engine"))
	if err != nil {
		return err
	}
	engine := acquire.NewEngine(runner, acquire.Timeouts{
		Pull: cmd.Duration("pull-timeout"),
		Run:  cmd.Duration("run-timeout"),
	})
	log.Debugf("engine: %s", runner.Binary())

	if err := login(ctx, cmd, engine); err != nil {
		return err
	}

	run, err := inventory.NewRun(inventory.Options{
		ScanRoots:            cmd.StringSlice("roots"),
		RPMCollectionPattern: cmd.String("rpm-pattern"),
		VersionPolicy:        inventory.VersionPolicy{Lenient: cmd.Bool("lenient")},
	})
	if err != nil {
		return err
	}
	log.Debugf("run %s", run.ID)

	opts := acquire.CaptureOptions{
		ScanRoots: cmd.StringSlice("roots"),
		KeepImage: cmd.Bool("no-rmi"),
		SkipPull:  cmd.Bool("skip-pull"),
	}

	var (
		mu       sync.Mutex
		failures []error
	)
	g := new(errgroup.Group)
	g.SetLimit(cmd.Int("parallel"))
	for _, ref := range refs {
		g.Go(func() error {
			where, err := collectOne(ctx, engine, run, st, ref, opts)
			if err != nil {
				log.WithError(err).Errorf("%s failed", ref)
				mu.Lock()
				failures = append(failures, fmt.Errorf("%s: %w", ref, err))
				mu.Unlock()
				return nil
			}
			fmt.Fprintf(cmd.Root().Writer, "%s -> %s\n", ref, where)
			return nil
		})
	}
	_ = g.Wait()

	builds, hits := run.Stats()
	log.Debugf("run %s: %d builds, %d rpm listings reused", run.ID, builds, hits)

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d image(s) failed: %w", len(failures), len(refs), errors.Join(failures...))
	}
	return nil
}

// collectOne runs the whole pipeline for ref and returns where the document
// was written.
func collectOne(ctx context.Context, engine *acquire.Engine, run *inventory.Run, st store.Store, ref string, opts acquire.CaptureOptions) (string, error) {
	capture, err := engine.Capture(ctx, ref, opts)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := capture.Close(); err != nil {
			log.Warnf("%s: cleanup: %v", ref, err)
		}
	}()

	s, err := run.BuildSnapshot(util.ParseImageRef(ref).Identifier(), ref, capture.Image, capture.Listings)
	if err != nil {
		return "", err
	}
	for _, w := range s.Diagnostics() {
		log.Warnf("skipped %s", w)
	}

	return store.Save(ctx, st, s)
}

// resolveRefs gathers image references from --images, --tags-file and
// --tags, in that order, without repeats.
func resolveRefs(ctx context.Context, cmd *cli.Command) ([]string, error) {
	refs := append([]string(nil), cmd.StringSlice("images")...)
	base := qualifiedRepo(cmd.String("registry"), cmd.String("repo"))

	if path := cmd.String("tags-file"); path != "" {
		if base == "" {
			return nil, fmt.Errorf("--tags-file needs --repo")
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		fromFile, err := catalog.ParseTagsFile(f, base)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		refs = append(refs, fromFile...)
	}

	if spec := cmd.String("tags"); spec != "" {
		if base == "" {
			return nil, fmt.Errorf("--tags needs --repo")
		}
		tags, all := catalog.ParseTagList(spec)
		if all {
			found, err := catalog.NewPyxis(cmd.String("catalog-url")).Tags(ctx, cmd.String("registry"), cmd.String("repo"))
			if err != nil {
				return nil, err
			}
			for _, t := range found {
				tags = append(tags, t.Name)
			}
			log.Infof("catalog lists %d tag(s) for %s", len(tags), base)
		}
		for _, t := range tags {
			refs = append(refs, catalog.RefForTag(base, t))
		}
	}

	return catalog.Dedupe(refs), nil
}

// qualifiedRepo prefixes repo with registry unless it already names one.
func qualifiedRepo(registry, repo string) string {
	repo = strings.Trim(repo, "/")
	if repo == "" {
		return ""
	}
	first, _, found := strings.Cut(repo, "/")
	if found && strings.ContainsAny(first, ".:") || registry == "" {
		return repo
	}
	return registry + "/" + repo
}

// login authenticates when a username is given, prompting for the password
// when stdin is a terminal and none was supplied.
func login(ctx context.Context, cmd *cli.Command, engine *acquire.Engine) error {
	user := cmd.String("username")
	if user == "" {
		return nil
	}

	pass := cmd.String("password")
	if pass == "" {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return fmt.Errorf("--password is required when stdin is not a terminal")
		}
		fmt.Fprintf(cmd.Root().ErrWriter, "Password for %s@%s: ", user, cmd.String("registry"))
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.Root().ErrWriter)
		if err != nil {
			return err
		}
		pass = string(b)
	}

	return engine.Login(ctx, cmd.String("registry"), user, pass)
}

// collectCommandBuilder constructs the cli.Command for "collect".
func collectCommandBuilder(meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		NewStoreFlag("collect"),
		NewRegistryFlag("collect"),
		NewRepoFlag("collect"),
		NewParallelFlag("collect"),
		NewLenientFlag("collect"),
		NewRootsFlag(),
		NewRPMPatternFlag(),
		NewEngineFlag(),
		NewCatalogURLFlag(),
		&cli.StringSliceFlag{
			Name:  "images",
			Usage: "full image references to collect",
		},
		&cli.StringFlag{
			Name:  "tags",
			Usage: "comma-separated tags of --repo, or all to ask the catalog",
		},
		&cli.StringFlag{
			Name:  "tags-file",
			Usage: "file with one tag or image reference per line",
		},
		&cli.StringFlag{
			Name:    "username",
			Aliases: []string{"u"},
			Usage:   "registry username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("EECTL_USERNAME")),
		},
		&cli.StringFlag{
			Name:    "password",
			Usage:   "registry password, prompted for when omitted",
			Sources: cli.NewValueSourceChain(cli.EnvVar("EECTL_PASSWORD")),
		},
		&cli.BoolFlag{
			Name:  "no-rmi",
			Usage: "keep the pulled images",
		},
		&cli.BoolFlag{
			Name:  "skip-pull",
			Usage: "use images already in local storage",
		},
	}
	flags = append(flags, NewTimeoutFlags()...)
	flags = append(flags, awsFlags()...)

	return &cli.Command{
		Name:      "collect",
		Usage:     "capture image inventories into the store",
		UsageText: "eectl collect --repo <repo> --tags <tags|all> [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  flags,
		Action: collectCommandAction,
	}
}
