// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package acquire

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	apex "github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/eectl/eectl/internal/inventory"
	"github.com/eectl/eectl/internal/log"
)

// Default step timeouts.
const (
	DefaultPullTimeout    = 15 * time.Minute
	DefaultRunTimeout     = 5 * time.Minute
	DefaultInspectTimeout = time.Minute
)

// Timeouts bound each engine step. Zero values use the defaults.
type Timeouts struct {
	Pull    time.Duration
	Run     time.Duration
	Inspect time.Duration
}

func (t Timeouts) withDefaults() Timeouts {
	if t.Pull <= 0 {
		t.Pull = DefaultPullTimeout
	}
	if t.Run <= 0 {
		t.Run = DefaultRunTimeout
	}
	if t.Inspect <= 0 {
		t.Inspect = DefaultInspectTimeout
	}
	return t
}

// Engine performs the acquisition steps through a Runner.
type Engine struct {
	runner   Runner
	timeouts Timeouts
}

// NewEngine wraps runner.
func NewEngine(runner Runner, timeouts Timeouts) *Engine {
	return &Engine{runner: runner, timeouts: timeouts.withDefaults()}
}

func (e *Engine) run(ctx context.Context, timeout time.Duration, stdin io.Reader, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return e.runner.Run(ctx, stdin, args...)
}

// Login authenticates against registry. The password is passed on stdin.
func (e *Engine) Login(ctx context.Context, registry, username, password string) error {
	_, err := e.run(ctx, e.timeouts.Inspect, strings.NewReader(password),
		"login", registry, "--username", username, "--password-stdin")
	if err != nil {
		return fmt.Errorf("login to %s failed: %w", registry, err)
	}
	return nil
}

// Pull fetches ref.
func (e *Engine) Pull(ctx context.Context, ref string) error {
	if _, err := e.run(ctx, e.timeouts.Pull, nil, "pull", ref); err != nil {
		return fmt.Errorf("pull %s failed: %w", ref, err)
	}
	return nil
}

// Inspect reads the image metadata of ref.
func (e *Engine) Inspect(ctx context.Context, ref string) (inventory.Image, error) {
	out, err := e.run(ctx, e.timeouts.Inspect, nil, "image", "inspect", "--format", "{{json .}}", ref)
	if err != nil {
		return inventory.Image{}, fmt.Errorf("inspect %s failed: %w", ref, err)
	}
	return ParseInspect(out)
}

// ParseInspect reads `image inspect` output. Both a single object and the
// array form are accepted.
func ParseInspect(out []byte) (inventory.Image, error) {
	doc := gjson.ParseBytes(bytes.TrimSpace(out))
	if doc.IsArray() {
		doc = doc.Get("0")
	}
	if !doc.IsObject() {
		return inventory.Image{}, fmt.Errorf("unexpected inspect output")
	}

	img := inventory.Image{
		Digest:       doc.Get("Digest").String(),
		Architecture: doc.Get("Architecture").String(),
		Size:         doc.Get("Size").Int(),
	}
	if created := doc.Get("Created").String(); created != "" {
		t, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return img, fmt.Errorf("bad created time %q: %w", created, err)
		}
		img.Created = t.UTC()
	}
	for _, d := range doc.Get("RepoDigests").Array() {
		img.RepoDigests = append(img.RepoDigests, d.String())
	}
	for _, t := range doc.Get("RepoTags").Array() {
		img.RepoTags = append(img.RepoTags, t.String())
	}
	if img.Digest == "" {
		img.Digest = digestOf(img.RepoDigests)
	}
	return img, nil
}

func digestOf(repoDigests []string) string {
	for _, d := range repoDigests {
		if _, digest, ok := strings.Cut(d, "@"); ok {
			return digest
		}
	}
	return ""
}

// Listings runs the inventory script in a throwaway container of ref.
func (e *Engine) Listings(ctx context.Context, ref string) (rpm, python, galaxy inventory.Raw, err error) {
	out, err := e.run(ctx, e.timeouts.Run, nil,
		"run", "--rm", "--entrypoint", "bash", ref, "-c", InventoryScript)
	if err != nil {
		return rpm, python, galaxy, fmt.Errorf("inventory of %s failed: %w", ref, err)
	}
	rpm, python, galaxy = SplitSections(string(out))
	return rpm, python, galaxy, nil
}

// ExportCollections copies the collection metadata below roots out of ref
// into dir.
func (e *Engine) ExportCollections(ctx context.Context, ref string, roots []string, dir string) error {
	if len(roots) == 0 {
		return nil
	}
	out, err := e.run(ctx, e.timeouts.Run, nil,
		"run", "--rm", "--entrypoint", "bash", ref, "-c", ExportScript(roots))
	if err != nil {
		return fmt.Errorf("collection export of %s failed: %w", ref, err)
	}
	n, err := Extract(bytes.NewReader(out), dir)
	if err != nil {
		return err
	}
	log.Debugf("%s: extracted %d collection metadata files", ref, n)
	return nil
}

// Remove deletes ref from local storage. Failures are logged only.
func (e *Engine) Remove(ctx context.Context, ref string) {
	if _, err := e.run(ctx, e.timeouts.Inspect, nil, "rmi", "--force", ref); err != nil {
		apex.WithError(err).Warnf("could not remove %s", ref)
	}
}

// Capture is everything acquired from one image.
type Capture struct {
	Reference string
	Image     inventory.Image
	Listings  inventory.Listings

	dir string
}

// Close removes the extracted collection metadata.
func (c *Capture) Close() error {
	if c == nil || c.dir == "" {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// CaptureOptions tune Capture.
type CaptureOptions struct {
	ScanRoots []string
	KeepImage bool
	// SkipPull uses an image already present in local storage.
	SkipPull bool
}

// Capture pulls ref, inspects it, runs the inventory script and exports the
// collection metadata. The image is removed afterwards unless KeepImage is
// set. The caller must Close the result.
func (e *Engine) Capture(ctx context.Context, ref string, opts CaptureOptions) (_ *Capture, err error) {
	if !opts.SkipPull {
		if err := e.Pull(ctx, ref); err != nil {
			return nil, err
		}
	}
	if !opts.KeepImage {
		defer e.Remove(context.WithoutCancel(ctx), ref)
	}

	c := &Capture{Reference: ref}
	c.Image, err = e.Inspect(ctx, ref)
	if err != nil {
		// Missing metadata does not invalidate the listings.
		apex.WithError(err).Warnf("%s: no image metadata", ref)
	}

	rpm, python, galaxy, err := e.Listings(ctx, ref)
	if err != nil {
		return nil, err
	}
	c.Listings = inventory.Listings{RPM: rpm, Python: python, Galaxy: galaxy}

	if len(opts.ScanRoots) > 0 {
		c.dir, err = os.MkdirTemp("", "eectl-collections-")
		if err != nil {
			return nil, err
		}
		if err := e.ExportCollections(ctx, ref, opts.ScanRoots, c.dir); err != nil {
			_ = c.Close()
			return nil, err
		}
		c.Listings.Collections = os.DirFS(c.dir)
	}

	return c, nil
}
