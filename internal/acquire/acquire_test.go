// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package acquire

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eectl/eectl/internal/inventory"
)

const scriptOutput = `some banner
===RPM START===
bash|(none)|5.1.8|6.el9|x86_64
===RPM END===
===PIP START===
[{"name": "ansible-core", "version": "2.15.3"}]

===PIP END===
===GALAXY START===
{}

===GALAXY END===
`

const inspectOutput = `{"Id":"abc","Digest":"sha256:1111","RepoTags":["registry.example.com/ee:2.5"],"RepoDigests":["registry.example.com/ee@sha256:2222"],"Created":"2024-05-01T10:20:30.123456789Z","Architecture":"amd64","Size":1234567}`

type call struct {
	args  []string
	stdin string
}

type fakeRunner struct {
	mu      sync.Mutex
	calls   []call
	outputs map[string][]byte
	errs    map[string]error
}

func (f *fakeRunner) Binary() string { return "podman" }

func (f *fakeRunner) Run(_ context.Context, stdin io.Reader, args ...string) ([]byte, error) {
	c := call{args: args}
	if stdin != nil {
		b, _ := io.ReadAll(stdin)
		c.stdin = string(b)
	}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	key := args[0]
	if key == "run" {
		key = "run:" + args[len(args)-1][:10]
	}
	return f.outputs[key], f.errs[key]
}

func (f *fakeRunner) verbs() []string {
	var out []string
	for _, c := range f.calls {
		out = append(out, c.args[0])
	}
	return out
}

func tarOf(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "etc/link", Typeflag: tar.TypeSymlink, Linkname: "/etc/passwd"}))
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func newFake(t *testing.T) *fakeRunner {
	root := "usr/share/ansible/collections/ansible_collections"
	f := &fakeRunner{outputs: map[string][]byte{}, errs: map[string]error{}}
	f.outputs["image"] = []byte(inspectOutput)
	f.outputs["run:"+InventoryScript[:10]] = []byte(scriptOutput)
	f.outputs["run:"+ExportScript([]string{root})[:10]] = tarOf(t, map[string]string{
		root + "/ansible/posix/MANIFEST.json": `{"collection_info": {"version": "1.5.4"}}`,
		"../escape/MANIFEST.json":             `{}`,
	})
	return f
}

func TestSplitSections(t *testing.T) {
	rpm, python, galaxy := SplitSections(scriptOutput)
	assert.Equal(t, inventory.Present("bash|(none)|5.1.8|6.el9|x86_64"), rpm)
	assert.Equal(t, `[{"name": "ansible-core", "version": "2.15.3"}]`, python.Data)
	assert.Equal(t, inventory.Present("{}"), galaxy)

	rpm, python, galaxy = SplitSections("===RPM START===\n===RPM END===\n===PIP START===\nno end")
	assert.True(t, rpm.Present)
	assert.Empty(t, rpm.Data)
	assert.False(t, python.Present)
	assert.False(t, galaxy.Present)
}

// runInventoryScript runs the real script under bash with a stub rpm first on
// PATH.
func runInventoryScript(t *testing.T, rpmStub string) string {
	t.Helper()
	bash, err := exec.LookPath("bash")
	if err != nil {
		t.Skip("bash not available")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rpm"), []byte("#!/bin/sh\n"+rpmStub+"\n"), 0o755))

	cmd := exec.Command(bash, "-c", InventoryScript)
	cmd.Env = append(os.Environ(), "PATH="+dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func TestInventoryScriptRPM(t *testing.T) {
	t.Run("sorted listing", func(t *testing.T) {
		out := runInventoryScript(t, `printf 'zlib|0|1.2.11|40.el9|x86_64\nbash|0|5.1.8|6.el9|x86_64\n'`)
		rpm, _, galaxy := SplitSections(out)
		assert.Equal(t, inventory.Present("bash|0|5.1.8|6.el9|x86_64\nzlib|0|1.2.11|40.el9|x86_64"), rpm)
		assert.True(t, galaxy.Present)
	})

	t.Run("failing query is absent", func(t *testing.T) {
		out := runInventoryScript(t, `echo "rpmdb open failed" >&2; exit 1`)
		rpm, python, galaxy := SplitSections(out)
		assert.False(t, rpm.Present)
		assert.True(t, python.Present)
		assert.True(t, galaxy.Present)

		run, err := inventory.NewRun(inventory.Options{})
		require.NoError(t, err)
		_, err = run.BuildSnapshot("2.5", "ee:2.5", inventory.Image{}, inventory.Listings{RPM: rpm, Python: python, Galaxy: galaxy})
		var pe *inventory.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, inventory.CategoryRPM, pe.Category)
		assert.ErrorIs(t, err, inventory.ErrAbsent)
	})
}

func TestParseInspect(t *testing.T) {
	img, err := ParseInspect([]byte(inspectOutput))
	require.NoError(t, err)
	assert.Equal(t, "sha256:1111", img.Digest)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 20, 30, 123456789, time.UTC), img.Created)
	assert.Equal(t, []string{"registry.example.com/ee:2.5"}, img.RepoTags)
	assert.Equal(t, int64(1234567), img.Size)

	img, err = ParseInspect([]byte(`[{"RepoDigests":["r/ee@sha256:2222"]}]`))
	require.NoError(t, err)
	assert.Equal(t, "sha256:2222", img.Digest)

	_, err = ParseInspect([]byte(`"x"`))
	assert.Error(t, err)
}

func TestCapture(t *testing.T) {
	f := newFake(t)
	e := NewEngine(f, Timeouts{})

	c, err := e.Capture(context.Background(), "registry.example.com/ee:2.5", CaptureOptions{
		ScanRoots: []string{"/usr/share/ansible/collections/ansible_collections"},
	})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, []string{"pull", "image", "run", "run", "rmi"}, f.verbs())
	assert.Equal(t, "sha256:1111", c.Image.Digest)

	data, err := fs.ReadFile(c.Listings.Collections, "usr/share/ansible/collections/ansible_collections/ansible/posix/MANIFEST.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), "1.5.4")

	run, err := inventory.NewRun(inventory.Options{ScanRoots: []string{"usr/share/ansible/collections/ansible_collections"}})
	require.NoError(t, err)
	s, err := run.BuildSnapshot("2.5", c.Reference, c.Image, c.Listings)
	require.NoError(t, err)
	r, ok := s.Lookup(inventory.CategoryCollection, "ansible.posix")
	require.True(t, ok)
	assert.Equal(t, inventory.ProvenanceFilesystem, r.Provenance)

	require.NoError(t, c.Close())
	_, err = fs.ReadFile(c.Listings.Collections, "usr/share/ansible/collections/ansible_collections/ansible/posix/MANIFEST.json")
	assert.Error(t, err)
}

func TestCaptureKeepsImageAndSurvivesInspectFailure(t *testing.T) {
	f := newFake(t)
	f.errs["image"] = errors.New("no such image")
	e := NewEngine(f, Timeouts{})

	c, err := e.Capture(context.Background(), "ee:1", CaptureOptions{KeepImage: true, SkipPull: true})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, []string{"image", "run"}, f.verbs())
	assert.Nil(t, c.Listings.Collections)
	assert.True(t, c.Listings.RPM.Present)
}

func TestCaptureFailures(t *testing.T) {
	f := newFake(t)
	f.errs["pull"] = errors.New("denied")
	_, err := NewEngine(f, Timeouts{}).Capture(context.Background(), "ee:1", CaptureOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pull ee:1")
	assert.Equal(t, []string{"pull"}, f.verbs())

	f = newFake(t)
	f.errs["run:"+InventoryScript[:10]] = errors.New("exit 125")
	_, err = NewEngine(f, Timeouts{}).Capture(context.Background(), "ee:1", CaptureOptions{})
	require.Error(t, err)
	assert.Equal(t, "rmi", f.verbs()[len(f.verbs())-1], "image removed after a failed run")
}

func TestLoginUsesStdin(t *testing.T) {
	f := newFake(t)
	require.NoError(t, NewEngine(f, Timeouts{}).Login(context.Background(), "registry.example.com", "me", "s3cret"))
	require.Len(t, f.calls, 1)
	assert.Equal(t, "s3cret", f.calls[0].stdin)
	assert.NotContains(t, strings.Join(f.calls[0].args, " "), "s3cret")
}

func TestExtractSkipsUnsafeEntries(t *testing.T) {
	dir := t.TempDir()
	n, err := Extract(bytes.NewReader(tarOf(t, map[string]string{"a/b/galaxy.yml": "version: 1\n", "../../x": "y"})), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = Extract(bytes.NewReader(nil), dir)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDetectBinary(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()

	lookPath = func(name string) (string, error) {
		if name == "docker" {
			return "/usr/bin/docker", nil
		}
		return "", exec.ErrNotFound
	}
	b, err := DetectBinary("")
	require.NoError(t, err)
	assert.Equal(t, "docker", b)

	_, err = DetectBinary("podman")
	assert.Error(t, err)
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "podman login r --password ****", redact([]string{"podman", "login", "r", "--password", "x"}))
}
