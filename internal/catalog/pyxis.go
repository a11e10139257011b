// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/eectl/eectl/internal/cacheutil"
	"github.com/eectl/eectl/internal/log"
	"github.com/eectl/eectl/internal/version"
)

// DefaultPyxisURL is the public catalog API.
const DefaultPyxisURL = "https://catalog.redhat.com/api/containers/v1"

// DefaultPageSize is the number of images requested per page.
const DefaultPageSize = 500

// Tag is one catalog tag. Created is the newest creation date of the images
// carrying it.
type Tag struct {
	Name    string    `json:"name" yaml:"name"`
	Created time.Time `json:"created,omitempty" yaml:"created,omitempty"`
	Digest  string    `json:"digest,omitempty" yaml:"digest,omitempty"`
}

// Pyxis is a catalog client.
type Pyxis struct {
	BaseURL  string
	Client   *http.Client
	PageSize int

	// CacheTTL enables the on-disk page cache when positive.
	CacheTTL time.Duration
}

// NewPyxis returns a client for baseURL, or the public catalog when empty.
func NewPyxis(baseURL string) *Pyxis {
	if baseURL == "" {
		baseURL = DefaultPyxisURL
	}
	return &Pyxis{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Client:   &http.Client{Timeout: 60 * time.Second},
		PageSize: DefaultPageSize,
	}
}

// SplitRepo maps a pull registry and repository onto the registry and path
// the catalog indexes. Images pulled from registry.redhat.io are published
// under registry.access.redhat.com.
func SplitRepo(registry, repo string) (string, string) {
	catalogRegistry := registry
	if strings.HasSuffix(registry, "redhat.io") {
		catalogRegistry = "registry.access.redhat.com"
	}
	path := strings.TrimPrefix(repo, registry+"/")
	path = strings.TrimPrefix(path, catalogRegistry+"/")
	return catalogRegistry, path
}

// Tags lists every tag of repo, sorted by name.
func (p *Pyxis) Tags(ctx context.Context, registry, repo string) ([]Tag, error) {
	catalogRegistry, path := SplitRepo(registry, repo)
	if path == "" {
		return nil, fmt.Errorf("no repository path in %q", repo)
	}

	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	tags := map[string]Tag{}
	for page, seen := 0, 0; ; page++ {
		u := fmt.Sprintf("%s/repositories/registry/%s/repository/%s/images?page_size=%d&page=%d",
			p.BaseURL, url.PathEscape(catalogRegistry), path, pageSize, page)
		body, err := p.get(ctx, u)
		if err != nil {
			return nil, err
		}
		if !gjson.ValidBytes(body) {
			return nil, fmt.Errorf("invalid JSON from catalog for %s", u)
		}

		doc := gjson.ParseBytes(body)
		images := doc.Get("data").Array()
		for _, im := range images {
			mergeImageTags(tags, im)
		}
		seen += len(images)

		total := int(doc.Get("total").Int())
		log.Debugf("catalog page %d: %d images, %d/%d", page, len(images), seen, total)
		if len(images) == 0 || len(images) < pageSize || (total > 0 && seen >= total) {
			break
		}
	}

	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func mergeImageTags(tags map[string]Tag, im gjson.Result) {
	created, _ := time.Parse(time.RFC3339Nano, im.Get("creation_date").String())
	digest := im.Get("image_id").String()

	for _, repo := range im.Get("repositories").Array() {
		for _, t := range repo.Get("tags").Array() {
			name := strings.TrimSpace(t.Get("name").String())
			if name == "" {
				continue
			}
			cur, ok := tags[name]
			if !ok || created.After(cur.Created) {
				tags[name] = Tag{Name: name, Created: created.UTC(), Digest: digest}
			}
		}
	}
}

// get fetches u, serving it from the cache when a fresh copy exists.
func (p *Pyxis) get(ctx context.Context, u string) ([]byte, error) {
	subdirs := []string{"pyxis"}
	if p.CacheTTL > 0 {
		if e, ok := cacheutil.Read(subdirs, u, p.CacheTTL); ok {
			return e.Data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned %s for %s", resp.Status, u)
	}

	if p.CacheTTL > 0 {
		if err := cacheutil.Write(subdirs, u, body); err != nil {
			log.WithError(err).Warn("failed to cache catalog page")
		}
	}
	return body, nil
}
