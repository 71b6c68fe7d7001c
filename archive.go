// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package binout

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/binout-go/binout/internal/globexpand"
	"github.com/binout-go/binout/internal/indexcache"
)

// Globber expands a user-supplied shard pattern into the list of physical
// files that make up an archive; Open sorts the result itself. Spec.md §1 treats glob
// expansion as an external collaborator; this interface is the seam.
type Globber interface {
	Expand(pattern string) ([]string, error)
}

// Archive is an open binout database: a read-only directory tree built
// from one or more physical shard files, plus the open shard handles the
// typed reader seeks into.
//
// Grounded on fs.go's Wrapper (accumulate per-path errors without
// aborting the rest of the mount) and on spec.md §5: single-threaded,
// cooperative, no internal synchronization.
type Archive struct {
	tree       *directoryTree
	shards     []*os.File
	shardNames []string
	openErrs   []shardError
	readErr    error
	cache      *indexcache.Cache
}

// OpenOption configures Open.
type OpenOption func(*openConfig)

type openConfig struct {
	globber Globber
	cache   *indexcache.Cache
}

// WithGlobber overrides the default doublestar-based glob expansion.
func WithGlobber(g Globber) OpenOption {
	return func(c *openConfig) { c.globber = g }
}

// WithIndexCache enables the optional pebble-backed index cache at dir,
// memoizing the parse of unchanged shards across Open calls (SPEC_FULL.md
// §2b item 13). It never changes what Open returns, only how fast repeat
// opens of unchanged shards are.
func WithIndexCache(dir string) OpenOption {
	return func(c *openConfig) {
		cache, err := indexcache.Open(dir)
		if err != nil {
			slog.Warn("indexCacheUnavailable", "dir", dir, "err", err)
			return
		}
		c.cache = cache
	}
}

// Open expands pattern into a sorted list of physical shard files, opens
// each, and parses every record stream into one shared directory tree.
// Per-shard failures (open or parse) do not abort the archive: they are
// recorded and retrievable via OpenError. Open returns an error only when
// glob expansion fails; an archive in which no shard matched, opened or
// parsed is still returned, with an empty directory tree.
func Open(pattern string, opts ...OpenOption) (*Archive, error) {
	cfg := openConfig{globber: globexpand.Default{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	names, err := cfg.globber.Expand(pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding glob %q: %w", pattern, err)
	}
	sort.Strings(names)

	a := &Archive{
		tree:  newDirectoryTree(),
		cache: cfg.cache,
	}

	type slot struct {
		name string
		f    *os.File
		fail bool
	}
	slots := make([]slot, len(names))

	for i, name := range names {
		slots[i].name = name
		f, err := os.Open(name)
		if err != nil {
			a.openErrs = addShardError(a.openErrs, name, err)
			slog.Warn("shardOpenFailed", "shard", name, "err", err)
			slots[i].fail = true
			continue
		}
		slots[i].f = f
	}

	// Resolves spec.md §9 open question (b): rather than allocating a
	// file index to every shard up front and later compacting the table
	// (which, done naively, strands leaf.FileIndex values pointing past
	// the new end, the bug the original C implementation has), each
	// shard is assigned index len(a.shards) - the count of shards that
	// have *already* opened and parsed successfully - at the moment it
	// is attempted. A failing shard is never assigned a slot, so every
	// leaf a successful parse inserts already carries its final,
	// compacted FileIndex; no later remapping pass is needed.
	for i := range slots {
		if slots[i].fail {
			continue
		}
		if err := a.parseShard(slots[i].name, slots[i].f, len(a.shards)); err != nil {
			a.openErrs = addShardError(a.openErrs, slots[i].name, err)
			slog.Warn("shardParseFailed", "shard", slots[i].name, "err", err)
			slots[i].f.Close()
			slots[i].fail = true
			continue
		}
		a.shards = append(a.shards, slots[i].f)
		a.shardNames = append(a.shardNames, slots[i].name)
	}

	return a, nil
}

// parseShard drives the stream parser over one already-open shard and
// records its directory contributions into a.tree at fileIndex.
func (a *Archive) parseShard(name string, f *os.File, fileIndex int) error {
	if a.cache != nil {
		if hit, err := a.cache.Lookup(name, f); err == nil && hit != nil {
			a.applySnapshot(hit, fileIndex)
			return nil
		}
	}

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("failed to get the file size: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to get the file size: %w", err)
	}

	p := newShardParser(f, size, fileIndex, a.tree)
	if err := p.parse(); err != nil {
		return err
	}

	if a.cache != nil {
		if err := a.cache.Store(name, f, p.snapshot()); err != nil {
			slog.Warn("indexCacheStoreFailed", "shard", name, "err", err)
		}
	}
	return nil
}

// applySnapshot re-homes a cached shard snapshot onto the archive's tree,
// assigning every one of its leaves the file index of the shard instance
// now being opened.
func (a *Archive) applySnapshot(snap *indexcache.Snapshot, fileIndex int) {
	for _, e := range snap.Entries {
		f := a.tree.insertFolder(e.FolderPath)
		a.tree.insertLeaf(f, e.Name, TypeID(e.Type), e.Size, fileIndex, e.FilePos)
	}
}

// Close releases every open shard handle and the optional index cache.
// Safe to call once; resources are released deterministically (spec.md §5).
func (a *Archive) Close() error {
	var firstErr error
	for _, f := range a.shards {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.shards = nil
	if a.cache != nil {
		if err := a.cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		a.cache = nil
	}
	return firstErr
}

// OpenError returns every accumulated per-shard open/parse error as a
// multi-line string, one line per failing shard, or "" if every shard
// that the glob matched opened and parsed cleanly.
func (a *Archive) OpenError() string {
	return joinShardErrors(a.openErrs)
}

// ReadError returns the error from the most recent typed read, or nil if
// that read succeeded. It is cleared at the start of every Read call
// (spec.md §4.7).
func (a *Archive) ReadError() error {
	return a.readErr
}

func (a *Archive) setReadError(err error) {
	a.readErr = err
}
