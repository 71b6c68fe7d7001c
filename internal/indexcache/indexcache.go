// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package indexcache memoizes the directory contribution a shard's record
// stream parses into, keyed on facts about the shard file that are cheap to
// recheck: its path, size, modification time, and a fingerprint of its
// first fingerprintSize bytes. Re-opening an archive whose shards have not changed since
// the last Open skips re-walking their record streams entirely.
//
// Grounded on internal/decompressioncache's checkpoint-keyed blob cache
// (expensive re-derivation memoized behind a cheap identity check); this
// cache persists to disk instead of memory because an archive reopened in
// a later process run should still benefit.
package indexcache

import (
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/pebble/v2"
)

// fingerprintSize is how many leading bytes of a shard feed the cache key's
// xxhash fingerprint: enough to span the fixed header plus a handful of
// records, small enough that computing it does not itself defeat the
// point of caching.
const fingerprintSize = 4096

// Entry is one leaf's directory contribution, independent of which shard
// instance or file index it was parsed from; the binout package's
// Archive.applySnapshot re-homes it onto the file index of the shard
// currently being opened.
type Entry struct {
	FolderPath string
	Name       string
	Type       uint8
	Size       int64
	FilePos    int64
}

// Snapshot is a whole shard's parsed directory contribution, keyed
// separately from any particular Archive's file-index assignment.
type Snapshot struct {
	Entries []Entry
}

// Cache is a pebble-backed key-value store of Snapshots.
type Cache struct {
	db *pebble.DB
}

// Open opens (creating if necessary) the on-disk cache rooted at dir.
func Open(dir string) (*Cache, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// key identifies a shard's content well enough that a hit can be trusted
// without re-reading the whole file: its path, size, mtime, and an xxhash
// fingerprint of its first fingerprintSize bytes.
func shardKey(name string, size, mtimeUnixNano int64, fp uint64) []byte {
	return []byte(name + "\x00" +
		strconv.FormatInt(size, 36) + "\x00" +
		strconv.FormatInt(mtimeUnixNano, 36) + "\x00" +
		strconv.FormatUint(fp, 36))
}

func identity(name string, f *os.File) (key []byte, err error) {
	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, fingerprintSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	fp := xxhash.Sum64(buf[:n])
	return shardKey(name, st.Size(), st.ModTime().UnixNano(), fp), nil
}

// Lookup returns the cached snapshot for the shard backed by f, or
// (nil, nil) on a clean miss. f's read position is restored to the start.
func (c *Cache) Lookup(name string, f *os.File) (*Snapshot, error) {
	key, err := identity(name, f)
	if err != nil {
		return nil, err
	}

	raw, closer, err := c.db.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	defer closer.Close()

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, nil // a corrupt entry is a miss, not a fatal error
	}
	return &snap, nil
}

// Store records snap as the directory contribution of the shard backed by
// f, under its current identity.
func (c *Cache) Store(name string, f *os.File, snap *Snapshot) error {
	key, err := identity(name, f)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.db.Set(key, raw, pebble.Sync)
}
