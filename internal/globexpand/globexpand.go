// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package globexpand expands an on-disk glob pattern into the list of
// shard files that make up a binout archive.
package globexpand

import "github.com/bmatcuk/doublestar/v4"

// Default expands pattern against the real filesystem with
// github.com/bmatcuk/doublestar/v4, the same matcher the teacher's
// path.go glob() method uses (there, over an in-memory virtual tree; here,
// directly over the OS filesystem since a binout archive's shards are
// always plain files next to each other).
type Default struct{}

// Expand returns every OS path matching pattern, in no guaranteed order;
// the caller sorts the result. An archive made of a single shard with
// no wildcard in its name ("foo.bin0000") is itself a valid one-element
// match for Expand's contract.
func (Default) Expand(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern)
}
