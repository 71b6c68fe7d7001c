// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package binout

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// shardError is one physical shard's open/parse failure, accumulated on
// the Archive without aborting the rest of the open (spec.md §4.3, §4.7).
// Its textual form is produced solely by joinShardErrors, which already
// has the shard name on hand; shardError itself carries no Error() method
// so that surface can't regress to a doubly-prefixed "<shard>: <shard>: <msg>".
type shardError struct {
	shard string
	err   error
}

// addShardError wraps err with the failing shard's name using
// cockroachdb/errors (already pulled in transitively via pebble, see
// DESIGN.md) so the per-shard cause remains inspectable with errors.Is/As,
// while the textual form stays "<filename>: <message>" as spec.md
// requires.
func addShardError(errs []shardError, shard string, err error) []shardError {
	return append(errs, shardError{shard: shard, err: errors.Wrap(err, shard)})
}

// joinShardErrors concatenates every accumulated shard error into one
// newline-separated multi-line string, visiting each entry exactly once.
//
// Resolves spec.md §9 open question (a): the original C implementation's
// aggregator reads bin_file->file_errors[num_file_errors - 1] on every
// iteration (always the last entry) instead of file_errors[i]; that is
// preserved-intent-not-behavior here, iterating the slice directly.
func joinShardErrors(errs []shardError) string {
	if len(errs) == 0 {
		return ""
	}
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.shard + ": " + errors.Cause(e.err).Error()
	}
	return strings.Join(lines, "\n")
}

// readError reports why a typed read failed, matching spec.md §4.5's
// textual contract exactly for type mismatches.
type readError struct {
	msg string
}

func (e *readError) Error() string { return e.msg }

func typeMismatchError(stored, requested TypeID) error {
	return &readError{msg: "The data is of type " + stored.String() + " instead of " + requested.String()}
}

func newReadError(msg string) error {
	return &readError{msg: msg}
}
