// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package binout reads binout result archives: a family of
// variable-length-record databases produced by an explicit finite-element
// solver. An archive is one or more physical shard files ("foo.bin0000",
// "foo.bin0001", ...) that together describe a single hierarchical
// directory of typed numeric arrays.
//
// Opening an archive parses every shard's record stream into an in-memory
// directory tree but does not read any variable's payload bytes; reading a
// variable seeks into the owning shard and materializes only that array.
package binout
