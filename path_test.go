// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package binout

import (
	"strings"
	"testing"
)

// TestPathViewRoundTrip is spec.md §8 property 4: advancing a pathView
// over a valid absolute path collects the same segments as splitting on
// "/", including the leading empty element that represents the root.
func TestPathViewRoundTrip(t *testing.T) {
	cases := []string{"/a/b/c", "/", "/a", "/a/b/"}
	for _, s := range cases {
		t.Run(s, func(t *testing.T) {
			var got []string
			v := newPathView(s)
			for v.advance() {
				got = append(got, v.segment())
			}

			// pathView's first segment is the leading empty element
			// representing root, same as strings.Split's.
			want := strings.Split(s, "/")
			if len(got) != len(want) {
				t.Fatalf("segments = %q, want %q", got, want)
			}
			for i := range got {
				if got[i] != want[i] {
					t.Errorf("segment %d = %q, want %q", i, got[i], want[i])
				}
			}
		})
	}
}

func TestIsAbsolutePath(t *testing.T) {
	if !isAbsolutePath("/a/b") {
		t.Error("expected /a/b to be absolute")
	}
	if isAbsolutePath("a/b") {
		t.Error("expected a/b to be relative")
	}
	if isAbsolutePath("") {
		t.Error("expected \"\" to be relative")
	}
}

func TestPathBufferJoinRelative(t *testing.T) {
	b := newPathBuffer()
	if err := b.setAbsolute("/a/b"); err != nil {
		t.Fatal(err)
	}
	if err := b.joinRelative("../c"); err != nil {
		t.Fatal(err)
	}
	if got := b.String(); got != "/a/c" {
		t.Fatalf("got %q, want /a/c", got)
	}
}

func TestPathBufferNeverPopsPastRoot(t *testing.T) {
	b := newPathBuffer()
	if err := b.joinRelative("../../.."); err != nil {
		t.Fatal(err)
	}
	if got := b.String(); got != "/" {
		t.Fatalf("got %q, want /", got)
	}
}

func TestPathBufferDotAndEmptySegmentsSkipped(t *testing.T) {
	b := newPathBuffer()
	if err := b.setAbsolute("/a"); err != nil {
		t.Fatal(err)
	}
	if err := b.joinRelative("./b//./c"); err != nil {
		t.Fatal(err)
	}
	if got := b.String(); got != "/a/b/c" {
		t.Fatalf("got %q, want /a/b/c", got)
	}
}

func TestPathBufferSetAbsoluteReplacesWholesale(t *testing.T) {
	b := newPathBuffer()
	if err := b.setAbsolute("/a/b/c"); err != nil {
		t.Fatal(err)
	}
	if err := b.setAbsolute("/x"); err != nil {
		t.Fatal(err)
	}
	if got := b.String(); got != "/x" {
		t.Fatalf("got %q, want /x", got)
	}
}

func TestPathBufferRejectsOversizePath(t *testing.T) {
	b := newPathBuffer()
	long := "/" + strings.Repeat("a", maxPathLength)
	if err := b.setAbsolute(long); err == nil {
		t.Fatal("expected an error for an oversize path")
	}
}
