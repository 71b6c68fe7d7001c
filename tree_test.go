// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package binout

import "testing"

func TestInsertFolderCreatesIntermediateFolders(t *testing.T) {
	tree := newDirectoryTree()
	f := tree.insertFolder("/a/b/c")
	if f.name != "c" {
		t.Fatalf("deepest folder name = %q, want c", f.name)
	}

	kind, names, ok := tree.getChildren("/a/b")
	if !ok || kind != ChildrenOfFolder || len(names) != 1 || names[0] != "c" {
		t.Fatalf("getChildren(/a/b) = (%v, %v, %v)", kind, names, ok)
	}
}

func TestInsertFolderIsIdempotent(t *testing.T) {
	tree := newDirectoryTree()
	a := tree.insertFolder("/a")
	b := tree.insertFolder("/a")
	if a != b {
		t.Fatal("insertFolder should return the same folder on repeat calls")
	}
}

func TestInsertLeafLastWriteWins(t *testing.T) {
	tree := newDirectoryTree()
	f := tree.insertFolder("/a")
	tree.insertLeaf(f, "x", TypeInt8, 1, 0, 10)
	tree.insertLeaf(f, "x", TypeFloat64, 8, 0, 20)

	leaf, ok := tree.getLeaf("/a/x")
	if !ok {
		t.Fatal("expected /a/x to resolve")
	}
	if leaf.Type != TypeFloat64 || leaf.FilePos != 20 {
		t.Fatalf("leaf = %+v, want the second insert to win", leaf)
	}
}

func TestResolveLeafOnlyAtFinalSegment(t *testing.T) {
	tree := newDirectoryTree()
	f := tree.insertFolder("/a")
	tree.insertLeaf(f, "x", TypeInt8, 1, 0, 0)

	if _, ok := tree.getLeaf("/a/x/extra"); ok {
		t.Fatal("a path continuing past a leaf must not resolve")
	}

	kind, _, ok := tree.getChildren("/a/x/extra")
	if ok {
		t.Fatalf("getChildren should report not-found, got kind=%v", kind)
	}
}

func TestGetChildrenOfLeaf(t *testing.T) {
	tree := newDirectoryTree()
	f := tree.insertFolder("/a")
	tree.insertLeaf(f, "x", TypeInt8, 1, 0, 0)

	kind, names, ok := tree.getChildren("/a/x")
	if !ok || kind != ChildrenOfLeaf || len(names) != 1 || names[0] != "x" {
		t.Fatalf("getChildren(/a/x) = (%v, %v, %v)", kind, names, ok)
	}
}

func TestGetChildrenMissingPath(t *testing.T) {
	tree := newDirectoryTree()
	tree.insertFolder("/a")

	if _, _, ok := tree.getChildren("/nope"); ok {
		t.Fatal("expected a missing path to report not-found")
	}
}

func TestFolderNamesOnlyListsChildFolders(t *testing.T) {
	tree := newDirectoryTree()
	f := tree.insertFolder("/a")
	tree.insertFolder("/a/d000001")
	tree.insertLeaf(f, "metadata-leaf", TypeInt8, 1, 0, 0)

	names, ok := tree.folderNames("/a")
	if !ok || len(names) != 1 || names[0] != "d000001" {
		t.Fatalf("folderNames(/a) = (%v, %v)", names, ok)
	}
}

func TestFolderNamesOnLeafPath(t *testing.T) {
	tree := newDirectoryTree()
	f := tree.insertFolder("/a")
	tree.insertLeaf(f, "x", TypeInt8, 1, 0, 0)

	if _, ok := tree.folderNames("/a/x"); ok {
		t.Fatal("folderNames on a leaf path should report not-found")
	}
}
