// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// binoutls opens a binout archive and dumps its directory tree, the way
// the teacher's dumpfs.go walks and prints an fs.FS.
package main

import (
	"fmt"
	"os"

	"github.com/binout-go/binout"
)

func dumpTree(a *binout.Archive, path string) {
	kind, names, ok := a.Children(path)
	if !ok {
		return
	}
	if kind == binout.ChildrenOfLeaf {
		fmt.Printf("%s  type=%s\n", path, a.TypeIDOf(path))
		return
	}

	if path == "/" {
		fmt.Println("/")
	} else {
		fmt.Printf("%s/\n", path)
	}
	for _, name := range names {
		child := path + "/" + name
		if path == "/" {
			child = "/" + name
		}
		dumpTree(a, child)
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <shard-glob-pattern>\n", os.Args[0])
		os.Exit(2)
	}

	a, err := binout.Open(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer a.Close()

	if openErr := a.OpenError(); openErr != "" {
		fmt.Fprintln(os.Stderr, openErr)
	}

	dumpTree(a, "/")
}
