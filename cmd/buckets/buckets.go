// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// buckets prints the branch length percentile values indelmsa uses to
// discretise a tree's branch lengths into scoring categories.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kortschak/indelmsa/phylo"
)

var (
	treeFile = flag.String("tree-file", "", "input newick tree file name (required)")
	cats     = flag.Int("categories", 4, "number of percentile categories")
)

func main() {
	flag.Parse()
	if *treeFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	f, err := os.Open(*treeFile)
	if err != nil {
		log.Fatalf("failed to open tree file: %v", err)
	}
	defer f.Close()
	t, err := phylo.ReadNewick(f, nil)
	if err != nil {
		log.Fatalf("failed to read tree: %v", err)
	}

	for _, v := range phylo.Percentiles(t.BranchLengths(), *cats) {
		fmt.Println(v)
	}
}
