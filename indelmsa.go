// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// indelmsa computes a multiple sequence alignment of DNA or protein
// sequences guided by a rooted binary phylogenetic tree. Alignment is by
// indel-aware parsimony: each internal node's child profiles are aligned
// with affine gap costs derived from a substitution model at the child
// branch lengths, gaps opened below a node are never charged again above
// it, and the per-node pairwise alignments are composed into a gap-padded
// MSA over the input sequences.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/evolbioinfo/goalign/align"
	"github.com/evolbioinfo/goalign/io/phylip"
	"gonum.org/v1/gonum/floats"

	"github.com/kortschak/indelmsa/msa"
	"github.com/kortschak/indelmsa/parsimony"
	"github.com/kortschak/indelmsa/phylo"
	"github.com/kortschak/indelmsa/subst"
)

// floatList is a comma separated list of floats for flag parsing.
type floatList []float64

func (f *floatList) Set(s string) error {
	*f = (*f)[:0]
	if s == "" {
		return nil
	}
	for _, field := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return fmt.Errorf("invalid fields: %v", err)
		}
		*f = append(*f, v)
	}
	return nil
}

func (f *floatList) String() string {
	s := make([]string, len(*f))
	for i, v := range *f {
		s[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(s, ",")
}

var (
	seqFile  = flag.String("seq-file", "", "input fasta sequence file name (required)")
	treeFile = flag.String("tree-file", "", "input newick tree file name (required)")
	outFile  = flag.String("output-msa-file", "msa.fasta", "output MSA file name")
	model    = flag.String("model", "", `substitution model (required)
    	JC69, K80, HKY, TN93 and GTR for nucleotide data
    	and BLOSUM for protein data`,
	)
	gapOpen = flag.Float64("g", 2.5, "gap opening cost multiplier")
	gapExt  = flag.Float64("e", 0.5, "gap extension cost multiplier")
	cats    = flag.Int("categories", 4, "number of percentile categories for branch length approximation")
	format  = flag.String("format", "fasta", "output format: fasta or phylip")

	errFile = flag.String("err", "", "log file name (default to stderr)")

	modelParams floatList
)

func main() {
	flag.Var(&modelParams, "model-params", "comma separated model parameters in model specific order")
	flag.Parse()
	if *seqFile == "" || *treeFile == "" || *model == "" {
		fmt.Fprintln(os.Stderr, "invalid argument: must have sequence file, tree file and model set")
		flag.Usage()
		os.Exit(1)
	}

	if *errFile != "" {
		w, err := os.Create(*errFile)
		if err != nil {
			// Oh, the irony.
			log.Fatalf("failed to create log file: %v", err)
		}
		defer w.Close()
		log.SetOutput(w)
	}

	seqs, err := readSequences(*seqFile)
	if err != nil {
		log.Fatalf("failed to read sequences: %v", err)
	}
	log.Printf("read %d sequences from %q", len(seqs), *seqFile)

	raw := make([][]byte, len(seqs))
	ids := make([]string, len(seqs))
	for i, s := range seqs {
		raw[i] = alphabet.LettersToBytes(s.Seq)
		ids[i] = s.ID
	}
	a := parsimony.Detect(raw)
	if a == parsimony.DNA {
		log.Println("working on nucleotide data")
		for _, s := range seqs {
			s.Alpha = alphabet.DNAgapped
		}
	} else {
		log.Println("working on protein data")
	}

	tf, err := os.Open(*treeFile)
	if err != nil {
		log.Fatalf("failed to open tree file: %v", err)
	}
	t, err := phylo.ReadNewick(tf, ids)
	tf.Close()
	if err != nil {
		log.Fatalf("failed to read tree: %v", err)
	}
	log.Printf("read tree with %d leaves from %q", len(t.Leaves), *treeFile)

	times := phylo.Percentiles(t.BranchLengths(), *cats)
	log.Printf("branch length categories: %v", times)

	gm := subst.GapMultipliers{Open: *gapOpen, Ext: *gapExt}
	var costs parsimony.Costs
	if a == parsimony.DNA {
		costs, err = subst.NewDNA(*model, modelParams, gm, times, false, subst.Rounding{})
	} else {
		costs, err = subst.NewProtein(*model, gm, times, false, subst.Rounding{})
	}
	if err != nil {
		log.Fatalf("failed to build scoring: %v", err)
	}

	alns, scores := msa.AlignTree(costs, t, seqs, a, nil)
	log.Printf("alignment scores: %v (total %v)", scores, floats.Sum(scores))

	res := msa.Compile(t, seqs, alns, t.Root)

	out, err := os.Create(*outFile)
	if err != nil {
		log.Fatalf("failed to create output file: %v", err)
	}
	switch *format {
	case "fasta":
		err = writeFasta(out, res)
	case "phylip":
		err = writePhylip(out, res, a)
	default:
		log.Fatalf("invalid output format: %q", *format)
	}
	if err != nil {
		log.Fatalf("failed to write MSA: %v", err)
	}
	err = out.Close()
	if err != nil {
		log.Fatalf("failed to write MSA: %v", err)
	}
	log.Printf("wrote MSA to %q", *outFile)
}

// readSequences reads the fasta records of file. Sequences are read over a
// permissive alphabet; the data type is detected from the residues seen.
func readSequences(file string) ([]*linear.Seq, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var seqs []*linear.Seq
	sc := seqio.NewScanner(fasta.NewReader(f, linear.NewSeq("", nil, alphabet.Protein)))
	for sc.Next() {
		seqs = append(seqs, sc.Seq().(*linear.Seq))
	}
	err = sc.Error()
	if err != nil {
		return nil, err
	}
	if len(seqs) == 0 {
		return nil, fmt.Errorf("no sequences in %q", file)
	}
	return seqs, nil
}

func writeFasta(w io.Writer, seqs []*linear.Seq) error {
	for _, s := range seqs {
		_, err := fmt.Fprintf(w, "%60a\n", s)
		if err != nil {
			return err
		}
	}
	return nil
}

func writePhylip(w io.Writer, seqs []*linear.Seq, a *parsimony.Alphabet) error {
	typ := align.AMINOACIDS
	if a == parsimony.DNA {
		typ = align.NUCLEOTIDS
	}
	al := align.NewAlign(typ)
	for _, s := range seqs {
		err := al.AddSequence(s.ID, s.Seq.String(), s.Desc)
		if err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, phylip.WriteAlignment(al, false, false, false))
	return err
}
