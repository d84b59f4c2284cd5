// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package dedup implements a streaming, single-pass clustering engine for
// near-duplicate paired-end reads.
//
// A read pair is a forward and reverse nucleotide sequence, each with a
// Phred+33 quality string. The engine assigns every ingested pair to a
// cluster of pairs it considers the same underlying molecule: PCR
// duplicates, tile duplicates, or reads whose mates were reported in
// swapped orientation by an upstream step.
//
// Clustering works off minimizers: a handful of numerically-smallest
// k-mer hashes drawn from fixed windows near the start of each sequence.
// Two pairs that share a minimizer are candidates; candidates are
// confirmed with a shift-tolerant Hamming comparison that charges each
// unit of offset against the same error budget as a base mismatch. The
// first candidate that passes wins: a pair either joins an existing
// cluster or opens a new one with itself as leader.
//
// Clusters track a leader (the read that opened them, fixed for the
// cluster's lifetime) and a best member (the highest-scoring pair seen so
// far, which may change as more pairs arrive). Finalize rewrites every
// read's assignment to point at its cluster's best member and discards
// the working state (bucket index, exemplar sequences) that is no longer
// needed once clustering is done.
//
// The engine does not perform I/O and raises no errors of its own; all
// preconditions (valid indices, non-negative scores) are the caller's
// responsibility. See package driver for the FASTQ and TSV pipelines that
// drive this engine against real input.
package dedup
