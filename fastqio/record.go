// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package fastqio reads and writes 4-line FASTQ records with the strict
// validation the dedup drivers require: a header beginning with '@', a
// separator that is exactly "+", and fatal errors that name a 1-based
// line number. It is adapted from grailbio/bio's encoding/fastq package,
// which accepts any separator starting with '+' and does not track line
// numbers.
package fastqio

// Record is one FASTQ read: header line (including the leading '@'),
// sequence, separator line (always "+"), and quality string.
type Record struct {
	Header, Seq, Qual string
}
