// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package tsvio reads and writes tab-separated files with a header row,
// giving callers column access by name rather than position. It is
// grounded on the same bufio.Scanner idiom as grailbio/bio's
// encoding/fastq package, generalized for the TSV driver's header-indexed
// lookup (spec.md §4.7).
package tsvio

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Reader scans tab-separated rows, tracking 1-based line numbers and
// resolving required column names to indices once, up front.
type Reader struct {
	b       *bufio.Scanner
	line    int
	header  []string
	indices map[string]int
	err     error
}

// NewReader reads the header row from r and builds a name->index map.
// The header row counts as line 1.
func NewReader(r io.Reader) (*Reader, error) {
	rd := &Reader{b: bufio.NewScanner(r)}
	if !rd.b.Scan() {
		if err := rd.b.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("line 1: empty input, missing header row")
	}
	rd.line = 1
	rd.header = strings.Split(rd.b.Text(), "\t")
	rd.indices = make(map[string]int, len(rd.header))
	for i, name := range rd.header {
		rd.indices[name] = i
	}
	return rd, nil
}

// Header returns the raw header fields, in order.
func (r *Reader) Header() []string {
	return r.header
}

// ColumnIndex returns the 0-based index of a named column, or an error
// naming the missing column if it is not present in the header.
func (r *Reader) ColumnIndex(name string) (int, error) {
	idx, ok := r.indices[name]
	if !ok {
		return 0, fmt.Errorf("missing required column %q", name)
	}
	return idx, nil
}

// RequireColumns resolves several column names at once, the way the TSV
// driver validates its full required-column set up front.
func (r *Reader) RequireColumns(names ...string) (map[string]int, error) {
	out := make(map[string]int, len(names))
	for _, n := range names {
		idx, err := r.ColumnIndex(n)
		if err != nil {
			return nil, err
		}
		out[n] = idx
	}
	return out, nil
}

// Scan reads the next data row into fields. It returns false at end of
// input or on error; callers must check Err to distinguish the two.
// minWidth, if positive, is the minimum number of fields a row must have
// (typically one past the highest required column index); rows below
// that width are a fatal error naming the line number.
func (r *Reader) Scan(minWidth int) (fields []string, ok bool) {
	if r.err != nil {
		return nil, false
	}
	if !r.b.Scan() {
		return nil, false
	}
	r.line++
	fields = strings.Split(r.b.Text(), "\t")
	if len(fields) < minWidth {
		r.err = fmt.Errorf("line %d: expected at least %d columns, found %d", r.line, minWidth, len(fields))
		return nil, false
	}
	return fields, true
}

// Err returns the first error encountered, if any.
func (r *Reader) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.b.Err()
}

// Line returns the 1-based line number most recently consumed.
func (r *Reader) Line() int {
	return r.line
}
