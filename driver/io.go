// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package driver implements the FASTQ dedup pipeline, the TSV
// similarity-marking pipeline, and the VSEARCH cluster-output projector
// over gzip-framed files. The FASTQ and TSV pipelines drive the dedup
// engine; the projector does not use it. The file-access
// and gzip-framing idiom is grounded on encoding/fastq/downsample.go.
package driver

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
)

// gzReader bundles a file.File with a gzip.Reader over it, and closes
// both in the right order.
type gzReader struct {
	f  file.File
	gz *gzip.Reader
}

func openGzip(ctx context.Context, path string) (*gzReader, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	gz, err := gzip.NewReader(f.Reader(ctx))
	if err != nil {
		return nil, errors.E(err, "gzip", path)
	}
	return &gzReader{f: f, gz: gz}, nil
}

func (r *gzReader) Read(p []byte) (int, error) { return r.gz.Read(p) }

func (r *gzReader) Close(ctx context.Context) error {
	if err := r.gz.Close(); err != nil {
		return errors.E(err, "gzip close")
	}
	return r.f.Close(ctx)
}

// gzWriter bundles a file.File with a gzip.Writer over it.
type gzWriter struct {
	f  file.File
	gz *gzip.Writer
}

func createGzip(ctx context.Context, path string) (*gzWriter, error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "create", path)
	}
	return &gzWriter{f: f, gz: gzip.NewWriter(f.Writer(ctx))}, nil
}

func (w *gzWriter) Write(p []byte) (int, error) { return w.gz.Write(p) }

func (w *gzWriter) Close(ctx context.Context) error {
	if err := w.gz.Close(); err != nil {
		return errors.E(err, "gzip close")
	}
	return w.f.Close(ctx)
}

// createPlain opens a local, uncompressed text file, used for the
// projector's top-N representative-id output.
func createPlain(ctx context.Context, path string) (file.File, io.Writer, error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "create", path)
	}
	return f, f.Writer(ctx), nil
}
