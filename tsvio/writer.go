package tsvio

import (
	"io"
	"strings"
)

// Writer writes tab-separated rows.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter constructs a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteRow writes fields joined by tabs, terminated by a newline.
func (w *Writer) WriteRow(fields ...string) error {
	if w.err != nil {
		return w.err
	}
	_, w.err = io.WriteString(w.w, strings.Join(fields, "\t"))
	if w.err == nil {
		_, w.err = io.WriteString(w.w, "\n")
	}
	return w.err
}
