package tsvio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderColumnLookup(t *testing.T) {
	r, err := NewReader(strings.NewReader("seq_id\tquery_seq\nabc\tACGT\n"))
	require.NoError(t, err)

	idx, err := r.ColumnIndex("query_seq")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = r.ColumnIndex("nope")
	assert.Error(t, err)

	fields, ok := r.Scan(2)
	require.True(t, ok)
	assert.Equal(t, []string{"abc", "ACGT"}, fields)

	_, ok = r.Scan(2)
	assert.False(t, ok)
	assert.NoError(t, r.Err())
}

func TestReaderRequireColumnsMissing(t *testing.T) {
	r, err := NewReader(strings.NewReader("a\tb\n"))
	require.NoError(t, err)
	_, err = r.RequireColumns("a", "c")
	assert.EqualError(t, err, `missing required column "c"`)
}

func TestReaderRowTooShort(t *testing.T) {
	r, err := NewReader(strings.NewReader("a\tb\tc\nonly-one\n"))
	require.NoError(t, err)
	_, ok := r.Scan(3)
	assert.False(t, ok)
	require.Error(t, r.Err())
	assert.Contains(t, r.Err().Error(), "line 2")
}
