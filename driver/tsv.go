package driver

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/seqdedup/dedup"
	"github.com/grailbio/seqdedup/tsvio"
)

// TSVOpts configures the TSV similarity-marking driver (spec.md §4.7).
type TSVOpts struct {
	InputPath, OutputPath string
	Engine                dedup.Opts
}

const (
	colSeqID       = "seq_id"
	colQuerySeq    = "query_seq"
	colQuerySeqRev = "query_seq_rev"
	colQueryQual   = "query_qual"
	colQueryQualR  = "query_qual_rev"
	colPrimAlign   = "prim_align_dup_exemplar"
)

var requiredColumns = []string{colSeqID, colQuerySeq, colQuerySeqRev, colQueryQual, colQueryQualR, colPrimAlign}

// minRowWidth returns one past the highest index among cols, the minimum
// row width a row must have for every required column to be in range.
// Columns are resolved by name, so the header may place any of
// requiredColumns last; the highest-indexed one, not colPrimAlign
// specifically, sets the bound.
func minRowWidth(cols map[string]int) int {
	max := 0
	for _, idx := range cols {
		if idx > max {
			max = idx
		}
	}
	return max + 1
}

// RunTSV executes the single-input-pass similarity-marking pipeline,
// grounded on
// original_source/post-processing/rust_dedup/src/similarity_duplicate_marking.rs:
// pass 1 feeds alignment-unique rows (seq_id == prim_align_dup_exemplar)
// into the dedup engine; pass 2 re-reads the input and appends a trailing
// sim_dup_exemplar column.
func RunTSV(ctx context.Context, opts TSVOpts) error {
	eng := dedup.NewContext(opts.Engine)

	log.Debug.Printf("running similarity-based deduplication on alignment-unique reads")
	nReads, nUnique, err := passOneTSV(ctx, opts.InputPath, eng)
	if err != nil {
		return err
	}
	log.Debug.Printf("processed %d alignment-unique reads (out of %d total reads)", nUnique, nReads)

	stats := eng.Finalize()
	log.Debug.Printf("found %d unique sequence clusters", stats.UniqueClusters)

	log.Debug.Printf("pass 2: writing output with sim_dup_exemplar column")
	nDup, nSimDup, err := passTwoTSV(ctx, opts.InputPath, opts.OutputPath, eng)
	if err != nil {
		return err
	}
	log.Debug.Printf("marked similarity duplicates over %d reads: %d already alignment-duplicates, %d additionally recognized as duplicate", nReads, nDup, nSimDup)
	return nil
}

func passOneTSV(ctx context.Context, inputPath string, eng *dedup.Context) (nReads, nUnique int, err error) {
	in, err := openGzip(ctx, inputPath)
	if err != nil {
		return 0, 0, err
	}
	defer in.Close(ctx)

	r, err := tsvio.NewReader(in)
	if err != nil {
		return 0, 0, errors.E(err, "read", inputPath)
	}
	cols, err := r.RequireColumns(requiredColumns...)
	if err != nil {
		return 0, 0, errors.E(err, inputPath)
	}
	minWidth := minRowWidth(cols)

	for {
		fields, ok := r.Scan(minWidth)
		if !ok {
			break
		}
		nReads++
		seqID := fields[cols[colSeqID]]
		if seqID != fields[cols[colPrimAlign]] {
			continue
		}
		nUnique++
		eng.ProcessRead(
			seqID,
			[]byte(fields[cols[colQuerySeq]]),
			[]byte(fields[cols[colQuerySeqRev]]),
			[]byte(fields[cols[colQueryQual]]),
			[]byte(fields[cols[colQueryQualR]]),
		)
	}
	if err := r.Err(); err != nil {
		return nReads, nUnique, errors.E(err, "read", inputPath)
	}
	return nReads, nUnique, nil
}

func passTwoTSV(ctx context.Context, inputPath, outputPath string, eng *dedup.Context) (nDup, nSimDup int, err error) {
	in, err := openGzip(ctx, inputPath)
	if err != nil {
		return 0, 0, err
	}
	defer in.Close(ctx)

	r, err := tsvio.NewReader(in)
	if err != nil {
		return 0, 0, errors.E(err, "read", inputPath)
	}
	cols, err := r.RequireColumns(requiredColumns...)
	if err != nil {
		return 0, 0, errors.E(err, inputPath)
	}
	minWidth := minRowWidth(cols)

	out, err := createGzip(ctx, outputPath)
	if err != nil {
		return 0, 0, err
	}
	defer out.Close(ctx)
	w := tsvio.NewWriter(out)

	header := append(append([]string{}, r.Header()...), "sim_dup_exemplar")
	if err := w.WriteRow(header...); err != nil {
		return 0, 0, errors.E(err, "write", outputPath)
	}

	for {
		fields, ok := r.Scan(minWidth)
		if !ok {
			break
		}
		seqID := fields[cols[colSeqID]]
		primExemplar := fields[cols[colPrimAlign]]

		row := append([]string{}, fields...)
		if seqID != primExemplar {
			row = append(row, "NA")
			nDup++
		} else {
			simExemplar := eng.BestID(seqID)
			row = append(row, simExemplar)
			if simExemplar != seqID {
				nSimDup++
			}
		}
		if err := w.WriteRow(row...); err != nil {
			return nDup, nSimDup, errors.E(err, "write", outputPath)
		}
	}
	if err := r.Err(); err != nil {
		return nDup, nSimDup, errors.E(err, "read", inputPath)
	}
	return nDup, nSimDup, nil
}
