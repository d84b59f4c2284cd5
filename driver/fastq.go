package driver

import (
	"context"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/seqdedup/dedup"
	"github.com/grailbio/seqdedup/fastqio"
)

// FastqOpts configures the FASTQ dedup driver (spec.md §4.6 / §6).
type FastqOpts struct {
	InputPath, OutputPath string
	Engine                dedup.Opts
}

// ordinalSet is an ordered set of pair indices, used to collect the
// exemplar set between pass 1 and pass 2. Grounded on
// encoding/bampair/shard_info.go's use of biogo/store/llrb as an ordered
// index over integer-ish keys.
type ordinalKey int

func (k ordinalKey) Compare(other llrb.Comparable) int {
	return int(k) - int(other.(ordinalKey))
}

type ordinalSet struct {
	tree llrb.Tree
}

func (s *ordinalSet) add(i int) {
	s.tree.Insert(ordinalKey(i))
}

func (s *ordinalSet) contains(i int) bool {
	return s.tree.Get(ordinalKey(i)) != nil
}

// RunFastq executes the two-pass interleaved-FASTQ pipeline: pass 1 feeds
// every consecutive record pair into the dedup engine addressed by
// ordinal position; pass 2 re-reads the input and emits only the pairs
// that finalize to an exemplar. Grounded on
// original_source/post-processing/deps/nao_dedup/src/dedup_interleaved_fastq.rs.
func RunFastq(ctx context.Context, opts FastqOpts) error {
	eng := dedup.NewContext(opts.Engine)

	log.Debug.Printf("pass 1: building deduplication index")
	pairCount, err := passOneFastq(ctx, opts.InputPath, eng)
	if err != nil {
		return err
	}
	log.Debug.Printf("total read pairs: %d", pairCount)
	if pairCount == 0 {
		log.Error.Printf("warning: no reads found in input file")
	}

	stats := eng.Finalize()
	log.Debug.Printf("unique clusters: %d", stats.UniqueClusters)
	if stats.TotalReads > 0 {
		log.Debug.Printf("deduplication rate: %.2f%%", stats.DedupRate()*100)
	}

	exemplars := &ordinalSet{}
	for idx := range eng.ExemplarIndices() {
		ordinal, ok := indexToOrdinal(eng, idx)
		if ok {
			exemplars.add(ordinal)
		}
	}

	log.Debug.Printf("pass 2: writing exemplars to output")
	written, err := passTwoFastq(ctx, opts.InputPath, opts.OutputPath, exemplars)
	if err != nil {
		return err
	}
	log.Debug.Printf("wrote %d exemplar pairs", written)
	return nil
}

// indexToOrdinal recovers the ordinal pair index that was interned for a
// dense read index, by looking up its external id (which the engine
// stores verbatim as the stringified ordinal for the FASTQ driver).
func indexToOrdinal(eng *dedup.Context, idx int32) (int, bool) {
	ordinal, err := eng.OrdinalForIndex(idx)
	if err != nil {
		return 0, false
	}
	return ordinal, true
}

func passOneFastq(ctx context.Context, inputPath string, eng *dedup.Context) (int, error) {
	in, err := openGzip(ctx, inputPath)
	if err != nil {
		return 0, err
	}
	defer in.Close(ctx)

	scanner := fastqio.NewScanner(in)
	var r1, r2 fastqio.Record
	pairCount := 0
	for {
		if !scanner.Scan(&r1) {
			break
		}
		if !scanner.Scan(&r2) {
			log.Error.Printf("warning: odd number of reads in file, last read ignored")
			break
		}
		eng.ProcessReadByIndex(pairCount, []byte(r1.Seq), []byte(r2.Seq), []byte(r1.Qual), []byte(r2.Qual))
		pairCount++
		if pairCount%100000 == 0 {
			log.Debug.Printf("processed %d read pairs...", pairCount)
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, errors.E(err, "read", inputPath)
	}
	return pairCount, nil
}

func passTwoFastq(ctx context.Context, inputPath, outputPath string, exemplars *ordinalSet) (int, error) {
	in, err := openGzip(ctx, inputPath)
	if err != nil {
		return 0, err
	}
	defer in.Close(ctx)

	out, err := createGzip(ctx, outputPath)
	if err != nil {
		return 0, err
	}
	defer out.Close(ctx)

	scanner := fastqio.NewScanner(in)
	writer := fastqio.NewWriter(out)
	var r1, r2 fastqio.Record
	idx, written := 0, 0
	for {
		if !scanner.Scan(&r1) {
			break
		}
		if !scanner.Scan(&r2) {
			break
		}
		if exemplars.contains(idx) {
			if err := writer.Write(&r1); err != nil {
				return written, errors.E(err, "write", outputPath)
			}
			if err := writer.Write(&r2); err != nil {
				return written, errors.E(err, "write", outputPath)
			}
			written++
		}
		idx++
		if idx%100000 == 0 {
			log.Debug.Printf("processed %d read pairs...", idx)
		}
	}
	if err := scanner.Err(); err != nil {
		return written, errors.E(err, "read", inputPath)
	}
	return written, nil
}
