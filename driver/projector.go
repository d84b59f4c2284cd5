package driver

import (
	"bufio"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/seqdedup/tsvio"
)

// UC format column indices, per spec.md §6 and
// original_source/rust-tools/process_vsearch_cluster_output/src/main.rs.
const (
	ucRecType      = 0
	ucClusterID    = 1
	ucSize         = 2
	ucPercentID    = 3
	ucOrientation  = 4
	ucCigar        = 7
	ucSeqID        = 8
	ucClusterRepID = 9
	ucFieldCount   = 10
)

// ProjectorOpts configures the cluster-output projector (SPEC_FULL §4.8).
type ProjectorOpts struct {
	InputPath, OutputDBPath, OutputIDsPath string
	NClusters                              int
	OutputPrefix                           string
}

// RunProjector normalizes a VSEARCH/UCLUST UC-format stream into a flat
// TSV schema plus a top-N representative-ids file. Grounded on
// original_source/rust-tools/process_vsearch_cluster_output/src/main.rs.
func RunProjector(ctx context.Context, opts ProjectorOpts) error {
	log.Debug.Printf("pass 1: building lookup tables")
	sizes, reps, err := buildLookupTables(ctx, opts.InputPath)
	if err != nil {
		return err
	}
	log.Debug.Printf("pass 1 complete: %d clusters, %d representatives", len(sizes), len(reps))

	log.Debug.Printf("pass 2: writing TSV output")
	written, err := writeTSVOutput(ctx, opts.InputPath, opts.OutputDBPath, opts.OutputPrefix, sizes)
	if err != nil {
		return err
	}
	log.Debug.Printf("pass 2 complete: %d records written", written)

	log.Debug.Printf("extracting top %d representative IDs", opts.NClusters)
	n, err := writeTopRepresentatives(ctx, opts.OutputIDsPath, opts.NClusters, sizes, reps)
	if err != nil {
		return err
	}
	log.Debug.Printf("wrote %d representative IDs", n)
	return nil
}

func formatHeader(prefix string) []string {
	cols := []string{"cluster_id", "cluster_rep_id", "seq_length", "is_cluster_rep", "percent_identity", "orientation", "cigar", "cluster_size"}
	if prefix != "" {
		for i, c := range cols {
			cols[i] = prefix + "_" + c
		}
	}
	return append([]string{"seq_id"}, cols...)
}

func buildLookupTables(ctx context.Context, inputPath string) (sizes map[uint64]uint64, reps map[uint64]string, err error) {
	in, err := openGzip(ctx, inputPath)
	if err != nil {
		return nil, nil, err
	}
	defer in.Close(ctx)

	sizes = make(map[uint64]uint64)
	reps = make(map[uint64]string)

	scanner, line := bufio.NewScanner(in), 0
	for scanner.Scan() {
		line++
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) != ucFieldCount {
			return nil, nil, fmt.Errorf("line %d: expected %d fields, found %d", line, ucFieldCount, len(fields))
		}
		switch fields[ucRecType] {
		case "C":
			id, err := parseUint(fields[ucClusterID], line, "cluster_id")
			if err != nil {
				return nil, nil, err
			}
			size, err := parseUint(fields[ucSize], line, "cluster_size")
			if err != nil {
				return nil, nil, err
			}
			sizes[id] = size
		case "S":
			id, err := parseUint(fields[ucClusterID], line, "cluster_id")
			if err != nil {
				return nil, nil, err
			}
			reps[id] = fields[ucSeqID]
		case "H":
			// no-op in pass 1.
		default:
			return nil, nil, fmt.Errorf("line %d: unknown record type %q", line, fields[ucRecType])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.E(err, "read", inputPath)
	}
	return sizes, reps, nil
}

func writeTSVOutput(ctx context.Context, inputPath, outputPath, prefix string, sizes map[uint64]uint64) (int, error) {
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
	w := tsvio.NewWriter(out)
	if err := w.WriteRow(formatHeader(prefix)...); err != nil {
		return 0, errors.E(err, "write", outputPath)
	}

	written := 0
	scanner, line := bufio.NewScanner(in), 0
	for scanner.Scan() {
		line++
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) != ucFieldCount {
			return written, fmt.Errorf("line %d: expected %d fields, found %d", line, ucFieldCount, len(fields))
		}
		switch fields[ucRecType] {
		case "H":
			clusterID, err := parseUint(fields[ucClusterID], line, "cluster_id")
			if err != nil {
				return written, err
			}
			size, ok := sizes[clusterID]
			if !ok {
				return written, fmt.Errorf("line %d: cluster_id %d not found in lookup table", line, clusterID)
			}
			if err := w.WriteRow(fields[ucSeqID], fields[ucClusterID], fields[ucClusterRepID], fields[ucSize],
				"False", fields[ucPercentID], fields[ucOrientation], fields[ucCigar], strconv.FormatUint(size, 10)); err != nil {
				return written, errors.E(err, "write", outputPath)
			}
			written++
		case "S":
			clusterID, err := parseUint(fields[ucClusterID], line, "cluster_id")
			if err != nil {
				return written, err
			}
			seqLen, err := parseUint(fields[ucSize], line, "seq_length")
			if err != nil {
				return written, err
			}
			size, ok := sizes[clusterID]
			if !ok {
				return written, fmt.Errorf("line %d: cluster_id %d not found in lookup table", line, clusterID)
			}
			if err := w.WriteRow(fields[ucSeqID], fields[ucClusterID], fields[ucSeqID], fields[ucSize],
				"True", "100.0", "+", fmt.Sprintf("%dM", seqLen), strconv.FormatUint(size, 10)); err != nil {
				return written, errors.E(err, "write", outputPath)
			}
			written++
		case "C":
			// dropped from output.
		default:
			return written, fmt.Errorf("line %d: unknown record type %q", line, fields[ucRecType])
		}
	}
	if err := scanner.Err(); err != nil {
		return written, errors.E(err, "read", inputPath)
	}
	return written, nil
}

type clusterRep struct {
	size  uint64
	repID string
}

func writeTopRepresentatives(ctx context.Context, outputPath string, n int, sizes map[uint64]uint64, reps map[uint64]string) (int, error) {
	clusters := make([]clusterRep, 0, len(reps))
	for clusterID, repID := range reps {
		if size, ok := sizes[clusterID]; ok {
			clusters = append(clusters, clusterRep{size: size, repID: repID})
		}
	}
	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].size != clusters[j].size {
			return clusters[i].size > clusters[j].size
		}
		return clusters[i].repID < clusters[j].repID
	})

	f, w, err := createPlain(ctx, outputPath)
	if err != nil {
		return 0, err
	}
	defer f.Close(ctx)

	if n > len(clusters) {
		n = len(clusters)
	}
	for i := 0; i < n; i++ {
		if _, err := fmt.Fprintf(w, "%s\n", clusters[i].repID); err != nil {
			return i, errors.E(err, "write", outputPath)
		}
	}
	return n, nil
}

func parseUint(s string, line int, field string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid %s %q: %v", line, field, s, err)
	}
	return v, nil
}
