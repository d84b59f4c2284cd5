// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

/*
seqdedup-fastq streams an interleaved paired-end FASTQ file, clusters
near-duplicate read pairs with spec.md's streaming clustering engine, and
writes only the highest-scoring pair of each cluster, which need not be
the first pair of the cluster seen in the input.
*/

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/seqdedup/dedup"
	"github.com/grailbio/seqdedup/driver"
)

var (
	maxOffset    = flag.Int("max-offset", 1, "Maximum shift tolerance (in bases) when comparing two reads")
	maxErrorFrac = flag.Float64("max-error-frac", 0.01, "Maximum fraction of the overlap length that mismatches plus shift may use for two reads to be called similar")
	kmerLen      = flag.Int("kmer-len", 15, "K-mer length used to compute minimizers")
	windowLen    = flag.Int("window-len", 25, "Minimizer window length, in bases")
	numWindows   = flag.Int("num-windows", 4, "Number of adjacent minimizer windows extracted per read")
)

func usage() {
	fmt.Printf("Usage: %s [OPTIONS] input.fastq.gz output.fastq.gz\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 2 {
		log.Fatalf("expected exactly 2 positional arguments (input.fastq.gz output.fastq.gz), found %d", flag.NArg())
	}

	minimizer := dedup.MinimizerParams{
		KmerLen:    *kmerLen,
		WindowLen:  *windowLen,
		NumWindows: *numWindows,
	}
	if err := minimizer.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	opts := driver.FastqOpts{
		InputPath:  flag.Arg(0),
		OutputPath: flag.Arg(1),
		Engine: dedup.Opts{
			Dedup: dedup.DedupParams{
				MaxOffset:    *maxOffset,
				MaxErrorFrac: *maxErrorFrac,
			},
			Minimizer: minimizer,
		},
	}

	ctx := vcontext.Background()
	if err := driver.RunFastq(ctx, opts); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
