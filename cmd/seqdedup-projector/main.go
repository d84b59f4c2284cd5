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
seqdedup-projector normalizes a VSEARCH/UCLUST UC-format cluster listing
into a flat, header-indexed TSV and a plain-text file naming the
representative sequence of the N largest clusters.
*/

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/seqdedup/driver"
)

var (
	nClusters    = flag.Int("n-clusters", -1, "Number of largest clusters to report representatives for (required)")
	outputPrefix = flag.String("output-prefix", "", "Prefix prepended, followed by an underscore, to every output column name except seq_id")
)

func usage() {
	fmt.Printf("Usage: %s -n-clusters N [OPTIONS] vsearch_db.uc.gz output_db.tsv.gz output_ids.txt\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 3 {
		log.Fatalf("expected exactly 3 positional arguments (vsearch_db output_db output_ids), found %d", flag.NArg())
	}
	if *nClusters < 0 {
		log.Fatalf("-n-clusters is required and must be non-negative")
	}

	opts := driver.ProjectorOpts{
		InputPath:     flag.Arg(0),
		OutputDBPath:  flag.Arg(1),
		OutputIDsPath: flag.Arg(2),
		NClusters:     *nClusters,
		OutputPrefix:  *outputPrefix,
	}

	ctx := vcontext.Background()
	if err := driver.RunProjector(ctx, opts); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
