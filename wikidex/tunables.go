package wikidex

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/klauspost/cpuid"
	"github.com/pbnjay/memory"
)

// ANSI escape codes for terminal color, highlight, and reverse, used by the
// build and search CLIs for diagnostic output.
const (
	RED  = "\033[31m"
	BLUE = "\033[34m"
	BOLD = "\033[1m"
	RVRS = "\033[7m"
	INIT = "\033[0m"
	LOUD = INIT + RED + BOLD
	INVT = LOUD + RVRS
)

// performance tuning variables, set once via SetTunings
var (
	numWorkers int
	chanDepth  int
	batchSize  int
	shardWords int
)

// SetTunings sets performance parameters for a build or merge run. A zero or
// negative argument selects a sane default rather than failing: nmWorkers
// defaults to the number of physical cores (halved if hyperthreaded),
// chnDepth defaults to twice that, batchSz/shardSz fall back to
// DefaultBatchSize/DefaultShardWords.
func SetTunings(nmWorkers, chnDepth, batchSz, shardSz int) {
	nCPU := runtime.NumCPU()
	if nCPU < 1 {
		nCPU = 1
	}

	if nmWorkers < 1 {
		nmWorkers = nCPU
		if cpuid.CPU.ThreadsPerCore > 1 {
			cores := nCPU / cpuid.CPU.ThreadsPerCore
			if cores > 0 {
				nmWorkers = cores
			}
		}
	}
	if nmWorkers > nCPU {
		nmWorkers = nCPU
	}
	numWorkers = nmWorkers

	runtime.GOMAXPROCS(numWorkers)
	debug.SetGCPercent(200)

	if chnDepth < 1 {
		chnDepth = numWorkers * 2
	}
	chanDepth = chnDepth

	if batchSz < 1 {
		batchSz = DefaultBatchSize
	}
	batchSize = batchSz

	if shardSz < 1 {
		shardSz = DefaultShardWords
	}
	shardWords = shardSz
}

func init() {
	SetTunings(0, 0, 0, 0)
}

// NumWorkers returns the configured runtime parallelism, applied via
// runtime.GOMAXPROCS in SetTunings; it bounds how much of Build's
// decode/index pipeline (see ChanDepth) can actually overlap.
func NumWorkers() int {
	return numWorkers
}

// ChanDepth returns the configured buffer depth of the channel Build
// uses to hand batches from the XML decoder to the single indexing
// worker, letting the decoder read ahead while a batch is indexed.
func ChanDepth() int {
	return chanDepth
}

// BatchSize returns the configured number of pages per indexing batch.
func BatchSize() int {
	return batchSize
}

// ShardWords returns the configured number of unique words per merged shard.
func ShardWords() int {
	return shardWords
}

// LogMemory writes a one-line diagnostic reporting total system RAM, used
// by the build CLI at startup to justify the chosen batch size.
func LogMemory() {
	gb := float64(memory.TotalMemory()) / (1024 * 1024 * 1024)
	fmt.Fprintf(os.Stderr, "%sTotal system memory: %.1f GB%s\n", BLUE, gb, INIT)
}
