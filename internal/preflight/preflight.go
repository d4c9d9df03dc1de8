package preflight

import (
	"context"

	"mediafixer/internal/config"
)

// Result reports the outcome of a single preflight check. Optional checks
// that fail should be surfaced as warnings rather than aborting the run.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes every applicable check for a run rooted at scanRoot.
func RunAll(ctx context.Context, cfg *config.Config, scanRoot string) []Result {
	if cfg == nil {
		return nil
	}

	results := CheckBinaries(cfg)
	results = append(results, CheckDirectoryAccess("Scan root", scanRoot))
	results = append(results, CheckDirectoryAccess("Queue directory", cfg.QueueDirFor(scanRoot)))
	results = append(results, CheckDiskSpace(scanRoot))
	results = append(results, CheckMemory())
	return results
}

// Failed filters results down to hard failures. Optional checks never count.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed && !result.Optional {
			failed = append(failed, result)
		}
	}
	return failed
}
