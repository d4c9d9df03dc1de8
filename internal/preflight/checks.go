package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/sys/unix"

	"mediafixer/internal/config"
	"mediafixer/internal/fileutil"
)

const (
	// Free space below this is almost certainly not enough for a working
	// copy of any real video file.
	minFreeBytes = 2 << 30

	// Encoders get slow and swappy under this much available memory.
	minAvailableMemory = 512 << 20
)

// requirement names an external binary a run depends on.
type requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// CheckBinaries verifies the configured ffmpeg and ffprobe binaries resolve
// to executables.
func CheckBinaries(cfg *config.Config) []Result {
	requirements := []requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpeg.Binary,
			Description: "required for remuxing and encoding",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFmpeg.ProbeBinary,
			Description: "required for media inspection",
		},
	}

	results := make([]Result, 0, len(requirements))
	for _, req := range requirements {
		command := strings.TrimSpace(req.Command)
		result := Result{Name: req.Name, Optional: req.Optional}
		switch {
		case command == "":
			result.Detail = "command not configured"
		default:
			if _, err := exec.LookPath(command); err != nil {
				result.Detail = fmt.Sprintf("binary %q not found (%s)", command, req.Description)
			} else {
				result.Passed = true
				result.Detail = command
			}
		}
		results = append(results, result)
	}
	return results
}

// CheckDirectoryAccess verifies the directory exists and is readable,
// writable, and traversable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDiskSpace reports whether the filesystem holding path has enough free
// space for working copies.
func CheckDiskSpace(path string) Result {
	const name = "Disk space"
	free, err := fileutil.FreeSpace(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("statfs %s: %v", path, err)}
	}
	detail := fmt.Sprintf("%.1f GiB free on %s", float64(free)/(1<<30), path)
	if free < minFreeBytes {
		return Result{Name: name, Detail: detail + " (below 2 GiB floor)"}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckMemory warns when available memory is low enough to make encoding
// painful. It never blocks a run.
func CheckMemory() Result {
	const name = "Memory"
	stats, err := mem.VirtualMemory()
	if err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("read memory stats: %v", err)}
	}
	detail := fmt.Sprintf("%.1f GiB available", float64(stats.Available)/(1<<30))
	if stats.Available < minAvailableMemory {
		return Result{Name: name, Optional: true, Detail: detail + " (encoder may thrash)"}
	}
	return Result{Name: name, Passed: true, Optional: true, Detail: detail}
}
