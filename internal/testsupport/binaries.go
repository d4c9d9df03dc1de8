package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// WriteStub writes an executable shell script and returns its path. Tests
// point config binary fields at the result instead of mutating PATH.
func WriteStub(t testing.TB, name, script string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return path
}

// StubProbe returns an ffprobe substitute that prints the contents of
// "<media path>.probe" when present and fails otherwise. Tests control probe
// output per file by writing that sidecar.
func StubProbe(t testing.TB) string {
	t.Helper()
	return WriteStub(t, "ffprobe", `for last; do :; done
if [ -f "$last.probe" ]; then
  cat "$last.probe"
  exit 0
fi
echo "probe stub: no sidecar for $last" >&2
exit 1
`)
}

// StubFFmpeg returns an ffmpeg substitute that records its argument list to
// a log file next to the stub, creates the output file (the last argument),
// and exits with the given status. On failure no output file is created.
func StubFFmpeg(t testing.TB, exitCode int) (bin string, argsLog string) {
	t.Helper()

	dir := t.TempDir()
	argsLog = filepath.Join(dir, "ffmpeg-args.log")
	script := `log="$(dirname "$0")/ffmpeg-args.log"
echo "$@" >> "$log"
for last; do :; done
`
	if exitCode == 0 {
		script += `printf 'transformed' > "$last"
exit 0
`
	} else {
		script += `echo "ffmpeg stub: forced failure" >&2
exit ` + strconv.Itoa(exitCode) + `
`
	}

	bin = filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
	return bin, argsLog
}
