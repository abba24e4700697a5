// Package testprog compiles small C fixtures on the fly and hands back a
// live, debugged tracee.Tracee, the same "build once, inject into the test
// body" shape as an early delve's helper.WithTestProcess.
package testprog

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/nullptrace/godbg/tracee"
	"github.com/rs/zerolog"
)

// source is a tiny fixture with a handful of local variables and a nested
// call, enough to exercise breakpoints, single-stepping, and backtraces.
const source = `
int add(int a, int b) {
    int sum = a + b;
    return sum;
}

int main(void) {
    int x = 2;
    int y = 3;
    int z = add(x, y);
    return z - 5;
}
`

// Build compiles source into a debug-info-carrying, position-independent
// executable under t.TempDir() and returns its path. Its DWARF addresses are
// then module-relative, the form the tracee adds BaseAddress to. Tests call t.Skip themselves when
// cc is unavailable; Build reports that condition via ok=false so callers
// can decide.
func Build(t *testing.T) (path string, ok bool) {
	t.Helper()

	ccPath, err := exec.LookPath("cc")
	if err != nil {
		return "", false
	}

	dir := t.TempDir()
	srcPath := filepath.Join(dir, "fixture.c")
	if err := os.WriteFile(srcPath, []byte(source), 0o644); err != nil {
		t.Fatalf("write fixture source: %v", err)
	}

	binPath := filepath.Join(dir, "fixture")
	cmd := exec.Command(ccPath, "-g", "-O0", "-fPIE", "-pie", "-o", binPath, srcPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Logf("cc failed, skipping: %v\n%s", err, out)
		return "", false
	}

	return binPath, true
}

// WithTracee builds the fixture, spawns it under ptrace, runs fn, and always
// kills the child afterwards. It calls t.Skip when a C compiler isn't on
// PATH (the only realistic way this suite runs in a constrained sandbox/CI
// image), matching the compiled-environment caveat any test that shells out
// to a toolchain needs to accept.
func WithTracee(t *testing.T, fn func(tr *tracee.Tracee)) {
	t.Helper()

	path, ok := Build(t)
	if !ok {
		t.Skip("cc not available, skipping live-process integration test")
	}

	tr, err := tracee.New(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("tracee.New: %v", err)
	}
	defer func() {
		tr.Kill() // nolint:errcheck
		tr.Close() // nolint:errcheck
	}()

	fn(tr)
}
