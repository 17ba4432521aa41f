package lock

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/mitchellh/go-ps"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

// fakeProcesses swaps process lookup and our own pid for the test.
func fakeProcesses(t *testing.T, self int, running map[int]string) {
	t.Helper()
	oldFind, oldPid := findProcessFunc, getpidFunc
	t.Cleanup(func() { findProcessFunc, getpidFunc = oldFind, oldPid })

	getpidFunc = func() int { return self }
	findProcessFunc = func(pid int) (ps.Process, error) {
		exe, ok := running[pid]
		if !ok {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
}

func writeLockfile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(Path(dir), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()
	fakeProcesses(t, 100, map[int]string{100: "arise"})

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if pid, alive := Owner(dir); pid != 100 || !alive {
		t.Errorf("expected owner 100 alive, got %d %v", pid, alive)
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(Path(dir)); !os.IsNotExist(err) {
		t.Error("expected lockfile to be removed")
	}
	if err := l.Release(); err != nil {
		t.Errorf("second Release should be a no-op, got %v", err)
	}
}

func TestAcquireHeldByLiveProcess(t *testing.T) {
	dir := t.TempDir()
	fakeProcesses(t, 100, map[int]string{100: "arise", 200: "arise"})
	writeLockfile(t, dir, "200|arise")

	_, err := Acquire(dir)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestAcquireReplacesStaleLock(t *testing.T) {
	tests := []struct {
		name    string
		content string
		running map[int]string
	}{
		{"dead process", "200|arise", map[int]string{}},
		{"pid reused by another program", "200|arise", map[int]string{200: "bash"}},
		{"malformed", "garbage", map[int]string{}},
		{"own pid", "100|arise", map[int]string{100: "arise"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			fakeProcesses(t, 100, tt.running)
			writeLockfile(t, dir, tt.content)

			l, err := Acquire(dir)
			if err != nil {
				t.Fatalf("Acquire failed: %v", err)
			}
			defer l.Release()

			data, _ := os.ReadFile(Path(dir))
			if string(data) != fmt.Sprintf("%d|arise", 100) {
				t.Errorf("expected lockfile rewritten, got %q", data)
			}
		})
	}
}

func TestReleaseLeavesForeignLock(t *testing.T) {
	dir := t.TempDir()
	fakeProcesses(t, 100, map[int]string{100: "arise"})

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	// Another process took over after we lost the file
	writeLockfile(t, dir, "300|arise")

	if err := l.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(Path(dir)); err != nil {
		t.Error("expected the other process's lockfile to remain")
	}
}
