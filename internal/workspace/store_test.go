package workspace

import (
	"bytes"
	"os"
	"testing"
)

// TestStoreWriteReadRemove checks the logical name round trip.
func TestStoreWriteReadRemove(t *testing.T) {
	ws, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer ws.Close()

	want := []byte("input bytes")
	if err := ws.Write("input.mp4", want); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := ws.Read("input.mp4")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("bytes = %q, want %q", got, want)
	}

	if err := ws.Remove("input.mp4"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := ws.Read("input.mp4"); err == nil {
		t.Fatal("expected read error after remove")
	}

	// Removing twice is not an error.
	if err := ws.Remove("input.mp4"); err != nil {
		t.Fatalf("second Remove() error = %v", err)
	}
}

// TestStoreRejectsEscapingNames checks logical names stay inside the
// scratch directory.
func TestStoreRejectsEscapingNames(t *testing.T) {
	ws, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer ws.Close()

	for _, name := range []string{"", "  ", "../escape.mp4", "a/b.mp4", `a\b.mp4`, "."} {
		if err := ws.Write(name, []byte("x")); err == nil {
			t.Fatalf("Write(%q) succeeded, want error", name)
		}
	}
}

// TestStoreCloseRemovesDirectory checks nothing outlives the job.
func TestStoreCloseRemovesDirectory(t *testing.T) {
	ws, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	path, err := ws.Path("output.mp4")
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if err := ws.Write("output.mp4", []byte("data")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if err := ws.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("stat after close = %v, want not-exist", err)
	}

	if _, err := ws.Read("output.mp4"); err == nil {
		t.Fatal("expected error reading from closed workspace")
	}
	if err := ws.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}
