package console

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestChannelsSeparate(t *testing.T) {
	var result, diag bytes.Buffer
	c := New(&result, &diag)

	c.Print("b=10\n")
	c.Error("warning\n")

	if result.String() != "b=10\n" {
		t.Errorf("result channel = %q", result.String())
	}
	if diag.String() != "warning\n" {
		t.Errorf("diagnostic channel = %q", diag.String())
	}
}

func TestFail(t *testing.T) {
	var result, diag bytes.Buffer
	c := New(&result, &diag)

	c.Fail(errors.New("n > 16 is not supported"))

	if got, want := diag.String(), "\nerror: n > 16 is not supported.\n"; got != want {
		t.Errorf("Fail() wrote %q, want %q", got, want)
	}
	if result.Len() != 0 {
		t.Errorf("Fail() wrote to the result channel: %q", result.String())
	}
}

func TestManaged(t *testing.T) {
	dir := t.TempDir()

	c, err := Managed(dir, "results.txt")
	if err != nil {
		t.Fatalf("Managed() error = %v", err)
	}
	c.Print("first\n")
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	// Appends across runs
	c, err = Managed(dir, "results.txt")
	if err != nil {
		t.Fatalf("Managed() error = %v", err)
	}
	c.Print("second\n")
	c.Close()

	data, err := os.ReadFile(filepath.Join(dir, "results.txt"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "first\nsecond\n" {
		t.Errorf("results file = %q", data)
	}
}

func TestManagedBadDir(t *testing.T) {
	if _, err := Managed(filepath.Join(t.TempDir(), "missing"), "results.txt"); err == nil {
		t.Error("Managed() with missing directory returned nil error")
	}
}
