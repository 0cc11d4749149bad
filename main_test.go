package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteQASMFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bell.qasm")
	if err := writeQASMFile(path, "OPENQASM 2.0;\n"); err != nil {
		t.Fatalf("writeQASMFile error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "OPENQASM 2.0;\n" {
		t.Errorf("file = %q", data)
	}

	if err := writeQASMFile(filepath.Join(t.TempDir(), "missing", "x.qasm"), ""); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestQASMCommandOutput(t *testing.T) {
	t.Setenv("QTERMLAB_HISTORY_DB", "")
	t.Setenv("QTERMLAB_LOG_FILE", "")
	prog := writeFile(t, "bell.qc", sampleProgram)
	out := filepath.Join(t.TempDir(), "bell.qasm")

	root := newRootCmd()
	root.SetArgs([]string{"qasm", prog, "-o", out})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err != nil {
		t.Fatalf("qasm command error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "cx q[0], q[1];") {
		t.Errorf("unexpected QASM:\n%s", data)
	}
}

func TestHistoryOpenFailure(t *testing.T) {
	t.Setenv("QTERMLAB_HISTORY_DB", filepath.Join(t.TempDir(), "missing", "runs.db"))
	t.Setenv("QTERMLAB_LOG_FILE", filepath.Join(t.TempDir(), "qtermlab.log"))

	root := newRootCmd()
	root.SetArgs([]string{"history"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err == nil {
		t.Fatal("expected an error when the history database cannot be opened")
	}
}
