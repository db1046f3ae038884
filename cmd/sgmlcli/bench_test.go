package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeTestArchive(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "source.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("source/source.xml")
	if err != nil {
		t.Fatalf("Create member: %v", err)
	}
	if _, err := w.Write([]byte(`<book><title>Dune</title></book>`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func TestExtractMember(t *testing.T) {
	dir := t.TempDir()
	archive := writeTestArchive(t, dir)

	extractDir := t.TempDir()
	path, err := extractMember(archive, "source/source.xml", extractDir)
	if err != nil {
		t.Fatalf("extractMember: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != `<book><title>Dune</title></book>` {
		t.Fatalf("data = %q", data)
	}
}

func TestExtractMemberMissing(t *testing.T) {
	dir := t.TempDir()
	archive := writeTestArchive(t, dir)

	if _, err := extractMember(archive, "nope.xml", t.TempDir()); err == nil {
		t.Fatalf("expected an error for a missing archive member")
	}
}

func TestRunBenchReportsAggregateTimings(t *testing.T) {
	dir := t.TempDir()
	archive := writeTestArchive(t, dir)

	var buf bytes.Buffer
	if err := runBench(&buf, archive, "source/source.xml", 3); err != nil {
		t.Fatalf("runBench: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("3 runs")) {
		t.Fatalf("output = %q, missing aggregate summary", buf.String())
	}
}
