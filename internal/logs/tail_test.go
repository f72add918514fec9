package logs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeLog(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "neuralplayd.log")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestTailReturnsLastLines(t *testing.T) {
	path := writeLog(t, "one\ntwo\nthree\nfour\n")
	result, err := Tail(path, -1, 2)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(result.Lines) != 2 || result.Lines[0] != "three" || result.Lines[1] != "four" {
		t.Fatalf("lines = %v", result.Lines)
	}
	if result.Offset <= 0 {
		t.Fatalf("offset = %d", result.Offset)
	}
}

func TestTailResumesFromOffset(t *testing.T) {
	path := writeLog(t, "one\ntwo\n")
	first, err := Tail(path, -1, 10)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("three\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()

	second, err := Tail(path, first.Offset, 10)
	if err != nil {
		t.Fatalf("tail from offset: %v", err)
	}
	if len(second.Lines) != 1 || second.Lines[0] != "three" {
		t.Fatalf("lines = %v", second.Lines)
	}
}

func TestTailMissingFileIsEmpty(t *testing.T) {
	result, err := Tail(filepath.Join(t.TempDir(), "absent.log"), -1, 5)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(result.Lines) != 0 || result.Offset != 0 {
		t.Fatalf("result = %+v", result)
	}
}

func TestTailHandlesTruncation(t *testing.T) {
	path := writeLog(t, "one\ntwo\nthree\n")
	first, err := Tail(path, -1, 10)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}

	if err := os.WriteFile(path, []byte("fresh\n"), 0o644); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	second, err := Tail(path, first.Offset, 10)
	if err != nil {
		t.Fatalf("tail after truncate: %v", err)
	}
	if len(second.Lines) != 1 || second.Lines[0] != "fresh" {
		t.Fatalf("lines = %v", second.Lines)
	}
}
