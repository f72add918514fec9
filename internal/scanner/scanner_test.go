package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"neuralplay/internal/logging"
)

func TestScanFindsNestedVideosOnly(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a.mp4"))
	mustWrite(t, filepath.Join(root, "notes.txt"))
	mustWrite(t, filepath.Join(root, "nested", "deep", "b.MKV"))
	mustWrite(t, filepath.Join(root, "nested", "c.mov"))

	s := New(logging.NewNop(), []string{".mp4", ".mkv", ".mov"})
	files, err := s.Scan(root)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []string{
		filepath.Join(root, "a.mp4"),
		filepath.Join(root, "nested", "c.mov"),
		filepath.Join(root, "nested", "deep", "b.MKV"),
	}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("files[%d] = %s, want %s", i, files[i], want[i])
		}
	}
}

func TestScanSkipsUnreadableDirectories(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "ok.mp4"))
	locked := filepath.Join(root, "locked")
	mustWrite(t, filepath.Join(locked, "hidden.mp4"))
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	s := New(logging.NewNop(), []string{".mp4"})
	files, err := s.Scan(root)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(files) != 1 || files[0] != filepath.Join(root, "ok.mp4") {
		t.Fatalf("files = %v", files)
	}
}

func mustWrite(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}
