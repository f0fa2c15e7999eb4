package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSamplePath(t *testing.T) {
	ts := time.Unix(1700000000, 123)

	var tests = []struct {
		format string
		want   string
	}{
		{"jpg", filepath.Join("assets", "positive", "1700000000000000123-000007.jpg")},
		{".png", filepath.Join("assets", "positive", "1700000000000000123-000007.png")},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got := SamplePath(filepath.Join("assets", "positive"), ts, 7, tt.format)
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSamplePathDistinctWithinTick(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	if SamplePath("out", ts, 1, "jpg") == SamplePath("out", ts, 2, "jpg") {
		t.Error("same timestamp with different sequence numbers should give different paths")
	}
}

func TestEnsureDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "assets", "negative")

	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("directory was not created: %v", err)
	}
	if err := EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir on an existing directory failed: %v", err)
	}

	file := filepath.Join(root, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDir(file); err == nil {
		t.Error("expected an error for a regular file")
	}
	if err := EnsureDir(""); err == nil {
		t.Error("expected an error for an empty path")
	}
}
