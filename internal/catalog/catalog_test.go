package catalog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeNpyFile writes a little-endian float32 C-ordered .npy matrix.
func writeNpyFile(t *testing.T, dir, name string, rows [][]float32) string {
	t.Helper()

	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%d, %d), }", len(rows), cols)
	for (10+len(header)+1)%64 != 0 {
		header += " "
	}
	header += "\n"

	buf := []byte{0x93, 'N', 'U', 'M', 'P', 'Y', 1, 0}
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(header)))
	buf = append(buf, header...)
	for _, row := range rows {
		for _, v := range row {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// writeMetadataFile writes a metadata CSV in the pandas to_csv shape, with a
// leading unnamed index column.
func writeMetadataFile(t *testing.T, dir, name string, imagePaths []string) string {
	t.Helper()

	content := ",image_path\n"
	for i, p := range imagePaths {
		content += fmt.Sprintf("%d,%s\n", i, p)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	metadata := writeMetadataFile(t, dir, "metadata.csv", []string{
		"/content/new/imgs/886029004.jpg",
		"/content/new/imgs/886029005.jpg",
		"/content/new/imgs/886029006.jpg",
	})
	embeddings := writeNpyFile(t, dir, "embeddings.npy", [][]float32{
		{1, 0},
		{0, 1},
		{0.5, 0.5},
	})

	cat, err := Load(metadata, embeddings)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cat.RowCount(); got != 3 {
		t.Errorf("RowCount() = %d, want 3", got)
	}
	if got := cat.Dimensions(); got != 2 {
		t.Errorf("Dimensions() = %d, want 2", got)
	}

	path, err := cat.ImagePathAt(1)
	if err != nil {
		t.Fatalf("ImagePathAt(1) error = %v", err)
	}
	if path != "/content/new/imgs/886029005.jpg" {
		t.Errorf("ImagePathAt(1) = %q", path)
	}

	vec, err := cat.VectorAt(2)
	if err != nil {
		t.Fatalf("VectorAt(2) error = %v", err)
	}
	if vec[0] != 0.5 || vec[1] != 0.5 {
		t.Errorf("VectorAt(2) = %v, want [0.5 0.5]", vec)
	}
}

func TestLoadRowCountMismatch(t *testing.T) {
	dir := t.TempDir()
	metadata := writeMetadataFile(t, dir, "metadata.csv", []string{
		"/content/new/imgs/1.jpg",
		"/content/new/imgs/2.jpg",
	})
	embeddings := writeNpyFile(t, dir, "embeddings.npy", [][]float32{{1, 0}})

	if _, err := Load(metadata, embeddings); err == nil {
		t.Fatal("Load() with mismatched row counts should fail")
	}
}

func TestLoadMissingImagePathColumn(t *testing.T) {
	dir := t.TempDir()
	metadata := filepath.Join(dir, "metadata.csv")
	if err := os.WriteFile(metadata, []byte("id,name\n0,foo\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	embeddings := writeNpyFile(t, dir, "embeddings.npy", [][]float32{{1}})

	if _, err := Load(metadata, embeddings); err == nil {
		t.Fatal("Load() without image_path column should fail")
	}
}

func TestFindRowBySuffix(t *testing.T) {
	dir := t.TempDir()
	metadata := writeMetadataFile(t, dir, "metadata.csv", []string{
		"/content/new/imgs/886029004.jpg",
		"/content/new/imgs/42.jpg",
		"/content/new/other/42.jpg",
	})
	embeddings := writeNpyFile(t, dir, "embeddings.npy", [][]float32{{1}, {2}, {3}})

	cat, err := Load(metadata, embeddings)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name     string
		filename string
		wantRow  int
		wantOK   bool
	}{
		{"exact match", "886029004.jpg", 0, true},
		{"first match wins on duplicate filename", "42.jpg", 1, true},
		{"unknown filename", "nope.jpg", 0, false},
		{"empty filename", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, ok := cat.FindRowBySuffix(tt.filename)
			if ok != tt.wantOK || (ok && row != tt.wantRow) {
				t.Errorf("FindRowBySuffix(%q) = (%d, %v), want (%d, %v)",
					tt.filename, row, ok, tt.wantRow, tt.wantOK)
			}
		})
	}
}

func TestVectorAtOutOfRange(t *testing.T) {
	dir := t.TempDir()
	metadata := writeMetadataFile(t, dir, "metadata.csv", []string{"/content/new/imgs/1.jpg"})
	embeddings := writeNpyFile(t, dir, "embeddings.npy", [][]float32{{1, 2}})

	cat, err := Load(metadata, embeddings)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	for _, row := range []int{-1, 1, 100} {
		if _, err := cat.VectorAt(row); !errors.Is(err, ErrRowOutOfRange) {
			t.Errorf("VectorAt(%d) error = %v, want ErrRowOutOfRange", row, err)
		}
		if _, err := cat.ImagePathAt(row); !errors.Is(err, ErrRowOutOfRange) {
			t.Errorf("ImagePathAt(%d) error = %v, want ErrRowOutOfRange", row, err)
		}
	}
}
