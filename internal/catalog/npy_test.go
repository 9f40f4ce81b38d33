package catalog

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeRawNpy(t *testing.T, major byte, header string, data []byte) string {
	t.Helper()

	buf := []byte{0x93, 'N', 'U', 'M', 'P', 'Y', major, 0}
	if major == 2 {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(header)))
	} else {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(header)))
	}
	buf = append(buf, header...)
	buf = append(buf, data...)

	path := filepath.Join(t.TempDir(), "matrix.npy")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadMatrixFloat64(t *testing.T) {
	var data []byte
	for _, v := range []float64{1.5, -2.25, 0, 4} {
		data = binary.LittleEndian.AppendUint64(data, math.Float64bits(v))
	}
	path := writeRawNpy(t, 1, "{'descr': '<f8', 'fortran_order': False, 'shape': (2, 2), }\n", data)

	matrix, err := readMatrix(path)
	if err != nil {
		t.Fatalf("readMatrix() error = %v", err)
	}
	if len(matrix) != 2 || len(matrix[0]) != 2 {
		t.Fatalf("readMatrix() shape = %dx%d, want 2x2", len(matrix), len(matrix[0]))
	}
	want := [][]float32{{1.5, -2.25}, {0, 4}}
	for i := range want {
		for j := range want[i] {
			if matrix[i][j] != want[i][j] {
				t.Errorf("matrix[%d][%d] = %v, want %v", i, j, matrix[i][j], want[i][j])
			}
		}
	}
}

func TestReadMatrixVersion2Header(t *testing.T) {
	data := binary.LittleEndian.AppendUint32(nil, math.Float32bits(7))
	path := writeRawNpy(t, 2, "{'descr': '<f4', 'fortran_order': False, 'shape': (1, 1), }\n", data)

	matrix, err := readMatrix(path)
	if err != nil {
		t.Fatalf("readMatrix() error = %v", err)
	}
	if matrix[0][0] != 7 {
		t.Errorf("matrix[0][0] = %v, want 7", matrix[0][0])
	}
}

func TestReadMatrixRejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
		data   int // payload bytes to write
	}{
		{"fortran order", "{'descr': '<f4', 'fortran_order': True, 'shape': (1, 1), }\n", 4},
		{"one dimensional", "{'descr': '<f4', 'fortran_order': False, 'shape': (4,), }\n", 16},
		{"unsupported dtype", "{'descr': '<i8', 'fortran_order': False, 'shape': (1, 1), }\n", 8},
		{"truncated data", "{'descr': '<f4', 'fortran_order': False, 'shape': (2, 2), }\n", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRawNpy(t, 1, tt.header, make([]byte, tt.data))
			if _, err := readMatrix(path); err == nil {
				t.Errorf("readMatrix() should fail for %s", tt.name)
			}
		})
	}
}

func TestReadMatrixRejectsNonNpy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.npy")
	if err := os.WriteFile(path, []byte("not a numpy file at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readMatrix(path); err == nil {
		t.Fatal("readMatrix() should reject a non-npy file")
	}
}
