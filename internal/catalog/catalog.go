// Package catalog holds the precomputed image-embedding catalog: one metadata
// row per known product image, aligned by position with a dense embedding
// matrix. The catalog is loaded once at startup and never mutated, so it is
// safe for unbounded concurrent reads.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrRowOutOfRange reports access to a row index outside the catalog. It is a
// structural failure and must surface to the caller, not be skipped.
var ErrRowOutOfRange = errors.New("catalog: row index out of range")

// Catalog is the immutable metadata table plus embedding matrix. Row i of the
// metadata corresponds to row i of the matrix; this alignment is validated at
// load time.
type Catalog struct {
	imagePaths []string
	vectors    [][]float32
	dims       int
}

// Load reads the metadata CSV and the embedding matrix and validates their
// alignment.
// Parameters:
//   - metadataPath: CSV file with an image_path column (a leading unnamed
//     index column, as written by pandas, is tolerated).
//   - embeddingsPath: npy file holding one embedding vector per metadata row.
// Returns:
//   - *Catalog: loaded catalog.
//   - error: non-nil when either source is unreadable, the row counts differ,
//     or any vector's length differs from the catalog dimension.
func Load(metadataPath, embeddingsPath string) (*Catalog, error) {
	paths, err := readImagePaths(metadataPath)
	if err != nil {
		return nil, err
	}

	vectors, err := readMatrix(embeddingsPath)
	if err != nil {
		return nil, err
	}

	if len(paths) != len(vectors) {
		return nil, fmt.Errorf("catalog row count mismatch: metadata has %d rows, embeddings have %d",
			len(paths), len(vectors))
	}

	dims := 0
	if len(vectors) > 0 {
		dims = len(vectors[0])
	}
	for i, vec := range vectors {
		if len(vec) != dims {
			return nil, fmt.Errorf("embedding row %d has dimension %d, want %d", i, len(vec), dims)
		}
	}

	return &Catalog{imagePaths: paths, vectors: vectors, dims: dims}, nil
}

// RowCount returns the number of catalog rows.
func (c *Catalog) RowCount() int {
	return len(c.imagePaths)
}

// Dimensions returns the shared embedding vector length.
func (c *Catalog) Dimensions() int {
	return c.dims
}

// FindRowBySuffix returns the first catalog row whose image path ends with the
// given filename. First match in table order wins when several rows share a
// suffix; that tie-break is deliberate, not an error.
// Parameters:
//   - filename: final path segment to match, e.g. "886029004.jpg".
// Returns:
//   - int: matching row index.
//   - bool: false when no row matches.
func (c *Catalog) FindRowBySuffix(filename string) (int, bool) {
	if filename == "" {
		return 0, false
	}
	for i, p := range c.imagePaths {
		if strings.HasSuffix(p, filename) {
			return i, true
		}
	}
	return 0, false
}

// VectorAt returns the embedding vector at the given row. The returned slice
// is shared, not copied; callers must not modify it.
func (c *Catalog) VectorAt(row int) ([]float32, error) {
	if row < 0 || row >= len(c.vectors) {
		return nil, fmt.Errorf("%w: %d (rows: %d)", ErrRowOutOfRange, row, len(c.vectors))
	}
	return c.vectors[row], nil
}

// ImagePathAt returns the catalog-internal image path at the given row.
func (c *Catalog) ImagePathAt(row int) (string, error) {
	if row < 0 || row >= len(c.imagePaths) {
		return "", fmt.Errorf("%w: %d (rows: %d)", ErrRowOutOfRange, row, len(c.imagePaths))
	}
	return c.imagePaths[row], nil
}

// readImagePaths extracts the image_path column from the metadata CSV.
func readImagePaths(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata header: %w", err)
	}

	col := -1
	for i, name := range header {
		if strings.TrimSpace(name) == "image_path" {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("metadata %s has no image_path column", path)
	}

	var paths []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read metadata row %d: %w", len(paths), err)
		}
		if col >= len(record) {
			return nil, fmt.Errorf("metadata row %d has %d column(s), image_path is column %d",
				len(paths), len(record), col)
		}
		paths = append(paths, record[col])
	}

	return paths, nil
}
