package catalog

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// npyMagic is the leading byte sequence of every NumPy .npy file.
var npyMagic = []byte{0x93, 'N', 'U', 'M', 'P', 'Y'}

// readMatrix reads a 2-D float matrix from a NumPy .npy file (format versions
// 1.0 and 2.0). Only little-endian float32/float64 C-ordered arrays are
// accepted; everything else is a load failure, not a skip.
func readMatrix(path string) ([][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open embeddings file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	header, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if header.fortranOrder {
		return nil, fmt.Errorf("%s: fortran-ordered arrays are not supported", path)
	}
	if len(header.shape) != 2 {
		return nil, fmt.Errorf("%s: expected a 2-D matrix, got %d dimension(s)", path, len(header.shape))
	}

	rows, cols := header.shape[0], header.shape[1]

	var itemSize int
	switch header.descr {
	case "<f4", "|f4":
		itemSize = 4
	case "<f8", "|f8":
		itemSize = 8
	default:
		return nil, fmt.Errorf("%s: unsupported dtype %q (want <f4 or <f8)", path, header.descr)
	}

	buf := make([]byte, cols*itemSize)
	matrix := make([][]float32, rows)
	for i := 0; i < rows; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("%s: truncated data at row %d: %w", path, i, err)
		}
		vec := make([]float32, cols)
		for j := 0; j < cols; j++ {
			if itemSize == 4 {
				vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(buf[j*4:]))
			} else {
				vec[j] = float32(math.Float64frombits(binary.LittleEndian.Uint64(buf[j*8:])))
			}
		}
		matrix[i] = vec
	}

	return matrix, nil
}

type npyHeader struct {
	descr        string
	fortranOrder bool
	shape        []int
}

func readHeader(r io.Reader) (*npyHeader, error) {
	magic := make([]byte, 8)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("failed to read npy magic: %w", err)
	}
	for i, b := range npyMagic {
		if magic[i] != b {
			return nil, fmt.Errorf("not a npy file")
		}
	}

	major := magic[6]
	var headerLen int
	switch major {
	case 1:
		var l uint16
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return nil, fmt.Errorf("failed to read header length: %w", err)
		}
		headerLen = int(l)
	case 2:
		var l uint32
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return nil, fmt.Errorf("failed to read header length: %w", err)
		}
		headerLen = int(l)
	default:
		return nil, fmt.Errorf("unsupported npy version %d", major)
	}

	raw := make([]byte, headerLen)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	return parseHeader(string(raw))
}

// parseHeader decodes the python dict literal npy headers carry, e.g.
// {'descr': '<f4', 'fortran_order': False, 'shape': (120, 512), }
func parseHeader(s string) (*npyHeader, error) {
	h := &npyHeader{}

	descr, err := dictString(s, "descr")
	if err != nil {
		return nil, err
	}
	h.descr = descr

	fortran, err := dictValue(s, "fortran_order")
	if err != nil {
		return nil, err
	}
	h.fortranOrder = strings.HasPrefix(fortran, "True")

	shapeRaw, err := dictValue(s, "shape")
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(shapeRaw, "(") {
		return nil, fmt.Errorf("malformed shape in npy header: %q", shapeRaw)
	}
	end := strings.Index(shapeRaw, ")")
	if end < 0 {
		return nil, fmt.Errorf("malformed shape in npy header: %q", shapeRaw)
	}
	for _, part := range strings.Split(shapeRaw[1:end], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("malformed shape dimension %q: %w", part, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("negative shape dimension %d", n)
		}
		h.shape = append(h.shape, n)
	}

	return h, nil
}

// dictValue returns the raw text following "'key':" up to the next separator.
func dictValue(s, key string) (string, error) {
	idx := strings.Index(s, "'"+key+"'")
	if idx < 0 {
		return "", fmt.Errorf("npy header missing %q", key)
	}
	rest := s[idx+len(key)+2:]
	colon := strings.Index(rest, ":")
	if colon < 0 {
		return "", fmt.Errorf("malformed npy header near %q", key)
	}
	return strings.TrimSpace(rest[colon+1:]), nil
}

// dictString returns a quoted string value for key.
func dictString(s, key string) (string, error) {
	raw, err := dictValue(s, key)
	if err != nil {
		return "", err
	}
	if len(raw) < 2 || raw[0] != '\'' {
		return "", fmt.Errorf("expected quoted value for %q, got %q", key, raw)
	}
	end := strings.Index(raw[1:], "'")
	if end < 0 {
		return "", fmt.Errorf("unterminated string for %q", key)
	}
	return raw[1 : 1+end], nil
}
