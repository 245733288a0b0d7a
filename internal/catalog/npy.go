// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var npyMagic = []byte("\x93NUMPY")

// maxNPYHeader bounds the header dict; real headers are well under 1 KiB.
const maxNPYHeader = 1 << 16

// MaxMatrixDim bounds each dimension of a similarity matrix.
const MaxMatrixDim = 100_000

// npyPreallocRows caps the rows allocated before their bytes have been read,
// so a header claiming a huge shape fails on the short payload instead of
// on the allocation.
const npyPreallocRows = 1024

type npyHeader struct {
	order    binary.ByteOrder
	wordSize int
	fortran  bool
	rows     int
	cols     int

	// headerSize is the byte length of preamble plus header dict.
	headerSize int64
}

// fileSize is the exact size of a well-formed file with this header.
func (h *npyHeader) fileSize() int64 {
	return h.headerSize + int64(h.rows)*int64(h.cols)*int64(h.wordSize)
}

// ReadNPY decodes a 2-D square float32 or float64 NumPy array (.npy format
// versions 1 to 3) into a Matrix. Fortran-ordered arrays are transposed into
// row-major order.
func ReadNPY(r io.Reader) (*Matrix, error) {
	return readNPY(r, -1)
}

// readNPY decodes like ReadNPY. A non-negative size is the total input
// length and must match the size the header declares.
func readNPY(r io.Reader, size int64) (*Matrix, error) {
	br := bufio.NewReaderSize(r, 1<<20)

	h, err := readNPYHeader(br)
	if err != nil {
		return nil, err
	}
	if h.rows != h.cols {
		return nil, fmt.Errorf("similarity matrix is %dx%d, want a square matrix", h.rows, h.cols)
	}
	if size >= 0 && size != h.fileSize() {
		return nil, fmt.Errorf("npy file is %d bytes, header declares %d", size, h.fileSize())
	}

	n := h.rows
	data := make([]float64, 0, min(n, npyPreallocRows)*n)
	buf := make([]byte, h.wordSize*n)
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, fmt.Errorf("read matrix row %d: %w", i, err)
		}
		for j := 0; j < n; j++ {
			word := buf[j*h.wordSize : (j+1)*h.wordSize]
			if h.wordSize == 4 {
				data = append(data, float64(math.Float32frombits(h.order.Uint32(word))))
			} else {
				data = append(data, math.Float64frombits(h.order.Uint64(word)))
			}
		}
	}

	if h.fortran {
		transpose(data, n)
	}
	return NewMatrix(n, data)
}

func readNPYHeader(r io.Reader) (*npyHeader, error) {
	prefix := make([]byte, len(npyMagic)+2)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return nil, fmt.Errorf("read npy preamble: %w", err)
	}
	if !bytes.Equal(prefix[:len(npyMagic)], npyMagic) {
		return nil, fmt.Errorf("not an npy file")
	}

	major := prefix[len(npyMagic)]
	var headerLen, lenField int
	switch major {
	case 1:
		var l uint16
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return nil, fmt.Errorf("read npy header length: %w", err)
		}
		headerLen, lenField = int(l), 2
	case 2, 3:
		var l uint32
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return nil, fmt.Errorf("read npy header length: %w", err)
		}
		headerLen, lenField = int(l), 4
	default:
		return nil, fmt.Errorf("unsupported npy format version %d", major)
	}
	if headerLen <= 0 || headerLen > maxNPYHeader {
		return nil, fmt.Errorf("npy header length %d out of range", headerLen)
	}

	raw := make([]byte, headerLen)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("read npy header: %w", err)
	}

	h, err := parseNPYDict(string(raw))
	if err != nil {
		return nil, err
	}
	h.headerSize = int64(len(prefix) + lenField + headerLen)
	return h, nil
}

// parseNPYDict reads the descr, fortran_order and shape keys from the
// Python dict literal that forms an npy header.
func parseNPYDict(s string) (*npyHeader, error) {
	h := &npyHeader{}

	descr, err := dictValue(s, "descr")
	if err != nil {
		return nil, err
	}
	descr = strings.Trim(descr, `'"`)
	if len(descr) != 3 || descr[1] != 'f' {
		return nil, fmt.Errorf("unsupported npy dtype %q, want float32 or float64", descr)
	}
	switch descr[0] {
	case '<', '|', '=':
		h.order = binary.LittleEndian
	case '>':
		h.order = binary.BigEndian
	default:
		return nil, fmt.Errorf("unsupported npy byte order in %q", descr)
	}
	switch descr[2] {
	case '4':
		h.wordSize = 4
	case '8':
		h.wordSize = 8
	default:
		return nil, fmt.Errorf("unsupported npy dtype %q, want float32 or float64", descr)
	}

	fortran, err := dictValue(s, "fortran_order")
	if err != nil {
		return nil, err
	}
	switch fortran {
	case "False":
	case "True":
		h.fortran = true
	default:
		return nil, fmt.Errorf("invalid npy fortran_order %q", fortran)
	}

	shape, err := dictValue(s, "shape")
	if err != nil {
		return nil, err
	}
	dims := strings.FieldsFunc(strings.Trim(shape, "()"), func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(dims) != 2 {
		return nil, fmt.Errorf("npy shape %s is not 2-D", shape)
	}
	if h.rows, err = strconv.Atoi(dims[0]); err != nil || h.rows <= 0 {
		return nil, fmt.Errorf("invalid npy shape %s", shape)
	}
	if h.cols, err = strconv.Atoi(dims[1]); err != nil || h.cols <= 0 {
		return nil, fmt.Errorf("invalid npy shape %s", shape)
	}
	if h.rows > MaxMatrixDim || h.cols > MaxMatrixDim {
		return nil, fmt.Errorf("npy shape %s exceeds the %d limit per dimension", shape, MaxMatrixDim)
	}
	return h, nil
}

// dictValue extracts the raw value for key from a flat Python dict literal.
// Tuple values are returned with their parentheses.
func dictValue(s, key string) (string, error) {
	for _, quote := range []string{"'", `"`} {
		needle := quote + key + quote
		i := strings.Index(s, needle)
		if i < 0 {
			continue
		}
		rest := strings.TrimSpace(s[i+len(needle):])
		if !strings.HasPrefix(rest, ":") {
			return "", fmt.Errorf("malformed npy header near %q", key)
		}
		rest = strings.TrimSpace(rest[1:])

		if strings.HasPrefix(rest, "(") {
			end := strings.IndexByte(rest, ')')
			if end < 0 {
				return "", fmt.Errorf("unterminated tuple for npy key %q", key)
			}
			return rest[:end+1], nil
		}
		end := strings.IndexAny(rest, ",}")
		if end < 0 {
			return "", fmt.Errorf("unterminated value for npy key %q", key)
		}
		return strings.TrimSpace(rest[:end]), nil
	}
	return "", fmt.Errorf("npy header missing %q", key)
}

func transpose(data []float64, n int) {
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			data[i*n+j], data[j*n+i] = data[j*n+i], data[i*n+j]
		}
	}
}

// WriteNPY encodes m as a little-endian float64 .npy version 1 file.
func WriteNPY(w io.Writer, m *Matrix) error {
	dict := fmt.Sprintf("{'descr': '<f8', 'fortran_order': False, 'shape': (%d, %d), }", m.n, m.n)

	// Preamble plus header is padded with spaces to a multiple of 64 and
	// terminated by a newline.
	total := len(npyMagic) + 2 + 2 + len(dict) + 1
	pad := (64 - total%64) % 64
	header := dict + strings.Repeat(" ", pad) + "\n"

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(npyMagic); err != nil {
		return err
	}
	if _, err := bw.Write([]byte{1, 0}); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint16(len(header))); err != nil {
		return err
	}
	if _, err := bw.WriteString(header); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, m.data); err != nil {
		return err
	}
	return bw.Flush()
}
