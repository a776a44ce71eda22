package layerstore

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var npyMagic = []byte("\x93NUMPY")

// ErrFormat reports a malformed or unsupported embedding file.
type ErrFormat struct {
	Name   string
	Reason string
}

func (e *ErrFormat) Error() string {
	return fmt.Sprintf("layerstore: %s: %s", e.Name, e.Reason)
}

type npyHeader struct {
	descr        string
	fortranOrder bool
	shape        []int
}

// decodeNPY decodes a two-dimensional little-endian float32 or float64
// array in C order. Versions 1.0, 2.0 and 3.0 of the format are accepted.
func decodeNPY(name string, data []byte) (rows, dim int, values []float32, err error) {
	fail := func(format string, args ...any) (int, int, []float32, error) {
		return 0, 0, nil, &ErrFormat{Name: name, Reason: fmt.Sprintf(format, args...)}
	}

	if len(data) < len(npyMagic)+2 || !bytes.Equal(data[:len(npyMagic)], npyMagic) {
		return fail("missing npy magic")
	}
	major := data[len(npyMagic)]
	off := len(npyMagic) + 2

	var headerLen int
	switch major {
	case 1:
		if len(data) < off+2 {
			return fail("truncated header length")
		}
		headerLen = int(binary.LittleEndian.Uint16(data[off:]))
		off += 2
	case 2, 3:
		if len(data) < off+4 {
			return fail("truncated header length")
		}
		headerLen = int(binary.LittleEndian.Uint32(data[off:]))
		off += 4
	default:
		return fail("unsupported npy version %d", major)
	}

	if len(data) < off+headerLen {
		return fail("truncated header")
	}
	h, err := parseNPYHeader(string(data[off : off+headerLen]))
	if err != nil {
		return fail("%v", err)
	}
	off += headerLen

	if h.fortranOrder {
		return fail("fortran order is not supported")
	}
	if len(h.shape) != 2 {
		return fail("expected a 2-d array, got shape %v", h.shape)
	}
	rows, dim = h.shape[0], h.shape[1]

	var size int
	switch h.descr {
	case "<f4":
		size = 4
	case "<f8":
		size = 8
	default:
		return fail("unsupported dtype %q", h.descr)
	}

	n := rows * dim
	body := data[off:]
	if len(body) != n*size {
		return fail("payload holds %d bytes, shape needs %d", len(body), n*size)
	}

	values = make([]float32, n)
	if size == 4 {
		for i := range values {
			values[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[i*4:]))
		}
	} else {
		for i := range values {
			values[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(body[i*8:])))
		}
	}
	return rows, dim, values, nil
}

// parseNPYHeader parses the Python dict literal of an npy header, e.g.
// {'descr': '<f4', 'fortran_order': False, 'shape': (3, 4), }
func parseNPYHeader(s string) (npyHeader, error) {
	var h npyHeader

	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return h, fmt.Errorf("header is not a dict: %q", s)
	}
	body := s[1 : len(s)-1]

	descr, ok := dictValue(body, "descr")
	if !ok {
		return h, fmt.Errorf("header lacks descr")
	}
	h.descr = strings.Trim(descr, `'"`)

	fo, ok := dictValue(body, "fortran_order")
	if !ok {
		return h, fmt.Errorf("header lacks fortran_order")
	}
	switch fo {
	case "True":
		h.fortranOrder = true
	case "False":
	default:
		return h, fmt.Errorf("invalid fortran_order %q", fo)
	}

	shape, ok := dictValue(body, "shape")
	if !ok {
		return h, fmt.Errorf("header lacks shape")
	}
	shape = strings.TrimSpace(shape)
	if !strings.HasPrefix(shape, "(") || !strings.HasSuffix(shape, ")") {
		return h, fmt.Errorf("invalid shape %q", shape)
	}
	for _, part := range strings.Split(shape[1:len(shape)-1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			return h, fmt.Errorf("invalid shape %q", shape)
		}
		h.shape = append(h.shape, v)
	}
	return h, nil
}

// dictValue returns the raw value text of key in a dict literal body.
func dictValue(body, key string) (string, bool) {
	for _, quote := range []string{"'", `"`} {
		needle := quote + key + quote
		i := strings.Index(body, needle)
		if i < 0 {
			continue
		}
		rest := strings.TrimSpace(body[i+len(needle):])
		if !strings.HasPrefix(rest, ":") {
			return "", false
		}
		rest = strings.TrimSpace(rest[1:])

		// Tuples contain commas, so they end at the closing parenthesis.
		if strings.HasPrefix(rest, "(") {
			end := strings.Index(rest, ")")
			if end < 0 {
				return "", false
			}
			return rest[:end+1], true
		}
		if end := strings.IndexAny(rest, ",}"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest), true
	}
	return "", false
}

// EncodeNPY encodes a row-major float32 matrix as an npy version 1.0 file.
func EncodeNPY(rows, dim int, values []float32) []byte {
	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%d, %d), }", rows, dim)
	// Magic, version and length take 10 bytes; the header is padded so that
	// the payload starts on a 64-byte boundary and ends with a newline.
	total := 10 + len(header) + 1
	pad := (64 - total%64) % 64
	header += strings.Repeat(" ", pad) + "\n"

	buf := make([]byte, 0, 10+len(header)+len(values)*4)
	buf = append(buf, npyMagic...)
	buf = append(buf, 1, 0)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(header)))
	buf = append(buf, header...)
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}
