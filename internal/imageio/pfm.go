package imageio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"

	"sv/internal/pixel"
)

var errNotPFM = errors.New("not a PFM file")

// readToken returns the next whitespace separated header token, skipping comments
func readToken(r *bufio.Reader) (string, error) {
	var tok []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && len(tok) > 0 {
				return string(tok), nil
			}
			return "", err
		}
		switch {
		case b == '#' && len(tok) == 0:
			if _, err := r.ReadString('\n'); err != nil {
				return "", err
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, b)
		}
	}
}

func readInts(r *bufio.Reader, n int) ([]int, error) {
	values := make([]int, n)
	for i := range values {
		tok, err := readToken(r)
		if err != nil {
			return nil, err
		}
		v, err := strconv.Atoi(tok)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid header value %q", tok)
		}
		values[i] = v
	}
	return values, nil
}

// decodePFM reads a portable float map. Rows are stored bottom to top and a
// negative scale marks little endian data.
func decodePFM(r *bufio.Reader) (*pixel.Buffer[float32], error) {
	magic := make([]byte, 2)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, errNotPFM
	}

	var depth int
	switch string(magic) {
	case "Pf":
		depth = 1
	case "PF":
		depth = 3
	default:
		return nil, errNotPFM
	}

	size, err := readInts(r, 2)
	if err != nil {
		return nil, err
	}
	width, height := size[0], size[1]
	if err := pixel.CheckSize(width, height, depth); err != nil {
		return nil, err
	}

	tok, err := readToken(r)
	if err != nil {
		return nil, err
	}
	scale, err := strconv.ParseFloat(tok, 64)
	if err != nil || scale == 0 {
		return nil, fmt.Errorf("invalid PFM scale %q", tok)
	}

	var order binary.ByteOrder = binary.BigEndian
	if scale < 0 {
		order = binary.LittleEndian
	}

	buf := pixel.NewBuffer[float32](width, height, depth)
	row := make([]float32, width*depth)
	for y := height - 1; y >= 0; y-- {
		if err := binary.Read(r, order, row); err != nil {
			return nil, fmt.Errorf("reading pixel data: %w", err)
		}
		copy(buf.Pix[y*width*depth:], row)
	}
	return buf, nil
}
