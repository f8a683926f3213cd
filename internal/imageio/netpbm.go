package imageio

import (
	"bufio"
	"bytes"
	"fmt"

	"github.com/spakin/netpbm"
	"github.com/spakin/netpbm/npcolor"

	"sv/internal/pixel"
)

// netpbmHeaderPeek bounds how far into a file the netpbm header may extend
const netpbmHeaderPeek = 4096

// checkNetpbmSize reads the header without consuming r and rejects sizes
// that cannot be held in memory
func checkNetpbmSize(r *bufio.Reader) error {
	head, _ := r.Peek(netpbmHeaderPeek)
	cfg, err := netpbm.DecodeConfig(bytes.NewReader(head))
	if err != nil {
		return fmt.Errorf("reading netpbm header: %w", err)
	}
	// up to 4 channels for PAM
	return pixel.CheckSize(cfg.Width, cfg.Height, 4)
}

// decodeNetpbm decodes a PGM or PPM file, binary or plain. Files with a maxval
// above 255 are stored as uint16 and the others as uint8.
func decodeNetpbm(r *bufio.Reader, rep pixel.Representation) (netpbm.Image, error) {
	if err := checkNetpbmSize(r); err != nil {
		return nil, err
	}
	img, err := netpbm.Decode(r, &netpbm.DecodeOptions{Target: netpbm.PNM, Exact: true})
	if err != nil {
		return nil, err
	}
	if wide := img.MaxValue() > 255; wide != (rep == pixel.U16) {
		return nil, errWrongRepresentation
	}
	return img, nil
}

func netpbmDepth(img netpbm.Image) int {
	if img.Format() == netpbm.PPM {
		return 3
	}
	return 1
}

// netpbmBuffer copies the raw samples of img, without scaling by maxval
func netpbmBuffer[T uint8 | uint16](img netpbm.Image) (*pixel.Buffer[T], error) {
	b := img.Bounds()
	buf := pixel.NewBuffer[T](b.Dx(), b.Dy(), netpbmDepth(img))
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			if err := setNetpbmSample(buf, x, y, img.At(b.Min.X+x, b.Min.Y+y)); err != nil {
				return nil, err
			}
		}
	}
	return buf, nil
}

func setNetpbmSample[T uint8 | uint16](buf *pixel.Buffer[T], x, y int, c any) error {
	switch c := c.(type) {
	case npcolor.GrayM:
		buf.Set(x, y, 0, T(c.Y))
	case npcolor.GrayM32:
		buf.Set(x, y, 0, T(c.Y))
	case npcolor.RGBM:
		buf.Set(x, y, 0, T(c.R))
		buf.Set(x, y, 1, T(c.G))
		buf.Set(x, y, 2, T(c.B))
	case npcolor.RGBM64:
		buf.Set(x, y, 0, T(c.R))
		buf.Set(x, y, 1, T(c.G))
		buf.Set(x, y, 2, T(c.B))
	default:
		return fmt.Errorf("unsupported netpbm colour %T", c)
	}
	return nil
}

// isNetpbm reports whether magic starts a PGM or PPM file
func isNetpbm(magic []byte) bool {
	switch string(magic) {
	case "P2", "P3", "P5", "P6":
		return true
	}
	return false
}
