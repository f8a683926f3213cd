package imageio

import (
	"bufio"
	"errors"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"sv/internal/pixel"
)

var errWrongRepresentation = errors.New("image does not use this pixel representation")

// Decoder decodes an image as exactly one pixel representation and fails for
// images stored with a different one
type Decoder interface {
	Representation() pixel.Representation
	Decode(r io.Reader, validMin, validMax float64) (pixel.Adapter, error)
}

// DefaultDecoders returns one decoder per representation, lowest precision first
func DefaultDecoders() []Decoder {
	return []Decoder{u8Decoder{}, u16Decoder{}, floatDecoder{}}
}

type format int

const (
	formatStd format = iota // anything registered with the image package
	formatNetpbm
	formatBitmapOrPAM // netpbm files decoded through the image package
	formatPFM
)

func sniff(r *bufio.Reader) format {
	magic, err := r.Peek(2)
	if err != nil {
		return formatStd
	}
	if isNetpbm(magic) {
		return formatNetpbm
	}
	switch string(magic) {
	case "P1", "P4", "P7":
		return formatBitmapOrPAM
	case "Pf", "PF":
		return formatPFM
	default:
		return formatStd
	}
}

func isOpaque(img image.Image) bool {
	o, ok := img.(interface{ Opaque() bool })
	return ok && o.Opaque()
}

type u8Decoder struct{}

func (u8Decoder) Representation() pixel.Representation { return pixel.U8 }

func (u8Decoder) Decode(r io.Reader, validMin, validMax float64) (pixel.Adapter, error) {
	br := bufio.NewReader(r)
	switch sniff(br) {
	case formatNetpbm:
		img, err := decodeNetpbm(br, pixel.U8)
		if err != nil {
			return nil, err
		}
		buf, err := netpbmBuffer[uint8](img)
		if err != nil {
			return nil, err
		}
		return pixel.NewAdapter(buf, validMin, validMax), nil
	case formatBitmapOrPAM:
		if err := checkNetpbmSize(br); err != nil {
			return nil, err
		}
	case formatPFM:
		return nil, errWrongRepresentation
	}

	img, _, err := image.Decode(br)
	if err != nil {
		return nil, err
	}
	buf, err := toBuffer8(img)
	if err != nil {
		return nil, err
	}
	return pixel.NewAdapter(buf, validMin, validMax), nil
}

func toBuffer8(img image.Image) (*pixel.Buffer[uint8], error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch m := img.(type) {
	case *image.Gray16, *image.RGBA64, *image.NRGBA64:
		return nil, errWrongRepresentation
	case *image.Gray:
		buf := pixel.NewBuffer[uint8](w, h, 1)
		for y := 0; y < h; y++ {
			copy(buf.Pix[y*w:(y+1)*w], m.Pix[y*m.Stride:y*m.Stride+w])
		}
		return buf, nil
	}

	depth := 4
	if isOpaque(img) {
		depth = 3
	}
	buf := pixel.NewBuffer[uint8](w, h, depth)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			buf.Set(x, y, 0, c.R)
			buf.Set(x, y, 1, c.G)
			buf.Set(x, y, 2, c.B)
			if depth == 4 {
				buf.Set(x, y, 3, c.A)
			}
		}
	}
	return buf, nil
}

type u16Decoder struct{}

func (u16Decoder) Representation() pixel.Representation { return pixel.U16 }

func (u16Decoder) Decode(r io.Reader, validMin, validMax float64) (pixel.Adapter, error) {
	br := bufio.NewReader(r)
	switch sniff(br) {
	case formatNetpbm:
		img, err := decodeNetpbm(br, pixel.U16)
		if err != nil {
			return nil, err
		}
		buf, err := netpbmBuffer[uint16](img)
		if err != nil {
			return nil, err
		}
		return pixel.NewAdapter(buf, validMin, validMax), nil
	case formatBitmapOrPAM:
		if err := checkNetpbmSize(br); err != nil {
			return nil, err
		}
	case formatPFM:
		return nil, errWrongRepresentation
	}

	img, _, err := image.Decode(br)
	if err != nil {
		return nil, err
	}
	buf, err := toBuffer16(img)
	if err != nil {
		return nil, err
	}
	return pixel.NewAdapter(buf, validMin, validMax), nil
}

func toBuffer16(img image.Image) (*pixel.Buffer[uint16], error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch m := img.(type) {
	case *image.Gray16:
		buf := pixel.NewBuffer[uint16](w, h, 1)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				buf.Set(x, y, 0, m.Gray16At(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
		return buf, nil
	case *image.RGBA64, *image.NRGBA64:
	default:
		return nil, errWrongRepresentation
	}

	depth := 4
	if isOpaque(img) {
		depth = 3
	}
	buf := pixel.NewBuffer[uint16](w, h, depth)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			buf.Set(x, y, 0, c.R)
			buf.Set(x, y, 1, c.G)
			buf.Set(x, y, 2, c.B)
			if depth == 4 {
				buf.Set(x, y, 3, c.A)
			}
		}
	}
	return buf, nil
}

type floatDecoder struct{}

func (floatDecoder) Representation() pixel.Representation { return pixel.Float }

func (floatDecoder) Decode(r io.Reader, validMin, validMax float64) (pixel.Adapter, error) {
	br := bufio.NewReader(r)
	if sniff(br) != formatPFM {
		return nil, errWrongRepresentation
	}
	buf, err := decodePFM(br)
	if err != nil {
		return nil, err
	}
	return pixel.NewAdapter(buf, validMin, validMax), nil
}
