package pixel

import (
	"errors"
	"fmt"
)

// Sample is the set of numeric types a decoded image can be stored as
type Sample interface {
	~uint8 | ~uint16 | ~float32
}

// Representation identifies the numeric type an image was decoded as
type Representation int

const (
	U8 Representation = iota
	U16
	Float
)

func (r Representation) String() string {
	switch r {
	case U8:
		return "uint8"
	case U16:
		return "uint16"
	case Float:
		return "float"
	default:
		return fmt.Sprintf("Representation(%d)", int(r))
	}
}

// representationOf returns the representation matching the sample type T
func representationOf[T Sample]() Representation {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return U8
	case uint16:
		return U16
	default:
		return Float
	}
}

// Buffer is an interleaved multi-channel pixel buffer
type Buffer[T Sample] struct {
	Width  int
	Height int
	Depth  int // number of channels per pixel
	Pix    []T
}

// MaxSamples is the largest number of samples a single image may have
const MaxSamples = 1 << 28

// ErrImageSize is returned for image sizes that are empty or too large to allocate
var ErrImageSize = errors.New("invalid image size")

// CheckSize verifies that a buffer of the given size can be allocated.
// Decoders call it before trusting sizes read from a file.
func CheckSize(width, height, depth int) error {
	if width <= 0 || height <= 0 || depth <= 0 {
		return fmt.Errorf("%w: %dx%dx%d", ErrImageSize, width, height, depth)
	}
	if width > MaxSamples/height || width*height > MaxSamples/depth {
		return fmt.Errorf("%w: %dx%dx%d exceeds %d samples", ErrImageSize, width, height, depth, MaxSamples)
	}
	return nil
}

// NewBuffer allocates a zeroed buffer of the given size
func NewBuffer[T Sample](width, height, depth int) *Buffer[T] {
	return &Buffer[T]{
		Width:  width,
		Height: height,
		Depth:  depth,
		Pix:    make([]T, width*height*depth),
	}
}

func (b *Buffer[T]) offset(x, y, d int) int {
	return (y*b.Width+x)*b.Depth + d
}

// At returns the sample of channel d at (x, y)
func (b *Buffer[T]) At(x, y, d int) T {
	return b.Pix[b.offset(x, y, d)]
}

// Set stores the sample of channel d at (x, y)
func (b *Buffer[T]) Set(x, y, d int, v T) {
	b.Pix[b.offset(x, y, d)] = v
}
