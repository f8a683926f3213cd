package pixel

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
)

// Mapping selects how an intensity inside the display window becomes a display value
type Mapping int

const (
	MapRaw     Mapping = iota // linear grey or colour
	MapInverse                // linear, inverted
)

var mappingNames = []string{"raw", "inverse"}

func (m Mapping) String() string {
	if int(m) >= 0 && int(m) < len(mappingNames) {
		return mappingNames[m]
	}
	return fmt.Sprintf("Mapping(%d)", int(m))
}

// Next returns the mapping that follows m, wrapping around
func (m Mapping) Next() Mapping {
	return Mapping((int(m) + 1) % len(mappingNames))
}

// ParseMapping converts a mapping name to a Mapping
func ParseMapping(s string) (Mapping, error) {
	for i, name := range mappingNames {
		if strings.EqualFold(s, name) {
			return Mapping(i), nil
		}
	}
	return MapRaw, fmt.Errorf("unknown mapping %q", s)
}

// ChannelAll shows all colour channels instead of a single one
const ChannelAll = -1

// Adapter is the uniform view over a decoded image, whatever its sample type
type Adapter interface {
	OriginalWidth() int
	OriginalHeight() int
	OriginalDepth() int
	OriginalType() Representation

	// Width and Height are the displayed size, after rotation
	Width() int
	Height() int

	MinIntensity() float64
	MaxIntensity() float64
	SetMinIntensity(v float64)
	SetMaxIntensity(v float64)

	// Rotation is counted in clockwise quarter turns (0-3)
	Rotation() int
	Flipped() bool
	SetRotationFlip(quarterTurns int, flip bool)

	Channel() int
	SetChannel(c int)
	Mapping() Mapping
	SetMapping(m Mapping)

	// Revision changes whenever a display parameter changes
	Revision() uint64

	// ToOriginal maps a rectangle in displayed coordinates to original image coordinates
	ToOriginal(r image.Rectangle) image.Rectangle

	// Render maps the buffer to an 8 bit display image of size Width x Height
	Render() *image.RGBA
}

type adapter[T Sample] struct {
	buf      *Buffer[T]
	rep      Representation
	validMin float64
	validMax float64

	imin, imax float64
	rotation   int
	flip       bool
	channel    int
	mapping    Mapping
	revision   uint64
}

// NewAdapter wraps buf. Samples that are not finite, or outside [validMin, validMax]
// when validMin < validMax, are treated as invalid and excluded from the intensity bounds.
func NewAdapter[T Sample](buf *Buffer[T], validMin, validMax float64) Adapter {
	a := &adapter[T]{
		buf:      buf,
		rep:      representationOf[T](),
		validMin: validMin,
		validMax: validMax,
		channel:  ChannelAll,
	}
	a.imin, a.imax = a.intensityBounds()
	return a
}

func (a *adapter[T]) valid(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if a.validMin < a.validMax {
		return v >= a.validMin && v <= a.validMax
	}
	return true
}

func (a *adapter[T]) intensityBounds() (float64, float64) {
	if a.rep == U8 {
		return 0, 255
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range a.buf.Pix {
		v := float64(s)
		if !a.valid(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	if lo > hi {
		return 0, 1
	}
	if lo == hi {
		hi = lo + 1
	}
	return lo, hi
}

func (a *adapter[T]) OriginalWidth() int { return a.buf.Width }
func (a *adapter[T]) OriginalHeight() int { return a.buf.Height }
func (a *adapter[T]) OriginalDepth() int { return a.buf.Depth }
func (a *adapter[T]) OriginalType() Representation { return a.rep }

func (a *adapter[T]) Width() int {
	if a.rotation%2 == 1 {
		return a.buf.Height
	}
	return a.buf.Width
}

func (a *adapter[T]) Height() int {
	if a.rotation%2 == 1 {
		return a.buf.Width
	}
	return a.buf.Height
}

func (a *adapter[T]) MinIntensity() float64 { return a.imin }
func (a *adapter[T]) MaxIntensity() float64 { return a.imax }

func (a *adapter[T]) SetMinIntensity(v float64) {
	a.imin = v
	a.revision++
}

func (a *adapter[T]) SetMaxIntensity(v float64) {
	a.imax = v
	a.revision++
}

func (a *adapter[T]) Rotation() int { return a.rotation }
func (a *adapter[T]) Flipped() bool { return a.flip }

func (a *adapter[T]) SetRotationFlip(quarterTurns int, flip bool) {
	a.rotation = ((quarterTurns % 4) + 4) % 4
	a.flip = flip
	a.revision++
}

func (a *adapter[T]) Channel() int { return a.channel }

// SetChannel selects a single channel; values out of range select all channels
func (a *adapter[T]) SetChannel(c int) {
	if c < 0 || c >= a.buf.Depth {
		c = ChannelAll
	}
	a.channel = c
	a.revision++
}

func (a *adapter[T]) Mapping() Mapping { return a.mapping }

func (a *adapter[T]) SetMapping(m Mapping) {
	a.mapping = m
	a.revision++
}

func (a *adapter[T]) Revision() uint64 { return a.revision }

// source returns the original coordinates shown at displayed position (x, y)
func (a *adapter[T]) source(x, y int) (int, int) {
	w, h := a.buf.Width, a.buf.Height
	var sx, sy int
	switch a.rotation {
	case 1:
		sx, sy = y, h-1-x
	case 2:
		sx, sy = w-1-x, h-1-y
	case 3:
		sx, sy = w-1-y, x
	default:
		sx, sy = x, y
	}
	if a.flip {
		sx = w - 1 - sx
	}
	return sx, sy
}

func (a *adapter[T]) ToOriginal(r image.Rectangle) image.Rectangle {
	r = r.Intersect(image.Rect(0, 0, a.Width(), a.Height()))
	if r.Empty() {
		return image.Rectangle{}
	}
	x0, y0 := a.source(r.Min.X, r.Min.Y)
	x1, y1 := a.source(r.Max.X-1, r.Max.Y-1)
	o := image.Rect(x0, y0, x1, y1).Canon()
	o.Max = o.Max.Add(image.Pt(1, 1))
	return o
}

func (a *adapter[T]) scale(v float64) uint8 {
	span := a.imax - a.imin
	var t float64
	if span > 0 {
		t = (v - a.imin) / span
	}
	t = math.Max(0, math.Min(1, t))
	g := uint8(t*255 + 0.5)
	if a.mapping == MapInverse {
		g = 255 - g
	}
	return g
}

func (a *adapter[T]) Render() *image.RGBA {
	w, h := a.Width(), a.Height()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	colour := a.channel == ChannelAll && a.buf.Depth >= 3

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := a.source(x, y)
			var c color.RGBA
			if colour {
				r := float64(a.buf.At(sx, sy, 0))
				g := float64(a.buf.At(sx, sy, 1))
				b := float64(a.buf.At(sx, sy, 2))
				if a.valid(r) && a.valid(g) && a.valid(b) {
					c = color.RGBA{a.scale(r), a.scale(g), a.scale(b), 255}
				} else {
					c = color.RGBA{A: 255}
				}
			} else {
				ch := a.channel
				if ch == ChannelAll {
					ch = 0
				}
				v := float64(a.buf.At(sx, sy, ch))
				if a.valid(v) {
					g := a.scale(v)
					c = color.RGBA{g, g, g, 255}
				} else {
					c = color.RGBA{A: 255}
				}
			}
			dst.SetRGBA(x, y, c)
		}
	}
	return dst
}
