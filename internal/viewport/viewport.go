package viewport

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// ZoomMode is how the image scale is chosen
type ZoomMode int

const (
	ZoomModeFitWindow ZoomMode = iota // shrink large images to the window, never enlarge
	ZoomModeManual                    // explicit zoom level with panning
)

const (
	minZoom = 1.0 / 32
	maxZoom = 64.0
)

// View is the zoom and pan state of the window
type View struct {
	Mode       ZoomMode
	Zoom       float64
	PanOffsetX float64
	PanOffsetY float64
}

// NewView returns a view that fits the image into the window
func NewView() *View {
	return &View{Mode: ZoomModeFitWindow, Zoom: 1}
}

// Layout places an image of the given size in the window: it is drawn at (X, Y)
// scaled by Scale
type Layout struct {
	Scale float64
	X, Y  float64
}

// Layout computes where an image of size iw x ih appears in a window of size w x h.
// Images smaller than the window are centered; larger ones are panned, clamped
// so that the window stays covered.
func (v *View) Layout(iw, ih, w, h int) Layout {
	fw, fh := float64(w), float64(h)
	sw0, sh0 := float64(iw), float64(ih)
	if iw <= 0 || ih <= 0 || w <= 0 || h <= 0 {
		return Layout{Scale: 1}
	}

	if v.Mode == ZoomModeFitWindow {
		scale := 1.0
		if sw0 > fw || sh0 > fh {
			scale = math.Min(fw/sw0, fh/sh0)
		}
		sw, sh := sw0*scale, sh0*scale
		return Layout{Scale: scale, X: fw/2 - sw/2, Y: fh/2 - sh/2}
	}

	scale := v.Zoom
	sw, sh := sw0*scale, sh0*scale
	l := Layout{Scale: scale}

	if sw <= fw {
		l.X = fw/2 - sw/2
	} else {
		l.X = math.Max(fw-sw, math.Min(0, fw/2-sw/2+v.PanOffsetX))
	}
	if sh <= fh {
		l.Y = fh/2 - sh/2
	} else {
		l.Y = math.Max(fh-sh, math.Min(0, fh/2-sh/2+v.PanOffsetY))
	}
	return l
}

// ZoomBy multiplies the current scale by factor. Leaving fit mode starts from
// the scale fit mode used.
func (v *View) ZoomBy(factor float64, iw, ih, w, h int) {
	current := v.Layout(iw, ih, w, h).Scale
	v.Mode = ZoomModeManual
	v.Zoom = math.Max(minZoom, math.Min(maxZoom, current*factor))
}

// Actual shows the image at its original size
func (v *View) Actual() {
	v.Mode = ZoomModeManual
	v.Zoom = 1
	v.PanOffsetX, v.PanOffsetY = 0, 0
}

// Fit returns to fit mode and resets panning
func (v *View) Fit() {
	v.Mode = ZoomModeFitWindow
	v.Zoom = 1
	v.PanOffsetX, v.PanOffsetY = 0, 0
}

// Pan moves the image by (dx, dy) window pixels. Panning is clamped at the image edges.
func (v *View) Pan(dx, dy float64, iw, ih, w, h int) {
	if v.Mode == ZoomModeFitWindow {
		return
	}
	v.PanOffsetX += dx
	v.PanOffsetY += dy

	// keep the offsets inside the range Layout can use
	sw, sh := float64(iw)*v.Zoom, float64(ih)*v.Zoom
	limitX := math.Max(0, (sw-float64(w))/2)
	limitY := math.Max(0, (sh-float64(h))/2)
	v.PanOffsetX = math.Max(-limitX, math.Min(limitX, v.PanOffsetX))
	v.PanOffsetY = math.Max(-limitY, math.Min(limitY, v.PanOffsetY))
}

// Visible returns the part of an iw x ih image that is inside a w x h window
func (l Layout) Visible(iw, ih, w, h int) image.Rectangle {
	if l.Scale <= 0 {
		return image.Rectangle{}
	}
	x0 := int(math.Floor(-l.X / l.Scale))
	y0 := int(math.Floor(-l.Y / l.Scale))
	x1 := int(math.Ceil((float64(w) - l.X) / l.Scale))
	y1 := int(math.Ceil((float64(h) - l.Y) / l.Scale))
	return image.Rect(x0, y0, x1, y1).Intersect(image.Rect(0, 0, iw, ih))
}

// Snapshot renders src the way it is shown in a w x h window with a black background
func (l Layout) Snapshot(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	b := src.Bounds()
	s2d := f64.Aff3{
		l.Scale, 0, l.X - float64(b.Min.X)*l.Scale,
		0, l.Scale, l.Y - float64(b.Min.Y)*l.Scale,
	}
	draw.ApproxBiLinear.Transform(dst, s2d, src, b, draw.Over, nil)
	return dst
}
