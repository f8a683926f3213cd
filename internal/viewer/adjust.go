package viewer

import "sv/internal/pixel"

// The adjustments below change the adapter on screen. They are recorded in the
// state so that retention carries them to the next file.

func (c *Controller) adjust(f func(a pixel.Adapter)) bool {
	a := c.state.Adapter
	if a == nil || c.state.Closed {
		return false
	}
	f(a)
	c.record(a, c.state.Params.Channel)
	return true
}

// Rotate turns the image by quarterTurns clockwise quarter turns (negative for counterclockwise)
func (c *Controller) Rotate(quarterTurns int) bool {
	return c.adjust(func(a pixel.Adapter) {
		a.SetRotationFlip(a.Rotation()+quarterTurns, a.Flipped())
	})
}

// Flip mirrors the image horizontally
func (c *Controller) Flip() bool {
	return c.adjust(func(a pixel.Adapter) {
		a.SetRotationFlip(a.Rotation(), !a.Flipped())
	})
}

func (c *Controller) CycleMapping() bool {
	return c.adjust(func(a pixel.Adapter) {
		a.SetMapping(a.Mapping().Next())
	})
}

// CycleChannel steps through all channels, then back to showing all of them
func (c *Controller) CycleChannel() bool {
	return c.adjust(func(a pixel.Adapter) {
		if a.OriginalDepth() <= 1 {
			return
		}
		next := a.Channel() + 1
		if next >= a.OriginalDepth() {
			next = pixel.ChannelAll
		}
		a.SetChannel(next)
	})
}

// ShiftWindow moves the intensity window by fraction of its width
func (c *Controller) ShiftWindow(fraction float64) bool {
	return c.adjust(func(a pixel.Adapter) {
		d := (a.MaxIntensity() - a.MinIntensity()) * fraction
		a.SetMinIntensity(a.MinIntensity() + d)
		a.SetMaxIntensity(a.MaxIntensity() + d)
	})
}

// ScaleWindow multiplies the width of the intensity window by factor, keeping its center
func (c *Controller) ScaleWindow(factor float64) bool {
	if factor <= 0 {
		return false
	}
	return c.adjust(func(a pixel.Adapter) {
		center := (a.MinIntensity() + a.MaxIntensity()) / 2
		half := (a.MaxIntensity() - a.MinIntensity()) / 2 * factor
		a.SetMinIntensity(center - half)
		a.SetMaxIntensity(center + half)
	})
}

// ResetWindow restores the intensity window of a fresh start
func (c *Controller) ResetWindow() bool {
	return c.adjust(func(a pixel.Adapter) {
		w := c.defaults().Window
		a.SetMinIntensity(w.Min)
		a.SetMaxIntensity(w.Max)
	})
}
