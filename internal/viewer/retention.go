package viewer

import (
	"fmt"
	"strings"

	"sv/internal/pixel"
)

// RetentionMode decides which display parameters survive switching to another file
type RetentionMode int

const (
	KeepNone RetentionMode = iota // every file starts with the configured parameters
	KeepMost                      // mapping, channel and intensity window are kept
	KeepAll                       // as KeepMost, with the window forced to the valid range
)

func (m RetentionMode) String() string {
	switch m {
	case KeepMost:
		return "most"
	case KeepAll:
		return "all"
	default:
		return "none"
	}
}

// Cycle returns the next mode: none, most, all, none
func (m RetentionMode) Cycle() RetentionMode {
	switch m {
	case KeepNone:
		return KeepMost
	case KeepMost:
		return KeepAll
	default:
		return KeepNone
	}
}

// titleFlag is the marker shown in the window title
func (m RetentionMode) titleFlag() string {
	switch m {
	case KeepMost:
		return "keep"
	case KeepAll:
		return "keep_all"
	default:
		return ""
	}
}

// ParseRetentionMode accepts the names returned by String
func ParseRetentionMode(s string) (RetentionMode, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return KeepNone, nil
	case "most":
		return KeepMost, nil
	case "all":
		return KeepAll, nil
	default:
		return KeepNone, fmt.Errorf("unknown retention mode %q", s)
	}
}

// Range is a closed interval of intensities. It is unset when Min >= Max.
type Range struct {
	Min, Max float64
}

func (r Range) IsSet() bool { return r.Min < r.Max }

// DisplayParams are the adjustable settings applied to an adapter
type DisplayParams struct {
	Window  Range
	Mapping pixel.Mapping
	Channel int
}

func paramsOf(a pixel.Adapter) DisplayParams {
	return DisplayParams{
		Window:  Range{Min: a.MinIntensity(), Max: a.MaxIntensity()},
		Mapping: a.Mapping(),
		Channel: a.Channel(),
	}
}

func (p DisplayParams) apply(a pixel.Adapter) {
	a.SetMinIntensity(p.Window.Min)
	a.SetMaxIntensity(p.Window.Max)
	a.SetMapping(p.Mapping)
	a.SetChannel(p.Channel)
}

// Decide computes the parameters for a newly loaded file from the ones used for
// the previous file (prev) and the ones a fresh start would use (defaults).
func Decide(mode RetentionMode, prev, defaults DisplayParams, valid Range) DisplayParams {
	if mode == KeepNone {
		return defaults
	}

	p := DisplayParams{
		Window:  defaults.Window,
		Mapping: prev.Mapping,
		Channel: prev.Channel,
	}
	if prev.Window.IsSet() {
		p.Window = prev.Window
	}
	if mode == KeepAll && valid.IsSet() {
		p.Window = valid
	}
	return p
}
