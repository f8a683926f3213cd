package imageio

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"sv/internal/pixel"
)

// ErrDecodeFailure is returned when no pixel representation can decode a file
var ErrDecodeFailure = errors.New("cannot load image")

// Loader decodes files by trying each pixel representation in turn until one succeeds
type Loader struct {
	open     Opener
	decoders []Decoder
	validMin float64
	validMax float64
}

// NewLoader creates a Loader using the default opener and decoders. Samples outside
// [validMin, validMax] are invalid when validMin < validMax.
func NewLoader(validMin, validMax float64) *Loader {
	return &Loader{
		open:     Open,
		decoders: DefaultDecoders(),
		validMin: validMin,
		validMax: validMax,
	}
}

// WithOpener replaces the function used to read the encoded bytes
func (l *Loader) WithOpener(open Opener) *Loader {
	l.open = open
	return l
}

// WithDecoders replaces the representation cascade
func (l *Loader) WithDecoders(decoders ...Decoder) *Loader {
	l.decoders = decoders
	return l
}

// AttemptDecode returns an adapter for the first representation that decodes p
func (l *Loader) AttemptDecode(p ImagePath) (pixel.Adapter, error) {
	var errs []error
	for _, d := range l.decoders {
		a, err := l.attempt(p, d)
		if err == nil {
			log.WithFields(log.Fields{
				"file": p.Path,
				"type": d.Representation(),
			}).Debug("Decoded image")
			return a, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", d.Representation(), err))
	}
	return nil, fmt.Errorf("%w %s: %w", ErrDecodeFailure, p.Path, errors.Join(errs...))
}

func (l *Loader) attempt(p ImagePath, d Decoder) (pixel.Adapter, error) {
	rc, err := l.open(p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return d.Decode(rc, l.validMin, l.validMax)
}
