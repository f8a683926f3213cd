package pixel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		depth         int
		ok            bool
	}{
		{"small", 640, 480, 3, true},
		{"at limit", MaxSamples, 1, 1, true},
		{"zero width", 0, 10, 1, false},
		{"negative height", 10, -1, 1, false},
		{"too many samples", 100000, 100000, 1, false},
		{"depth pushes over", MaxSamples, 1, 2, false},
		{"product overflows", math.MaxInt / 2, 3, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSize(tt.width, tt.height, tt.depth)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrImageSize)
			}
		})
	}
}
