package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sv/internal/pixel"
)

func TestRetentionCycle(t *testing.T) {
	assert.Equal(t, KeepMost, KeepNone.Cycle())
	assert.Equal(t, KeepAll, KeepMost.Cycle())
	assert.Equal(t, KeepNone, KeepAll.Cycle())

	for _, m := range []RetentionMode{KeepNone, KeepMost, KeepAll} {
		assert.Equal(t, m, m.Cycle().Cycle().Cycle(), m.String())
	}
}

func TestParseRetentionMode(t *testing.T) {
	for _, m := range []RetentionMode{KeepNone, KeepMost, KeepAll} {
		got, err := ParseRetentionMode(m.String())
		assert.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseRetentionMode("forever")
	assert.Error(t, err)
}

func TestDecide(t *testing.T) {
	prev := DisplayParams{Window: Range{10, 20}, Mapping: pixel.MapInverse, Channel: 2}
	unsetPrev := DisplayParams{Window: Range{5, 5}, Mapping: pixel.MapInverse, Channel: 1}
	defaults := DisplayParams{Window: Range{0, 255}, Mapping: pixel.MapRaw, Channel: pixel.ChannelAll}
	valid := Range{0, 100}

	tests := []struct {
		name     string
		mode     RetentionMode
		prev     DisplayParams
		valid    Range
		expected DisplayParams
	}{
		{"none uses defaults", KeepNone, prev, valid, defaults},
		{"most keeps everything", KeepMost, prev, valid, prev},
		{"most with unset window", KeepMost, unsetPrev, valid,
			DisplayParams{Window: Range{0, 255}, Mapping: pixel.MapInverse, Channel: 1}},
		{"all forces valid range", KeepAll, prev, valid,
			DisplayParams{Window: valid, Mapping: pixel.MapInverse, Channel: 2}},
		{"all without valid range acts like most", KeepAll, prev, Range{}, prev},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Decide(tt.mode, tt.prev, defaults, tt.valid))
		})
	}
}

func TestRangeIsSet(t *testing.T) {
	assert.True(t, Range{0, 1}.IsSet())
	assert.False(t, Range{1, 1}.IsSet())
	assert.False(t, Range{2, 1}.IsSet())
	assert.False(t, Range{}.IsSet())
}
