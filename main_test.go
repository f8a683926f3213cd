package main

import (
	"fmt"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sv/internal/config"
	"sv/internal/pixel"
	"sv/internal/viewer"
	"sv/internal/viewport"
)

// recordingActions records the InputActions calls it receives
type recordingActions struct {
	calls []string
}

func (r *recordingActions) record(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recordingActions) Exit() { r.record("exit") }
func (r *recordingActions) ToggleHelp() { r.record("help") }
func (r *recordingActions) ToggleInfo() { r.record("info") }
func (r *recordingActions) ToggleFullscreen() { r.record("fullscreen") }
func (r *recordingActions) RunCommand(cmd viewer.Command) { r.record("command %s", cmd) }
func (r *recordingActions) Rotate(quarterTurns int) { r.record("rotate %d", quarterTurns) }
func (r *recordingActions) Flip() { r.record("flip") }
func (r *recordingActions) CycleMapping() { r.record("mapping") }
func (r *recordingActions) CycleChannel() { r.record("channel") }
func (r *recordingActions) ShiftWindow(fraction float64) { r.record("shift %g", fraction) }
func (r *recordingActions) ScaleWindow(factor float64) { r.record("scale %g", factor) }
func (r *recordingActions) ResetWindow() { r.record("reset") }
func (r *recordingActions) ZoomIn() { r.record("zoom_in") }
func (r *recordingActions) ZoomOut() { r.record("zoom_out") }
func (r *recordingActions) ZoomReset() { r.record("zoom_reset") }
func (r *recordingActions) ZoomFit() { r.record("zoom_fit") }
func (r *recordingActions) PanUp() { r.record("pan_up") }
func (r *recordingActions) PanDown() { r.record("pan_down") }
func (r *recordingActions) PanLeft() { r.record("pan_left") }
func (r *recordingActions) PanRight() { r.record("pan_right") }
func (r *recordingActions) PanByDelta(dx, dy float64) { r.record("pan %g %g", dx, dy) }
func (r *recordingActions) ShowOverlayMessage(message string) { r.record("message %s", message) }

type fixedState struct {
	hasImage bool
}

func (s fixedState) GetZoomMode() viewport.ZoomMode { return viewport.ZoomModeFitWindow }
func (s fixedState) HasImage() bool { return s.hasImage }

func TestDefaultKeybindingsAreValid(t *testing.T) {
	require.NoError(t, config.ValidateKeybindings(GetDefaultKeybindings()))
}

func TestDefaultFileCommandKeys(t *testing.T) {
	keys := GetDefaultKeybindings()
	tests := []struct {
		action string
		key    string
	}{
		{"previous", "ArrowLeft"},
		{"next", "ArrowRight"},
		{"reload", "KeyU"},
		{"keep", "KeyK"},
		{"capture", "KeyC"},
		{"delete", "KeyD"},
		{"view_3d", "KeyP"},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			assert.Contains(t, keys[tt.action], tt.key)
			_, ok := viewer.ParseCommand(tt.action)
			assert.True(t, ok, "action name must be a viewer command")
		})
	}
}

func TestEveryActionExecutes(t *testing.T) {
	executor := NewActionExecutor()
	for _, action := range actionNames() {
		t.Run(action, func(t *testing.T) {
			actions := &recordingActions{}
			assert.True(t, executor.ExecuteAction(action, actions, fixedState{hasImage: true}))
			assert.Len(t, actions.calls, 1)
		})
	}
}

func TestExecuteAction(t *testing.T) {
	tests := []struct {
		name     string
		action   string
		hasImage bool
		handled  bool
		call     string
	}{
		{"file command", "next", true, true, "command next"},
		{"file command without image", "delete", false, true, "command delete"},
		{"host action without image", "help", false, true, "help"},
		{"rotate left", "rotate_left", true, true, "rotate -1"},
		{"rotate right", "rotate_right", true, true, "rotate 1"},
		{"window down", "window_down", true, true, "shift -0.1"},
		{"window widen", "window_widen", true, true, "scale 1.25"},
		{"window narrow", "window_narrow", true, true, "scale 0.8"},
		{"adjustment without image", "flip", false, false, ""},
		{"zoom without image", "zoom_in", false, false, ""},
		{"unknown action", "toggle_book_mode", true, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions := &recordingActions{}
			handled := NewActionExecutor().ExecuteAction(tt.action, actions, fixedState{hasImage: tt.hasImage})
			assert.Equal(t, tt.handled, handled)
			if tt.call == "" {
				assert.Empty(t, actions.calls)
			} else {
				assert.Equal(t, []string{tt.call}, actions.calls)
			}
		})
	}
}

func TestParseKeyString(t *testing.T) {
	mapping := getKeyMapping()
	tests := []struct {
		keyStr   string
		expected KeyCombination
		ok       bool
	}{
		{"KeyA", KeyCombination{Key: ebiten.KeyA}, true},
		{"Shift+Comma", KeyCombination{Key: ebiten.KeyComma, Shift: true}, true},
		{"ctrl+alt+ArrowLeft", KeyCombination{Key: ebiten.KeyArrowLeft, Ctrl: true, Alt: true}, true},
		{"Numpad7", KeyCombination{Key: ebiten.KeyNumpad7}, true},
		{"Key0", KeyCombination{Key: ebiten.Key0}, true},
		{"Hyper+KeyA", KeyCombination{}, false},
		{"KeyAA", KeyCombination{}, false},
		{"", KeyCombination{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.keyStr, func(t *testing.T) {
			combination, ok := parseKeyString(tt.keyStr, mapping)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, combination)
		})
	}
}

func TestKeyMappingCoversValidKeyNames(t *testing.T) {
	mapping := getKeyMapping()
	for name := range config.ValidKeyNames() {
		assert.Contains(t, mapping, name)
	}
}

func TestParseMouseString(t *testing.T) {
	tests := []struct {
		mouseStr string
		expected MouseCombination
		ok       bool
	}{
		{"LeftClick", MouseCombination{Button: ebiten.MouseButtonLeft}, true},
		{"WheelUp", MouseCombination{IsWheel: true, WheelDeltaY: 1}, true},
		{"Ctrl+WheelDown", MouseCombination{IsWheel: true, WheelDeltaY: -1, Ctrl: true}, true},
		{"DoubleLeftClick", MouseCombination{Button: ebiten.MouseButtonLeft, IsDoubleClick: true}, true},
		{"Alt+RightClick", MouseCombination{Button: ebiten.MouseButtonRight, Alt: true}, true},
		{"WheelSideways", MouseCombination{}, false},
		{"DoubleWheelUp", MouseCombination{}, false},
		{"Meta+LeftClick", MouseCombination{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.mouseStr, func(t *testing.T) {
			combination, ok := parseMouseString(tt.mouseStr)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, combination)
		})
	}
}

func TestDefaultMousebindingsParse(t *testing.T) {
	for action, mouseActions := range GetDefaultMousebindings() {
		for _, mouseStr := range mouseActions {
			_, ok := parseMouseString(mouseStr)
			assert.True(t, ok, "%s: %s", action, mouseStr)
		}
	}
}

func TestExceedsThreshold(t *testing.T) {
	assert.False(t, exceedsThreshold(3, 4, 5))
	assert.True(t, exceedsThreshold(4, 4, 5))
	assert.True(t, exceedsThreshold(-6, 0, 5))
}

func TestBuildStartup(t *testing.T) {
	cfg := config.Default(GetDefaultKeybindings())
	cfg.Keep = "most"
	cfg.ViewCommand = "viewer3d"

	flags := func(names ...string) func(string) bool {
		return func(name string) bool {
			for _, n := range names {
				if n == name {
					return true
				}
			}
			return false
		}
	}

	t.Run("config values without flags", func(t *testing.T) {
		s, err := buildStartup(cfg, cliOptions{keep: "all", watch: true}, flags())
		require.NoError(t, err)
		assert.Equal(t, viewer.KeepMost, s.viewer.Keep)
		assert.False(t, s.viewer.Watch)
		assert.Equal(t, pixel.ChannelAll, s.viewer.Channel)
		assert.Equal(t, "viewer3d", s.viewer.ViewCommand)
		assert.Equal(t, config.DefaultSearchPathEnv, s.viewer.SearchPathEnv)
		assert.False(t, s.viewer.InitWindow.IsSet())
	})

	t.Run("flags override config", func(t *testing.T) {
		cli := cliOptions{
			watch: true, keep: "all", mapping: "inverse", channel: 2,
			viewCmd: "other", sortMethod: 1, match: "*.pgm",
			imin: 10, imax: 20, vmin: 1, vmax: 4000,
		}
		s, err := buildStartup(cfg, cli, flags("watch", "keep", "map", "channel", "view-cmd", "sort"))
		require.NoError(t, err)
		assert.True(t, s.viewer.Watch)
		assert.Equal(t, viewer.KeepAll, s.viewer.Keep)
		assert.Equal(t, pixel.MapInverse, s.viewer.Mapping)
		assert.Equal(t, 2, s.viewer.Channel)
		assert.Equal(t, "other", s.viewer.ViewCommand)
		assert.Equal(t, 1, s.collect.SortMethod)
		assert.Equal(t, "*.pgm", s.collect.Match)
		assert.Equal(t, viewer.Range{Min: 10, Max: 20}, s.viewer.InitWindow)
		assert.Equal(t, viewer.Range{Min: 1, Max: 4000}, s.viewer.ValidRange)
		assert.Equal(t, s.valid, s.viewer.ValidRange)
	})

	t.Run("invalid keep", func(t *testing.T) {
		_, err := buildStartup(cfg, cliOptions{keep: "forever"}, flags("keep"))
		assert.Error(t, err)
	})

	t.Run("invalid mapping", func(t *testing.T) {
		_, err := buildStartup(cfg, cliOptions{mapping: "log"}, flags("map"))
		assert.Error(t, err)
	})

	t.Run("invalid channel", func(t *testing.T) {
		_, err := buildStartup(cfg, cliOptions{channel: -2}, flags("channel"))
		assert.ErrorIs(t, err, viewer.ErrInvalidArgument)
	})
}

func TestInfoLines(t *testing.T) {
	a := pixel.NewAdapter(pixel.NewBuffer[uint8](4, 3, 1), 0, 0)

	t.Run("empty list", func(t *testing.T) {
		assert.Equal(t, []string{"0 / 0"}, infoLines(FileInfo{Size: -1}, nil, 1))
	})

	t.Run("unknown size", func(t *testing.T) {
		lines := infoLines(FileInfo{Path: "dir/a.pgm", Size: -1, Position: 2, Total: 5}, nil, 1)
		assert.Equal(t, []string{"2 / 5  a.pgm"}, lines)
	})

	t.Run("adapter", func(t *testing.T) {
		info := FileInfo{
			Path:     "dir/a.pgm",
			Size:     2048,
			Position: 1,
			Total:    1,
			State:    viewer.ViewerState{Mode: viewer.KeepMost, Watch: true},
		}
		lines := infoLines(info, a, 2)
		require.Len(t, lines, 3)
		assert.Equal(t, "1 / 1  a.pgm  2.0 kB", lines[0])
		assert.Equal(t, "4x3x1 uint8  window [0, 255]  map raw  channel all", lines[1])
		assert.Equal(t, "rotation 0  flip false  keep most  watch on  zoom 200%", lines[2])
	})
}

func TestHelpRows(t *testing.T) {
	keys := map[string][]string{
		"next":   {"ArrowRight"},
		"help":   {"Shift+Slash"},
		"unused": {},
	}
	mouse := map[string][]string{
		"help":    {"Alt+RightClick"},
		"zoom_in": {"Ctrl+WheelUp"},
	}

	rows := helpRows(keys, mouse)
	require.Len(t, rows, 3)
	assert.Equal(t, "help", rows[0].action)
	assert.Equal(t, "Shift+Slash | Alt+RightClick", rows[0].input())
	assert.Equal(t, "next", rows[1].action)
	assert.Equal(t, "ArrowRight", rows[1].input())
	assert.Equal(t, "zoom_in", rows[2].action)
	assert.Equal(t, "Ctrl+WheelUp", rows[2].input())
	assert.Equal(t, "Zoom in", rows[2].description)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 10))
	assert.Equal(t, "abcdefg...", truncateText("abcdefghijklmnop", 10))
	// wide runes take two cells
	assert.Equal(t, "日本...", truncateText("日本語のテキスト", 7))
}

func TestRendererForgetDropsAdapterTextures(t *testing.T) {
	r, err := NewRenderer(nil, 8)
	require.NoError(t, err)

	old := pixel.NewAdapter(pixel.NewBuffer[uint8](2, 2, 1), 0, 0)
	current := pixel.NewAdapter(pixel.NewBuffer[uint8](2, 2, 1), 0, 0)
	r.textures.Add(textureKey{adapter: old, revision: 0}, nil)
	r.textures.Add(textureKey{adapter: old, revision: 1}, nil)
	r.textures.Add(textureKey{adapter: current, revision: 0}, nil)

	r.Forget(old)

	require.Equal(t, 1, r.textures.Len())
	assert.True(t, r.textures.Contains(textureKey{adapter: current, revision: 0}))

	r.Forget(current)
	assert.Equal(t, 0, r.textures.Len())
}
