package main

import (
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	log "github.com/sirupsen/logrus"

	"sv/internal/viewport"
)

// MouseSettings contains mouse-specific configuration
type MouseSettings struct {
	DoubleClickTime time.Duration
	DragThreshold   int // pixels
	WheelInverted   bool
	EnableDragPan   bool
}

// GetDefaultMouseSettings returns the default mouse settings
func GetDefaultMouseSettings() MouseSettings {
	return MouseSettings{
		DoubleClickTime: 300 * time.Millisecond,
		DragThreshold:   5,
		EnableDragPan:   true,
	}
}

// MouseCombination represents a mouse action with optional modifiers
type MouseCombination struct {
	Button        ebiten.MouseButton
	IsWheel       bool
	WheelDeltaY   float64
	IsDoubleClick bool
	Shift         bool
	Ctrl          bool
	Alt           bool
}

var mouseButtons = map[string]ebiten.MouseButton{
	"LeftClick":   ebiten.MouseButtonLeft,
	"RightClick":  ebiten.MouseButtonRight,
	"MiddleClick": ebiten.MouseButtonMiddle,
}

// parseMouseString parses a mouse string like "Ctrl+WheelUp" or "DoubleLeftClick"
func parseMouseString(mouseStr string) (MouseCombination, bool) {
	parts := strings.Split(mouseStr, "+")
	name := parts[len(parts)-1]
	var combination MouseCombination

	switch {
	case name == "WheelUp":
		combination.IsWheel = true
		combination.WheelDeltaY = 1
	case name == "WheelDown":
		combination.IsWheel = true
		combination.WheelDeltaY = -1
	case strings.HasPrefix(name, "Double"):
		button, ok := mouseButtons[strings.TrimPrefix(name, "Double")]
		if !ok {
			return MouseCombination{}, false
		}
		combination.Button = button
		combination.IsDoubleClick = true
	default:
		button, ok := mouseButtons[name]
		if !ok {
			return MouseCombination{}, false
		}
		combination.Button = button
	}

	for _, modifier := range parts[:len(parts)-1] {
		switch strings.ToLower(modifier) {
		case "shift":
			combination.Shift = true
		case "ctrl":
			combination.Ctrl = true
		case "alt":
			combination.Alt = true
		default:
			return MouseCombination{}, false
		}
	}
	return combination, true
}

// MousebindingManager checks mouse bindings and tracks drag panning
type MousebindingManager struct {
	mousebindings map[string][]string
	combinations  map[string][]MouseCombination
	settings      MouseSettings

	lastClickTime   time.Time
	lastClickButton ebiten.MouseButton
	clickCount      int

	dragging   bool
	dragStartX int
	dragStartY int
	lastX      int
	lastY      int
}

// NewMousebindingManager creates a new MousebindingManager
func NewMousebindingManager(mousebindings map[string][]string, settings MouseSettings) *MousebindingManager {
	mm := &MousebindingManager{
		mousebindings: mousebindings,
		combinations:  make(map[string][]MouseCombination, len(mousebindings)),
		settings:      settings,
	}
	for action, mouseActions := range mousebindings {
		for _, mouseStr := range mouseActions {
			combination, ok := parseMouseString(mouseStr)
			if !ok {
				log.WithFields(log.Fields{"action": action, "mouse": mouseStr}).Warn("Ignoring unknown mouse binding")
				continue
			}
			mm.combinations[action] = append(mm.combinations[action], combination)
		}
	}
	return mm
}

// BeginFrame updates the double-click state once per frame, before actions are checked
func (mm *MousebindingManager) BeginFrame() {
	for _, button := range mouseButtons {
		if !inpututil.IsMouseButtonJustPressed(button) {
			continue
		}
		now := time.Now()
		if button == mm.lastClickButton && now.Sub(mm.lastClickTime) <= mm.settings.DoubleClickTime {
			mm.clickCount++
		} else {
			mm.clickCount = 1
			mm.lastClickButton = button
		}
		mm.lastClickTime = now
	}
}

func (mm *MousebindingManager) isTriggered(c MouseCombination) bool {
	if !modifiersMatch(c.Shift, c.Ctrl, c.Alt) {
		return false
	}

	if c.IsWheel {
		_, wheelY := ebiten.Wheel()
		if mm.settings.WheelInverted {
			wheelY = -wheelY
		}
		return (c.WheelDeltaY > 0 && wheelY > 0) || (c.WheelDeltaY < 0 && wheelY < 0)
	}

	if !inpututil.IsMouseButtonJustPressed(c.Button) {
		return false
	}
	if c.IsDoubleClick {
		return c.Button == mm.lastClickButton && mm.clickCount == 2
	}
	return true
}

// CheckAction checks if any mouse binding for the given action is triggered
func (mm *MousebindingManager) CheckAction(action string) bool {
	for _, combination := range mm.combinations[action] {
		if mm.isTriggered(combination) {
			return true
		}
	}
	return false
}

// ExecuteAction executes the given action if one of its mouse bindings triggered
func (mm *MousebindingManager) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	if !mm.CheckAction(action) {
		return false
	}
	return globalActionExecutor.ExecuteAction(action, inputActions, inputState)
}

// HandleDrag pans the image while the left button is dragged in manual zoom mode
func (mm *MousebindingManager) HandleDrag(inputActions InputActions, inputState InputState) bool {
	if !mm.settings.EnableDragPan || !inputState.HasImage() {
		mm.dragging = false
		return false
	}

	x, y := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mm.dragStartX, mm.dragStartY = x, y
		mm.lastX, mm.lastY = x, y
		mm.dragging = false
		return false
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		mm.dragging = false
		return false
	}

	if !mm.dragging {
		if !exceedsThreshold(x-mm.dragStartX, y-mm.dragStartY, mm.settings.DragThreshold) {
			return false
		}
		mm.dragging = true
	}

	dx, dy := x-mm.lastX, y-mm.lastY
	mm.lastX, mm.lastY = x, y
	if (dx == 0 && dy == 0) || inputState.GetZoomMode() != viewport.ZoomModeManual {
		return false
	}
	inputActions.PanByDelta(float64(dx), float64(dy))
	return true
}

func exceedsThreshold(dx, dy, threshold int) bool {
	return dx*dx+dy*dy > threshold*threshold
}

// GetMousebindings returns the mouse bindings map (for display purposes)
func (mm *MousebindingManager) GetMousebindings() map[string][]string {
	return mm.mousebindings
}
