package main

import (
	"sv/internal/viewer"
)

const (
	windowShiftFraction = 0.1
	windowScaleFactor   = 1.25
)

// ActionExecutor maps action names to InputActions calls. Keyboard and mouse
// bindings both execute through it.
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteAction executes the given action. It returns false for unknown actions
// and for image actions while no image is shown.
func (ae *ActionExecutor) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	// file commands stay available without an image so that the list can be left
	if cmd, ok := viewer.ParseCommand(action); ok {
		inputActions.RunCommand(cmd)
		return true
	}

	switch action {
	case "exit":
		inputActions.Exit()
		return true
	case "help":
		inputActions.ToggleHelp()
		return true
	case "info":
		inputActions.ToggleInfo()
		return true
	case "fullscreen":
		inputActions.ToggleFullscreen()
		return true
	}

	if !inputState.HasImage() {
		return false
	}

	switch action {
	case "rotate_left":
		inputActions.Rotate(-1)
	case "rotate_right":
		inputActions.Rotate(1)
	case "flip":
		inputActions.Flip()
	case "cycle_mapping":
		inputActions.CycleMapping()
	case "cycle_channel":
		inputActions.CycleChannel()
	case "window_down":
		inputActions.ShiftWindow(-windowShiftFraction)
	case "window_up":
		inputActions.ShiftWindow(windowShiftFraction)
	case "window_narrow":
		inputActions.ScaleWindow(1 / windowScaleFactor)
	case "window_widen":
		inputActions.ScaleWindow(windowScaleFactor)
	case "window_reset":
		inputActions.ResetWindow()

	case "zoom_in":
		inputActions.ZoomIn()
	case "zoom_out":
		inputActions.ZoomOut()
	case "zoom_reset":
		inputActions.ZoomReset()
	case "zoom_fit":
		inputActions.ZoomFit()
	case "pan_up":
		inputActions.PanUp()
	case "pan_down":
		inputActions.PanDown()
	case "pan_left":
		inputActions.PanLeft()
	case "pan_right":
		inputActions.PanRight()

	default:
		return false
	}

	return true
}

// globalActionExecutor is the global instance of ActionExecutor used throughout the application
var globalActionExecutor = NewActionExecutor()
