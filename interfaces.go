package main

import (
	"time"

	"sv/internal/config"
	"sv/internal/pixel"
	"sv/internal/viewer"
	"sv/internal/viewport"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second
)

// RenderState provides read-only access to game state for the renderer
type RenderState interface {
	IsFullscreen() bool

	// Rendering data
	GetAdapter() pixel.Adapter
	GetView() *viewport.View

	// UI state
	IsShowingHelp() bool
	IsShowingInfo() bool
	GetInfoText() string
	GetInfoLine() string
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time

	// Display data
	GetFileInfo() FileInfo
	GetFontSize() float64
	GetConfigStatus() config.LoadResult
	GetKeybindings() map[string][]string
	GetMousebindings() map[string][]string
}

// FileInfo describes the file under the cursor for the info display
type FileInfo struct {
	Path     string
	Size     int64 // -1 when unknown
	Position int   // 1-based
	Total    int
	State    viewer.ViewerState
}

// InputActions provides action methods for the input handler
type InputActions interface {
	// Application control
	Exit()

	// Display toggles
	ToggleHelp()
	ToggleInfo()
	ToggleFullscreen()

	// File commands run through the viewer controller
	RunCommand(cmd viewer.Command)

	// Adapter adjustments
	Rotate(quarterTurns int)
	Flip()
	CycleMapping()
	CycleChannel()
	ShiftWindow(fraction float64)
	ScaleWindow(factor float64)
	ResetWindow()

	// Zoom and pan actions
	ZoomIn()
	ZoomOut()
	ZoomReset()
	ZoomFit()
	PanUp()
	PanDown()
	PanLeft()
	PanRight()
	PanByDelta(deltaX, deltaY float64) // Mouse drag pan

	// Messages
	ShowOverlayMessage(message string)
}

// InputState provides read-only access to input-related state
type InputState interface {
	GetZoomMode() viewport.ZoomMode // For drag permission checking
	HasImage() bool
}
