package main

// ActionDefinition defines an action with its default keybindings, mouse bindings, and description
type ActionDefinition struct {
	Name         string
	Keys         []string
	MouseActions []string
	Description  string
}

// actionDefinitions lists every action in the order input is checked.
// Names of file commands match viewer.ParseCommand.
var actionDefinitions = []ActionDefinition{
	{"exit", []string{"Escape", "KeyQ"}, []string{}, "Quit application"},
	{"help", []string{"Shift+Slash"}, []string{"Alt+RightClick"}, "Show/hide help"},
	{"info", []string{"KeyI"}, []string{}, "Show/hide info display"},
	{"fullscreen", []string{"Enter"}, []string{"DoubleLeftClick"}, "Toggle fullscreen"},

	// File commands
	{"previous", []string{"ArrowLeft", "PageUp"}, []string{"WheelUp"}, "Previous image"},
	{"next", []string{"ArrowRight", "PageDown", "Space"}, []string{"WheelDown"}, "Next image"},
	{"reload", []string{"KeyU"}, []string{}, "Reload image, toggling file watching"},
	{"keep", []string{"KeyK"}, []string{}, "Cycle display setting retention (none/most/all)"},
	{"capture", []string{"KeyC"}, []string{}, "Save window content as PNG"},
	{"delete", []string{"KeyD"}, []string{}, "Rename image to .bak and remove it from the list"},
	{"view_3d", []string{"KeyP"}, []string{}, "Open visible region in the 3-D viewer"},

	// Adapter adjustments
	{"rotate_left", []string{"KeyL"}, []string{}, "Rotate left 90 degrees"},
	{"rotate_right", []string{"KeyR"}, []string{}, "Rotate right 90 degrees"},
	{"flip", []string{"KeyH"}, []string{}, "Flip horizontally"},
	{"cycle_mapping", []string{"KeyM"}, []string{}, "Cycle intensity mapping (raw/inverse)"},
	{"cycle_channel", []string{"KeyN"}, []string{}, "Cycle displayed channel"},
	{"window_down", []string{"Comma"}, []string{}, "Shift intensity window down"},
	{"window_up", []string{"Period"}, []string{}, "Shift intensity window up"},
	{"window_narrow", []string{"Shift+Comma"}, []string{}, "Narrow intensity window (more contrast)"},
	{"window_widen", []string{"Shift+Period"}, []string{}, "Widen intensity window (less contrast)"},
	{"window_reset", []string{"Backspace"}, []string{}, "Reset intensity window"},

	// Zoom and pan
	{"zoom_in", []string{"Equal", "Shift+Equal"}, []string{"Ctrl+WheelUp"}, "Zoom in"},
	{"zoom_out", []string{"Minus"}, []string{"Ctrl+WheelDown"}, "Zoom out"},
	{"zoom_reset", []string{"Key0"}, []string{"MiddleClick"}, "Reset to 100% zoom"},
	{"zoom_fit", []string{"KeyF"}, []string{"Alt+LeftClick"}, "Fit image to window"},
	{"pan_up", []string{"Shift+ArrowUp", "ArrowUp"}, []string{}, "Pan up"},
	{"pan_down", []string{"Shift+ArrowDown", "ArrowDown"}, []string{}, "Pan down"},
	{"pan_left", []string{"Shift+ArrowLeft"}, []string{}, "Pan left"},
	{"pan_right", []string{"Shift+ArrowRight"}, []string{}, "Pan right"},
}

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = action.Keys
	}
	return keybindings
}

// GetDefaultMousebindings returns a map of action names to their default mouse bindings
func GetDefaultMousebindings() map[string][]string {
	mousebindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		mousebindings[action.Name] = action.MouseActions
	}
	return mousebindings
}

// actionNames returns the action names in table order
func actionNames() []string {
	names := make([]string, len(actionDefinitions))
	for i, action := range actionDefinitions {
		names[i] = action.Name
	}
	return names
}
