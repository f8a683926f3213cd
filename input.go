package main

// InputHandler handles keyboard and mouse input processing
type InputHandler struct {
	inputActions        InputActions
	inputState          InputState
	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager
	actions             []string
}

// NewInputHandler creates a new InputHandler
func NewInputHandler(inputActions InputActions, inputState InputState, keybindingManager *KeybindingManager, mousebindingManager *MousebindingManager) *InputHandler {
	return &InputHandler{
		inputActions:        inputActions,
		inputState:          inputState,
		keybindingManager:   keybindingManager,
		mousebindingManager: mousebindingManager,
		actions:             actionNames(),
	}
}

// HandleInput processes all input for the current frame
// Returns true if any input was processed, false otherwise
func (h *InputHandler) HandleInput() bool {
	h.mousebindingManager.BeginFrame()

	inputProcessed := false
	for _, action := range h.actions {
		// an action runs at most once per frame even if key and mouse both trigger it
		if h.keybindingManager.ExecuteAction(action, h.inputActions, h.inputState) ||
			h.mousebindingManager.ExecuteAction(action, h.inputActions, h.inputState) {
			inputProcessed = true
		}
	}

	return h.mousebindingManager.HandleDrag(h.inputActions, h.inputState) || inputProcessed
}
