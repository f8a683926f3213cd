package config

import (
	"fmt"
	"sort"
	"strings"
)

// ValidateKeybindings checks key formats and detects keys bound to more than one action
func ValidateKeybindings(keybindings map[string][]string) error {
	keyToAction := make(map[string]string)
	validKeys := ValidKeyNames()

	// sorted for deterministic conflict reports
	actions := make([]string, 0, len(keybindings))
	for action := range keybindings {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	for _, action := range actions {
		for _, keyStr := range keybindings[action] {
			if err := validateKeyString(keyStr, validKeys); err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %w", keyStr, action, err)
			}

			if existingAction, exists := keyToAction[keyStr]; exists {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[keyStr] = action
		}
	}

	return nil
}

// validateKeyString validates a single key string format
func validateKeyString(keyStr string, validKeys map[string]bool) error {
	parts := strings.Split(keyStr, "+")
	keyName := parts[len(parts)-1]
	if keyName == "" {
		return fmt.Errorf("empty key string")
	}
	if !validKeys[keyName] {
		return fmt.Errorf("unknown key: %s", keyName)
	}

	for _, part := range parts[:len(parts)-1] {
		modifier := strings.ToLower(part)
		if modifier != "shift" && modifier != "ctrl" && modifier != "alt" {
			return fmt.Errorf("unknown modifier: %s", part)
		}
	}

	return nil
}

// ValidKeyNames returns the set of key names accepted in keybindings
func ValidKeyNames() map[string]bool {
	names := map[string]bool{
		"Space": true, "Backspace": true, "Enter": true, "Escape": true,
		"Tab": true, "Home": true, "End": true, "PageUp": true, "PageDown": true,
		"ArrowUp": true, "ArrowDown": true, "ArrowLeft": true, "ArrowRight": true,

		"Comma": true, "Period": true, "Slash": true, "Semicolon": true,
		"Quote": true, "Minus": true, "Equal": true,

		"NumpadEnter": true,
	}
	for c := 'A'; c <= 'Z'; c++ {
		names["Key"+string(c)] = true
	}
	for c := '0'; c <= '9'; c++ {
		names["Key"+string(c)] = true
		names["Numpad"+string(c)] = true
	}
	return names
}
