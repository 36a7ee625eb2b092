package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMapper translates Bubble Tea key messages to screen actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionHistory
	MenuActionClear
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab", "h":
		return MenuActionHistory
	case "c":
		return MenuActionClear
	}

	return MenuActionNone
}

// PlayAction represents a play-screen action. Every other key is typed
// into the answer field.
type PlayAction int

const (
	PlayActionNone PlayAction = iota
	PlayActionConfirm
	PlayActionSkip
	PlayActionBack
	PlayActionQuit
)

// MapKeyToPlayAction translates a key to a play-screen action.
// Letters are never actions here since the answer field accepts text.
func (km *KeyMapper) MapKeyToPlayAction(msg tea.KeyMsg) PlayAction {
	switch msg.String() {
	case "ctrl+c":
		return PlayActionQuit
	case "enter":
		return PlayActionConfirm
	case "tab":
		return PlayActionSkip
	case "esc":
		return PlayActionBack
	}

	return PlayActionNone
}

// ResultsAction represents an action on the results screen.
type ResultsAction int

const (
	ResultsActionNone ResultsAction = iota
	ResultsActionPlayAgain
	ResultsActionHistory
	ResultsActionBack
	ResultsActionQuit
)

// MapKeyToResultsAction translates a key to a results-screen action.
func (km *KeyMapper) MapKeyToResultsAction(msg tea.KeyMsg) ResultsAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return ResultsActionQuit
	case "enter", "r":
		return ResultsActionPlayAgain
	case "tab", "h":
		return ResultsActionHistory
	case "b", "esc":
		return ResultsActionBack
	}

	return ResultsActionNone
}
