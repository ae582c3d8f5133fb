// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the global keyboard bindings.
type KeyMap struct {
	Quit        key.Binding
	New         key.Binding
	Up          key.Binding
	Down        key.Binding
	Delete      key.Binding
	Filter      key.Binding
	Edit        key.Binding
	ToggleTheme key.Binding
	Copy        key.Binding
	Export      key.Binding
	Select      key.Binding
	Scroll      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quitter"),
		),
		New: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "nouvelle conversation"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "conversation précédente"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "conversation suivante"),
		),
		Delete: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "supprimer la conversation"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filtrer"),
		),
		Edit: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "modifier la dernière question"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "changer de thème"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copier la réponse"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "exporter la conversation"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "ouvrir"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("pgup", "pgdown", "home", "end"),
			key.WithHelp("PgUp/PgDn", "défiler"),
		),
	}
}
