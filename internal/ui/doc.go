// Package ui implements an interactive terminal catalog browser using bubbletea's Elm architecture.
//
// The TUI works on a single user's catalog through three views:
//  1. [ListView] : Browse and filter the user's movies
//  2. [AddView] : Enter a title to look up and add
//  3. [ConfirmDeleteView] : Confirm removal of the selected movie
//
// The [Model] implements bubbletea's Init/Update/View pattern, receiving results of catalog calls through the [Msg]
// union type. Lookups and deletes run as [tea.Cmd] so the interface stays responsive during metadata fetches.
//
// Keyboard navigation uses vim-style bindings (j/k, a, d, enter, esc, y/n, q) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
