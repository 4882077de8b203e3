// Package ui implements the printdeck terminal interface on bubbletea.
//
// All daemon interaction happens inside tea commands; Update only moves
// state. Mutations that can change gallery membership, button badges, or
// assignments end with a full reconcile instead of patching local state.
package ui
