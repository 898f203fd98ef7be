// Package tui implements the interactive interview over the question tree.
// It walks the unanswered questions in suggestion order and records the
// answers the user types, following the Elm architecture via Bubbletea.
package tui

import "errors"

// ErrMissingTreeService is returned when the tree service is not provided.
var ErrMissingTreeService = errors.New("tui: tree service is required")
