// Package render turns board positions and professions into images and
// remembers what was already uploaded.
package render

import "errors"

// ErrNoImage is returned when a renderer has no source image configured.
var ErrNoImage = errors.New("render: image source not configured")

// BoardRenderer draws the board with a marker at position.
type BoardRenderer interface {
	RenderBoard(position int) ([]byte, error)
}

// CardRenderer returns the card image of a profession.
type CardRenderer interface {
	RenderCard(profession string) ([]byte, error)
}
