package render

import (
	"fmt"
	"os"
	"path/filepath"
)

// CardDrawer serves profession cards stored as <dir>/<profession>.png.
type CardDrawer struct {
	dir string
}

// NewCardDrawer returns a loader rooted at dir.
func NewCardDrawer(dir string) *CardDrawer {
	return &CardDrawer{dir: dir}
}

// RenderCard reads the card image for profession.
func (c *CardDrawer) RenderCard(profession string) ([]byte, error) {
	if c.dir == "" {
		return nil, ErrNoImage
	}
	path := filepath.Join(c.dir, filepath.Base(profession)+".png")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("render: read card %s: %w", profession, err)
	}
	return data, nil
}
