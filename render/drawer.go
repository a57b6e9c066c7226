package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"math"
	"sync"

	"github.com/fogleman/gg"
)

var markerColor = color.RGBA{R: 0xff, A: 0xff}

// MapDrawer paints a marker on a ring shaped board image. Sector 0 starts
// at three o'clock and sectors run clockwise in image coordinates.
type MapDrawer struct {
	path    string
	sectors int
	radius  int

	once sync.Once
	base image.Image
	err  error
}

// NewMapDrawer loads the base image (PNG or JPEG) lazily from path.
func NewMapDrawer(path string, sectors, radius int) *MapDrawer {
	if sectors <= 0 {
		sectors = 24
	}
	if radius <= 0 {
		radius = 30
	}
	return &MapDrawer{path: path, sectors: sectors, radius: radius}
}

// NewMapDrawerFromImage uses an already decoded base image.
func NewMapDrawerFromImage(base image.Image, sectors, radius int) *MapDrawer {
	d := NewMapDrawer("", sectors, radius)
	d.once.Do(func() { d.base = base })
	return d
}

// RenderBoard returns a PNG of the board with the marker on position.
func (d *MapDrawer) RenderBoard(position int) ([]byte, error) {
	base, err := d.load()
	if err != nil {
		return nil, err
	}
	dc := gg.NewContextForImage(base)
	x, y := d.MarkerCenter(base.Bounds(), position)
	dc.DrawCircle(float64(x), float64(y), float64(d.radius))
	dc.SetColor(markerColor)
	dc.Fill()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("render: encode board: %w", err)
	}
	return buf.Bytes(), nil
}

// MarkerCenter returns the pixel the marker for position is centred on: the
// middle of its sector, two thirds of the way from the centre to the edge.
func (d *MapDrawer) MarkerCenter(bounds image.Rectangle, position int) (int, int) {
	sector := position % d.sectors
	if sector < 0 {
		sector += d.sectors
	}
	w, h := bounds.Dx(), bounds.Dy()
	ring := float64(min(w, h) / 2)
	step := 2 * math.Pi / float64(d.sectors)
	angle := step*float64(sector) + step/2

	x := int(math.Cos(angle)*ring/1.5) + w/2
	y := int(math.Sin(angle)*ring/1.5) + h/2
	return bounds.Min.X + x, bounds.Min.Y + y
}

func (d *MapDrawer) load() (image.Image, error) {
	d.once.Do(func() {
		if d.path == "" {
			d.err = ErrNoImage
			return
		}
		img, err := gg.LoadImage(d.path)
		if err != nil {
			d.err = fmt.Errorf("render: load board %s: %w", d.path, err)
			return
		}
		d.base = img
	})
	return d.base, d.err
}
