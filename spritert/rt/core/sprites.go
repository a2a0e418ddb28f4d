package core

import (
	"image"
	"image/color"
	"image/draw"
)

// SpriteSheet is a grid of equally sized sprites in one RGBA image, indexed
// row-major from the top-left cell.
type SpriteSheet struct {
	Image   *image.RGBA
	Columns int
	Rows    int
}

func NewSpriteSheet(img image.Image, columns, rows int) *SpriteSheet {
	if columns <= 0 {
		columns = 1
	}
	if rows <= 0 {
		rows = 1
	}
	return &SpriteSheet{
		Image:   ToRGBA(img),
		Columns: columns,
		Rows:    rows,
	}
}

func (s *SpriteSheet) Count() int {
	return s.Columns * s.Rows
}

// Rect returns the normalized (u, v, w, h) rectangle of sprite index, with v
// measured from the top of the image. Out of range indices report false and
// the first cell.
func (s *SpriteSheet) Rect(index int) ([4]float32, bool) {
	w := 1 / float32(s.Columns)
	h := 1 / float32(s.Rows)
	if index < 0 || index >= s.Count() {
		return [4]float32{0, 0, w, h}, false
	}
	col := index % s.Columns
	row := index / s.Columns
	return [4]float32{float32(col) * w, float32(row) * h, w, h}, true
}

// DefaultSprites is a procedural 4x1 sheet used when no sprite image is
// configured: checker tiles in four colours.
func DefaultSprites() *SpriteSheet {
	const tile = 16
	palette := []color.RGBA{
		{R: 0x5a, G: 0xa0, B: 0x3c, A: 0xff},
		{R: 0x8b, G: 0x5a, B: 0x2b, A: 0xff},
		{R: 0x3c, G: 0x6e, B: 0xb4, A: 0xff},
		{R: 0xd2, G: 0xc8, B: 0x5a, A: 0xff},
	}
	img := image.NewRGBA(image.Rect(0, 0, tile*len(palette), tile))
	for i, c := range palette {
		dark := color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 0xff}
		for y := 0; y < tile; y++ {
			for x := 0; x < tile; x++ {
				px := c
				if (x/4+y/4)%2 == 1 {
					px = dark
				}
				img.SetRGBA(i*tile+x, y, px)
			}
		}
	}
	return &SpriteSheet{Image: img, Columns: len(palette), Rows: 1}
}

// ToRGBA returns img as *image.RGBA, converting when needed.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
