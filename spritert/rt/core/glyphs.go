package core

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultCharset is printable ASCII in code point order.
var DefaultCharset = func() string {
	runes := make([]rune, 0, 127-32)
	for r := rune(32); r < 127; r++ {
		runes = append(runes, r)
	}
	return string(runes)
}()

// GlyphAtlas is a single-row bitmap font: glyph i occupies cell i, so the
// shader only needs the glyph index and the cell count.
type GlyphAtlas struct {
	Image      *image.Alpha
	CellWidth  int
	CellHeight int

	charset  []rune
	index    map[rune]int
	fallback int
}

// DefaultFace is the built-in 7x13 bitmap face.
func DefaultFace() font.Face {
	return basicfont.Face7x13
}

// LoadFace opens a TrueType or OpenType font at the given size in points.
func LoadFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}

	f, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}
	return face, nil
}

// NewGlyphAtlas rasterizes every rune of charset into one row of equally
// sized cells. The first occurrence of a rune wins.
func NewGlyphAtlas(face font.Face, charset string) (*GlyphAtlas, error) {
	if face == nil {
		return nil, fmt.Errorf("glyph atlas: nil face")
	}
	if charset == "" {
		charset = DefaultCharset
	}

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	cellH := metrics.Height.Ceil()
	if d := ascent + metrics.Descent.Ceil(); d > cellH {
		cellH = d
	}

	var runes []rune
	index := make(map[rune]int)
	cellW := 0
	for _, r := range charset {
		if _, ok := index[r]; ok {
			continue
		}
		index[r] = len(runes)
		runes = append(runes, r)
		if adv, ok := face.GlyphAdvance(r); ok && adv.Ceil() > cellW {
			cellW = adv.Ceil()
		}
	}
	if cellW <= 0 || cellH <= 0 {
		return nil, fmt.Errorf("glyph atlas: face has no usable metrics")
	}

	atlas := image.NewAlpha(image.Rect(0, 0, cellW*len(runes), cellH))
	for i, r := range runes {
		dot := fixed.P(i*cellW, ascent)
		dr, mask, maskp, _, ok := face.Glyph(dot, r)
		if !ok {
			continue
		}
		clip := dr.Intersect(image.Rect(i*cellW, 0, (i+1)*cellW, cellH))
		if clip.Empty() {
			continue
		}
		draw.DrawMask(atlas, clip, image.Opaque, image.Point{}, mask, maskp.Add(clip.Min.Sub(dr.Min)), draw.Over)
	}

	fallback, ok := index['?']
	if !ok {
		fallback = 0
	}

	return &GlyphAtlas{
		Image:      atlas,
		CellWidth:  cellW,
		CellHeight: cellH,
		charset:    runes,
		index:      index,
		fallback:   fallback,
	}, nil
}

// Index returns the cell of r, or the cell of '?' for runes outside the atlas.
func (a *GlyphAtlas) Index(r rune) int {
	if i, ok := a.index[r]; ok {
		return i
	}
	return a.fallback
}

func (a *GlyphAtlas) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// Count is the number of cells.
func (a *GlyphAtlas) Count() int {
	return len(a.charset)
}

// Aspect is cell width over cell height.
func (a *GlyphAtlas) Aspect() float32 {
	if a.CellHeight == 0 {
		return 1
	}
	return float32(a.CellWidth) / float32(a.CellHeight)
}
