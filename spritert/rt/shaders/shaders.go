package shaders

import (
	_ "embed"
)

//go:embed sprite.vert.glsl
var SpriteVertexGLSL string

//go:embed sprite.frag.glsl
var SpriteFragmentGLSL string

//go:embed sprite.wgsl
var SpriteWGSL string

// Shape discriminants read from shape_transform.x.
const (
	ShapeRectangle = 0
	ShapeCircle    = 1
	ShapeImage     = 2
	ShapeGlyph     = 3
)
