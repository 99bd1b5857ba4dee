// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LandscapeVertexShader transforms landscape vertices for both material passes.
//
//go:embed landscape.vert
var LandscapeVertexShader string

// TileMaskFragmentShader blends four detail textures by the tile mask.
//
//go:embed tilemask.frag
var TileMaskFragmentShader string

// CursorFragmentShader draws the brush overlay.
//
//go:embed cursor.frag
var CursorFragmentShader string
