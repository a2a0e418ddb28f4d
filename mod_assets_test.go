package leafy

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.NRGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.NRGBA{B: 255, A: 255})
			}
		}
	}
	return img
}

func writeImage(t *testing.T, name string, encode func(f *os.File) error) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, encode(f))
	require.NoError(t, f.Close())
	return path
}

func TestAssetServer_LoadTexture(t *testing.T) {
	img := checker(4, 2)
	tests := []struct {
		name   string
		file   string
		encode func(f *os.File) error
		format string
	}{
		{"png", "sheet.png", func(f *os.File) error { return png.Encode(f, img) }, "png"},
		{"bmp", "sheet.bmp", func(f *os.File) error { return bmp.Encode(f, img) }, "bmp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewAssetServer()
			path := writeImage(t, tt.file, tt.encode)

			id, err := server.LoadTexture(path)
			require.NoError(t, err)

			tex, ok := server.Texture(id)
			require.True(t, ok)
			assert.Equal(t, path, tex.Path)
			assert.Equal(t, tt.format, tex.Format)
			assert.Equal(t, 4, tex.Width())
			assert.Equal(t, 2, tex.Height())
			assert.Equal(t, color.RGBA{R: 255, A: 255}, tex.Image.RGBAAt(0, 0))
			assert.Equal(t, color.RGBA{B: 255, A: 255}, tex.Image.RGBAAt(1, 0))
		})
	}
}

func TestAssetServer_LoadTexture_Errors(t *testing.T) {
	server := NewAssetServer()

	_, err := server.LoadTexture(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = server.LoadTexture(garbage)
	assert.ErrorIs(t, err, image.ErrFormat)

	assert.Equal(t, 0, server.Len())
}

func TestAssetServer_CreateTexture(t *testing.T) {
	server := NewAssetServer()
	a := server.CreateTexture(checker(2, 2))
	b := server.CreateTexture(image.NewGray(image.Rect(0, 0, 3, 1)))

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, server.Len())

	tex, ok := server.Texture(b)
	require.True(t, ok)
	assert.Equal(t, "memory", tex.Format)
	assert.Equal(t, 3, tex.Width())

	_, ok = server.Texture("nope")
	assert.False(t, ok)
}

func TestAssetServerModule_InstallsOnce(t *testing.T) {
	app := NewAppBuilder().UseModule(AssetServerModule{}).Build()
	first, ok := resourceOf[AssetServer](app)
	require.True(t, ok)

	assert.Same(t, first, ensureAssetServer(app))
}
