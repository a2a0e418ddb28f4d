package leafy

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, ProjectName, opts.Window.Title)
	assert.True(t, opts.Window.VSync)
	assert.Equal(t, "opengl", opts.Renderer.Backend)
	assert.Equal(t, "additive", opts.Renderer.Growth)
	assert.Equal(t, 10, opts.Renderer.GrowthStep)
	assert.Empty(t, opts.Renderer.Upload)
	assert.Equal(t, [4]float32{0.15, 0, 0.05, 1}, opts.Renderer.ClearColor)

	validated := opts
	validated.Validate()
	assert.Equal(t, opts, validated, "defaults are already valid")
}

func TestLoadOptions_Missing(t *testing.T) {
	opts, err := LoadOptions(filepath.Join(t.TempDir(), "options.yml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, DefaultOptions(), opts)
}

func TestLoadOptions_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yml")
	data := `
window:
  width: 1024
  height: -5
renderer:
  backend: webgpu
  growth: geometric
  growth_step: 0
  clear_color: [0, 0.5, 0, 1]
assets:
  sprite_columns: 8
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, opts.Window.Width)
	assert.Equal(t, 0, opts.Window.Height, "negative sizes fall back to the monitor size")
	assert.Equal(t, ProjectName, opts.Window.Title)
	assert.Equal(t, "webgpu", opts.Renderer.Backend)
	assert.Equal(t, "geometric", opts.Renderer.Growth)
	assert.Equal(t, 10, opts.Renderer.GrowthStep)
	assert.Equal(t, [4]float32{0, 0.5, 0, 1}, opts.Renderer.ClearColor)
	assert.Equal(t, 8, opts.Assets.SpriteColumns)
	assert.Equal(t, 1, opts.Assets.SpriteRows)
}

func TestLoadOptions_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yml")
	require.NoError(t, os.WriteFile(path, []byte("window: [1, 2"), 0o644))

	opts, err := LoadOptions(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, DefaultOptions(), opts)
}

func TestSaveOptions_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "options.yml")
	want := DefaultOptions()
	want.Window.Width = 640
	want.Window.Height = 480
	want.Renderer.Upload = "deferred"
	want.Assets.Font = "~/fonts/leaf.ttf"

	require.NoError(t, SaveOptions(path, want))
	got, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadOrCreateOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectDirectory, "options.yml")
	log := &captureLogger{}

	opts := LoadOrCreateOptions(path, log)
	assert.Equal(t, DefaultOptions(), opts)
	assert.FileExists(t, path)
	require.Len(t, log.infos, 1)
	assert.Contains(t, log.infos[0], path)

	again := LoadOrCreateOptions(path, log)
	assert.Equal(t, opts, again)
	assert.Empty(t, log.warns)
}

func TestLoadOrCreateOptions_BrokenFileKeepsIt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yml")
	require.NoError(t, os.WriteFile(path, []byte(":::"), 0o644))
	log := &captureLogger{}

	opts := LoadOrCreateOptions(path, log)
	assert.Equal(t, DefaultOptions(), opts)
	require.Len(t, log.warns, 1)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":::", string(data))
}

func TestDataDir_XDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_DATA_HOME only applies on linux")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)

	dir, err := DataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, ProjectDirectory), dir)
}

func TestOptionsPath(t *testing.T) {
	path, err := OptionsPath()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	assert.Equal(t, "options.yml", filepath.Base(path))
	assert.Equal(t, ProjectDirectory, filepath.Base(filepath.Dir(path)))
}

func TestExpandPath(t *testing.T) {
	got, err := ExpandPath("")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ExpandPath("/abs/sprites.png")
	require.NoError(t, err)
	assert.Equal(t, "/abs/sprites.png", got)

	home, err := homedir.Dir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err = ExpandPath("~/sprites.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "sprites.png"), got)
}
