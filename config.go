package leafy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

const (
	ProjectName      = "Leafy Hollows"
	ProjectDirectory = "LeafyHollows"
	optionsFile      = "options.yml"
)

type Options struct {
	Window   WindowOptions   `yaml:"window"`
	Renderer RendererOptions `yaml:"renderer"`
	Assets   AssetOptions    `yaml:"assets"`
	Log      LogOptions      `yaml:"log"`
}

// WindowOptions sizes the window. Zero Width or Height picks a size from
// the primary monitor.
type WindowOptions struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Title   string `yaml:"title"`
	VSync   bool   `yaml:"vsync"`
	Samples int    `yaml:"samples"`
}

type RendererOptions struct {
	// Backend is "opengl" or "webgpu".
	Backend string `yaml:"backend"`
	// Growth is "additive" or "geometric".
	Growth     string `yaml:"growth"`
	GrowthStep int    `yaml:"growth_step"`
	// Upload is "immediate" or "deferred". Empty picks the backend default.
	Upload       string     `yaml:"upload"`
	MaxInstances int        `yaml:"max_instances"`
	Debug        bool       `yaml:"debug"`
	ClearColor   [4]float32 `yaml:"clear_color,flow"`
}

type AssetOptions struct {
	// Sprites is an image path; empty uses the built-in sheet.
	Sprites       string `yaml:"sprites"`
	SpriteColumns int    `yaml:"sprite_columns"`
	SpriteRows    int    `yaml:"sprite_rows"`
	// Font is a TTF/OTF path; empty uses the built-in 7x13 face.
	Font     string  `yaml:"font"`
	FontSize float64 `yaml:"font_size"`
}

type LogOptions struct {
	Debug bool `yaml:"debug"`
}

func DefaultOptions() Options {
	return Options{
		Window: WindowOptions{
			Title:   ProjectName,
			VSync:   true,
			Samples: 4,
		},
		Renderer: RendererOptions{
			Backend:    string(RendererOpenGL),
			Growth:     "additive",
			GrowthStep: 10,
			ClearColor: [4]float32{0.15, 0.0, 0.05, 1.0},
		},
		Assets: AssetOptions{
			SpriteColumns: 1,
			SpriteRows:    1,
			FontSize:      13,
		},
	}
}

// Validate replaces out of range values with defaults.
func (o *Options) Validate() {
	def := DefaultOptions()
	if o.Window.Width < 0 {
		o.Window.Width = 0
	}
	if o.Window.Height < 0 {
		o.Window.Height = 0
	}
	if o.Window.Title == "" {
		o.Window.Title = def.Window.Title
	}
	if o.Window.Samples < 0 {
		o.Window.Samples = 0
	}
	if o.Renderer.Backend == "" {
		o.Renderer.Backend = def.Renderer.Backend
	}
	if o.Renderer.GrowthStep <= 0 {
		o.Renderer.GrowthStep = def.Renderer.GrowthStep
	}
	if o.Renderer.MaxInstances < 0 {
		o.Renderer.MaxInstances = 0
	}
	if o.Assets.SpriteColumns <= 0 {
		o.Assets.SpriteColumns = 1
	}
	if o.Assets.SpriteRows <= 0 {
		o.Assets.SpriteRows = 1
	}
	if o.Assets.FontSize <= 0 {
		o.Assets.FontSize = def.Assets.FontSize
	}
}

// LoadOptions reads path over the defaults. On any error the defaults are
// returned with it, so callers can log and carry on.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read options: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return DefaultOptions(), fmt.Errorf("parse options %s: %w", path, err)
	}
	opts.Validate()
	return opts, nil
}

func SaveOptions(path string, opts Options) error {
	data, err := yaml.Marshal(opts)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write options: %w", err)
	}
	return nil
}

// LoadOrCreateOptions loads path, writing the defaults there first when the
// file does not exist yet.
func LoadOrCreateOptions(path string, log Logger) Options {
	opts, err := LoadOptions(path)
	switch {
	case err == nil:
		log.Debugf("options loaded from %s", path)
	case errors.Is(err, os.ErrNotExist):
		if err := SaveOptions(path, opts); err != nil {
			log.Warnf("%v", err)
		} else {
			log.Infof("default options written to %s", path)
		}
	default:
		log.Warnf("%v, using defaults", err)
	}
	return opts
}

// ConfigDir is the per-user directory holding options.yml.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config directory: %w", err)
	}
	return filepath.Join(dir, ProjectDirectory), nil
}

// DataDir is the per-user directory for everything else. On Linux it
// follows XDG_DATA_HOME; elsewhere it matches ConfigDir.
func DataDir() (string, error) {
	if runtime.GOOS != "linux" {
		return ConfigDir()
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, ProjectDirectory), nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("data directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", ProjectDirectory), nil
}

func OptionsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, optionsFile), nil
}

// ExpandPath resolves a leading ~ to the home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}
	return expanded, nil
}
