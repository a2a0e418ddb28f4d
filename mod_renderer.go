package leafy

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/leafyhollows/leafy/spritert/rt/batch"
	"github.com/leafyhollows/leafy/spritert/rt/core"
	"golang.org/x/image/font"
)

// frameBackend is a batch backend that also owns the frame: clearing,
// uniforms and presentation.
type frameBackend interface {
	batch.Backend
	SetTextures(sprites *image.RGBA, glyphs *image.Alpha) error
	ResizeSurface(width, height int)
	BeginFrame(clear [4]float32, projection mgl32.Mat4, glyphCount int) error
	EndFrame() error
}

// RendererModule opens the configured backend on the shared window and
// publishes *Renderer and *Canvas resources. Any failure here is a setup
// fault and panics.
type RendererModule struct {
	Renderer RendererOptions
	Window   WindowOptions
	Assets   AssetOptions
}

func NewRendererModule(opts Options) RendererModule {
	return RendererModule{
		Renderer: opts.Renderer,
		Window:   opts.Window,
		Assets:   opts.Assets,
	}
}

func (m RendererModule) Install(app *App, cmd *Commands) {
	log := app.Logger()
	name, err := ParseRendererName(m.Renderer.Backend)
	if err != nil {
		log.Errorf("%v", err)
		panic(err)
	}
	ensureSingleRenderer(app, string(name))
	if _, ok := resourceOf[Renderer](app); ok {
		return
	}

	ws := ensureWindowResource(app, m.Window, name.clientAPI())
	backend, err := openBackend(name, ws, m.Window)
	if err != nil {
		log.Errorf("open %s renderer: %v", name, err)
		panic(err)
	}

	assets := ensureAssetServer(app)
	sprites := loadSprites(assets, m.Assets, log)
	glyphs := loadGlyphs(m.Assets, log)

	renderer, err := newRenderer(name, backend, m.Renderer, sprites, glyphs, log)
	if err != nil {
		backend.Release()
		log.Errorf("%v", err)
		panic(err)
	}
	renderer.resize(ws.Width, ws.Height)
	log.Infof("Renderer selected: %s", name)

	cmd.AddResources(renderer, renderer.Canvas)
	app.OnShutdown(renderer.Release)
	app.UseSystem(
		System(rendererBeginSystem).
			InStage(Prelude).
			RunAlways(),
	)
	app.UseSystem(
		System(rendererEndSystem).
			InStage(PostRender).
			RunAlways(),
	)
}

// Renderer owns the batch buffer and drives one backend frame per app frame.
type Renderer struct {
	Name       RendererName
	Buffer     *batch.Buffer
	Canvas     *Canvas
	ClearColor [4]float32
	Projection mgl32.Mat4

	backend frameBackend
	glyphs  *core.GlyphAtlas
	width   int
	height  int
	log     Logger
}

func newRenderer(name RendererName, backend frameBackend, opts RendererOptions, sprites *core.SpriteSheet, glyphs *core.GlyphAtlas, log Logger) (*Renderer, error) {
	bufOpts, err := batchOptions(name, opts, log)
	if err != nil {
		return nil, err
	}
	if err := backend.SetTextures(sprites.Image, glyphs.Image); err != nil {
		return nil, fmt.Errorf("upload textures: %w", err)
	}
	buf, err := batch.New(backend, bufOpts)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		Name:       name,
		Buffer:     buf,
		Canvas:     NewCanvas(buf, sprites, glyphs),
		ClearColor: opts.ClearColor,
		Projection: projection(1, 1),
		backend:    backend,
		glyphs:     glyphs,
		log:        log,
	}, nil
}

func batchOptions(name RendererName, opts RendererOptions, log Logger) (batch.Options, error) {
	growth, err := batch.ParseGrowth(opts.Growth, opts.GrowthStep)
	if err != nil {
		return batch.Options{}, err
	}
	upload := name.defaultUpload()
	if opts.Upload != "" {
		if upload, err = batch.ParseUploadMode(opts.Upload); err != nil {
			return batch.Options{}, err
		}
	}
	return batch.Options{
		Growth:       growth,
		Upload:       upload,
		MaxInstances: opts.MaxInstances,
		Debug:        opts.Debug,
		Logger:       log,
	}, nil
}

// projection maps x in [-w/h, w/h] and y in [-1, 1] to clip space.
func projection(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Ortho2D(-aspect, aspect, -1, 1)
}

func (r *Renderer) resize(width, height int) {
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	r.backend.ResizeSurface(width, height)
	r.Projection = projection(width, height)
}

// beginFrame opens a new batch frame. It runs before any drawing system.
func (r *Renderer) beginFrame() {
	r.Buffer.BeginFrame()
}

// endFrame clears, flushes the batch in one draw and presents. A failed
// backend frame drops the batch and the app keeps running. A zero sized
// framebuffer (minimized window) keeps the previous projection.
func (r *Renderer) endFrame(width, height int) uint32 {
	if width > 0 && height > 0 {
		r.resize(width, height)
	}

	if err := r.backend.BeginFrame(r.ClearColor, r.Projection, r.glyphs.Count()); err != nil {
		r.log.Errorf("begin frame %d: %v", r.Buffer.Frame(), err)
		r.Buffer.FlushAndReset()
		return 0
	}
	drawn := r.Buffer.FlushAndReset()
	if err := r.backend.EndFrame(); err != nil {
		r.log.Errorf("end frame %d: %v", r.Buffer.Frame(), err)
	}
	return drawn
}

func (r *Renderer) Stats() batch.Stats { return r.Buffer.Stats() }

func (r *Renderer) Release() {
	if r.Buffer != nil {
		r.Buffer.Release()
		r.Buffer = nil
	}
}

func rendererBeginSystem(r *Renderer) {
	r.beginFrame()
}

func rendererEndSystem(r *Renderer, ws *WindowState) {
	r.endFrame(ws.Width, ws.Height)
}

func loadSprites(assets *AssetServer, opts AssetOptions, log Logger) *core.SpriteSheet {
	if opts.Sprites == "" {
		return core.DefaultSprites()
	}
	img, err := loadSpriteImage(assets, opts.Sprites)
	if err != nil {
		log.Warnf("sprites: %v, using built-in sheet", err)
		return core.DefaultSprites()
	}
	return core.NewSpriteSheet(img, opts.SpriteColumns, opts.SpriteRows)
}

func loadSpriteImage(assets *AssetServer, name string) (*image.RGBA, error) {
	path, err := ExpandPath(name)
	if err != nil {
		return nil, err
	}
	id, err := assets.LoadTexture(path)
	if err != nil {
		return nil, err
	}
	tex, _ := assets.Texture(id)
	return tex.Image, nil
}

func loadGlyphs(opts AssetOptions, log Logger) *core.GlyphAtlas {
	face := core.DefaultFace()
	if opts.Font != "" {
		if loaded, err := loadFontFace(opts.Font, opts.FontSize); err != nil {
			log.Warnf("font: %v, using built-in face", err)
		} else {
			face = loaded
		}
	}
	atlas, err := core.NewGlyphAtlas(face, core.DefaultCharset)
	if err != nil {
		panic(fmt.Errorf("glyph atlas: %w", err))
	}
	return atlas
}

func loadFontFace(name string, size float64) (font.Face, error) {
	path, err := ExpandPath(name)
	if err != nil {
		return nil, err
	}
	return core.LoadFace(path, size)
}
