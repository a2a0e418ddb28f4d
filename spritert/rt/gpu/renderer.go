package gpu

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/leafyhollows/leafy/spritert/rt/batch"
)

// Renderer implements batch.Backend on a WebGPU surface.
type Renderer struct {
	dev *Device

	pipeline  *wgpu.RenderPipeline
	quad      *wgpu.Buffer
	index     *wgpu.Buffer
	uniforms  *wgpu.Buffer
	instances [batch.ChannelCount]*wgpu.Buffer
	widths    [batch.ChannelCount]int
	capacity  int

	sprites     *wgpu.Texture
	spritesView *wgpu.TextureView
	glyphs      *wgpu.Texture
	glyphsView  *wgpu.TextureView
	sampler     *wgpu.Sampler
	bindGroup   *wgpu.BindGroup

	// per frame
	target  *wgpu.Texture
	view    *wgpu.TextureView
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
}

var _ batch.Backend = (*Renderer)(nil)

func New(win *glfw.Window, vsync bool) (*Renderer, error) {
	dev, err := NewDevice(win, vsync)
	if err != nil {
		return nil, err
	}
	sampler, err := dev.Device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		Compare:       wgpu.CompareFunctionUndefined,
		MaxAnisotropy: 1,
	})
	if err != nil {
		dev.Release()
		return nil, fmt.Errorf("gpu: sampler: %w", err)
	}
	return &Renderer{dev: dev, sampler: sampler}, nil
}

// SetTextures uploads the sprite sheet and the glyph atlas. Both are
// sampled clamped to edge.
func (r *Renderer) SetTextures(sprites *image.RGBA, glyphs *image.Alpha) error {
	spriteTex, spriteView, err := r.createTexture("Sprite Sheet", sprites.Rect.Dx(), sprites.Rect.Dy(), 4, wgpu.TextureFormatRGBA8Unorm, sprites.Pix)
	if err != nil {
		return err
	}
	glyphTex, glyphView, err := r.createTexture("Glyph Atlas", glyphs.Rect.Dx(), glyphs.Rect.Dy(), 1, wgpu.TextureFormatR8Unorm, glyphs.Pix)
	if err != nil {
		spriteView.Release()
		spriteTex.Release()
		return err
	}
	r.releaseTextures()
	r.sprites, r.spritesView = spriteTex, spriteView
	r.glyphs, r.glyphsView = glyphTex, glyphView
	return nil
}

func (r *Renderer) createTexture(label string, width, height, bpp int, format wgpu.TextureFormat, pix []uint8) (*wgpu.Texture, *wgpu.TextureView, error) {
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}
	tex, err := r.dev.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("gpu: create %s: %w", label, err)
	}
	err = r.dev.Queue.WriteTexture(tex.AsImageCopy(), pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(width * bpp),
		RowsPerImage: uint32(height),
	}, &size)
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("gpu: write %s: %w", label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("gpu: view %s: %w", label, err)
	}
	return tex, view, nil
}

func (r *Renderer) ResizeSurface(width, height int) {
	r.dev.Reconfigure(width, height)
}

// BeginFrame acquires the next surface texture and opens the render pass
// that DrawInstanced records into.
func (r *Renderer) BeginFrame(clear [4]float32, projection mgl32.Mat4, glyphCount int) error {
	if r.pipeline == nil || r.spritesView == nil {
		return fmt.Errorf("gpu: frame started before layout and textures")
	}
	if r.bindGroup == nil {
		bg, err := r.dev.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "Sprite BG",
			Layout: r.pipeline.GetBindGroupLayout(0),
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: r.uniforms, Size: uniformSize},
				{Binding: 1, TextureView: r.spritesView},
				{Binding: 2, TextureView: r.glyphsView},
				{Binding: 3, Sampler: r.sampler},
			},
		})
		if err != nil {
			return fmt.Errorf("gpu: bind group: %w", err)
		}
		r.bindGroup = bg
	}

	var uniforms [20]float32
	copy(uniforms[:16], projection[:])
	uniforms[16] = float32(glyphCount)
	if err := r.dev.Queue.WriteBuffer(r.uniforms, 0, wgpu.ToBytes(uniforms[:])); err != nil {
		return fmt.Errorf("gpu: write uniforms: %w", err)
	}

	target, err := r.dev.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("gpu: acquire surface texture: %w", err)
	}
	view, err := target.CreateView(nil)
	if err != nil {
		target.Release()
		return fmt.Errorf("gpu: surface view: %w", err)
	}
	encoder, err := r.dev.Device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		target.Release()
		return fmt.Errorf("gpu: command encoder: %w", err)
	}
	r.target, r.view, r.encoder = target, view, encoder

	r.pass = encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: float64(clear[0]),
				G: float64(clear[1]),
				B: float64(clear[2]),
				A: float64(clear[3]),
			},
		}},
	})
	r.pass.SetPipeline(r.pipeline)
	r.pass.SetBindGroup(0, r.bindGroup, nil)
	return nil
}

// EndFrame submits the recorded pass and presents the surface.
func (r *Renderer) EndFrame() error {
	if r.pass == nil {
		return batch.ErrNoFrame
	}
	defer r.releaseFrame()

	if err := r.pass.End(); err != nil {
		return fmt.Errorf("gpu: end pass: %w", err)
	}
	cmd, err := r.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("gpu: finish commands: %w", err)
	}
	defer cmd.Release()
	r.dev.Queue.Submit(cmd)
	r.dev.Surface.Present()
	return nil
}

func (r *Renderer) releaseFrame() {
	if r.pass != nil {
		r.pass.Release()
		r.pass = nil
	}
	if r.encoder != nil {
		r.encoder.Release()
		r.encoder = nil
	}
	if r.view != nil {
		r.view.Release()
		r.view = nil
	}
	if r.target != nil {
		r.target.Release()
		r.target = nil
	}
}

func (r *Renderer) releaseTextures() {
	if r.bindGroup != nil {
		r.bindGroup.Release()
		r.bindGroup = nil
	}
	for _, v := range []*wgpu.TextureView{r.spritesView, r.glyphsView} {
		if v != nil {
			v.Release()
		}
	}
	for _, t := range []*wgpu.Texture{r.sprites, r.glyphs} {
		if t != nil {
			t.Release()
		}
	}
	r.sprites, r.spritesView, r.glyphs, r.glyphsView = nil, nil, nil, nil
}

func (r *Renderer) Release() {
	r.releaseFrame()
	r.releaseTextures()
	r.releaseInstances()
	for _, b := range []*wgpu.Buffer{r.quad, r.index, r.uniforms} {
		if b != nil {
			b.Release()
		}
	}
	r.quad, r.index, r.uniforms = nil, nil, nil
	if r.sampler != nil {
		r.sampler.Release()
		r.sampler = nil
	}
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	if r.dev != nil {
		r.dev.Release()
		r.dev = nil
	}
}
