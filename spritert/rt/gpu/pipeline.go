package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/leafyhollows/leafy/spritert/rt/batch"
	"github.com/leafyhollows/leafy/spritert/rt/shaders"
)

// quad: position | texcoord
var quadVertices = []float32{
	-1.0, -1.0, 0.0, 0.0,
	-1.0, 1.0, 0.0, 1.0,
	1.0, 1.0, 1.0, 1.0,
	1.0, -1.0, 1.0, 0.0,
}

var quadIndices = []uint16{
	0, 1, 2,
	0, 2, 3,
}

const uniformSize = 80 // mat4x4 + vec4

// Bind builds the render pipeline with the quad in slot 0 and one instance
// buffer per channel in slots 1 to 3.
func (r *Renderer) Bind(layout []batch.Attribute) error {
	if r.pipeline != nil {
		return fmt.Errorf("gpu: layout already bound")
	}
	if len(layout) != batch.ChannelCount {
		return fmt.Errorf("%w: %d channels", batch.ErrLayout, len(layout))
	}

	buffers := []wgpu.VertexBufferLayout{{
		ArrayStride: 4 * 4,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 2 * 4, ShaderLocation: 1},
		},
	}}
	for _, attr := range layout {
		format, ok := vertexFormat(attr.Width)
		if !ok || int(attr.Channel) >= batch.ChannelCount {
			return fmt.Errorf("%w: %s width %d", batch.ErrLayout, attr.Name, attr.Width)
		}
		r.widths[attr.Channel] = attr.Width
		buffers = append(buffers, wgpu.VertexBufferLayout{
			ArrayStride: uint64(attr.Width * 4),
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes: []wgpu.VertexAttribute{
				{Format: format, Offset: 0, ShaderLocation: attr.Location},
			},
		})
	}

	device := r.dev.Device
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Sprite Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.SpriteWGSL},
	})
	if err != nil {
		return fmt.Errorf("gpu: sprite shader: %w", err)
	}
	defer module.Release()

	r.pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Sprite Pipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    r.dev.Config.Format,
				WriteMask: wgpu.ColorWriteMaskAll,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						Operation: wgpu.BlendOperationAdd,
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
					},
					Alpha: wgpu.BlendComponent{
						Operation: wgpu.BlendOperationAdd,
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
					},
				},
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: sprite pipeline: %w", err)
	}

	r.quad, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Quad Vertices",
		Contents: wgpu.ToBytes(quadVertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return fmt.Errorf("gpu: quad vertices: %w", err)
	}
	r.index, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Quad Indices",
		Contents: wgpu.ToBytes(quadIndices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		return fmt.Errorf("gpu: quad indices: %w", err)
	}
	r.uniforms, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Sprite Uniforms",
		Size:  uniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: uniforms: %w", err)
	}
	return nil
}

// Resize replaces every instance buffer with one of capacity slots. The old
// contents are dropped; the batch re-uploads live slots.
func (r *Renderer) Resize(capacity int) error {
	var grown [batch.ChannelCount]*wgpu.Buffer
	for ch := range grown {
		buf, err := r.dev.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: batch.Channel(ch).String(),
			Size:  uint64(capacity * r.widths[ch] * 4),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			for _, b := range grown[:ch] {
				b.Release()
			}
			return fmt.Errorf("gpu: resize %s to %d: %w", batch.Channel(ch), capacity, err)
		}
		grown[ch] = buf
	}
	r.releaseInstances()
	r.instances = grown
	r.capacity = capacity
	return nil
}

func (r *Renderer) Upload(ch batch.Channel, first int, data []float32) error {
	if len(data) == 0 {
		return nil
	}
	width := r.widths[ch]
	if first+len(data)/width > r.capacity {
		return fmt.Errorf("gpu: upload %s beyond capacity %d", ch, r.capacity)
	}
	return r.dev.Queue.WriteBuffer(r.instances[ch], uint64(first*width*4), wgpu.ToBytes(data))
}

func (r *Renderer) DrawInstanced(count uint32) error {
	if r.pass == nil {
		return batch.ErrNoFrame
	}
	if count == 0 || r.capacity == 0 {
		return nil
	}
	r.pass.SetVertexBuffer(0, r.quad, 0, wgpu.WholeSize)
	for ch, buf := range r.instances {
		r.pass.SetVertexBuffer(uint32(ch+1), buf, 0, wgpu.WholeSize)
	}
	r.pass.SetIndexBuffer(r.index, wgpu.IndexFormatUint16, 0, uint64(len(quadIndices)*2))
	r.pass.DrawIndexed(uint32(len(quadIndices)), count, 0, 0, 0)
	return nil
}

func (r *Renderer) releaseInstances() {
	for ch, buf := range r.instances {
		if buf != nil {
			buf.Release()
			r.instances[ch] = nil
		}
	}
	r.capacity = 0
}

func vertexFormat(width int) (wgpu.VertexFormat, bool) {
	switch width {
	case 1:
		return wgpu.VertexFormatFloat32, true
	case 2:
		return wgpu.VertexFormatFloat32x2, true
	case 3:
		return wgpu.VertexFormatFloat32x3, true
	case 4:
		return wgpu.VertexFormatFloat32x4, true
	}
	return 0, false
}
