package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/leafyhollows/leafy/spritert/rt/batch"
)

// quad: position | texcoord
var quadVertices = []float32{
	-1.0, -1.0, 0.0, 0.0, // bottom-left
	-1.0, 1.0, 0.0, 1.0, // top-left
	1.0, 1.0, 1.0, 1.0, // top-right
	1.0, -1.0, 1.0, 0.0, // bottom-right
}

var quadIndices = []uint32{
	0, 1, 2,
	0, 2, 3,
}

const (
	locPosition = 0
	locTexcoord = 1
)

// Bind creates the vertex array: the static quad on locations 0 and 1 and
// one empty instance buffer per channel, each with divisor 1.
func (r *Renderer) Bind(layout []batch.Attribute) error {
	if r.vao != 0 {
		return fmt.Errorf("opengl: layout already bound")
	}
	if len(layout) != batch.ChannelCount {
		return fmt.Errorf("%w: %d channels", batch.ErrLayout, len(layout))
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.quadVbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(locPosition)
	gl.VertexAttribPointer(locPosition, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(locTexcoord)
	gl.VertexAttribPointer(locTexcoord, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(2*4))

	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(quadIndices)*4, gl.Ptr(quadIndices), gl.STATIC_DRAW)

	gl.GenBuffers(batch.ChannelCount, &r.vbos[0])
	for _, attr := range layout {
		if attr.Width < 1 || attr.Width > 4 || int(attr.Channel) >= batch.ChannelCount {
			return fmt.Errorf("%w: %s width %d", batch.ErrLayout, attr.Name, attr.Width)
		}
		r.widths[attr.Channel] = attr.Width
		gl.BindBuffer(gl.ARRAY_BUFFER, r.vbos[attr.Channel])
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STREAM_DRAW)
		gl.EnableVertexAttribArray(attr.Location)
		gl.VertexAttribPointer(attr.Location, int32(attr.Width), gl.FLOAT, false, 0, gl.PtrOffset(0))
		gl.VertexAttribDivisor(attr.Location, 1)
	}

	gl.BindVertexArray(0)
	return glError("bind instance layout")
}

// Resize orphans every instance buffer at the new size. Contents are not
// copied; the batch re-uploads live slots.
func (r *Renderer) Resize(capacity int) error {
	for ch, vbo := range r.vbos {
		gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
		gl.BufferData(gl.ARRAY_BUFFER, capacity*r.widths[ch]*4, nil, gl.STREAM_DRAW)
	}
	r.capacity = capacity
	return glError(fmt.Sprintf("resize instance buffers to %d", capacity))
}

func (r *Renderer) Upload(ch batch.Channel, first int, data []float32) error {
	if len(data) == 0 {
		return nil
	}
	width := r.widths[ch]
	if first+len(data)/width > r.capacity {
		return fmt.Errorf("opengl: upload %s beyond capacity %d", ch, r.capacity)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbos[ch])
	gl.BufferSubData(gl.ARRAY_BUFFER, first*width*4, len(data)*4, gl.Ptr(data))
	return nil
}

func (r *Renderer) DrawInstanced(count uint32) error {
	if !r.inFrame {
		return batch.ErrNoFrame
	}
	gl.BindVertexArray(r.vao)
	gl.DrawElementsInstanced(gl.TRIANGLES, int32(len(quadIndices)), gl.UNSIGNED_INT, gl.PtrOffset(0), int32(count))
	return nil
}

func (r *Renderer) releaseBuffers() {
	if r.vbos[0] != 0 {
		gl.DeleteBuffers(batch.ChannelCount, &r.vbos[0])
		r.vbos = [batch.ChannelCount]uint32{}
	}
	if r.quadVbo != 0 {
		gl.DeleteBuffers(1, &r.quadVbo)
		r.quadVbo = 0
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
		r.ebo = 0
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	r.capacity = 0
}
