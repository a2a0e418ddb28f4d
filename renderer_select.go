package leafy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leafyhollows/leafy/spritert/rt/batch"
	"github.com/leafyhollows/leafy/spritert/rt/gpu"
	"github.com/leafyhollows/leafy/spritert/rt/opengl"
)

// RendererName identifies a backend. Names double as RendererTag values.
type RendererName string

const (
	RendererOpenGL RendererName = "opengl"
	RendererWebGPU RendererName = "webgpu"
)

var ErrUnknownBackend = errors.New("unknown renderer backend")

func ParseRendererName(s string) (RendererName, error) {
	switch RendererName(strings.ToLower(strings.TrimSpace(s))) {
	case "", RendererOpenGL, "gl":
		return RendererOpenGL, nil
	case RendererWebGPU, "wgpu":
		return RendererWebGPU, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}

func (n RendererName) clientAPI() ClientAPI {
	if n == RendererWebGPU {
		return ClientNone
	}
	return ClientOpenGL
}

// defaultUpload is the upload mode used when the options leave it empty.
// webgpu queues writes per call, so one range per frame is cheaper.
func (n RendererName) defaultUpload() batch.UploadMode {
	if n == RendererWebGPU {
		return batch.UploadDeferred
	}
	return batch.UploadImmediate
}

func openBackend(name RendererName, ws *WindowState, opts WindowOptions) (frameBackend, error) {
	switch name {
	case RendererOpenGL:
		r, err := opengl.New(ws.Width, ws.Height, ws.swapBuffers)
		if err != nil {
			return nil, err
		}
		return r, nil
	case RendererWebGPU:
		if ws.window == nil {
			return nil, fmt.Errorf("webgpu: no window")
		}
		r, err := gpu.New(ws.window, opts.VSync)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// UseRenderer installs mod, its window and the single-renderer guard.
func (app *App) UseRenderer(mod RendererModule) *App {
	return app.UseModules(mod)
}
