package leafy

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// ClientAPI selects the context glfw creates for the window.
type ClientAPI int

const (
	// ClientOpenGL requests a forward compatible OpenGL 3.3 core context.
	ClientOpenGL ClientAPI = iota
	// ClientNone creates no context; the webgpu backend owns the surface.
	ClientNone
)

// WindowState is the shared window resource. Width and Height are the
// framebuffer size in pixels.
type WindowState struct {
	window  *glfw.Window
	api     ClientAPI
	Width   int
	Height  int
	Title   string
	Focused bool
	// Resized is true for the frame in which the framebuffer size changed.
	Resized bool
}

func createWindowState(opts WindowOptions, api ClientAPI) (*WindowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init glfw: %w", err)
	}

	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = defaultWindowSize()
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Resizable, glfw.True)
	switch api {
	case ClientOpenGL:
		glfw.WindowHint(glfw.ContextVersionMajor, 3)
		glfw.WindowHint(glfw.ContextVersionMinor, 3)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
		glfw.WindowHint(glfw.Samples, opts.Samples)
	case ClientNone:
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	}

	win, err := glfw.CreateWindow(width, height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	if api == ClientOpenGL {
		win.MakeContextCurrent()
		if opts.VSync {
			glfw.SwapInterval(1)
		} else {
			glfw.SwapInterval(0)
		}
	}

	fbWidth, fbHeight := win.GetFramebufferSize()
	return &WindowState{
		window:  win,
		api:     api,
		Width:   fbWidth,
		Height:  fbHeight,
		Title:   opts.Title,
		Focused: true,
	}, nil
}

// defaultWindowSize is 2/3 of the primary monitor width by 3/5 of its height.
func defaultWindowSize() (int, int) {
	if monitor := glfw.GetPrimaryMonitor(); monitor != nil {
		if mode := monitor.GetVideoMode(); mode != nil {
			return mode.Width * 2 / 3, mode.Height * 3 / 5
		}
	}
	return 1280, 720
}

// Aspect is width over height, 1 for an empty framebuffer.
func (s *WindowState) Aspect() float32 {
	if s.Width <= 0 || s.Height <= 0 {
		return 1
	}
	return float32(s.Width) / float32(s.Height)
}

func (s *WindowState) swapBuffers() {
	if s.window != nil {
		s.window.SwapBuffers()
	}
}

func (s *WindowState) destroy() {
	if s.window == nil {
		return
	}
	s.window.Destroy()
	s.window = nil
	glfw.Terminate()
}
