package leafy

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// PlatformWindowModule provides the shared WindowState resource and the
// Prelude system that pumps window events. Install is a no-op when a window
// already exists, so renderer and input modules can share one window.
type PlatformWindowModule struct {
	Window WindowOptions
	API    ClientAPI
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	ensureWindowResource(app, m.Window, m.API)
}

// ensureWindowResource returns the shared window, creating it on first use.
// Failing to create a window is a setup fault.
func ensureWindowResource(app *App, opts WindowOptions, api ClientAPI) *WindowState {
	if ws, ok := resourceOf[WindowState](app); ok {
		if ws.api != api {
			panic("window already created for another client API")
		}
		return ws
	}
	if opts.Title == "" {
		opts.Title = ProjectName
	}

	ws, err := createWindowState(opts, api)
	if err != nil {
		app.Logger().Errorf("%v", err)
		panic(err)
	}
	app.addResources(ws)
	app.OnShutdown(ws.destroy)
	app.Logger().Infof("Created window (%dx%d) '%s'", ws.Width, ws.Height, ws.Title)

	log := app.Logger()
	app.UseSystem(
		System(func(s *WindowState, cmd *Commands) {
			windowSystem(s, cmd, log)
		}).
			InStage(Prelude).
			RunAlways(),
	)
	return ws
}

func windowSystem(s *WindowState, cmd *Commands, log Logger) {
	if s.window == nil {
		return
	}
	glfw.PollEvents()

	width, height := s.window.GetFramebufferSize()
	s.observeSize(width, height, log)
	s.observeFocus(s.window.GetAttrib(glfw.Focused) == 1, log)

	if s.window.ShouldClose() {
		log.Infof("window closed")
		cmd.Exit()
	}
}

func (s *WindowState) observeSize(width, height int, log Logger) {
	s.Resized = width != s.Width || height != s.Height
	if s.Resized {
		log.Debugf("framebuffer resized to %dx%d", width, height)
		s.Width, s.Height = width, height
	}
}

func (s *WindowState) observeFocus(focused bool, log Logger) {
	if s.Focused && !focused {
		log.Infof("window lost focus")
	}
	s.Focused = focused
}
