package leafy

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

type Key int

const (
	KeyA Key = iota
	KeyD
	KeyE
	KeyQ
	KeyS
	KeyW
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyF3
	KeyF11
	KeyShift
	KeyControl
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
	keyCount
)

var keyToGlfw = [...]glfw.Key{
	KeyA:         glfw.KeyA,
	KeyD:         glfw.KeyD,
	KeyE:         glfw.KeyE,
	KeyQ:         glfw.KeyQ,
	KeyS:         glfw.KeyS,
	KeyW:         glfw.KeyW,
	KeySpace:     glfw.KeySpace,
	KeyEnter:     glfw.KeyEnter,
	KeyEscape:    glfw.KeyEscape,
	KeyTab:       glfw.KeyTab,
	KeyBackspace: glfw.KeyBackspace,
	KeyRight:     glfw.KeyRight,
	KeyLeft:      glfw.KeyLeft,
	KeyDown:      glfw.KeyDown,
	KeyUp:        glfw.KeyUp,
	KeyF3:        glfw.KeyF3,
	KeyF11:       glfw.KeyF11,
	KeyShift:     glfw.KeyLeftShift,
	KeyControl:   glfw.KeyLeftControl,
}

// in MouseButtonLeft order
var buttonToGlfw = [...]glfw.MouseButton{
	glfw.MouseButtonLeft,
	glfw.MouseButtonRight,
	glfw.MouseButtonMiddle,
}

type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	ScrollX, ScrollY         float64

	// Text holds the characters typed this frame.
	Text []rune

	// ExitOnEscape ends the app when Escape is pressed.
	ExitOnEscape bool

	pendingText   []rune
	pendingScroll [2]float64
	hooked        bool
}

// set records the state of k for this frame.
func (input *Input) set(k Key, down bool) {
	input.JustPressed[k] = down && !input.Pressed[k]
	input.JustReleased[k] = !down && input.Pressed[k]
	input.Pressed[k] = down
}

func (input *Input) moveCursor(x, y float64) {
	input.MouseDeltaX = x - input.MouseX
	input.MouseDeltaY = y - input.MouseY
	input.MouseX = x
	input.MouseY = y
}

// endEvents publishes the text and scroll gathered by callbacks since the
// last frame.
func (input *Input) endEvents() {
	input.Text = append(input.Text[:0], input.pendingText...)
	input.pendingText = input.pendingText[:0]
	input.ScrollX, input.ScrollY = input.pendingScroll[0], input.pendingScroll[1]
	input.pendingScroll = [2]float64{}
}

type InputModule struct {
	// KeepEscape disables exiting on Escape.
	KeepEscape bool
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{ExitOnEscape: !mod.KeepEscape})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

func inputSystem(s *WindowState, input *Input, cmd *Commands) {
	if s.window == nil {
		return
	}
	if !input.hooked {
		input.hooked = true
		s.window.SetCharCallback(func(w *glfw.Window, char rune) {
			input.pendingText = append(input.pendingText, char)
		})
		s.window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
			input.pendingScroll[0] += xoff
			input.pendingScroll[1] += yoff
		})
	}
	input.endEvents()

	for k := KeyA; k < MouseButtonLeft; k++ {
		input.set(k, s.window.GetKey(keyToGlfw[k]) == glfw.Press)
	}
	for k := MouseButtonLeft; k < keyCount; k++ {
		input.set(k, s.window.GetMouseButton(buttonToGlfw[k-MouseButtonLeft]) == glfw.Press)
	}
	input.moveCursor(s.window.GetCursorPos())

	if input.ExitOnEscape && input.JustPressed[KeyEscape] {
		cmd.Logger().Infof("escape pressed, exiting")
		cmd.Exit()
	}
}
