package main

import (
	"flag"
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/leafyhollows/leafy"
)

func main() {
	configPath := flag.String("config", "", "options file (default <user config dir>/LeafyHollows/options.yml)")
	backend := flag.String("backend", "", "renderer backend: opengl or webgpu")
	debug := flag.Bool("debug", false, "debug logging and batch ordering checks")
	instances := flag.Int("instances", 100, "number of animated sprites")
	flag.Parse()

	boot := leafy.NewDefaultLogger("leafy", *debug)
	path := *configPath
	if path == "" {
		p, err := leafy.OptionsPath()
		if err != nil {
			boot.Warnf("%v", err)
		}
		path = p
	}
	opts := leafy.DefaultOptions()
	if path != "" {
		opts = leafy.LoadOrCreateOptions(path, boot)
	}
	if dir, err := leafy.DataDir(); err == nil {
		boot.Debugf("data directory %s", dir)
	}

	if *backend != "" {
		opts.Renderer.Backend = *backend
	}
	if *debug {
		opts.Log.Debug = true
		opts.Renderer.Debug = true
	}

	app := leafy.NewAppBuilder().
		UseStates(leafy.StateMenu, leafy.StateQuit).
		UseModule(
			leafy.LoggingModule{Debug: opts.Log.Debug},
			leafy.ClockModule{},
			leafy.AssetServerModule{},
			leafy.NewRendererModule(opts),
			leafy.InputModule{},
			demoModule{instances: max(*instances, 0)},
		).
		Build()
	app.Run()
}

type demoModule struct {
	instances int
}

func (m demoModule) Install(app *leafy.App, cmd *leafy.Commands) {
	scene := &demo{instances: m.instances}
	app.UseSystem(
		leafy.System(func(cmd *leafy.Commands) {
			cmd.ChangeState(leafy.StateGame)
		}).
			InState(leafy.OnEnter(leafy.StateMenu)),
	)
	app.UseSystem(
		leafy.System(scene.draw).
			InStage(leafy.Update).
			InState(leafy.OnExecute(leafy.StateGame)),
	)
}

type demo struct {
	instances int
	rotation  float32
}

var (
	circleColor = mgl32.Vec4{0.6, 0.2, 0.9, 0.7}
	textColor   = mgl32.Vec4{1, 1, 1, 1}
)

func (d *demo) draw(canvas *leafy.Canvas, clock *leafy.Clock) {
	d.rotation += float32(clock.Delta) * 0.3

	sprites := canvas.Sprites().Count()
	for i := 0; i < d.instances; i++ {
		x := float32(math.Cos(float64(i)/50+clock.Elapsed)) * 0.2
		y := -0.25 + float32(i)/200
		canvas.DrawImage(mgl32.Vec4{x, y, 0.5, 0.5}, i%sprites, d.rotation, false, false)
	}

	canvas.DrawCircle(mgl32.Vec2{1.0, 0.3}, circleColor, 0.2)
	canvas.DrawText(mgl32.Vec2{-1.0, 0.9}, strconv.Itoa(int(math.Round(clock.FPS))), 0.1, textColor)
}
