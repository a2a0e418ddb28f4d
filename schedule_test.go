package leafy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stageNames(app *App) []string {
	names := make([]string, len(app.stages))
	for i, s := range app.stages {
		names[i] = s.Name
	}
	return names
}

func TestUseStage_BeforeAndAfter(t *testing.T) {
	app := NewAppBuilder().Build()
	app.UseStage(Stage{Name: "Physics"}, AfterStage(Update))
	app.UseStage(Stage{Name: "Boot"}, BeforeStage(Prelude))

	names := stageNames(app)
	require.Len(t, names, len(defaultStages)+2)
	assert.Equal(t, "Boot", names[0])
	assert.Equal(t, []string{"Update", "Physics", "PostUpdate"}, names[3:6])
}

func TestUseStage_UnknownTarget(t *testing.T) {
	app := NewAppBuilder().Build()
	assert.PanicsWithValue(t, "Stage Nowhere not found", func() {
		app.UseStage(Stage{Name: "Late"}, AfterStage(Stage{Name: "Nowhere"}))
	})
}

func TestUseSystem_StageOrder(t *testing.T) {
	app := NewAppBuilder().Build()
	var order []string
	app.UseSystem(System(func() { order = append(order, "render") }).InStage(PostRender))
	app.UseSystem(System(func() { order = append(order, "update") }))
	app.UseSystem(System(func() { order = append(order, "prelude") }).InStage(Prelude))

	app.Step()
	assert.Equal(t, []string{"prelude", "update", "render"}, order)
}

func TestUseSystem_StatefulInStatelessApp(t *testing.T) {
	app := NewAppBuilder().Build()
	assert.PanicsWithValue(t, "Trying to use a stateful system in a stateless app.", func() {
		app.UseSystem(System(func() {}).InState(OnEnter(StateGame)))
	})
}

func TestUseSystem_UnknownStage(t *testing.T) {
	app := NewAppBuilder().Build()
	assert.PanicsWithValue(t, "Stage Missing doesn't exist", func() {
		app.UseSystem(System(func() {}).InStage(Stage{Name: "Missing"}))
	})
}

func TestUseSystem_UnknownState(t *testing.T) {
	app := NewAppBuilder().UseStates(StateMenu, StateGame).Build()
	assert.PanicsWithValue(t, "State 2 doesn't exist", func() {
		app.UseSystem(System(func() {}).InState(OnExecute(StateQuit)))
	})
}

func TestSystemBuilder_KeepsSettings(t *testing.T) {
	sched := System(func() {}).InState(OnExit(StateGame)).InStage(Render)
	assert.Equal(t, Render, sched.inStage)
	assert.True(t, sched.stateProvided)
	assert.Equal(t, StateGame, sched.inState)
	assert.Equal(t, exit, sched.inStatePhase)
	assert.False(t, sched.runAlways)

	assert.True(t, sched.RunAlways().runAlways)
}
