package leafy

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_changeState(t *testing.T) {
	app := &App{
		stateful:     true,
		initialState: 1,
		state:        1,
		finalState:   2,
	}

	app.changeState(2)
	assert.Equal(t, State(2), app.nextState)
	assert.True(t, app.stateTransitioning)

	app.executeChangeState(2)
	assert.Equal(t, State(2), app.state)
}

func TestApp_addResources(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")

	got, ok := resourceOf[MockResource2](app)
	require.True(t, ok)
	assert.Same(t, resource2, got)

	_, ok = resourceOf[Clock](app)
	assert.False(t, ok)
}

func TestApp_addResources_RejectsValues(t *testing.T) {
	app := newApp()
	assert.Panics(t, func() {
		app.addResources(MockResource1{name: "value"})
	})
}

func TestApp_SystemInjection(t *testing.T) {
	app := NewAppBuilder().Build()
	res := NewMockResource1("injected")
	app.addResources(res)

	var seen *MockResource1
	app.UseSystem(System(func(r *MockResource1, cmd *Commands) {
		seen = r
		cmd.Exit()
	}))

	app.Run()
	assert.Same(t, res, seen)
	assert.Equal(t, uint64(1), app.Frame())
}

func TestApp_UnresolvedDependencyPanics(t *testing.T) {
	app := NewAppBuilder().Build()
	app.UseSystem(System(func(r *MockResource2) {}))

	assert.Panics(t, func() { app.Step() })
}

func TestApp_StatefulLifecycle(t *testing.T) {
	var trace []string
	app := NewAppBuilder().UseStates(StateMenu, StateQuit).Build()

	app.UseSystem(System(func(cmd *Commands) {
		trace = append(trace, "menu enter")
		cmd.ChangeState(StateGame)
	}).InState(OnEnter(StateMenu)))
	app.UseSystem(System(func() {
		trace = append(trace, "menu exit")
	}).InState(OnExit(StateMenu)))

	frames := 0
	app.UseSystem(System(func(cmd *Commands) {
		frames++
		trace = append(trace, "game")
		if frames == 2 {
			cmd.Exit()
		}
	}).InState(OnExecute(StateGame)))
	app.UseSystem(System(func() {
		trace = append(trace, "game exit")
	}).InState(OnExit(StateGame)))
	app.UseSystem(System(func() {
		trace = append(trace, "always")
	}).InStage(Prelude).InState(Always()))

	app.Run()

	assert.Equal(t, []string{
		"menu enter",
		"always",
		"menu exit",
		"always",
		"game",
		"always",
		"game",
		"game exit",
	}, trace)
	assert.Equal(t, StateGame, app.State())
	assert.False(t, app.Step(), "a finished app does not step")
}

func TestApp_FinalStateEndsRun(t *testing.T) {
	app := NewAppBuilder().UseStates(StateMenu, StateQuit).Build()
	exited := false
	app.UseSystem(System(func(cmd *Commands) {
		cmd.ChangeState(StateQuit)
	}).InState(OnExecute(StateMenu)))
	app.UseSystem(System(func() {
		exited = true
	}).InState(OnExit(StateQuit)))

	app.Run()
	assert.True(t, exited)
	assert.Equal(t, StateQuit, app.State())
	assert.Equal(t, uint64(1), app.Frame())
}

func TestApp_ShutdownRunsHooksInReverseOnce(t *testing.T) {
	app := NewAppBuilder().Build()
	var order []int
	app.OnShutdown(func() { order = append(order, 1) })
	app.OnShutdown(func() { order = append(order, 2) })
	app.UseSystem(System(func(cmd *Commands) { cmd.Exit() }))

	app.Run()
	app.Shutdown()
	assert.Equal(t, []int{2, 1}, order)
}
