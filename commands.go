package leafy

// Commands is injected into systems that take a *Commands parameter.
type Commands struct {
	app *App
}

// ChangeState switches state after the current frame.
func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// Exit ends the run after the current frame. Exit systems of the current
// state run once.
func (cmd *Commands) Exit() {
	cmd.app.requestExit()
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
