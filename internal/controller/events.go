package controller

// Event is something the user did, as reported by the front end.
type Event interface {
	event()
}

type NewTodo struct{ Title string }

type ItemEdit struct{ ID int64 }

type ItemEditDone struct {
	ID    int64
	Title string
}

type ItemEditCancel struct{ ID int64 }

type ItemRemove struct{ ID int64 }

type ItemToggle struct {
	ID        int64
	Completed bool
}

type RemoveCompleted struct{}

type ToggleAll struct{ Completed bool }

func (NewTodo) event()         {}
func (ItemEdit) event()        {}
func (ItemEditDone) event()    {}
func (ItemEditCancel) event()  {}
func (ItemRemove) event()      {}
func (ItemToggle) event()      {}
func (RemoveCompleted) event() {}
func (ToggleAll) event()       {}
