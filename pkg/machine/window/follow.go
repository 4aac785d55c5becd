package window

import (
	"github.com/Manu343726/cinta/pkg/machine/interpreter"
	"github.com/Manu343726/cinta/pkg/machine/memory"
)

// Event is what a followed engine change did to the window
type Event struct {
	// Shift is set when a pointer move shifted the window
	Shift Shift
	// Changed is the tape index of a slot that was updated in place
	Changed int
	// Recentered is true after a reset or a pointer jump
	Recentered bool
}

// Follow subscribes w to the change notifications of e. onEvent, if not nil,
// is called after every change that affected the window. The returned
// function stops following.
//
// Follow uses engine hooks, so it runs on whatever goroutine steps the engine.
func Follow(e *interpreter.Engine, w *Window, onEvent func(Event)) (unfollow func()) {
	notify := func(event Event) {
		if onEvent != nil {
			onEvent(event)
		}
	}

	return e.Subscribe(interpreter.Hooks{
		OnPointerMoved: func(index int) {
			shift, err := w.PointerMoved(index)
			if err != nil {
				w.Recenter(index)
				notify(Event{Recentered: true})
				return
			}
			if shift.Moved() {
				notify(Event{Shift: shift})
			}
		},
		OnTapeGrown: func(index int, _ memory.Side) {
			if w.TapeGrown(index) {
				notify(Event{Changed: index})
			}
		},
		OnCellChanged: func(index int, value uint8) {
			if w.CellChanged(index, value) {
				notify(Event{Changed: index})
			}
		},
		OnReset: func() {
			w.Recenter(e.Pointer())
			notify(Event{Recentered: true})
		},
	})
}
