package events

//go:generate mockgen -destination=mock/mock_event_listener.go -package=mockevents -source=interfaces.go EventListener

// EventListener represents an object that can handle progression events
type EventListener interface {
	HandleEvent(event *Event) error
	Priority() int
}

// FuncListener adapts a function to EventListener. Use a pointer so it can be unsubscribed.
type FuncListener struct {
	priority int
	handle   func(event *Event) error
}

// NewFuncListener creates a listener running fn at the given priority
func NewFuncListener(priority int, fn func(event *Event) error) *FuncListener {
	return &FuncListener{priority: priority, handle: fn}
}

// HandleEvent implements EventListener
func (l *FuncListener) HandleEvent(event *Event) error {
	return l.handle(event)
}

// Priority implements EventListener
func (l *FuncListener) Priority() int {
	return l.priority
}
