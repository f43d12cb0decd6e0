// Package events queues navigation events for other subsystems.
package events

// Type identifies an event kind.
type Type int

const (
	TypeNone Type = iota
	TypeAnchorChanged
	TypeCameraPathStarted
	TypeCameraPathPaused
	TypeCameraPathResumed
	TypeCameraPathFinished
	TypeCameraPathAborted
)

// String returns the event type name.
func (t Type) String() string {
	switch t {
	case TypeAnchorChanged:
		return "AnchorChanged"
	case TypeCameraPathStarted:
		return "CameraPathStarted"
	case TypeCameraPathPaused:
		return "CameraPathPaused"
	case TypeCameraPathResumed:
		return "CameraPathResumed"
	case TypeCameraPathFinished:
		return "CameraPathFinished"
	case TypeCameraPathAborted:
		return "CameraPathAborted"
	default:
		return "None"
	}
}

// Event is a navigation event.
type Event interface {
	Type() Type
}

// AnchorChanged is published when the orbital anchor changes. Previous is
// empty when there was no anchor.
type AnchorChanged struct {
	Previous string
	Current  string
}

// Type implements Event.
func (AnchorChanged) Type() Type { return TypeAnchorChanged }

// CameraPath is published on camera path state changes.
type CameraPath struct {
	Kind        Type
	Origin      string
	Destination string
}

// Type implements Event.
func (e CameraPath) Type() Type { return e.Kind }

// Publisher accepts events without blocking.
type Publisher interface {
	Publish(e Event)
}

// Handler reacts to a dispatched event.
type Handler func(e Event)

// Engine queues published events until Process dispatches them.
type Engine struct {
	queue    []Event
	handlers map[Type][]Handler
}

// NewEngine creates an empty event engine.
func NewEngine() *Engine {
	return &Engine{
		queue:    make([]Event, 0, 16),
		handlers: make(map[Type][]Handler),
	}
}

// Publish implements Publisher.
func (e *Engine) Publish(ev Event) {
	e.queue = append(e.queue, ev)
}

// Subscribe registers a handler for an event type.
func (e *Engine) Subscribe(t Type, h Handler) {
	e.handlers[t] = append(e.handlers[t], h)
}

// Pending returns the queued events.
func (e *Engine) Pending() []Event {
	return e.queue
}

// Process dispatches queued events in publish order and clears the queue.
// Events published by handlers are dispatched on the next call.
func (e *Engine) Process() {
	queue := e.queue
	e.queue = make([]Event, 0, cap(queue))
	for _, ev := range queue {
		for _, h := range e.handlers[ev.Type()] {
			h(ev)
		}
	}
}

// Discard is a Publisher that drops every event.
type Discard struct{}

// Publish implements Publisher.
func (Discard) Publish(Event) {}
