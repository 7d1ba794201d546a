package utils

// Event is a domain event emitted by a service after a successful write.
// The websocket hub consumes the stream and fans payloads out to clients.
type Event struct {
	Name string
	Data interface{}
}

// EventBus is a single-consumer in-process event channel. Publishing never
// blocks: when the consumer falls behind, events are dropped, matching the
// best-effort delivery contract of the realtime layer.
type EventBus struct {
	events chan Event
}

func NewEventBus() *EventBus {
	return &EventBus{
		events: make(chan Event, 256),
	}
}

func (eb *EventBus) Publish(name string, data interface{}) {
	select {
	case eb.events <- Event{Name: name, Data: data}:
	default:
	}
}

func (eb *EventBus) SubscribeCh() <-chan Event {
	return eb.events
}
