package event

// Listener receives agentic events. Implementations must be fast and must
// not block the process loop; a slow consumer should buffer internally.
type Listener interface {
	OnEvent(e Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(e Event)

// OnEvent calls the wrapped function.
func (f ListenerFunc) OnEvent(e Event) { f(e) }

type nopListener struct{}

func (nopListener) OnEvent(Event) {}

// Nop returns a listener that discards all events.
func Nop() Listener { return nopListener{} }

type multicastListener struct {
	listeners []Listener
}

// Multicast fans events out to several listeners in order.
func Multicast(listeners ...Listener) Listener {
	return &multicastListener{listeners: listeners}
}

func (m *multicastListener) OnEvent(e Event) {
	for _, l := range m.listeners {
		l.OnEvent(e)
	}
}
