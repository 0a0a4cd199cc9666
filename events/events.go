package events

const (
	TypeServerInfo      = "server.info"
	TypeActionRequested = "action.requested"
	TypeActionCompleted = "action.completed"
	TypeActionFailed    = "action.failed"
	TypeMenuClosed      = "menu.closed"
	TypeThemeUpdated    = "theme.updated"
)

type Event struct {
	Type string
	Data any

	handled chan struct{}
}

// WithAck returns a copy of e and a channel closed once a consumer calls Ack.
func (e Event) WithAck() (Event, <-chan struct{}) {
	e.handled = make(chan struct{})
	return e, e.handled
}

// Ack marks e as handled. It is a no-op for events created without WithAck
// and must be called once per event.
func (e Event) Ack() {
	if e.handled != nil {
		close(e.handled)
	}
}

// BackendTypes maps a backend name (as used in ?backend=) to its event types.
var BackendTypes = map[string][]string{
	"power": {TypeActionRequested, TypeActionCompleted, TypeActionFailed},
	"menu":  {TypeMenuClosed},
	"theme": {TypeThemeUpdated},
}
