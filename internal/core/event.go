package core

// EventKind is a notification the core emits to connections.
type EventKind int

const (
	// EventSystem carries a human-readable notice (joined, left).
	EventSystem EventKind = iota
	// EventChat relays a chat message to room members.
	EventChat
	// EventError reports a rejection; the connection is closed right after.
	EventError
	// EventMembers delivers the room roster (client id -> display name).
	EventMembers
)

func (k EventKind) String() string {
	switch k {
	case EventSystem:
		return "system"
	case EventChat:
		return "chat"
	case EventError:
		return "error"
	case EventMembers:
		return "members"
	default:
		return "unknown"
	}
}

// Event is sent to connections to describe what happened in a room.
// A single Event value is shared by every recipient of a broadcast and must
// not be modified after it is handed to a Conn.
type Event struct {
	Kind    EventKind
	Room    string
	Text    string            // EventSystem
	Message Message           // EventChat
	Members map[string]string // EventMembers
	Error   *CoreError        // EventError
}

func systemEvent(room, text string) *Event {
	return &Event{Kind: EventSystem, Room: room, Text: text}
}

func errorEvent(room string, err *CoreError) *Event {
	return &Event{Kind: EventError, Room: room, Error: err}
}
