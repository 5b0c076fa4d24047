package proto

// Inbound frames are plain text: every text frame a client sends is one chat
// message. Outbound frames are JSON objects discriminated by Type.
const (
	OutboundTypeSystem  = "system"
	OutboundTypeChat    = "chat"
	OutboundTypeError   = "error"
	OutboundTypeMembers = "members"
)

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type       string            `json:"type"`
	Room       string            `json:"room,omitempty"`
	Content    string            `json:"content,omitempty"`
	Code       string            `json:"code,omitempty"`
	SenderID   string            `json:"sender_id,omitempty"`
	SenderName string            `json:"sender_name,omitempty"`
	TS         int64             `json:"ts,omitempty"`
	Members    map[string]string `json:"members,omitempty"`
}
