package convo

import "time"

const DefaultWindowSize = 10

// Profile is the persisted user identity attached to a conversation.
// Phone number doubles as the session key on every channel.
type Profile struct {
	PhoneNumber string `json:"phone_number"`
	Username    string `json:"username,omitempty"`
	Address     string `json:"address,omitempty"`
	Email       string `json:"email,omitempty"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// StoredMessage is one history entry as read back from persistence.
type StoredMessage struct {
	Sender    string
	Kind      string // "text", "image", ...
	Content   string
	Timestamp time.Time
}

// Context is the immutable per-turn aggregate handed to every stage of the
// workflow. It is rebuilt from persisted history on each inbound message and
// discarded when the turn completes.
type Context struct {
	User        Profile
	Window      []StoredMessage
	Coordinates *Coordinates
}

// NewContext caps the history window at windowSize, keeping the most recent
// messages in their original oldest-to-newest order.
func NewContext(user Profile, history []StoredMessage, coords *Coordinates, windowSize int) *Context {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if len(history) > windowSize {
		history = history[len(history)-windowSize:]
	}
	window := make([]StoredMessage, len(history))
	copy(window, history)

	return &Context{
		User:        user,
		Window:      window,
		Coordinates: coords,
	}
}
