package workflow

// Outcome is the final result of one message-processing turn. Failure is a
// value, not an error: callers always get something safe to show the user.
type Outcome struct {
	Text     string
	Fallback bool
	Reason   string
}

func Success(text string) Outcome {
	return Outcome{Text: text}
}

// NewFallback carries a canned user-facing text plus an internal reason for
// the logs. The reason never reaches the user.
func NewFallback(text, reason string) Outcome {
	return Outcome{Text: text, Fallback: true, Reason: reason}
}
