package convo

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkoukk/tiktoken-go"
)

// historyTokenBudget bounds the formatted history block. The window is already
// capped by message count; this keeps a handful of very long messages from
// blowing up the prompt anyway.
const historyTokenBudget = 1500

var (
	tkOnce sync.Once
	tk     *tiktoken.Tiktoken
)

func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		var err error
		tk, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			panic("failed to load tiktoken: " + err.Error())
		}
	})
	return tk
}

func countTokens(text string) int {
	return len(getTokenizer().Encode(text, nil, nil))
}

// UserBlock renders the user profile for a system prompt. Empty fields are
// omitted.
func (c *Context) UserBlock() string {
	type field struct {
		label, value string
	}
	fields := []field{
		{"Phone Number", c.User.PhoneNumber},
		{"Username", c.User.Username},
		{"Address", c.User.Address},
		{"Email", c.User.Email},
	}

	var lines []string
	for _, f := range fields {
		if f.value != "" {
			lines = append(lines, f.label+": "+f.value)
		}
	}
	if len(lines) == 0 {
		return ""
	}

	return "\n---\n**User Context**\n" + strings.Join(lines, "\n") + "\n---\n"
}

// HistoryBlock renders the message window oldest to newest, dropping the
// oldest entries if the block would exceed the token budget.
func (c *Context) HistoryBlock() string {
	if len(c.Window) == 0 {
		return ""
	}

	lines := make([]string, 0, len(c.Window))
	for _, msg := range c.Window {
		content := msg.Content
		if msg.Kind != "" && msg.Kind != "text" {
			content = fmt.Sprintf("[%s] %s", strings.ToUpper(msg.Kind), msg.Content)
		}
		sender := "User"
		if msg.Sender == SenderBot {
			sender = "Bot"
		}
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", msg.Timestamp.Format("2006-01-02 15:04"), sender, content))
	}

	for len(lines) > 1 && countTokens(strings.Join(lines, "\n")) > historyTokenBudget {
		lines = lines[1:]
	}

	return "\n---\n**Chat History**\n" + strings.Join(lines, "\n") + "\n---\n"
}

// CoordinatesBlock renders the optional geolocation for a system prompt.
func (c *Context) CoordinatesBlock() string {
	if c.Coordinates == nil {
		return ""
	}
	return fmt.Sprintf(
		"\n---\n**Coordinates Context**\nLatitude: %v\nLongitude: %v\n---\n",
		c.Coordinates.Latitude, c.Coordinates.Longitude,
	)
}

var karachiOnce sync.Once
var karachi *time.Location

// Karachi returns the reference timezone for the current-time prompt block
// and booking business hours.
func Karachi() *time.Location {
	karachiOnce.Do(func() {
		var err error
		karachi, err = time.LoadLocation("Asia/Karachi")
		if err != nil {
			karachi = time.FixedZone("PKT", 5*60*60)
		}
	})
	return karachi
}

// TimeBlock renders the current-time line interpolated into every lane's
// instructions.
func TimeBlock(now time.Time) string {
	return fmt.Sprintf("\n---\n**Current Time in Karachi**: %s\n---\n", now.In(Karachi()).Format(time.RFC3339))
}
